package tasklist

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"todolist/internal/model"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Persisted keys.
const (
	KeyTasks = "tasks"
	KeyTheme = "theme"
)

const tasksSchemaURL = "todolist://tasks.schema.json"

//go:embed tasks.schema.json
var tasksSchemaJSON string

var tasksSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(tasksSchemaURL, strings.NewReader(tasksSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(tasksSchemaURL)
})

// EncodeTasks renders the collection the way it is stored under KeyTasks.
func EncodeTasks(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(b), nil
}

// DecodeTasks parses and validates a stored collection. Errors wrap
// ErrInvalidTasks.
func DecodeTasks(raw string) ([]model.Task, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTasks, err)
	}
	schema, err := tasksSchema()
	if err != nil {
		return nil, fmt.Errorf("compile tasks schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTasks, schemaErrorSummary(err))
	}
	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTasks, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// schemaErrorSummary flattens a validation error to its leaf causes, one per
// instance location.
func schemaErrorSummary(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var parts []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			parts = append(parts, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return strings.Join(parts, "; ")
}

func EncodeTheme(dark bool) string { return string(model.ThemeValue(dark)) }

func DecodeTheme(v string) bool { return model.ThemeOf(v) }
