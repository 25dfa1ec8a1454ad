package tasklist

import (
	"encoding/base32"
	"strings"

	"todolist/internal/model"

	"github.com/google/uuid"
)

const taskIDPrefix = "task-"

// NewTaskID returns task-<suffix> where suffix is 8 lowercase base32 chars taken
// from the random part of a v4 UUID (~40 bits).
func NewTaskID() string {
	u := uuid.New()
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return taskIDPrefix + strings.ToLower(enc.EncodeToString(u[:5]))
}

func idExists(tasks []model.Task, id string) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// assignMissingIDs gives every task without an id (or with a duplicate one) a
// fresh id. It reports whether anything changed.
func assignMissingIDs(tasks []model.Task, newID func() string) bool {
	changed := false
	seen := make(map[string]bool, len(tasks))
	for i := range tasks {
		id := strings.TrimSpace(tasks[i].ID)
		if id == "" || seen[id] {
			id = uniqueID(tasks, newID)
			tasks[i].ID = id
			changed = true
		}
		seen[id] = true
	}
	return changed
}

func uniqueID(tasks []model.Task, newID func() string) string {
	for {
		id := newID()
		if !idExists(tasks, id) {
			return id
		}
	}
}
