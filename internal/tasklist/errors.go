package tasklist

import (
	"errors"
	"fmt"

	"todolist/internal/model"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidTasks    = errors.New("invalid persisted tasks")
	ErrUnknownFilter   = model.ErrUnknownFilter
)

type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0,%d)", e.Op, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.Ref)
}

type AmbiguousRefError struct {
	Ref     string
	Matches int
}

func (e *AmbiguousRefError) Error() string {
	return fmt.Sprintf("task reference %q is ambiguous (%d matches)", e.Ref, e.Matches)
}

// PersistError reports a failed write to the persistence adapter. The in-memory
// transition that triggered the write has already been applied.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
