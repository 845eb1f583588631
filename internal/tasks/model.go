package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Task is a description plus a completion flag.
// Its identity is its 1-based position in the store.
type Task struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// UnmarshalJSON accepts the legacy "task" key in place of "description".
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		Description *string `json:"description"`
		Legacy      *string `json:"task"`
		Completed   bool    `json:"completed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Description != nil:
		t.Description = *raw.Description
	case raw.Legacy != nil:
		t.Description = *raw.Legacy
	default:
		return errors.New("task record has no description")
	}
	t.Completed = raw.Completed
	return nil
}

// Kind classifies the outcome of a store operation.
type Kind int

const (
	OK Kind = iota
	InvalidIndex
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case InvalidIndex:
		return "invalid_index"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the user-facing outcome of Add or Complete.
type Result struct {
	Kind    Kind
	Message string
}

func (r Result) String() string { return r.Message }

// User-facing messages.
const (
	MsgAdded        = "Task added successfully."
	MsgCompleted    = "Task marked as completed."
	MsgInvalidIndex = "Invalid task number."
	MsgNoTasks      = "You have no tasks."
	ListHeader      = "Here are your tasks:"
)

// Completion markers used by List.
const (
	DoneMarker    = "✅"
	PendingMarker = "❌"
)

// ErrStorageCorrupt is matched by errors.Is when the store file cannot be parsed.
var ErrStorageCorrupt = errors.New("task store is corrupt")

// CorruptError describes an unparseable store file.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("task store %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

func (e *CorruptError) Is(target error) bool { return target == ErrStorageCorrupt }
