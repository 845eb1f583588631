// Package tasks owns the task list and its durable JSON file.
package tasks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Store holds the ordered task list. Every mutation rewrites the whole file
// before returning, so memory and disk agree after each successful call.
type Store struct {
	mu    sync.RWMutex
	path  string
	tasks []Task
	log   zerolog.Logger
}

// Open loads the store at path. A missing file yields an empty store; an
// unparseable one fails with an error matching ErrStorageCorrupt.
func Open(path string, log zerolog.Logger) (*Store, error) {
	tasks, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, tasks: tasks, log: log}, nil
}

// Load reads the task file at path.
func Load(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read task store: %w", err)
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// Add appends a pending task and persists the list.
func (s *Store) Add(description string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(s.snapshotLocked(), Task{Description: description})
	if err := save(s.path, next); err != nil {
		return Result{}, err
	}
	s.tasks = next

	s.log.Info().Msgf("Added task: %s", description)
	return Result{Kind: OK, Message: MsgAdded}, nil
}

// Complete marks task n (1-based) as done and persists the list.
// An out-of-range n leaves the store untouched and yields an InvalidIndex result.
func (s *Store) Complete(n int) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 1 || n > len(s.tasks) {
		return Result{Kind: InvalidIndex, Message: MsgInvalidIndex}, nil
	}
	if !s.tasks[n-1].Completed {
		next := s.snapshotLocked()
		next[n-1].Completed = true
		if err := save(s.path, next); err != nil {
			return Result{}, err
		}
		s.tasks = next
	}

	s.log.Info().Msgf("Completed task #%d", n)
	return Result{Kind: OK, Message: MsgCompleted}, nil
}

// List renders every task in insertion order with its completion marker.
func (s *Store) List() string {
	return FormatList(s.Tasks())
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Pending returns a copy of the tasks not yet completed.
func (s *Store) Pending() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []Task
	for _, t := range s.tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	return pending
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *Store) snapshotLocked() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// FormatList renders tasks as the "list tasks" reply.
func FormatList(tasks []Task) string {
	if len(tasks) == 0 {
		return MsgNoTasks
	}
	var b strings.Builder
	b.WriteString(ListHeader)
	b.WriteString("\n")
	for i, t := range tasks {
		marker := PendingMarker
		if t.Completed {
			marker = DoneMarker
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, t.Description, marker)
	}
	return b.String()
}

// save replaces the file at path with the JSON encoding of tasks.
func save(path string, tasks []Task) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := writeFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write task store: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
