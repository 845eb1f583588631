package tasks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "tasks.json"), zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func mustAdd(t *testing.T, s *Store, description string) {
	t.Helper()
	if _, err := s.Add(description); err != nil {
		t.Fatalf("Add(%q): %v", description, err)
	}
}

func TestList_Empty(t *testing.T) {
	s := newTestStore(t)

	if got := s.List(); got != "You have no tasks." {
		t.Errorf("expected empty message, got %q", got)
	}
}

func TestAdd(t *testing.T) {
	s := newTestStore(t)

	res, err := s.Add("Test Task")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if res.Kind != OK || res.Message != "Task added successfully." {
		t.Errorf("unexpected result %+v", res)
	}

	got := s.Tasks()
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}
	if got[0].Description != "Test Task" || got[0].Completed {
		t.Errorf("unexpected task %+v", got[0])
	}
}

func TestList_TwoTasks(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "Task 1")
	mustAdd(t, s, "Task 2")

	want := "Here are your tasks:\n1. Task 1 ❌\n2. Task 2 ❌\n"
	if got := s.List(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestList_LineCountMatchesTasks(t *testing.T) {
	for n := 1; n <= 12; n++ {
		s := newTestStore(t)
		for i := 0; i < n; i++ {
			mustAdd(t, s, fmt.Sprintf("task %d", i))
		}

		lines := strings.Split(strings.TrimSuffix(s.List(), "\n"), "\n")[1:]
		if len(lines) != n {
			t.Fatalf("n=%d: expected %d task lines, got %d", n, n, len(lines))
		}
		for i, line := range lines {
			prefix := fmt.Sprintf("%d. task %d ", i+1, i)
			if !strings.HasPrefix(line, prefix) {
				t.Errorf("line %d: expected prefix %q, got %q", i, prefix, line)
			}
		}
	}
}

func TestComplete(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "Test Task")

	res, err := s.Complete(1)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if res.Kind != OK || res.Message != "Task marked as completed." {
		t.Errorf("unexpected result %+v", res)
	}
	if !s.Tasks()[0].Completed {
		t.Error("expected task to be completed")
	}
	if want := "Here are your tasks:\n1. Test Task ✅\n"; s.List() != want {
		t.Errorf("expected %q, got %q", want, s.List())
	}
}

func TestComplete_OutOfRange(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "one")
	mustAdd(t, s, "two")
	before := s.Tasks()
	beforeFile, _ := os.ReadFile(s.Path())

	for _, n := range []int{-5, -1, 0, 3, 100} {
		res, err := s.Complete(n)
		if err != nil {
			t.Fatalf("Complete(%d): %v", n, err)
		}
		if res.Kind != InvalidIndex || res.Message != "Invalid task number." {
			t.Errorf("Complete(%d): unexpected result %+v", n, res)
		}
	}

	if !reflect.DeepEqual(before, s.Tasks()) {
		t.Errorf("tasks changed: before %+v, after %+v", before, s.Tasks())
	}
	afterFile, _ := os.ReadFile(s.Path())
	if string(beforeFile) != string(afterFile) {
		t.Error("store file changed on invalid index")
	}
}

func TestComplete_Idempotent(t *testing.T) {
	once := newTestStore(t)
	twice := newTestStore(t)
	for _, s := range []*Store{once, twice} {
		mustAdd(t, s, "a")
		mustAdd(t, s, "b")
	}

	if _, err := once.Complete(2); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		res, err := twice.Complete(2)
		if err != nil {
			t.Fatal(err)
		}
		if res.Kind != OK {
			t.Errorf("call %d: unexpected result %+v", i, res)
		}
	}

	if !reflect.DeepEqual(once.Tasks(), twice.Tasks()) {
		t.Errorf("expected identical state, got %+v and %+v", once.Tasks(), twice.Tasks())
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, d := range []string{"water plants", "call mom", "pay <rent> & bills"} {
		mustAdd(t, s, d)
	}
	if _, err := s.Complete(2); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(s.Tasks(), reloaded) {
		t.Errorf("round trip mismatch: %+v vs %+v", s.Tasks(), reloaded)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"description": "pay <rent> & bills"`) {
		t.Errorf("expected indented, unescaped JSON, got %s", data)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")
	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("Open should not create the file")
	}

	mustAdd(t, s, "first")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file after Add: %v", err)
	}
}

func TestOpen_Corrupt(t *testing.T) {
	tests := map[string]string{
		"garbage":        "not json",
		"object":         `{"description": "x"}`,
		"empty":          "",
		"no description": `[{"completed": true}]`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := Open(path, zerolog.Nop())
			if !errors.Is(err, ErrStorageCorrupt) {
				t.Fatalf("expected ErrStorageCorrupt, got %v", err)
			}
			var ce *CorruptError
			if !errors.As(err, &ce) || ce.Path != path {
				t.Errorf("expected CorruptError for %s, got %v", path, err)
			}

			data, _ := os.ReadFile(path)
			if string(data) != content {
				t.Error("corrupt file must be left untouched")
			}
		})
	}
}

func TestOpen_NullIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("null"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.List() != MsgNoTasks {
		t.Errorf("expected empty list, got %q", s.List())
	}
}

func TestOpen_LegacyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	legacy := `[
    {"task": "buy milk", "completed": false},
    {"task": "walk dog", "completed": true}
]`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	want := []Task{{Description: "buy milk"}, {Description: "walk dog", Completed: true}}
	if !reflect.DeepEqual(s.Tasks(), want) {
		t.Errorf("expected %+v, got %+v", want, s.Tasks())
	}

	mustAdd(t, s, "new")
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), `"task"`) {
		t.Errorf("save should use the description key, got %s", data)
	}
}

func TestAdd_WriteFailureKeepsMemoryConsistent(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	s, err := Open(filepath.Join(blocker, "tasks.json"), zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// The parent "directory" becomes a regular file, so every write fails.
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Add("doomed"); err == nil {
		t.Fatal("expected write error")
	}
	if s.Len() != 0 {
		t.Errorf("failed Add must not change memory, got %d tasks", s.Len())
	}
}

func TestPending(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "a")
	mustAdd(t, s, "b")
	mustAdd(t, s, "c")
	if _, err := s.Complete(2); err != nil {
		t.Fatal(err)
	}

	want := []Task{{Description: "a"}, {Description: "c"}}
	if got := s.Pending(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	s.Pending()[0].Description = "mutated"
	if s.Tasks()[0].Description != "a" {
		t.Error("Pending must return a copy")
	}
}

func TestConcurrentReadersDuringWrites(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					for _, task := range s.Pending() {
						if task.Description == "" {
							t.Error("observed partial task")
						}
					}
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		mustAdd(t, s, fmt.Sprintf("task %d", i))
		if _, err := s.Complete(i + 1); err != nil {
			t.Fatal(err)
		}
	}
	close(done)
	wg.Wait()

	if len(s.Pending()) != 0 {
		t.Errorf("expected all completed, got %d pending", len(s.Pending()))
	}
}
