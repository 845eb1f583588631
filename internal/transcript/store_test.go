package transcript

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "transcript.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestAppendAndRecent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	if err := store.Append(ctx, "s1", SpeakerUser, "list tasks"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, "s1", SpeakerAssistant, "You have no tasks."); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 utterances, got %d", len(got))
	}
	if got[0].Speaker != SpeakerUser || got[0].Text != "list tasks" {
		t.Errorf("unexpected first utterance %+v", got[0])
	}
	if got[1].Speaker != SpeakerAssistant || got[1].SessionID != "s1" {
		t.Errorf("unexpected second utterance %+v", got[1])
	}
	if !got[0].CreatedAt.Equal(base.Add(time.Second)) {
		t.Errorf("unexpected timestamp %v", got[0].CreatedAt)
	}
}

func TestRecent_LimitKeepsNewestOldestFirst(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		if err := store.Append(ctx, "s", SpeakerUser, fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"msg 3", "msg 4", "msg 5"}
	if len(got) != len(want) {
		t.Fatalf("expected %d utterances, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Text != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], got[i].Text)
		}
	}
}

func TestRecent_ZeroLimit(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	got, err := store.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no utterances, got %d", len(got))
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "transcript.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Append(context.Background(), "s", SpeakerAssistant, "Goodbye!"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	_ = first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	got, err := second.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].Text != "Goodbye!" {
		t.Errorf("unexpected history %+v", got)
	}
}
