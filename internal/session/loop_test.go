package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"jarvis/internal/router"
	"jarvis/internal/session"
	"jarvis/internal/tasks"
	"jarvis/internal/testutil"
)

type harness struct {
	loop      *session.Loop
	out       *testutil.RecordingOutput
	store     *tasks.Store
	responder *testutil.FakeResponder
}

func newHarness(t *testing.T, lines ...string) *harness {
	t.Helper()

	store, err := tasks.Open(filepath.Join(t.TempDir(), "tasks.json"), zerolog.Nop())
	if err != nil {
		t.Fatalf("tasks.Open: %v", err)
	}
	responder := testutil.NewFakeResponder("42")
	r := router.New(router.Deps{Tasks: store, Responder: responder, Log: zerolog.Nop()})
	out := testutil.NewRecordingOutput()

	return &harness{
		loop:      session.New(testutil.NewScriptedInput(lines...), out, r, zerolog.Nop()),
		out:       out,
		store:     store,
		responder: responder,
	}
}

func TestIsExit(t *testing.T) {
	for _, cmd := range []string{"exit", "QUIT", "Stop", "  exit  "} {
		if !session.IsExit(cmd) {
			t.Errorf("IsExit(%q) = false", cmd)
		}
	}
	for _, cmd := range []string{"exit now", "please stop", "", "quitter"} {
		if session.IsExit(cmd) {
			t.Errorf("IsExit(%q) = true", cmd)
		}
	}
}

func TestRun_Conversation(t *testing.T) {
	h := newHarness(t,
		"add task Task 1",
		"add task Task 2",
		"complete task 1",
		"list tasks",
		"what is the meaning of life",
		"exit",
		"add task never reached",
	)

	if err := h.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		session.Greeting,
		"Task added successfully.",
		"Task added successfully.",
		"Task marked as completed.",
		"Here are your tasks:\n1. Task 1 ✅\n2. Task 2 ❌\n",
		"42",
		session.Farewell,
	}
	if got := h.out.Emitted(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
	if h.store.Len() != 2 {
		t.Errorf("commands after exit must not run, got %d tasks", h.store.Len())
	}
	if prompts := h.responder.Prompts(); len(prompts) != 1 || prompts[0] != "what is the meaning of life" {
		t.Errorf("unexpected fallback prompts %v", prompts)
	}
}

func TestRun_ExitIsNotRouted(t *testing.T) {
	h := newHarness(t, "STOP")

	if err := h.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.responder.Prompts()) != 0 {
		t.Error("exit keyword must not reach the router")
	}
	want := []string{session.Greeting, session.Farewell}
	if got := h.out.Emitted(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRun_BlankCommandsSkipped(t *testing.T) {
	h := newHarness(t, "", "   ", "quit")

	if err := h.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := h.out.Emitted(); len(got) != 2 {
		t.Errorf("expected greeting and farewell only, got %q", got)
	}
}

func TestRun_EndOfInput(t *testing.T) {
	h := newHarness(t, "list tasks")

	if err := h.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{session.Greeting, "You have no tasks.", session.Farewell}
	if got := h.out.Emitted(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRun_Cancelled(t *testing.T) {
	h := newHarness(t, "list tasks")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := h.out.Emitted(); len(got) != 1 || got[0] != session.Greeting {
		t.Errorf("expected only the greeting, got %q", got)
	}
}

type brokenInput struct{}

func (brokenInput) Acquire(ctx context.Context) (string, error) {
	return "", errors.New("device unplugged")
}

func TestRun_InputError(t *testing.T) {
	out := testutil.NewRecordingOutput()
	loop := session.New(brokenInput{}, out, nil, zerolog.Nop())

	if err := loop.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
