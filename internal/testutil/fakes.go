// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"io"
	"sync"

	"jarvis/internal/service"
)

// FakeResponder is an in-memory service.Responder that records prompts.
type FakeResponder struct {
	mu      sync.Mutex
	prompts []string

	// Reply is returned for every prompt.
	Reply string
}

// NewFakeResponder creates a responder that always answers reply.
func NewFakeResponder(reply string) *FakeResponder {
	return &FakeResponder{Reply: reply}
}

// Respond implements service.Responder.
func (f *FakeResponder) Respond(ctx context.Context, prompt string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.Reply
}

// Prompts returns the prompts received so far.
func (f *FakeResponder) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.prompts))
	copy(out, f.prompts)
	return out
}

// FakeCalendar is an in-memory service.Calendar.
type FakeCalendar struct {
	Events []service.Event

	// Err is returned instead of events when set.
	Err error

	mu       sync.Mutex
	lastMax  int
	requests int
}

// UpcomingEvents implements service.Calendar.
func (f *FakeCalendar) UpcomingEvents(ctx context.Context, max int) ([]service.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	f.lastMax = max
	if f.Err != nil {
		return nil, f.Err
	}
	if max < len(f.Events) {
		return f.Events[:max], nil
	}
	return f.Events, nil
}

// LastMax returns the max passed to the most recent request.
func (f *FakeCalendar) LastMax() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastMax
}

// ScriptedInput is a service.Input that replays fixed commands, then io.EOF.
type ScriptedInput struct {
	mu    sync.Mutex
	lines []string
}

// NewScriptedInput creates an input that yields lines in order.
func NewScriptedInput(lines ...string) *ScriptedInput {
	return &ScriptedInput{lines: lines}
}

// Acquire implements service.Input.
func (s *ScriptedInput) Acquire(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

// RecordingOutput is a service.Output that keeps everything emitted.
type RecordingOutput struct {
	mu      sync.Mutex
	emitted []string
	notify  chan string
}

// NewRecordingOutput creates an output. Every emitted text is also sent,
// without blocking, on the channel returned by Notify.
func NewRecordingOutput() *RecordingOutput {
	return &RecordingOutput{notify: make(chan string, 64)}
}

// Emit implements service.Output.
func (r *RecordingOutput) Emit(ctx context.Context, text string) {
	r.mu.Lock()
	r.emitted = append(r.emitted, text)
	r.mu.Unlock()

	select {
	case r.notify <- text:
	default:
	}
}

// Emitted returns everything emitted so far.
func (r *RecordingOutput) Emitted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.emitted))
	copy(out, r.emitted)
	return out
}

// Notify returns the channel receiving emitted texts.
func (r *RecordingOutput) Notify() <-chan string {
	return r.notify
}

// Requests returns how many lookups were made.
func (f *FakeCalendar) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}
