// Package service defines the collaborators the assistant core talks to.
package service

import "context"

// Responder answers freeform prompts.
// Implementations never return an error: failures become a fixed apology.
type Responder interface {
	Respond(ctx context.Context, prompt string) string
}

// Calendar looks up upcoming events.
type Calendar interface {
	// UpcomingEvents returns at most max events starting from now,
	// ordered by start time.
	UpcomingEvents(ctx context.Context, max int) ([]Event, error)
}

// Input acquires one command from the user. It blocks until a command is
// available. Recognition failures are returned as a fixed apology string;
// io.EOF or ctx errors mean no further input will arrive.
type Input interface {
	Acquire(ctx context.Context) (string, error)
}

// Output emits text to the user and durably records it.
type Output interface {
	Emit(ctx context.Context, text string)
}

// Services bundles the remote collaborators built from config.
type Services struct {
	Responder Responder
	Calendar  Calendar
}
