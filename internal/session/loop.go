// Package session runs the foreground read-route-reply loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"jarvis/internal/service"
)

const (
	Greeting = "Welcome to Jarvis! How can I assist you today?"
	Farewell = "Goodbye!"
)

// ExitWords end the session when they are the whole command.
var ExitWords = []string{"exit", "quit", "stop"}

// IsExit reports whether command is an exit keyword, ignoring case and
// surrounding whitespace.
func IsExit(command string) bool {
	command = strings.TrimSpace(command)
	for _, w := range ExitWords {
		if strings.EqualFold(command, w) {
			return true
		}
	}
	return false
}

// Router produces the reply for one command.
type Router interface {
	Route(ctx context.Context, command string) string
}

// Loop processes commands one at a time, in arrival order.
type Loop struct {
	in     service.Input
	out    service.Output
	router Router
	log    zerolog.Logger
}

func New(in service.Input, out service.Output, router Router, log zerolog.Logger) *Loop {
	return &Loop{in: in, out: out, router: router, log: log}
}

// Run greets the user and loops until an exit keyword, end of input, or
// cancellation of ctx. Only an unexpected input error is returned.
func (l *Loop) Run(ctx context.Context) error {
	l.out.Emit(ctx, Greeting)

	for handled := 0; ; handled++ {
		command, err := l.in.Acquire(ctx)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			l.log.Info().Int("commands", handled).Msg("input closed")
			l.out.Emit(ctx, Farewell)
			return nil
		case ctx.Err() != nil:
			l.log.Info().Int("commands", handled).Msg("session cancelled")
			return nil
		default:
			return fmt.Errorf("acquire command: %w", err)
		}

		if strings.TrimSpace(command) == "" {
			continue
		}
		if IsExit(command) {
			l.log.Info().Int("commands", handled).Msg("exit requested")
			l.out.Emit(ctx, Farewell)
			return nil
		}

		l.out.Emit(ctx, l.router.Route(ctx, command))
	}
}
