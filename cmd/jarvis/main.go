// Package main is the entry point for the jarvis CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jarvis/internal/backend/googlecalendar"
	"jarvis/internal/backend/openai"
	"jarvis/internal/cli"
	"jarvis/internal/commands"
	"jarvis/internal/config"
	"jarvis/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newServices)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// newServices builds the OpenAI responder and, when credentials exist, the
// Google Calendar client.
func newServices(ctx context.Context, cfg *config.Config) (*service.Services, error) {
	svcs := &service.Services{Responder: openai.New(cfg.Settings.OpenAI)}

	cal, err := googlecalendar.New(ctx, cfg)
	switch {
	case errors.Is(err, googlecalendar.ErrNotConfigured):
		// Calendar commands answer that the calendar is not configured.
	case err != nil:
		return nil, fmt.Errorf("%w: %v", cli.ErrCredentials, err)
	default:
		svcs.Calendar = cal
	}
	return svcs, nil
}
