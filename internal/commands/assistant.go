package commands

import (
	"context"
	"fmt"
	"io"

	"jarvis/internal/config"
	"jarvis/internal/console"
	"jarvis/internal/exitcode"
	"jarvis/internal/logging"
	"jarvis/internal/router"
	"jarvis/internal/service"
	"jarvis/internal/tasks"
	"jarvis/internal/transcript"
)

// assistant holds the components shared by the conversational commands.
type assistant struct {
	logs       *logging.Handle
	store      *tasks.Store
	transcript *transcript.Store

	// router is nil when no services were provided.
	router *router.Router
}

// openAssistant opens the log, the task store and the transcript, and builds
// the router when svcs is non-nil. On failure it reports to errOut and
// returns the exit code.
func openAssistant(cfg *config.Config, svcs *service.Services, errOut io.Writer) (*assistant, int) {
	logs, err := logging.New(logging.Options{Path: cfg.LogPath(), Debug: cfg.Debug, Stderr: errOut})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.StorageError
	}

	store, err := tasks.Open(cfg.TasksPath(), logs.Component("tasks"))
	if err != nil {
		logs.Logger.Error().Err(err).Msg("failed to open task store")
		_ = logs.Close()
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.StorageError
	}

	ts, err := transcript.Open(cfg.TranscriptPath())
	if err != nil {
		logs.Logger.Error().Err(err).Msg("failed to open transcript")
		_ = logs.Close()
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.StorageError
	}

	a := &assistant{logs: logs, store: store, transcript: ts}
	if svcs != nil {
		a.router = router.New(router.Deps{
			Tasks:       store,
			Responder:   svcs.Responder,
			Calendar:    svcs.Calendar,
			CalendarMax: cfg.Settings.Calendar.MaxResults,
			Log:         logs.Component("router"),
		})
	}
	logs.Logger.Debug().Str("tasks", store.Path()).Str("transcript", cfg.TranscriptPath()).Msg("assistant opened")
	return a, exitcode.Success
}

// context attaches the session logger to ctx for collaborators that log
// through zerolog.Ctx.
func (a *assistant) context(ctx context.Context) context.Context {
	return a.logs.Logger.WithContext(ctx)
}

func (a *assistant) output(w io.Writer) *console.Output {
	return console.NewOutput(w, a.transcript, a.logs.SessionID, a.logs.Component("console"))
}

func (a *assistant) Close() {
	if err := a.transcript.Close(); err != nil {
		a.logs.Logger.Warn().Err(err).Msg("failed to close transcript")
	}
	_ = a.logs.Close()
}
