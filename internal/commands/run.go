package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"jarvis/internal/config"
	"jarvis/internal/console"
	"jarvis/internal/exitcode"
	"jarvis/internal/reminder"
	"jarvis/internal/service"
	"jarvis/internal/session"
)

func init() {
	Register(&RunCmd{})
}

// RunCmd implements the interactive session. It is the default command.
type RunCmd struct {
	// In is the command source; nil means os.Stdin.
	In io.Reader
}

func (c *RunCmd) Name() string       { return "run" }
func (c *RunCmd) Aliases() []string  { return []string{"chat"} }
func (c *RunCmd) Synopsis() string   { return "Start an interactive session" }
func (c *RunCmd) Usage() string      { return "jarvis run [common flags]" }
func (c *RunCmd) Needs() Requirement { return NeedsServices }

func (c *RunCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RunCmd) Run(ctx context.Context, cfg *config.Config, svcs *service.Services, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	at, err := reminder.ParseClock(cfg.Settings.Reminder.Time)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	a, code := openAssistant(cfg, svcs, errOut)
	if a == nil {
		return code
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(a.context(ctx))
	defer cancel()

	log := a.logs.Logger
	log.Info().Str("reminder", at.String()).Int("tasks", a.store.Len()).Msg("session started")

	stdin := c.In
	if stdin == nil {
		stdin = os.Stdin
	}
	speaker := a.output(out)
	listener := console.NewInput(stdin, out, a.transcript, a.logs.SessionID, a.logs.Component("console"))
	defer listener.Close()

	reminders := reminder.New(at, a.store, speaker, a.logs.Component("reminder")).Start(ctx)
	// Deferred after a.Close, so it runs first: an in-flight reminder
	// finishes before the transcript is closed.
	defer func() {
		cancel()
		<-reminders
	}()

	loop := session.New(listener, speaker, a.router, a.logs.Component("session"))
	if err := loop.Run(ctx); err != nil {
		log.Error().Err(err).Msg("session ended with error")
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	log.Info().Msg("session ended")
	return exitcode.Success
}
