package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"jarvis/internal/config"
	"jarvis/internal/exitcode"
	"jarvis/internal/reminder"
	"jarvis/internal/service"
)

func init() {
	Register(&RemindCmd{})
}

// RemindCmd runs the daily reminder once, immediately.
type RemindCmd struct{}

func (c *RemindCmd) Name() string       { return "remind" }
func (c *RemindCmd) Aliases() []string  { return nil }
func (c *RemindCmd) Synopsis() string   { return "List pending tasks as a reminder" }
func (c *RemindCmd) Usage() string      { return "jarvis remind [common flags]" }
func (c *RemindCmd) Needs() Requirement { return NeedsSettings }

func (c *RemindCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RemindCmd) Run(ctx context.Context, cfg *config.Config, svcs *service.Services, args []string, out, errOut io.Writer) int {
	at, err := reminder.ParseClock(cfg.Settings.Reminder.Time)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	a, code := openAssistant(cfg, nil, errOut)
	if a == nil {
		return code
	}
	defer a.Close()

	s := reminder.New(at, a.store, a.output(out), a.logs.Component("reminder"))
	if !s.Remind(a.context(ctx)) && !cfg.Quiet {
		fmt.Fprintln(out, "no pending tasks")
	}
	return exitcode.Success
}
