package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"jarvis/internal/config"
	"jarvis/internal/exitcode"
	"jarvis/internal/service"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd removes the stored calendar token. The OAuth client file and any
// service account file are left in place.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string       { return "logout" }
func (c *LogoutCmd) Aliases() []string  { return nil }
func (c *LogoutCmd) Synopsis() string   { return "Remove the stored calendar token" }
func (c *LogoutCmd) Usage() string      { return "jarvis logout [common flags]" }
func (c *LogoutCmd) Needs() Requirement { return NeedsNothing }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svcs *service.Services, args []string, out, errOut io.Writer) int {
	if !cfg.HasToken() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	if err := cfg.RemoveToken(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.ConfigError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
