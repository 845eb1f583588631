package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"jarvis/internal/config"
	"jarvis/internal/exitcode"
	"jarvis/internal/service"
)

func init() {
	Register(&InitCmd{})
}

// InitCmd writes a default config.yaml.
type InitCmd struct {
	force bool
}

func (c *InitCmd) Name() string       { return "init" }
func (c *InitCmd) Aliases() []string  { return nil }
func (c *InitCmd) Synopsis() string   { return "Write a default config file" }
func (c *InitCmd) Usage() string      { return "jarvis init [common flags] [--force]" }
func (c *InitCmd) Needs() Requirement { return NeedsNothing }

func (c *InitCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *InitCmd) Run(ctx context.Context, cfg *config.Config, svcs *service.Services, args []string, out, errOut io.Writer) int {
	err := cfg.WriteDefault(c.force)
	if errors.Is(err, config.ErrSettingsExist) {
		fmt.Fprintf(errOut, "error: %s already exists (use --force to overwrite)\n", cfg.SettingsPath())
		return exitcode.UserError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to write config: %v\n", err)
		return exitcode.ConfigError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "wrote %s\n", cfg.SettingsPath())
	}
	return exitcode.Success
}
