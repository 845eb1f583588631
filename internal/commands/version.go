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

// Version is the application version. Set at build time.
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd implements the version command.
type VersionCmd struct{}

func (c *VersionCmd) Name() string       { return "version" }
func (c *VersionCmd) Aliases() []string  { return nil }
func (c *VersionCmd) Synopsis() string   { return "Print version" }
func (c *VersionCmd) Usage() string      { return "jarvis version" }
func (c *VersionCmd) Needs() Requirement { return NeedsNothing }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, svcs *service.Services, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "jarvis %s\n", Version)
	return exitcode.Success
}
