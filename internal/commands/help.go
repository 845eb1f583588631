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
	Register(&HelpCmd{Registry: DefaultRegistry})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	Registry *Registry
}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "jarvis help" }
func (c *HelpCmd) Needs() Requirement { return NeedsNothing }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svcs *service.Services, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %-46s %s\n", "jarvis", "Same as 'jarvis run'")
	if c.Registry != nil {
		for _, cmd := range c.Registry.All() {
			fmt.Fprintf(out, "  %-46s %s\n", cmd.Usage(), cmd.Synopsis())
		}
	}
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

const helpFooter = `
Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

In a session, say "add task <text>", "list tasks", "complete task <n>",
"list events" or anything else; "exit", "quit" or "stop" ends it.
`
