package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"jarvis/internal/config"
	"jarvis/internal/exitcode"
	"jarvis/internal/output"
	"jarvis/internal/service"
	"jarvis/internal/transcript"
)

// DefaultHistoryLimit is the number of utterances printed without --limit.
const DefaultHistoryLimit = 20

func init() {
	Register(&HistoryCmd{})
}

// HistoryCmd prints the most recent transcript entries.
type HistoryCmd struct {
	limit int
}

func (c *HistoryCmd) Name() string       { return "history" }
func (c *HistoryCmd) Aliases() []string  { return []string{"log"} }
func (c *HistoryCmd) Synopsis() string   { return "Show recent conversation" }
func (c *HistoryCmd) Usage() string      { return "jarvis history [common flags] [--limit <n>]" }
func (c *HistoryCmd) Needs() Requirement { return NeedsSettings }

func (c *HistoryCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.limit, "limit", DefaultHistoryLimit, "")
}

func (c *HistoryCmd) Run(ctx context.Context, cfg *config.Config, svcs *service.Services, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	limit := c.limit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 0 {
		fmt.Fprintf(errOut, "error: invalid limit: %d\n", limit)
		return exitcode.UserError
	}

	ts, err := transcript.Open(cfg.TranscriptPath())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.StorageError
	}
	defer ts.Close()

	entries, err := ts.Recent(ctx, limit)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.StorageError
	}

	if len(entries) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no history")
		}
		return exitcode.Success
	}
	for _, u := range entries {
		output.FormatUtterance(out, u)
	}
	return exitcode.Success
}
