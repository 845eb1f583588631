package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"jarvis/internal/config"
	"jarvis/internal/exitcode"
	"jarvis/internal/service"
	"jarvis/internal/transcript"
)

func init() {
	Register(&AskCmd{})
}

// AskCmd routes a single command and prints the reply.
type AskCmd struct{}

func (c *AskCmd) Name() string       { return "ask" }
func (c *AskCmd) Aliases() []string  { return nil }
func (c *AskCmd) Synopsis() string   { return "Handle one command and exit" }
func (c *AskCmd) Usage() string      { return "jarvis ask [common flags] <text...>" }
func (c *AskCmd) Needs() Requirement { return NeedsServices }

func (c *AskCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AskCmd) Run(ctx context.Context, cfg *config.Config, svcs *service.Services, args []string, out, errOut io.Writer) int {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		fmt.Fprintln(errOut, "error: ask requires text")
		return exitcode.UserError
	}

	a, code := openAssistant(cfg, svcs, errOut)
	if a == nil {
		return code
	}
	defer a.Close()
	ctx = a.context(ctx)

	a.logs.Logger.Info().Msgf("User said: %s", text)
	if err := a.transcript.Append(ctx, a.logs.SessionID, transcript.SpeakerUser, text); err != nil {
		a.logs.Logger.Warn().Err(err).Msg("transcript append failed")
	}

	a.output(out).Emit(ctx, a.router.Route(ctx, text))
	return exitcode.Success
}
