// Package cli parses the command line and dispatches to registered commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"jarvis/internal/commands"
	"jarvis/internal/config"
	"jarvis/internal/exitcode"
	"jarvis/internal/service"
)

// DefaultCommand runs when no arguments are given.
const DefaultCommand = "run"

// ErrCredentials marks factory errors caused by unusable credentials.
// They are reported as config errors rather than backend errors.
var ErrCredentials = errors.New("credentials error")

// ServiceFactory creates the remote collaborators from loaded config.
// Used to inject the backends during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (*service.Services, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> interactive session
	if len(args) == 0 {
		return d.dispatch(ctx, DefaultCommand, nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leading dash here means a flag after "--" or a lone "-"
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	needs := cmd.Needs()
	if needs >= commands.NeedsSettings {
		if err := cfg.Load(); err != nil {
			fmt.Fprintf(errOut, "error: config error: %s\n", err)
			return exitcode.ConfigError
		}
	}

	var svcs *service.Services
	if needs == commands.NeedsServices {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: backend error: no backend configured")
			return exitcode.BackendError
		}
		svcs, err = d.factory(ctx, cfg)
		if err != nil {
			if errors.Is(err, ErrCredentials) {
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
				return exitcode.ConfigError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	return cmd.Run(ctx, cfg, svcs, positionalArgs, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	switch {
	case strings.HasPrefix(errStr, "flag needs an argument:"):
		return "flag needs an argument: " + strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
	case strings.HasPrefix(errStr, "flag provided but not defined:"):
		return "unknown flag: " + strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
	default:
		return errStr
	}
}
