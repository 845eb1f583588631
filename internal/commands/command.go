// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"jarvis/internal/config"
	"jarvis/internal/service"
)

// Requirement describes what the dispatcher must prepare before Run.
type Requirement int

const (
	// NeedsNothing commands only use the config directory paths.
	NeedsNothing Requirement = iota

	// NeedsSettings commands also need config.yaml and the environment loaded.
	NeedsSettings

	// NeedsServices commands need settings plus the remote collaborators.
	NeedsServices
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// Needs reports what the dispatcher prepares before Run.
	Needs() Requirement

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided; its Settings are loaded unless Needs() is NeedsNothing.
	// svcs is nil unless Needs() returns NeedsServices.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svcs *service.Services, args []string, out, errOut io.Writer) int
}
