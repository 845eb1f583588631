// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown command).
	UserError = 1

	// ConfigError indicates an unreadable settings file or missing credentials.
	ConfigError = 2

	// BackendError indicates a failure talking to a remote collaborator.
	BackendError = 3

	// StorageError indicates the task store could not be opened or written.
	StorageError = 4
)
