// Package logging builds the application log sink.
//
// A Handle is created once at startup and its zerolog.Logger is handed to each
// component at construction. Close flushes the underlying file at shutdown.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TimeFormat is the timestamp layout written to the log file.
const TimeFormat = "2006-01-02 15:04:05"

// Handle owns the log file and the logger writing to it.
type Handle struct {
	Logger    zerolog.Logger
	SessionID string

	file *os.File
}

// Options controls where and how verbosely the handle logs.
type Options struct {
	// Path is the log file; parent directories are created.
	Path string

	// Debug lowers the level to debug and mirrors records to Stderr.
	Debug  bool
	Stderr io.Writer
}

// New opens (or creates) the log file for appending and returns a handle.
func New(opts Options) (*Handle, error) {
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var w io.Writer = zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: TimeFormat}
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
		if opts.Stderr != nil {
			w = zerolog.MultiLevelWriter(w, zerolog.ConsoleWriter{Out: opts.Stderr, TimeFormat: TimeFormat})
		}
	}

	session := uuid.NewString()
	logger := zerolog.New(w).Level(level).With().Timestamp().Str("session", session).Logger()

	return &Handle{Logger: logger, SessionID: session, file: f}, nil
}

// Nop returns a handle that discards everything.
func Nop() *Handle {
	return &Handle{Logger: zerolog.Nop(), SessionID: uuid.NewString()}
}

// Component returns a child logger tagged with the component name.
func (h *Handle) Component(name string) zerolog.Logger {
	return h.Logger.With().Str("component", name).Logger()
}

// Close syncs and closes the log file.
func (h *Handle) Close() error {
	if h.file == nil {
		return nil
	}
	f := h.file
	h.file = nil
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
