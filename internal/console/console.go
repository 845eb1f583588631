// Package console implements the terminal input and output collaborators.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"jarvis/internal/transcript"
)

const (
	// Prompt is printed before each read on an interactive terminal.
	Prompt = "> "

	// MsgNotUnderstood replaces a line that could not be read.
	MsgNotUnderstood = "Sorry, I did not understand that."
)

// Recorder durably stores utterances.
type Recorder interface {
	Append(ctx context.Context, sessionID string, speaker transcript.Speaker, text string) error
}

type line struct {
	text string
	err  error
}

// Input reads one command per line. Commands are lower-cased.
type Input struct {
	prompt  io.Writer
	lines   chan line
	start   sync.Once
	stop    chan struct{}
	stopped sync.Once
	done    chan struct{}
	r       *bufio.Reader
	rec     Recorder
	session string
	log     zerolog.Logger
}

// NewInput reads from r. The prompt is written to promptOut only when r is
// an interactive terminal. rec may be nil.
func NewInput(r io.Reader, promptOut io.Writer, rec Recorder, sessionID string, log zerolog.Logger) *Input {
	in := &Input{
		lines:   make(chan line),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		r:       bufio.NewReader(r),
		rec:     rec,
		session: sessionID,
		log:     log,
	}
	if IsInteractive(r) {
		in.prompt = promptOut
	}
	return in
}

// IsInteractive reports whether r is a terminal.
func IsInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Acquire implements service.Input.
func (in *Input) Acquire(ctx context.Context) (string, error) {
	select {
	case <-in.stop:
		return "", io.EOF
	default:
	}
	in.start.Do(func() { go in.read() })

	if in.prompt != nil {
		fmt.Fprint(in.prompt, Prompt)
	}
	in.log.Debug().Msg("Listening for command...")

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-in.stop:
		return "", io.EOF
	case l, ok := <-in.lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil {
			return "", l.err
		}
		in.log.Info().Msgf("User said: %s", l.text)
		in.record(ctx, l.text)
		return l.text, nil
	}
}

// Close stops delivering lines and releases the reader goroutine once its
// pending read returns. Later Acquire calls report io.EOF.
func (in *Input) Close() error {
	in.stopped.Do(func() { close(in.stop) })
	return nil
}

func (in *Input) read() {
	defer close(in.done)
	defer close(in.lines)
	for {
		text, err := in.r.ReadString('\n')
		text = strings.ToLower(strings.TrimRight(text, "\r\n"))
		switch {
		case err == nil:
			if !in.send(line{text: text}) {
				return
			}
		case errors.Is(err, io.EOF):
			if text != "" && !in.send(line{text: text}) {
				return
			}
			in.send(line{err: io.EOF})
			return
		default:
			in.log.Warn().Err(err).Msg("could not read command")
			if in.send(line{text: MsgNotUnderstood}) {
				in.send(line{err: io.EOF})
			}
			return
		}
	}
}

func (in *Input) send(l line) bool {
	select {
	case in.lines <- l:
		return true
	case <-in.stop:
		return false
	}
}

func (in *Input) record(ctx context.Context, text string) {
	if in.rec == nil {
		return
	}
	if err := in.rec.Append(context.WithoutCancel(ctx), in.session, transcript.SpeakerUser, text); err != nil {
		in.log.Warn().Err(err).Msg("transcript append failed")
	}
}

// Output prints replies, one block per Emit, and records them.
// It is safe for concurrent use.
type Output struct {
	mu      sync.Mutex
	w       io.Writer
	rec     Recorder
	session string
	log     zerolog.Logger
}

// NewOutput writes to w. rec may be nil.
func NewOutput(w io.Writer, rec Recorder, sessionID string, log zerolog.Logger) *Output {
	return &Output{w: w, rec: rec, session: sessionID, log: log}
}

// Emit implements service.Output.
func (o *Output) Emit(ctx context.Context, text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.log.Info().Msgf("Jarvis: %s", text)
	if _, err := fmt.Fprintln(o.w, strings.TrimRight(text, "\n")); err != nil {
		o.log.Warn().Err(err).Msg("write to terminal failed")
	}
	if o.rec == nil {
		return
	}
	if err := o.rec.Append(context.WithoutCancel(ctx), o.session, transcript.SpeakerAssistant, text); err != nil {
		o.log.Warn().Err(err).Msg("transcript append failed")
	}
}
