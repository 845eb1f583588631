// Package reminder announces pending tasks once a day at a fixed local time.
package reminder

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"jarvis/internal/output"
	"jarvis/internal/service"
	"jarvis/internal/tasks"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" in 24-hour form.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return Clock{}, fmt.Errorf("invalid reminder time %q (want HH:MM)", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("invalid reminder hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("invalid reminder minute in %q", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Next returns the first instant strictly after now at this time of day,
// in now's location.
func (c Clock) Next(now time.Time) time.Time {
	y, mo, d := now.Date()
	next := time.Date(y, mo, d, c.Hour, c.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(y, mo, d+1, c.Hour, c.Minute, 0, 0, now.Location())
	}
	return next
}

// PendingSource is a read-only view of the task list.
type PendingSource interface {
	Pending() []tasks.Task
}

// State is the scheduler's current phase.
type State int32

const (
	Idle State = iota
	Firing
)

func (s State) String() string {
	if s == Firing {
		return "firing"
	}
	return "idle"
}

// MaxWait bounds a single timer wait before the wall clock is checked again.
const MaxWait = time.Minute

// Scheduler fires the reminder callback once per day.
// The timing loop only posts ticks; a separate worker runs the callback, so a
// slow or failing callback never delays or stops the schedule.
type Scheduler struct {
	at     Clock
	source PendingSource
	out    service.Output
	log    zerolog.Logger

	now     func() time.Time
	after   func(time.Duration) <-chan time.Time
	maxWait time.Duration

	ticks chan time.Time
	state atomic.Int32
	fired atomic.Int64
}

// New creates a scheduler firing daily at at.
func New(at Clock, source PendingSource, out service.Output, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		at:      at,
		source:  source,
		out:     out,
		log:     log,
		now:     time.Now,
		after:   time.After,
		maxWait: MaxWait,
		ticks:   make(chan time.Time, 1),
	}
}

// State reports whether the callback is running.
func (s *Scheduler) State() State { return State(s.state.Load()) }

// Fired returns how many times the callback has run.
func (s *Scheduler) Fired() int64 { return s.fired.Load() }

// Run blocks until ctx is done and the worker has finished any callback in
// progress.
func (s *Scheduler) Run(ctx context.Context) {
	worker := make(chan struct{})
	go func() {
		defer close(worker)
		s.work(ctx)
	}()
	defer func() { <-worker }()

	next := s.at.Next(s.now())
	s.log.Debug().Time("next", next).Msg("reminder scheduled")

	for {
		// Waits are capped and checked against the wall clock, so a host
		// suspended over the reminder time fires on wake.
		now := s.now()
		if !now.Before(next) {
			select {
			case s.ticks <- now:
			default:
				s.log.Warn().Msg("reminder still running, skipping tick")
			}
			next = s.at.Next(now)
			s.log.Debug().Time("next", next).Msg("reminder scheduled")
			continue
		}

		wait := next.Sub(now)
		if wait > s.maxWait {
			wait = s.maxWait
		}
		select {
		case <-ctx.Done():
			return
		case <-s.after(wait):
		}
	}
}

// Start runs the scheduler in the background. The returned channel is closed
// once Run has returned.
func (s *Scheduler) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	return done
}

func (s *Scheduler) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.ticks:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	s.state.Store(int32(Firing))
	defer s.state.Store(int32(Idle))
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("reminder callback failed")
		}
	}()

	s.fired.Add(1)
	s.Remind(ctx)
}

// Remind emits a reminder listing pending tasks. It does nothing and returns
// false when every task is complete.
func (s *Scheduler) Remind(ctx context.Context) bool {
	msg := output.FormatReminder(s.source.Pending())
	if msg == "" {
		return false
	}
	s.log.Info().Msg("reminder sent")
	s.out.Emit(ctx, msg)
	return true
}
