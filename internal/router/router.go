// Package router classifies a text command and hands it to the matching handler.
//
// Rules are checked in order by case-insensitive prefix; the first match wins.
// Anything unmatched goes to the fallback Responder verbatim.
package router

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"jarvis/internal/output"
	"jarvis/internal/service"
	"jarvis/internal/tasks"
)

// User-facing replies produced by the router itself.
const (
	MsgInvalidIndexFormat  = "Please provide a valid task number."
	MsgStorageFailure      = "I'm sorry, I couldn't save your tasks."
	MsgCalendarFailure     = "I'm sorry, I couldn't retrieve your calendar events."
	MsgCalendarUnavailable = "Calendar is not configured."
)

// DefaultCalendarMax is used when Deps.CalendarMax is not positive.
const DefaultCalendarMax = 10

// Kind names the handler a command was routed to.
type Kind string

const (
	KindAddTask      Kind = "add_task"
	KindListTasks    Kind = "list_tasks"
	KindCompleteTask Kind = "complete_task"
	KindCalendar     Kind = "calendar"
	KindQuery        Kind = "query"
)

// TaskStore is the subset of *tasks.Store the router uses.
type TaskStore interface {
	Add(description string) (tasks.Result, error)
	List() string
	Complete(n int) (tasks.Result, error)
}

// Handler produces the reply for a matched command. rest is the command with
// the matched prefix removed and surrounding whitespace trimmed.
type Handler func(ctx context.Context, rest string) string

// Rule pairs prefixes with a handler.
type Rule struct {
	Kind     Kind
	Prefixes []string
	Handle   Handler
}

// Deps are the collaborators a Router dispatches to.
type Deps struct {
	Tasks     TaskStore
	Responder service.Responder

	// Calendar may be nil, in which case calendar commands report that it is
	// not configured.
	Calendar    service.Calendar
	CalendarMax int

	Log zerolog.Logger
}

// Router is stateless apart from its dependencies.
type Router struct {
	rules    []Rule
	fallback service.Responder
	log      zerolog.Logger
}

// New builds a router with the standard rule table.
func New(d Deps) *Router {
	r := &Router{fallback: d.Responder, log: d.Log}
	h := handlers{deps: d, log: d.Log}
	if h.deps.CalendarMax <= 0 {
		h.deps.CalendarMax = DefaultCalendarMax
	}
	r.rules = []Rule{
		{Kind: KindAddTask, Prefixes: []string{"add task"}, Handle: h.addTask},
		{Kind: KindListTasks, Prefixes: []string{"list tasks"}, Handle: h.listTasks},
		{Kind: KindCompleteTask, Prefixes: []string{"complete task"}, Handle: h.completeTask},
		{Kind: KindCalendar, Prefixes: []string{"list events", "calendar"}, Handle: h.calendar},
	}
	return r
}

// Rules returns the rule table in evaluation order.
func (r *Router) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Classify reports which handler command would be routed to.
func (r *Router) Classify(command string) Kind {
	if rule, _, ok := r.match(command); ok {
		return rule.Kind
	}
	return KindQuery
}

// Route dispatches command and returns the reply.
func (r *Router) Route(ctx context.Context, command string) string {
	rule, rest, ok := r.match(command)
	if !ok {
		r.log.Debug().Str("kind", string(KindQuery)).Msg("routing to fallback")
		return r.fallback.Respond(ctx, command)
	}
	r.log.Debug().Str("kind", string(rule.Kind)).Msg("routing command")
	return rule.Handle(ctx, rest)
}

func (r *Router) match(command string) (Rule, string, bool) {
	for _, rule := range r.rules {
		for _, prefix := range rule.Prefixes {
			if rest, ok := cutPrefixFold(command, prefix); ok {
				return rule, strings.TrimSpace(rest), true
			}
		}
	}
	return Rule{}, "", false
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

type handlers struct {
	deps Deps
	log  zerolog.Logger
}

func (h handlers) addTask(_ context.Context, rest string) string {
	res, err := h.deps.Tasks.Add(rest)
	if err != nil {
		h.log.Error().Err(err).Msg("add task failed")
		return MsgStorageFailure
	}
	return res.Message
}

func (h handlers) listTasks(_ context.Context, _ string) string {
	return h.deps.Tasks.List()
}

func (h handlers) completeTask(_ context.Context, rest string) string {
	n, err := strconv.Atoi(rest)
	if err != nil {
		return MsgInvalidIndexFormat
	}
	res, err := h.deps.Tasks.Complete(n)
	if err != nil {
		h.log.Error().Err(err).Int("task", n).Msg("complete task failed")
		return MsgStorageFailure
	}
	return res.Message
}

func (h handlers) calendar(ctx context.Context, _ string) string {
	if h.deps.Calendar == nil {
		return MsgCalendarUnavailable
	}
	events, err := h.deps.Calendar.UpcomingEvents(ctx, h.deps.CalendarMax)
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching calendar events")
		return MsgCalendarFailure
	}
	return output.FormatEvents(events)
}
