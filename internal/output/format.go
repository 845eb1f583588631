// Package output formats assistant replies and CLI listings.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"jarvis/internal/service"
	"jarvis/internal/tasks"
	"jarvis/internal/transcript"
)

const (
	// ReminderHeader opens every reminder message.
	ReminderHeader = "You have the following pending tasks:"

	// NoEvents is the calendar reply when nothing is scheduled.
	NoEvents = "No upcoming events found."

	// EventsHeader opens a non-empty calendar reply.
	EventsHeader = "Your upcoming events:"

	// HistoryTimeFormat is the timestamp layout of history lines.
	HistoryTimeFormat = "2006-01-02 15:04:05"
)

// FormatReminder builds the reminder message: a header line followed by one
// line per pending task. It returns "" when there is nothing pending.
func FormatReminder(pending []tasks.Task) string {
	if len(pending) == 0 {
		return ""
	}
	lines := make([]string, 0, len(pending)+1)
	lines = append(lines, ReminderHeader)
	for _, t := range pending {
		lines = append(lines, normalizeTitle(t.Description, "(untitled)"))
	}
	return strings.Join(lines, "\n")
}

// FormatEvents builds the calendar reply.
// Timed events print their RFC 3339 start, all-day events their date.
func FormatEvents(events []service.Event) string {
	if len(events) == 0 {
		return NoEvents
	}
	var b strings.Builder
	b.WriteString(EventsHeader)
	b.WriteString("\n")
	for _, e := range events {
		start := e.Start.Format(time.RFC3339)
		if e.AllDay {
			start = e.Start.Format(time.DateOnly)
		}
		fmt.Fprintf(&b, "%s - %s\n", start, normalizeTitle(e.Summary, "No Title"))
	}
	return b.String()
}

// FormatUtterance writes one transcript entry as a history line.
// Format: "{TIME}  {SPEAKER:>6}: {TEXT}\n"; multi-line text is flattened.
func FormatUtterance(w io.Writer, u transcript.Utterance) {
	text := strings.ReplaceAll(u.Text, "\n", " / ")
	fmt.Fprintf(w, "%s  %6s: %s\n", u.CreatedAt.Local().Format(HistoryTimeFormat), u.Speaker, text)
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become fallback
// - Newlines are replaced with spaces
func normalizeTitle(title, fallback string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return fallback
	}
	return title
}
