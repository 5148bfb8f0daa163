package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/teemow/daydash/internal/aggregator"
	"github.com/teemow/daydash/internal/habits"
)

const (
	timeLayout = "Mon 02 Jan 15:04"
	dayLayout  = "Mon 02 Jan"
)

// Render writes the four dashboard sections in fixed order: mail, tasks,
// calendar, habits. Sections whose fetch failed print an unavailable
// marker instead of data; empty sections print a placeholder line.
// habitStatuses comes from the local tracker and may be nil when no
// habits database is configured.
func Render(w io.Writer, snap aggregator.Snapshot, habitStatuses []habits.HabitStatus) {
	writeHeader(w, "Gmail")
	renderMail(w, snap.Mail)

	writeHeader(w, "Google Tasks")
	renderTasks(w, snap.Tasks)

	writeHeader(w, "Google Calendar")
	renderEvents(w, snap.Events)

	writeHeader(w, "Habits")
	renderHabits(w, snap.Habits, habitStatuses)
}

func writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func renderMail(w io.Writer, section aggregator.MessageSection) {
	if section.Err != nil {
		writeUnavailable(w, section.Err)
		return
	}
	if len(section.Messages) == 0 {
		fmt.Fprintln(w, "  no recent messages")
		fmt.Fprintln(w)
		return
	}
	for _, m := range section.Messages {
		fmt.Fprintf(w, "  %s  %s\n", m.Received.Format(timeLayout), m.Subject)
		fmt.Fprintf(w, "%18s%s\n", "", m.From)
	}
	fmt.Fprintln(w)
}

func renderTasks(w io.Writer, section aggregator.TaskSection) {
	if section.Err != nil {
		writeUnavailable(w, section.Err)
		return
	}
	if len(section.Tasks) == 0 {
		fmt.Fprintln(w, "  no open tasks")
		fmt.Fprintln(w)
		return
	}
	for _, t := range section.Tasks {
		fmt.Fprintf(w, "  %s %s", checkbox(t.Status), t.Title)
		if !t.Due.IsZero() {
			fmt.Fprintf(w, " (due %s)", t.Due.Format(dayLayout))
		}
		if t.List != "" {
			fmt.Fprintf(w, " [%s]", t.List)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func renderEvents(w io.Writer, section aggregator.EventSection) {
	if section.Err != nil {
		writeUnavailable(w, section.Err)
		return
	}
	if len(section.Events) == 0 {
		fmt.Fprintln(w, "  no upcoming events")
		fmt.Fprintln(w)
		return
	}
	for _, e := range section.Events {
		fmt.Fprintf(w, "  %s  %s", formatEventTime(e), e.Summary)
		if e.Location != "" {
			fmt.Fprintf(w, " @ %s", e.Location)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func renderHabits(w io.Writer, section aggregator.HabitListSection, statuses []habits.HabitStatus) {
	switch {
	case section.Err != nil:
		writeUnavailable(w, section.Err)
	case !section.Found:
		fmt.Fprintln(w, "  no task list named Habits")
		fmt.Fprintln(w)
	case len(section.Items) == 0:
		fmt.Fprintln(w, "  habit list is empty")
		fmt.Fprintln(w)
	default:
		for _, item := range section.Items {
			fmt.Fprintf(w, "  %s %s\n", checkbox(item.Status), item.Title)
		}
		fmt.Fprintln(w)
	}

	if len(statuses) == 0 {
		return
	}
	fmt.Fprintln(w, "  tracked habits:")
	for _, st := range statuses {
		fmt.Fprintf(w, "  %s %s (%s, streak %d)\n",
			todayMark(st.Today), st.Habit.Name, st.Habit.Cadence, st.Streak)
	}
	fmt.Fprintln(w)
}

func writeUnavailable(w io.Writer, err error) {
	fmt.Fprintf(w, "  unavailable: %v\n\n", err)
}

func checkbox(status string) string {
	if status == "completed" {
		return "[x]"
	}
	return "[ ]"
}

func todayMark(status habits.CheckinStatus) string {
	switch status {
	case habits.CheckinDone:
		return "[x]"
	case habits.CheckinPartial:
		return "[~]"
	case habits.CheckinSkipped:
		return "[-]"
	default:
		return "[ ]"
	}
}

func formatEventTime(e aggregator.Event) string {
	if e.AllDay {
		return e.Start.Format(dayLayout) + " (all day)"
	}
	return e.Start.Format(timeLayout) + "-" + e.End.Format("15:04")
}
