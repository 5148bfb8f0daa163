package aggregator

import (
	"context"
	"fmt"
	"time"
)

// HabitsListTitle is the Google Tasks list treated as the habit list.
// Only items of the list with exactly this title appear in the habits
// section.
const HabitsListTitle = "Habits"

// Message is a display-ready inbox message.
type Message struct {
	From     string
	Subject  string
	Snippet  string
	Received time.Time
}

// TaskItem is a display-ready task.
type TaskItem struct {
	Title  string
	Status string // "needsAction" or "completed"
	Due    time.Time
	List   string // title of the task list
}

// Event is a display-ready calendar event.
type Event struct {
	Summary  string
	Location string
	Start    time.Time
	End      time.Time
	AllDay   bool
}

// APICallError reports that a single upstream service call failed. It is
// carried inside the snapshot section and never aborts the other
// sections.
type APICallError struct {
	Service string
	Err     error
}

func (e *APICallError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Service, e.Err)
}

func (e *APICallError) Unwrap() error { return e.Err }

// MessageSource provides recent inbox messages.
type MessageSource interface {
	RecentMessages(ctx context.Context, max int64) ([]Message, error)
}

// TaskSource provides tasks and the dedicated habits list.
type TaskSource interface {
	// OpenTasks returns up to perList items from every task list.
	OpenTasks(ctx context.Context, perList int64) ([]TaskItem, error)

	// HabitItems returns the items of the task list with the exact
	// title, and whether such a list exists.
	HabitItems(ctx context.Context, listTitle string, max int64) ([]TaskItem, bool, error)
}

// EventSource provides upcoming calendar events.
type EventSource interface {
	UpcomingEvents(ctx context.Context, window time.Duration, max int64) ([]Event, error)
}

// MessageSection holds the Gmail part of a snapshot.
type MessageSection struct {
	Messages []Message
	Err      error
}

// TaskSection holds the Google Tasks part of a snapshot.
type TaskSection struct {
	Tasks []TaskItem
	Err   error
}

// EventSection holds the Google Calendar part of a snapshot.
type EventSection struct {
	Events []Event
	Err    error
}

// HabitListSection holds the items of the dedicated habits task list.
type HabitListSection struct {
	Found bool
	Items []TaskItem
	Err   error
}

// Snapshot is the merged result of one aggregation pass. It is transient
// state, reconstructed on every request and discarded after rendering.
type Snapshot struct {
	GeneratedAt time.Time

	Mail   MessageSection
	Tasks  TaskSection
	Events EventSection
	Habits HabitListSection
}

// Limits bound the result size of each upstream call.
type Limits struct {
	Messages     int64
	TasksPerList int64
	Events       int64
	EventWindow  time.Duration
	HabitItems   int64
}

// DefaultLimits returns the standard dashboard limits: the five newest
// messages, ten tasks per list, and events within the next seven days.
func DefaultLimits() Limits {
	return Limits{
		Messages:     5,
		TasksPerList: 10,
		Events:       15,
		EventWindow:  7 * 24 * time.Hour,
		HabitItems:   20,
	}
}
