package aggregator

import (
	"context"
	"time"
)

// MockSource serves static demo data for all three sections. It lets the
// dashboard run without Google credentials, for development and for
// trying the layout.
type MockSource struct {
	now func() time.Time
}

// NewMockSource returns a demo source anchored at the current time.
func NewMockSource() *MockSource {
	return &MockSource{now: time.Now}
}

// RecentMessages implements MessageSource.
func (s *MockSource) RecentMessages(_ context.Context, max int64) ([]Message, error) {
	now := s.now()
	msgs := []Message{
		{
			From:     "Team Project <team@project.io>",
			Subject:  "Sprint review notes",
			Snippet:  "Recording and notes from yesterday's sprint review are up.",
			Received: now.Add(-1 * time.Hour),
		},
		{
			From:     "Billing <billing@saas.example>",
			Subject:  "Your June invoice",
			Snippet:  "Thanks for your payment. The invoice is attached.",
			Received: now.Add(-5 * time.Hour),
		},
		{
			From:     "Alerts <alerts@monitoring.example>",
			Subject:  "Status page update",
			Snippet:  "All systems operational again after tonight's maintenance.",
			Received: now.Add(-26 * time.Hour),
		},
	}
	return clip(msgs, max), nil
}

// OpenTasks implements TaskSource.
func (s *MockSource) OpenTasks(_ context.Context, perList int64) ([]TaskItem, error) {
	now := s.now()
	items := []TaskItem{
		{Title: "Prepare the client demo", Status: "needsAction", Due: now.Add(24 * time.Hour), List: "My Tasks"},
		{Title: "Schedule blog posts", Status: "needsAction", List: "My Tasks"},
		{Title: "Close out the sprint", Status: "needsAction", Due: now.Add(48 * time.Hour), List: "Work"},
		{Title: "Renew domain registration", Status: "completed", List: "Work"},
	}
	return clip(items, perList), nil
}

// HabitItems implements TaskSource. The mock account always has a habit
// list, regardless of the requested title.
func (s *MockSource) HabitItems(_ context.Context, _ string, max int64) ([]TaskItem, bool, error) {
	items := []TaskItem{
		{Title: "Exercise", Status: "completed", List: HabitsListTitle},
		{Title: "Journaling", Status: "needsAction", List: HabitsListTitle},
		{Title: "Study", Status: "needsAction", List: HabitsListTitle},
	}
	return clip(items, max), true, nil
}

// UpcomingEvents implements EventSource.
func (s *MockSource) UpcomingEvents(_ context.Context, _ time.Duration, max int64) ([]Event, error) {
	now := s.now()
	events := []Event{
		{
			Summary:  "Weekly status",
			Location: "Meet",
			Start:    now.Add(1 * time.Hour),
			End:      now.Add(2 * time.Hour),
		},
		{
			Summary:  "Client demo",
			Location: "Zoom",
			Start:    now.Add(3 * time.Hour),
			End:      now.Add(4 * time.Hour),
		},
		{
			Summary: "Focus day",
			Start:   now.Add(24 * time.Hour),
			End:     now.Add(48 * time.Hour),
			AllDay:  true,
		},
	}
	return clip(events, max), nil
}

func clip[T any](items []T, max int64) []T {
	if max > 0 && int64(len(items)) > max {
		return items[:max]
	}
	return items
}
