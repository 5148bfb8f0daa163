package aggregator

import (
	"context"
	"time"

	"github.com/teemow/daydash/internal/calendar"
	"github.com/teemow/daydash/internal/gmail"
	"github.com/teemow/daydash/internal/tasks"
)

// GmailSource adapts the Gmail client to the MessageSource interface.
type GmailSource struct {
	client *gmail.Client
}

// NewGmailSource wraps an authenticated Gmail client.
func NewGmailSource(client *gmail.Client) *GmailSource {
	return &GmailSource{client: client}
}

// RecentMessages implements MessageSource.
func (s *GmailSource) RecentMessages(ctx context.Context, max int64) ([]Message, error) {
	msgs, err := s.client.RecentMessages(ctx, max)
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Message{
			From:     m.From,
			Subject:  m.Subject,
			Snippet:  m.Snippet,
			Received: m.Received,
		})
	}
	return out, nil
}

// TasksSource adapts the Google Tasks client to the TaskSource interface.
type TasksSource struct {
	client *tasks.Client
}

// NewTasksSource wraps an authenticated Google Tasks client.
func NewTasksSource(client *tasks.Client) *TasksSource {
	return &TasksSource{client: client}
}

// OpenTasks implements TaskSource. It walks every task list and returns
// up to perList items from each, keeping the API's position order.
func (s *TasksSource) OpenTasks(ctx context.Context, perList int64) ([]TaskItem, error) {
	lists, err := s.client.ListTaskLists(ctx)
	if err != nil {
		return nil, err
	}
	var out []TaskItem
	for _, list := range lists {
		items, err := s.client.ListTasks(ctx, list.ID, perList)
		if err != nil {
			return nil, err
		}
		for _, t := range items {
			out = append(out, toTaskItem(t, list.Title))
		}
	}
	return out, nil
}

// HabitItems implements TaskSource. The list title must match exactly.
func (s *TasksSource) HabitItems(ctx context.Context, listTitle string, max int64) ([]TaskItem, bool, error) {
	list, err := s.client.FindListByTitle(ctx, listTitle)
	if err != nil {
		return nil, false, err
	}
	if list == nil {
		return nil, false, nil
	}
	items, err := s.client.ListTasks(ctx, list.ID, max)
	if err != nil {
		return nil, false, err
	}
	out := make([]TaskItem, 0, len(items))
	for _, t := range items {
		out = append(out, toTaskItem(t, list.Title))
	}
	return out, true, nil
}

func toTaskItem(t tasks.Task, listTitle string) TaskItem {
	return TaskItem{
		Title:  t.Title,
		Status: t.Status,
		Due:    t.Due,
		List:   listTitle,
	}
}

// CalendarSource adapts the Calendar client to the EventSource interface.
type CalendarSource struct {
	client     *calendar.Client
	calendarID string
}

// NewCalendarSource wraps an authenticated Calendar client reading the
// given calendar, typically "primary".
func NewCalendarSource(client *calendar.Client, calendarID string) *CalendarSource {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &CalendarSource{client: client, calendarID: calendarID}
}

// UpcomingEvents implements EventSource.
func (s *CalendarSource) UpcomingEvents(ctx context.Context, window time.Duration, max int64) ([]Event, error) {
	events, err := s.client.UpcomingEvents(ctx, s.calendarID, window, max)
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, Event{
			Summary:  e.Summary,
			Location: e.Location,
			Start:    e.Start,
			End:      e.End,
			AllDay:   e.AllDay,
		})
	}
	return out, nil
}
