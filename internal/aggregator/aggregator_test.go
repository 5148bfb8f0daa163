package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubMessages struct {
	msgs []Message
	err  error
}

func (s *stubMessages) RecentMessages(_ context.Context, _ int64) ([]Message, error) {
	return s.msgs, s.err
}

type stubTasks struct {
	open     []TaskItem
	habit    []TaskItem
	found    bool
	err      error
	gotTitle string
}

func (s *stubTasks) OpenTasks(_ context.Context, _ int64) ([]TaskItem, error) {
	return s.open, s.err
}

func (s *stubTasks) HabitItems(_ context.Context, listTitle string, _ int64) ([]TaskItem, bool, error) {
	s.gotTitle = listTitle
	return s.habit, s.found, s.err
}

type stubEvents struct {
	events []Event
	err    error
	block  bool
}

func (s *stubEvents) UpcomingEvents(ctx context.Context, _ time.Duration, _ int64) ([]Event, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.events, s.err
}

func TestSnapshotMergesAllSections(t *testing.T) {
	messages := &stubMessages{msgs: []Message{{Subject: "hello"}}}
	taskSrc := &stubTasks{
		open:  []TaskItem{{Title: "write report"}},
		habit: []TaskItem{{Title: "Exercise"}},
		found: true,
	}
	events := &stubEvents{events: []Event{{Summary: "standup"}}}

	agg := New(messages, taskSrc, events)
	snap := agg.Snapshot(context.Background())

	if snap.GeneratedAt.IsZero() {
		t.Error("expected GeneratedAt to be set")
	}
	if len(snap.Mail.Messages) != 1 || snap.Mail.Messages[0].Subject != "hello" {
		t.Errorf("unexpected mail section: %+v", snap.Mail)
	}
	if len(snap.Tasks.Tasks) != 1 || snap.Tasks.Tasks[0].Title != "write report" {
		t.Errorf("unexpected tasks section: %+v", snap.Tasks)
	}
	if len(snap.Events.Events) != 1 || snap.Events.Events[0].Summary != "standup" {
		t.Errorf("unexpected events section: %+v", snap.Events)
	}
	if !snap.Habits.Found || len(snap.Habits.Items) != 1 {
		t.Errorf("unexpected habits section: %+v", snap.Habits)
	}
}

func TestSnapshotPartialFailure(t *testing.T) {
	messages := &stubMessages{msgs: []Message{{Subject: "hello"}}}
	taskSrc := &stubTasks{open: []TaskItem{{Title: "write report"}}}
	events := &stubEvents{err: errors.New("calendar down")}

	agg := New(messages, taskSrc, events)
	snap := agg.Snapshot(context.Background())

	if snap.Events.Err == nil {
		t.Fatal("expected events section error")
	}
	var apiErr *APICallError
	if !errors.As(snap.Events.Err, &apiErr) {
		t.Fatalf("expected *APICallError, got %T", snap.Events.Err)
	}
	if apiErr.Service != "calendar" {
		t.Errorf("expected service calendar, got %q", apiErr.Service)
	}

	// The other sections still carry their data.
	if snap.Mail.Err != nil || len(snap.Mail.Messages) != 1 {
		t.Errorf("expected mail section intact, got %+v", snap.Mail)
	}
	if snap.Tasks.Err != nil || len(snap.Tasks.Tasks) != 1 {
		t.Errorf("expected tasks section intact, got %+v", snap.Tasks)
	}
}

func TestSnapshotHabitsListTitle(t *testing.T) {
	taskSrc := &stubTasks{
		habit: []TaskItem{{Title: "Exercise"}, {Title: "Study"}},
		found: true,
	}
	agg := New(&stubMessages{}, taskSrc, &stubEvents{})
	snap := agg.Snapshot(context.Background())

	if taskSrc.gotTitle != HabitsListTitle {
		t.Errorf("expected habit lookup by %q, got %q", HabitsListTitle, taskSrc.gotTitle)
	}
	if !snap.Habits.Found {
		t.Fatal("expected habits list to be found")
	}
	if len(snap.Habits.Items) != 2 {
		t.Fatalf("expected 2 habit items, got %d", len(snap.Habits.Items))
	}
}

func TestSnapshotMissingHabitsList(t *testing.T) {
	agg := New(&stubMessages{}, &stubTasks{found: false}, &stubEvents{})
	snap := agg.Snapshot(context.Background())

	if snap.Habits.Found {
		t.Error("expected habits list to be absent")
	}
	if snap.Habits.Err != nil {
		t.Errorf("missing list is not an error, got %v", snap.Habits.Err)
	}
}

func TestSnapshotTimeout(t *testing.T) {
	events := &stubEvents{block: true}
	agg := New(&stubMessages{}, &stubTasks{}, events, WithTimeout(20*time.Millisecond))
	snap := agg.Snapshot(context.Background())

	if snap.Events.Err == nil {
		t.Fatal("expected timeout error on events section")
	}
	if !errors.Is(snap.Events.Err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", snap.Events.Err)
	}
}

func TestMockSourceLimits(t *testing.T) {
	src := NewMockSource()

	msgs, err := src.RecentMessages(context.Background(), 2)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("expected 2 messages, got %d", len(msgs))
	}

	items, found, err := src.HabitItems(context.Background(), HabitsListTitle, 10)
	if err != nil {
		t.Fatalf("HabitItems: %v", err)
	}
	if !found {
		t.Error("expected mock habit list to exist")
	}
	if len(items) != 3 {
		t.Errorf("expected 3 habit items, got %d", len(items))
	}
}
