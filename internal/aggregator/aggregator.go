package aggregator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/daydash/internal/instrumentation"
	"github.com/teemow/daydash/internal/logging"
)

// DefaultTimeout bounds every individual upstream call.
const DefaultTimeout = 10 * time.Second

// Aggregator collects the dashboard sections from its sources.
type Aggregator struct {
	messages MessageSource
	tasks    TaskSource
	events   EventSource

	limits  Limits
	timeout time.Duration
	logger  *slog.Logger
	metrics *instrumentation.Metrics
	now     func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLimits overrides the default result limits.
func WithLimits(l Limits) Option {
	return func(a *Aggregator) { a.limits = l }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) { a.timeout = d }
}

// WithLogger sets the logger used for per-section fetch logging.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// WithMetrics wires fetch counters and durations into the aggregator.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// New creates an Aggregator over the given sources.
func New(messages MessageSource, tasks TaskSource, events EventSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		messages: messages,
		tasks:    tasks,
		events:   events,
		limits:   DefaultLimits(),
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
		metrics:  &instrumentation.Metrics{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Snapshot runs all upstream calls concurrently and merges the results.
// A failing call leaves its section's Err set while the remaining
// sections are still populated. Snapshot itself never returns an error.
func (a *Aggregator) Snapshot(ctx context.Context) Snapshot {
	snap := Snapshot{GeneratedAt: a.now()}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		a.fetchSection(ctx, "gmail", func(ctx context.Context) error {
			msgs, err := a.messages.RecentMessages(ctx, a.limits.Messages)
			if err != nil {
				snap.Mail.Err = &APICallError{Service: "gmail", Err: err}
				return err
			}
			snap.Mail.Messages = msgs
			return nil
		})
	}()

	go func() {
		defer wg.Done()
		a.fetchSection(ctx, "tasks", func(ctx context.Context) error {
			items, err := a.tasks.OpenTasks(ctx, a.limits.TasksPerList)
			if err != nil {
				snap.Tasks.Err = &APICallError{Service: "tasks", Err: err}
				return err
			}
			snap.Tasks.Tasks = items
			return nil
		})
		a.fetchSection(ctx, "habits", func(ctx context.Context) error {
			items, found, err := a.tasks.HabitItems(ctx, HabitsListTitle, a.limits.HabitItems)
			if err != nil {
				snap.Habits.Err = &APICallError{Service: "tasks", Err: err}
				return err
			}
			snap.Habits.Found = found
			snap.Habits.Items = items
			return nil
		})
	}()

	go func() {
		defer wg.Done()
		a.fetchSection(ctx, "calendar", func(ctx context.Context) error {
			events, err := a.events.UpcomingEvents(ctx, a.limits.EventWindow, a.limits.Events)
			if err != nil {
				snap.Events.Err = &APICallError{Service: "calendar", Err: err}
				return err
			}
			snap.Events.Events = events
			return nil
		})
	}()

	wg.Wait()
	return snap
}

// fetchSection runs one upstream call with a timeout, a trace span,
// metrics and logging around it.
func (a *Aggregator) fetchSection(ctx context.Context, section string, fetch func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	ctx, span := instrumentation.Tracer().Start(ctx, "aggregator.fetch."+section,
		trace.WithAttributes(attribute.String(instrumentation.SpanAttrSection, section)))
	start := a.now()
	err := fetch(ctx)
	duration := a.now().Sub(start)
	instrumentation.EndSpan(span, err)

	result := instrumentation.ResultSuccess
	if err != nil {
		result = instrumentation.ResultError
		a.logger.Warn("section fetch failed",
			logging.Section(section),
			slog.Duration(logging.KeyDuration, duration),
			logging.Err(err),
		)
	} else {
		a.logger.Debug("section fetch completed",
			logging.Section(section),
			slog.Duration(logging.KeyDuration, duration),
		)
	}
	a.metrics.RecordSourceFetch(ctx, section, result, duration)
}
