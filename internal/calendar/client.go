package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/daydash/internal/google"
)

// Client wraps the Google Calendar service.
type Client struct {
	svc *calendar.Service
	now func() time.Time
}

// NewClient creates a new Calendar client authenticating with tokens from ts.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	httpClient := google.NewHTTPClient(ctx, ts)

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{svc: svc, now: time.Now}, nil
}

// UpcomingEvents lists up to maxResults events in the given calendar
// starting within the window from now. Recurring events are expanded and
// ordered by start time.
func (c *Client) UpcomingEvents(ctx context.Context, calendarID string, window time.Duration, maxResults int64) ([]EventSummary, error) {
	timeMin := c.now()
	timeMax := timeMin.Add(window)

	events, err := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxResults).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var summaries []EventSummary
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}

	return summaries, nil
}
