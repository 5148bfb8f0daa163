// Package calendar provides a read-only client for the Google Calendar API.
//
// The client lists upcoming events in a bounded window and normalizes
// them into a display-ready shape, handling both timed and all-day
// events.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx, store.TokenSource(ctx))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	events, err := client.UpcomingEvents(ctx, "primary", 7*24*time.Hour, 15)
package calendar
