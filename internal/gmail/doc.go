// Package gmail provides a read-only client for the Gmail API.
//
// The client fetches recent inbox messages and normalizes them into a
// display-ready shape (sender, subject, date, snippet). Authentication
// uses the unified Google OAuth token from the google package.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClient(ctx, store.TokenSource(ctx))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	messages, err := client.RecentMessages(ctx, 5)
package gmail
