package gmail

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/daydash/internal/google"
)

// Client wraps the Gmail Users service.
type Client struct {
	svc *gmail.UsersService
}

// NewClient creates a new Gmail client authenticating with tokens from ts.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	httpClient := google.NewHTTPClient(ctx, ts)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{svc: svc.Users}, nil
}

// RecentMessages returns up to maxResults messages from the inbox, newest
// first, with their From/Subject/Date headers and snippet resolved.
func (c *Client) RecentMessages(ctx context.Context, maxResults int64) ([]Message, error) {
	res, err := c.svc.Messages.List("me").
		LabelIds("INBOX").
		MaxResults(maxResults).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	var messages []Message
	for _, meta := range res.Messages {
		msg, err := c.svc.Messages.Get("me", meta.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", meta.Id, err)
		}
		messages = append(messages, toMessage(msg))
	}

	return messages, nil
}
