package gmail

import (
	"net/mail"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// Message represents a simplified inbox message for display.
type Message struct {
	ID       string
	From     string
	Subject  string
	Snippet  string
	Received time.Time
}

// HeaderValue extracts a header value from a Gmail message.
func HeaderValue(m *gmail.Message, header string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, mph := range m.Payload.Headers {
		if mph.Name == header {
			return mph.Value
		}
	}
	return ""
}

// toMessage converts a Gmail API message to our Message type.
func toMessage(m *gmail.Message) Message {
	if m == nil {
		return Message{}
	}

	result := Message{
		ID:      m.Id,
		From:    HeaderValue(m, "From"),
		Subject: HeaderValue(m, "Subject"),
		Snippet: m.Snippet,
	}

	if date := HeaderValue(m, "Date"); date != "" {
		if t, err := mail.ParseDate(date); err == nil {
			result.Received = t
		}
	}
	// Fall back to Gmail's internal timestamp when the Date header is
	// missing or unparseable.
	if result.Received.IsZero() && m.InternalDate > 0 {
		result.Received = time.UnixMilli(m.InternalDate)
	}

	return result
}
