package gmail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gmail "google.golang.org/api/gmail/v1"
)

func TestHeaderValue(t *testing.T) {
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "team@project.io"},
				{Name: "Subject", Value: "Sprint review notes"},
			},
		},
	}

	if got := HeaderValue(msg, "From"); got != "team@project.io" {
		t.Errorf("HeaderValue(From) = %q, want team@project.io", got)
	}
	if got := HeaderValue(msg, "Reply-To"); got != "" {
		t.Errorf("HeaderValue(Reply-To) = %q, want empty", got)
	}
	if got := HeaderValue(nil, "From"); got != "" {
		t.Errorf("HeaderValue on nil message = %q, want empty", got)
	}
	if got := HeaderValue(&gmail.Message{}, "From"); got != "" {
		t.Errorf("HeaderValue without payload = %q, want empty", got)
	}
}

func TestToMessage(t *testing.T) {
	internal := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    *gmail.Message
		expected Message
	}{
		{
			name:     "nil message",
			input:    nil,
			expected: Message{},
		},
		{
			name: "message with headers",
			input: &gmail.Message{
				Id:      "msg-1",
				Snippet: "Recording and notes from yesterday",
				Payload: &gmail.MessagePart{
					Headers: []*gmail.MessagePartHeader{
						{Name: "From", Value: "team@project.io"},
						{Name: "Subject", Value: "Sprint review notes"},
						{Name: "Date", Value: "Mon, 24 Aug 2026 09:30:00 +0200"},
					},
				},
			},
			expected: Message{
				ID:       "msg-1",
				From:     "team@project.io",
				Subject:  "Sprint review notes",
				Snippet:  "Recording and notes from yesterday",
				Received: time.Date(2026, 8, 24, 7, 30, 0, 0, time.UTC),
			},
		},
		{
			name: "unparseable date falls back to internal timestamp",
			input: &gmail.Message{
				Id:           "msg-2",
				InternalDate: internal.UnixMilli(),
				Payload: &gmail.MessagePart{
					Headers: []*gmail.MessagePartHeader{
						{Name: "Date", Value: "not a date"},
					},
				},
			},
			expected: Message{
				ID:       "msg-2",
				Received: internal,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := toMessage(tt.input)
			assert.Equal(t, tt.expected.ID, result.ID)
			assert.Equal(t, tt.expected.From, result.From)
			assert.Equal(t, tt.expected.Subject, result.Subject)
			assert.Equal(t, tt.expected.Snippet, result.Snippet)
			assert.True(t, result.Received.Equal(tt.expected.Received),
				"Received = %v, want %v", result.Received, tt.expected.Received)
		})
	}
}
