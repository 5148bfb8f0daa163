package google

// ReadonlyScopes are the Google OAuth scopes the dashboard requests.
//
// The scope set is fixed to read-only access for the three aggregated
// services. Requesting anything broader is out of scope for this flow.
var ReadonlyScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",    // Gmail message metadata
	"https://www.googleapis.com/auth/tasks.readonly",    // Google Tasks lists and items
	"https://www.googleapis.com/auth/calendar.readonly", // Google Calendar events
}
