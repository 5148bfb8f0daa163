// Package google provides OAuth2 authentication and token management for
// the Google APIs used by the dashboard.
//
// The Store owns the persisted token: it loads the token file at first
// use, hands out only unexpired tokens, and transparently refreshes
// through the OAuth exchanger when the access token has passed expiry.
// Refresh-then-persist is a single critical section, so a refresh always
// completes (or fails) before a subsequent read proceeds.
//
// The TokenProvider interface allows different token sources to be
// plugged in, so tests and the web surface can substitute providers
// without touching the API clients.
package google
