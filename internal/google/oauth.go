package google

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

// Credentials holds the OAuth client configuration. It is immutable and
// loaded once at startup from the environment.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// AuthError indicates that the authorization code or refresh token was
// rejected by the provider. It is terminal for the session: the user has
// to re-run the consent flow.
type AuthError struct {
	Op  string // "exchange" or "refresh"
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("google auth %s failed: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewOAuthConfig returns the OAuth2 configuration for all Google services
// used by the dashboard.
func NewOAuthConfig(creds Credentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     googleoauth.Endpoint,
		RedirectURL:  creds.RedirectURI,
		Scopes:       ReadonlyScopes,
	}
}

// AuthURL returns the consent URL for user authorization. Offline access
// is requested so the provider issues a refresh token.
func AuthURL(conf *oauth2.Config, state string) string {
	return conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for a token. An invalid, expired
// or already-used code surfaces as *AuthError.
func Exchange(ctx context.Context, conf *oauth2.Config, code string) (*oauth2.Token, error) {
	t, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, &AuthError{Op: "exchange", Err: err}
	}
	return t, nil
}

// NewHTTPClient returns an HTTP client that authenticates requests with
// tokens from ts. The client is configured to use HTTP/1.1 to avoid
// HTTP/2 protocol errors with the Google APIs.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)

	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	return client
}
