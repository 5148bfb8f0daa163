package google

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing OAuth tokens for Google
// APIs. This abstraction allows different token sources (file-backed
// store, fixed tokens in tests) to be plugged in.
type TokenProvider interface {
	// Token retrieves a token guaranteed to be unexpired.
	Token(ctx context.Context) (*oauth2.Token, error)

	// HasToken checks whether a token is available at all.
	HasToken() bool
}

var _ TokenProvider = (*Store)(nil)

// StaticTokenProvider serves a fixed token. It never refreshes and is
// intended for tests.
type StaticTokenProvider struct {
	Tok *oauth2.Token
}

// Token returns the fixed token.
func (p *StaticTokenProvider) Token(ctx context.Context) (*oauth2.Token, error) {
	if p.Tok == nil {
		return nil, errors.New("no token configured")
	}
	return p.Tok, nil
}

// HasToken reports whether a token is configured.
func (p *StaticTokenProvider) HasToken() bool {
	return p.Tok != nil
}
