package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// ErrNotAuthenticated is returned when no token has been stored yet.
var ErrNotAuthenticated = errors.New("no stored Google token; run 'daydash auth' first")

// expirySkew is subtracted from the stored expiry so a token that is
// about to expire mid-request is refreshed up front.
const expirySkew = 30 * time.Second

// persistedToken is the on-disk token file layout.
type persistedToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
}

// Store is the credential store for the persisted Google token.
//
// Only the Store writes the token: a refresh and its persist happen
// under one lock, and any concurrent reader blocks until the refresh
// has completed or failed.
type Store struct {
	conf *oauth2.Config
	path string

	mu  sync.Mutex
	tok *oauth2.Token

	// now is stubbed in tests
	now func() time.Time

	// onRefresh, when set, observes the outcome of every refresh
	// attempt. Used to feed the token refresh metric.
	onRefresh func(err error)
}

// SetRefreshHook registers an observer for refresh attempts.
func (s *Store) SetRefreshHook(hook func(err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = hook
}

// NewStore creates a credential store persisting to the given file path.
func NewStore(conf *oauth2.Config, path string) *Store {
	return &Store{
		conf: conf,
		path: path,
		now:  time.Now,
	}
}

// HasToken reports whether a token has been persisted.
func (s *Store) HasToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tok != nil {
		return true
	}
	_, err := os.Stat(s.path)
	return err == nil
}

// Save overwrites the persisted token state.
func (s *Store) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(tok)
}

func (s *Store) saveLocked(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(persistedToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	})
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	s.tok = tok
	return nil
}

// Token returns a token guaranteed to be unexpired, refreshing through
// the OAuth exchanger if the stored token has passed expiry. A revoked
// refresh token surfaces as *AuthError and never yields a stale token.
func (s *Store) Token(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tok == nil {
		tok, err := s.loadLocked()
		if err != nil {
			return nil, err
		}
		s.tok = tok
	}

	if s.tok.Expiry.After(s.now().Add(expirySkew)) {
		t := *s.tok
		return &t, nil
	}

	return s.refreshLocked(ctx)
}

func (s *Store) loadLocked() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var pt persistedToken
	if err := json.Unmarshal(data, &pt); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", s.path, err)
	}

	return &oauth2.Token{
		AccessToken:  pt.AccessToken,
		RefreshToken: pt.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       pt.Expiry,
	}, nil
}

func (s *Store) refreshLocked(ctx context.Context) (*oauth2.Token, error) {
	if s.tok.RefreshToken == "" {
		err := &AuthError{Op: "refresh", Err: errors.New("no refresh token stored")}
		s.notifyRefresh(err)
		return nil, err
	}

	fresh, err := s.conf.TokenSource(ctx, s.tok).Token()
	s.notifyRefresh(err)
	if err != nil {
		return nil, &AuthError{Op: "refresh", Err: err}
	}

	// The provider may omit the refresh token on renewal; keep the old one.
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = s.tok.RefreshToken
	}

	if err := s.saveLocked(fresh); err != nil {
		return nil, err
	}

	t := *fresh
	return &t, nil
}

func (s *Store) notifyRefresh(err error) {
	if s.onRefresh != nil {
		s.onRefresh(err)
	}
}

// TokenSource returns an oauth2.TokenSource backed by the store, so
// tokens refreshed mid-request are persisted before use.
func (s *Store) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &storeSource{ctx: ctx, store: s}
}

type storeSource struct {
	ctx   context.Context
	store *Store
}

func (src *storeSource) Token() (*oauth2.Token, error) {
	return src.store.Token(src.ctx)
}
