package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

// newTokenEndpoint starts a fake OAuth token endpoint and returns a
// config pointing at it. hits counts token endpoint requests.
func newTokenEndpoint(t *testing.T, hits *atomic.Int64, handler http.HandlerFunc) *oauth2.Config {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return &oauth2.Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8484/callback",
		Scopes:       ReadonlyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  srv.URL + "/auth",
			TokenURL: srv.URL + "/token",
		},
	}
}

func serveToken(accessToken string, expiresIn int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"token_type":    "Bearer",
			"refresh_token": "refresh-1",
			"expires_in":    expiresIn,
		})
	}
}

func tokenPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "google-token.json")
}

func TestTokenReusesUnexpiredToken(t *testing.T) {
	var hits atomic.Int64
	conf := newTokenEndpoint(t, &hits, serveToken("fresh", 3600))
	store := NewStore(conf, tokenPath(t))

	if err := store.Save(&oauth2.Token{
		AccessToken:  "stored",
		RefreshToken: "refresh-0",
		Expiry:       time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		tok, err := store.Token(context.Background())
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if tok.AccessToken != "stored" {
			t.Errorf("Token() access token = %q, want stored", tok.AccessToken)
		}
		if !tok.Expiry.After(time.Now()) {
			t.Error("Token() returned an expired token")
		}
	}

	if got := hits.Load(); got != 0 {
		t.Errorf("token endpoint hit %d times for an unexpired token, want 0", got)
	}
}

func TestTokenRefreshesExpiredAndPersists(t *testing.T) {
	var hits atomic.Int64
	conf := newTokenEndpoint(t, &hits, serveToken("renewed", 3600))
	path := tokenPath(t)
	store := NewStore(conf, path)

	oldExpiry := time.Now().Add(-time.Minute)
	if err := store.Save(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-0",
		Expiry:       oldExpiry,
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	tok, err := store.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok.AccessToken != "renewed" {
		t.Errorf("Token() access token = %q, want renewed", tok.AccessToken)
	}
	if !tok.Expiry.After(oldExpiry) {
		t.Errorf("refreshed expiry %v is not later than prior %v", tok.Expiry, oldExpiry)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("token endpoint hit %d times, want 1", got)
	}

	// The refreshed token must be on disk.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading token file: %v", err)
	}
	var pt persistedToken
	if err := json.Unmarshal(data, &pt); err != nil {
		t.Fatalf("token file is not valid JSON: %v", err)
	}
	if pt.AccessToken != "renewed" {
		t.Errorf("persisted access token = %q, want renewed", pt.AccessToken)
	}

	// A follow-up read within the new TTL must not refresh again.
	if _, err := store.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("token endpoint hit %d times after reuse, want 1", got)
	}
}

func TestTokenRevokedRefreshTokenIsAuthError(t *testing.T) {
	var hits atomic.Int64
	conf := newTokenEndpoint(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
	})
	store := NewStore(conf, tokenPath(t))

	if err := store.Save(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "revoked",
		Expiry:       time.Now().Add(-time.Minute),
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	tok, err := store.Token(context.Background())
	if err == nil {
		t.Fatalf("Token() = %v, want error for revoked refresh token", tok)
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error is %T, want *AuthError", err)
	}
	if authErr.Op != "refresh" {
		t.Errorf("AuthError.Op = %q, want refresh", authErr.Op)
	}
	if tok != nil {
		t.Error("a stale token was returned alongside the error")
	}
}

func TestTokenWithoutStoredState(t *testing.T) {
	var hits atomic.Int64
	conf := newTokenEndpoint(t, &hits, serveToken("fresh", 3600))
	store := NewStore(conf, tokenPath(t))

	if store.HasToken() {
		t.Error("HasToken() = true before any token was stored")
	}

	_, err := store.Token(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Token() error = %v, want ErrNotAuthenticated", err)
	}
}

func TestExchangeThenReuseWithinTTL(t *testing.T) {
	var hits atomic.Int64
	conf := newTokenEndpoint(t, &hits, serveToken("granted", 3600))
	store := NewStore(conf, tokenPath(t))

	before := time.Now()
	tok, err := Exchange(context.Background(), conf, "auth-code")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if tok.AccessToken != "granted" {
		t.Errorf("Exchange() access token = %q, want granted", tok.AccessToken)
	}
	// Expiry is now + provider TTL, within reasonable slack.
	wantExpiry := before.Add(time.Hour)
	if tok.Expiry.Before(wantExpiry.Add(-time.Minute)) || tok.Expiry.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("Exchange() expiry = %v, want about %v", tok.Expiry, wantExpiry)
	}

	if err := store.Save(tok); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !store.HasToken() {
		t.Error("HasToken() = false after Save")
	}

	if _, err := store.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("token endpoint hit %d times, want 1 (exchange only)", got)
	}
}

func TestExchangeRejectedCodeIsAuthError(t *testing.T) {
	var hits atomic.Int64
	conf := newTokenEndpoint(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
	})

	_, err := Exchange(context.Background(), conf, "used-code")
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error is %T, want *AuthError", err)
	}
	if authErr.Op != "exchange" {
		t.Errorf("AuthError.Op = %q, want exchange", authErr.Op)
	}
}

func TestRefreshHookObservesOutcome(t *testing.T) {
	var hits atomic.Int64
	conf := newTokenEndpoint(t, &hits, serveToken("fresh", 3600))

	store := NewStore(conf, tokenPath(t))
	store.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	var observed []error
	store.SetRefreshHook(func(err error) { observed = append(observed, err) })

	expired := &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		Expiry:       time.Date(2026, 8, 31, 11, 0, 0, 0, time.UTC),
	}
	if err := store.Save(expired); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Token(context.Background()); err != nil {
		t.Fatalf("Token: %v", err)
	}
	if len(observed) != 1 || observed[0] != nil {
		t.Errorf("expected one successful refresh observation, got %v", observed)
	}
}
