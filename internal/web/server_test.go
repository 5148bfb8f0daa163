package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/daydash/internal/aggregator"
	"github.com/teemow/daydash/internal/google"
)

type failingEvents struct{}

func (failingEvents) UpcomingEvents(_ context.Context, _ time.Duration, _ int64) ([]aggregator.Event, error) {
	return nil, errors.New("calendar down")
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Aggregator == nil {
		mock := aggregator.NewMockSource()
		opts.Aggregator = aggregator.New(mock, mock, mock)
	}
	srv, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersFourCards(t *testing.T) {
	srv := newTestServer(t, Options{MockMode: true})
	rec := get(t, srv.Handler(), "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<h2>Gmail</h2>", "<h2>Tasks</h2>", "<h2>Calendar</h2>", "<h2>Habits</h2>"} {
		if !strings.Contains(body, want) {
			t.Errorf("missing card %q in body", want)
		}
	}
	if !strings.Contains(body, "Sprint review notes") {
		t.Error("expected mock message subject in body")
	}
	if !strings.Contains(body, "demo data") {
		t.Error("expected demo data marker in body")
	}
}

func TestIndexRendersUnavailableSection(t *testing.T) {
	mock := aggregator.NewMockSource()
	agg := aggregator.New(mock, mock, failingEvents{})
	srv := newTestServer(t, Options{Aggregator: agg})

	rec := get(t, srv.Handler(), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "unavailable: calendar call failed") {
		t.Errorf("expected calendar unavailable marker, got:\n%s", body)
	}
	if !strings.Contains(body, "Sprint review notes") {
		t.Error("expected other sections to render despite calendar failure")
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, Options{})
	handler := srv.Handler()

	if rec := get(t, handler, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("healthz: expected 200, got %d", rec.Code)
	}
	if rec := get(t, handler, "/readyz"); rec.Code != http.StatusOK {
		t.Errorf("readyz: expected 200, got %d", rec.Code)
	}

	srv.health.SetReady(false)
	if rec := get(t, handler, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz after drain: expected 503, got %d", rec.Code)
	}
}

func TestAuthDisabledWithoutCredentials(t *testing.T) {
	srv := newTestServer(t, Options{})
	if rec := get(t, srv.Handler(), "/auth/login"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without oauth config, got %d", rec.Code)
	}
}

func TestLoginRedirectsWithState(t *testing.T) {
	conf := google.NewOAuthConfig(google.Credentials{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:8080/auth/callback",
	})
	store := google.NewStore(conf, filepath.Join(t.TempDir(), "token.json"))
	srv := newTestServer(t, Options{OAuth: conf, Tokens: store})

	rec := get(t, srv.Handler(), "/auth/login")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}

	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "accounts.google.com") {
		t.Errorf("expected redirect to consent page, got %q", loc)
	}

	var state string
	for _, c := range rec.Result().Cookies() {
		if c.Name == stateCookieName {
			state = c.Value
		}
	}
	if state == "" {
		t.Fatal("expected state cookie to be set")
	}
	if !strings.Contains(loc, "state="+state) {
		t.Errorf("expected redirect to carry state %q, got %q", state, loc)
	}
}

func TestCallbackStateMismatch(t *testing.T) {
	conf := google.NewOAuthConfig(google.Credentials{ClientID: "id", ClientSecret: "secret"})
	store := google.NewStore(conf, filepath.Join(t.TempDir(), "token.json"))
	srv := newTestServer(t, Options{OAuth: conf, Tokens: store})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=forged&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "genuine"})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on state mismatch, got %d", rec.Code)
	}
}

func TestCallbackExchangesAndPersists(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"at-1","refresh_token":"rt-1","token_type":"Bearer","expires_in":3600}`)
	}))
	defer tokenSrv.Close()

	conf := &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenSrv.URL},
	}
	store := google.NewStore(conf, filepath.Join(t.TempDir(), "token.json"))
	srv := newTestServer(t, Options{OAuth: conf, Tokens: store})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=genuine&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "genuine"})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 after exchange, got %d: %s", rec.Code, rec.Body.String())
	}
	if !store.HasToken() {
		t.Error("expected token to be persisted")
	}
}
