package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/daydash/internal/aggregator"
	"github.com/teemow/daydash/internal/google"
	"github.com/teemow/daydash/internal/habits"
	"github.com/teemow/daydash/internal/logging"
)

const stateCookieName = "oauth_state"

type indexData struct {
	GeneratedAt time.Time
	MockMode    bool
	ShowLogin   bool

	Mail   aggregator.MessageSection
	Tasks  aggregator.TaskSection
	Events aggregator.EventSection
	Habits aggregator.HabitListSection

	Tracked []habits.HabitStatus
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.opts.Aggregator.Snapshot(r.Context())

	data := indexData{
		GeneratedAt: snap.GeneratedAt,
		MockMode:    s.opts.MockMode,
		ShowLogin:   s.oauthEnabled() && !s.opts.Tokens.HasToken(),
		Mail:        snap.Mail,
		Tasks:       snap.Tasks,
		Events:      snap.Events,
		Habits:      snap.Habits,
	}

	if s.opts.Habits != nil {
		tracked, err := s.opts.Habits.Overview(habits.DefaultUser, habits.Today())
		if err != nil {
			s.logger.Warn("habit overview failed", logging.Err(err))
		} else {
			data.Tracked = tracked
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("rendering index failed", logging.Err(err))
	}
}

// handleLogin starts the consent flow: it drops a single-use state
// cookie and redirects to the Google consent page.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, google.AuthURL(s.opts.OAuth, state), http.StatusFound)
}

// handleCallback finishes the consent flow: it verifies the state,
// exchanges the authorization code and persists the token.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		http.Error(w, "consent denied: "+errMsg, http.StatusBadRequest)
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}
	// The state is single use.
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Path: "/auth", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	tok, err := google.Exchange(r.Context(), s.opts.OAuth, code)
	if err != nil {
		s.logger.Error("code exchange failed", logging.Err(err))
		http.Error(w, "authorization failed", http.StatusBadGateway)
		return
	}
	if err := s.opts.Tokens.Save(tok); err != nil {
		s.logger.Error("persisting token failed", logging.Err(err))
		http.Error(w, "could not persist token", http.StatusInternalServerError)
		return
	}

	s.logger.Info("authorization completed",
		logging.Operation("oauth_callback"),
		slog.String("token", logging.SanitizeToken(tok.AccessToken)),
	)
	http.Redirect(w, r, "/", http.StatusFound)
}
