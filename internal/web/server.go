package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/oauth2"

	"github.com/teemow/daydash/internal/aggregator"
	"github.com/teemow/daydash/internal/google"
	"github.com/teemow/daydash/internal/habits"
	"github.com/teemow/daydash/internal/instrumentation"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options carries the dependencies of a dashboard server. OAuth and
// Tokens may be nil, in which case the consent endpoints are disabled
// and the server is expected to run on mock sources.
type Options struct {
	Addr       string
	Logger     *slog.Logger
	Aggregator *aggregator.Aggregator

	// Habits is the local tracker store, nil when none is configured.
	Habits habits.Store

	// OAuth and Tokens enable the /auth endpoints.
	OAuth  *oauth2.Config
	Tokens *google.Store

	Metrics        *instrumentation.Metrics
	MetricsHandler http.Handler

	// MockMode marks the rendered page as demo data.
	MockMode bool
}

// Server is the HTTP surface of the dashboard.
type Server struct {
	opts      Options
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
	health    *HealthChecker
	templates *template.Template
}

// New builds a Server from its options.
func New(opts Options) (*Server, error) {
	if opts.Aggregator == nil {
		return nil, errors.New("web: aggregator is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = &instrumentation.Metrics{}
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Server{
		opts:      opts,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		health:    NewHealthChecker(),
		templates: tmpl,
	}, nil
}

// Handler assembles the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestMetrics)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.health.LivenessHandler())
	r.Get("/readyz", s.health.ReadinessHandler())

	if s.opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.MetricsHandler)
	}

	if s.oauthEnabled() {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", s.handleLogin)
			r.Get("/callback", s.handleCallback)
		})
	}

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", s.opts.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) oauthEnabled() bool {
	return s.opts.OAuth != nil && s.opts.Tokens != nil
}

// requestMetrics records count and duration for every request.
func (s *Server) requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
