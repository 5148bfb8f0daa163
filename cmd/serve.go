package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/teemow/daydash/internal/aggregator"
	"github.com/teemow/daydash/internal/calendar"
	"github.com/teemow/daydash/internal/config"
	"github.com/teemow/daydash/internal/gmail"
	"github.com/teemow/daydash/internal/google"
	"github.com/teemow/daydash/internal/habits"
	"github.com/teemow/daydash/internal/instrumentation"
	"github.com/teemow/daydash/internal/logging"
	"github.com/teemow/daydash/internal/tasks"
	"github.com/teemow/daydash/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		addr            string
		credentialsPath string
		mock            bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard as a web page",
		Long: `Start an HTTP server rendering the aggregated dashboard at the root
route, with health probes and a Prometheus metrics endpoint.

Without Google credentials the server falls back to demo data; with
credentials configured it exposes /auth/login and /auth/callback for
the consent flow.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if addr != "" {
				cfg.ServerAddr = addr
			}
			return runServe(cfg, credentialsPath, mock)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: DAYDASH_ADDR or :8080)")
	cmd.Flags().StringVar(&credentialsPath, "credentials", "", "OAuth client credentials JSON file (default: GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET env)")
	cmd.Flags().BoolVar(&mock, "mock", false, "Serve demo data without a Google account")
	return cmd
}

func runServe(cfg *config.Config, credentialsPath string, mock bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.Setup(os.Stderr, cfg.LogLevel)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("creating instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	opts := web.Options{
		Addr:     cfg.ServerAddr,
		Logger:   logging.WithService(logger, "web"),
		Metrics:  provider.Metrics(),
		MockMode: mock,
	}
	if provider.Enabled() {
		opts.MetricsHandler = promhttp.Handler()
	}

	// Without usable credentials the server degrades to demo data,
	// matching the standalone demo variant.
	if !mock {
		creds, err := resolveCredentials(cfg, credentialsPath)
		if err != nil {
			logger.Warn("no usable Google credentials, serving demo data", logging.Err(err))
			opts.MockMode = true
		} else {
			conf := google.NewOAuthConfig(creds)
			opts.OAuth = conf
			opts.Tokens = google.NewStore(conf, cfg.TokenPath)
			opts.Tokens.SetRefreshHook(func(err error) {
				result := instrumentation.ResultSuccess
				if err != nil {
					result = instrumentation.ResultError
				}
				provider.Metrics().RecordTokenRefresh(context.Background(), result)
			})
		}
	}

	var source interface {
		aggregator.MessageSource
		aggregator.TaskSource
		aggregator.EventSource
	}
	if opts.Tokens != nil {
		// Demo data until the consent flow persists a token, live
		// clients afterwards.
		source = &autoSources{store: opts.Tokens, mock: aggregator.NewMockSource()}
	} else {
		source = aggregator.NewMockSource()
	}
	opts.Aggregator = aggregator.New(source, source, source,
		aggregator.WithTimeout(cfg.FetchTimeout),
		aggregator.WithLogger(logging.WithService(logger, "aggregator")),
		aggregator.WithMetrics(provider.Metrics()),
	)

	habitsStore := habits.NewSQLiteStore(cfg.HabitsDBPath)
	if err := habitsStore.Init(); err != nil {
		logger.Warn("habits store unavailable", logging.Err(err))
	} else {
		opts.Habits = habitsStore
		defer habitsStore.Close()
	}

	srv, err := web.New(opts)
	if err != nil {
		return err
	}

	logger.Info("starting dashboard server",
		slog.String("addr", cfg.ServerAddr),
		slog.Bool("mock", opts.MockMode),
		slog.String("version", version),
	)
	return srv.Run(ctx)
}

// autoSources serves demo data while no token is persisted and switches
// to the live Google clients once one exists. The live clients are
// built lazily on the first authenticated call.
type autoSources struct {
	store *google.Store
	mock  *aggregator.MockSource

	mu       sync.Mutex
	gmailSrc *aggregator.GmailSource
	tasksSrc *aggregator.TasksSource
	calSrc   *aggregator.CalendarSource
}

func (a *autoSources) live(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gmailSrc != nil {
		return nil
	}

	ts := a.store.TokenSource(context.WithoutCancel(ctx))

	gmailClient, err := gmail.NewClient(ctx, ts)
	if err != nil {
		return fmt.Errorf("creating gmail client: %w", err)
	}
	tasksClient, err := tasks.NewClient(ctx, ts)
	if err != nil {
		return fmt.Errorf("creating tasks client: %w", err)
	}
	calendarClient, err := calendar.NewClient(ctx, ts)
	if err != nil {
		return fmt.Errorf("creating calendar client: %w", err)
	}

	a.gmailSrc = aggregator.NewGmailSource(gmailClient)
	a.tasksSrc = aggregator.NewTasksSource(tasksClient)
	a.calSrc = aggregator.NewCalendarSource(calendarClient, "primary")
	return nil
}

func (a *autoSources) RecentMessages(ctx context.Context, max int64) ([]aggregator.Message, error) {
	if !a.store.HasToken() {
		return a.mock.RecentMessages(ctx, max)
	}
	if err := a.live(ctx); err != nil {
		return nil, err
	}
	return a.gmailSrc.RecentMessages(ctx, max)
}

func (a *autoSources) OpenTasks(ctx context.Context, perList int64) ([]aggregator.TaskItem, error) {
	if !a.store.HasToken() {
		return a.mock.OpenTasks(ctx, perList)
	}
	if err := a.live(ctx); err != nil {
		return nil, err
	}
	return a.tasksSrc.OpenTasks(ctx, perList)
}

func (a *autoSources) HabitItems(ctx context.Context, listTitle string, max int64) ([]aggregator.TaskItem, bool, error) {
	if !a.store.HasToken() {
		return a.mock.HabitItems(ctx, listTitle, max)
	}
	if err := a.live(ctx); err != nil {
		return nil, false, err
	}
	return a.tasksSrc.HabitItems(ctx, listTitle, max)
}

func (a *autoSources) UpcomingEvents(ctx context.Context, window time.Duration, max int64) ([]aggregator.Event, error) {
	if !a.store.HasToken() {
		return a.mock.UpcomingEvents(ctx, window, max)
	}
	if err := a.live(ctx); err != nil {
		return nil, err
	}
	return a.calSrc.UpcomingEvents(ctx, window, max)
}
