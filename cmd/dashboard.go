package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/daydash/internal/aggregator"
	"github.com/teemow/daydash/internal/calendar"
	"github.com/teemow/daydash/internal/config"
	"github.com/teemow/daydash/internal/dashboard"
	"github.com/teemow/daydash/internal/gmail"
	"github.com/teemow/daydash/internal/google"
	"github.com/teemow/daydash/internal/habits"
	"github.com/teemow/daydash/internal/tasks"
)

func newDashboardCmd() *cobra.Command {
	var (
		credentialsPath string
		tokenPath       string
		habitsDBPath    string
		mock            bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the aggregated dashboard",
		Long: `Fetch recent Gmail messages, open tasks, upcoming calendar events and
the local habit tracker, and print them as four labeled sections.

With --mock, demo data is rendered instead of calling any Google API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if tokenPath != "" {
				cfg.TokenPath = tokenPath
			}
			if habitsDBPath != "" {
				cfg.HabitsDBPath = habitsDBPath
			}

			agg, err := buildAggregator(cmd.Context(), cfg, credentialsPath, mock)
			if err != nil {
				return err
			}

			snap := agg.Snapshot(cmd.Context())
			statuses := loadHabitStatuses(cfg.HabitsDBPath)

			dashboard.Render(cmd.OutOrStdout(), snap, statuses)
			return nil
		},
	}

	cmd.Flags().StringVar(&credentialsPath, "credentials", "", "OAuth client credentials JSON file (default: GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET env)")
	cmd.Flags().StringVar(&tokenPath, "token", "", "Token file path (default: DAYDASH_TOKEN_PATH)")
	cmd.Flags().StringVar(&habitsDBPath, "habits-db", "", "Habits database path (default: DAYDASH_HABITS_DB)")
	cmd.Flags().BoolVar(&mock, "mock", false, "Render demo data without a Google account")
	return cmd
}

// buildAggregator wires either the mock sources or authenticated Google
// clients backed by the persisted token.
func buildAggregator(ctx context.Context, cfg *config.Config, credentialsPath string, mock bool) (*aggregator.Aggregator, error) {
	if mock {
		src := aggregator.NewMockSource()
		return aggregator.New(src, src, src), nil
	}

	creds, err := resolveCredentials(cfg, credentialsPath)
	if err != nil {
		return nil, err
	}

	conf := google.NewOAuthConfig(creds)
	store := google.NewStore(conf, cfg.TokenPath)
	if !store.HasToken() {
		return nil, fmt.Errorf("no token found at %s, run 'daydash auth' first", cfg.TokenPath)
	}
	ts := store.TokenSource(ctx)

	gmailClient, err := gmail.NewClient(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("creating gmail client: %w", err)
	}
	tasksClient, err := tasks.NewClient(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("creating tasks client: %w", err)
	}
	calendarClient, err := calendar.NewClient(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("creating calendar client: %w", err)
	}

	return aggregator.New(
		aggregator.NewGmailSource(gmailClient),
		aggregator.NewTasksSource(tasksClient),
		aggregator.NewCalendarSource(calendarClient, "primary"),
		aggregator.WithTimeout(cfg.FetchTimeout),
	), nil
}

// resolveCredentials prefers an explicit credentials file over the
// environment.
func resolveCredentials(cfg *config.Config, credentialsPath string) (google.Credentials, error) {
	if credentialsPath != "" {
		return google.LoadCredentialsFile(credentialsPath)
	}
	if err := cfg.ValidateGoogle(); err != nil {
		return google.Credentials{}, err
	}
	return google.Credentials{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURI:  cfg.OAuthRedirectURI,
	}, nil
}

// loadHabitStatuses opens the tracker database if it exists. A missing
// database is not an error, the habits card just omits the tracked rows.
func loadHabitStatuses(dbPath string) []habits.HabitStatus {
	if dbPath == "" {
		return nil
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil
	}

	store := habits.NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		return nil
	}
	defer store.Close()

	statuses, err := store.Overview(habits.DefaultUser, habits.Today())
	if err != nil {
		return nil
	}
	return statuses
}
