package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/daydash/internal/config"
	"github.com/teemow/daydash/internal/habits"
)

func newHabitsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "habits",
		Short: "Manage the local habit tracker",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "habits-db", "", "Habits database path (default: DAYDASH_HABITS_DB)")

	cmd.AddCommand(newHabitsAddCmd(&dbPath))
	cmd.AddCommand(newHabitsListCmd(&dbPath))
	cmd.AddCommand(newHabitsRemoveCmd(&dbPath))
	cmd.AddCommand(newHabitsCheckinCmd(&dbPath))
	return cmd
}

// openHabitsStore opens the tracker database, creating it when absent.
func openHabitsStore(dbPath string) (*habits.SQLiteStore, error) {
	if dbPath == "" {
		dbPath = config.Load().HabitsDBPath
	}
	store := habits.NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("opening habits database %s: %w", dbPath, err)
	}
	return store, nil
}

func newHabitsAddCmd(dbPath *string) *cobra.Command {
	var cadence string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHabitsStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			h, err := store.CreateHabit(habits.DefaultUser, args[0], habits.Cadence(cadence))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added habit %s (%s, %s)\n", h.Name, h.Cadence, h.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&cadence, "cadence", string(habits.CadenceDaily), "Habit cadence: daily or weekly")
	return cmd
}

func newHabitsListCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List habits with today's status and streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHabitsStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			statuses, err := store.Overview(habits.DefaultUser, habits.Today())
			if err != nil {
				return err
			}
			if len(statuses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no habits yet, add one with 'daydash habits add'")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCADENCE\tTODAY\tSTREAK")
			for _, st := range statuses {
				today := string(st.Today)
				if today == "" {
					today = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					st.Habit.ID, st.Habit.Name, st.Habit.Cadence, today, st.Streak)
			}
			return w.Flush()
		},
	}
}

func newHabitsRemoveCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a habit and its check-ins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHabitsStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteHabit(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted habit %s\n", args[0])
			return nil
		},
	}
}

func newHabitsCheckinCmd(dbPath *string) *cobra.Command {
	var (
		date   string
		status string
	)

	cmd := &cobra.Command{
		Use:   "checkin <id>",
		Short: "Record a habit check-in",
		Long: `Record the outcome of a habit for a day. Recording again for the same
day overwrites the previous status. Future dates are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHabitsStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if date == "" {
				date = habits.Today()
			}
			c, err := store.RecordCheckin(args[0], date, habits.CheckinStatus(status))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s\n", c.Status, c.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Check-in date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&status, "status", string(habits.CheckinDone), "Check-in status: done, skipped or partial")
	return cmd
}
