package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the daydash application
var rootCmd = &cobra.Command{
	Use:   "daydash",
	Short: "Personal dashboard for Gmail, Tasks, Calendar and habits",
	Long: `daydash aggregates your Gmail inbox, Google Tasks, Google Calendar
and a local habit tracker into a single view.

It can run as:
  - A CLI printing the four dashboard sections (default)
  - A web server rendering the same view as a page`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "daydash version %s\n" .Version}}`)

	// If no subcommand is provided, print the dashboard by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "dashboard")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newHabitsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
