// Package cmd implements the daydash command line interface.
//
// The root command defaults to the dashboard subcommand, so running the
// bare binary prints the aggregated view. The serve subcommand starts
// the web variant, auth runs the OAuth consent flow, and habits manages
// the local habit tracker.
package cmd
