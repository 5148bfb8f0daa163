// Package dashboard renders an aggregated snapshot as plain text for the
// terminal. The web UI has its own HTML templates; this renderer only
// backs the CLI output.
package dashboard
