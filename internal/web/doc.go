// Package web serves the dashboard over HTTP. It exposes the rendered
// page at the root, the OAuth consent endpoints when Google credentials
// are configured, health probes, and the Prometheus metrics endpoint.
package web
