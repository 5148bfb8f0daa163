// Package instrumentation provides OpenTelemetry metrics and tracing for
// the dashboard.
//
// Metrics are exported through Prometheus by default (scraped from the
// web server's /metrics endpoint), with optional OTLP or stdout
// exporters. Tracing is disabled unless an exporter is configured.
package instrumentation
