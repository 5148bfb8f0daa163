package instrumentation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod  = "method"
	attrPath    = "path"
	attrStatus  = "status"
	attrSection = "section"
	attrResult  = "result"
)

// Result values for operation metrics.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a no-op recorder, so callers never need nil checks.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Google API aggregation metrics
	sourceFetchesTotal  metric.Int64Counter
	sourceFetchDuration metric.Float64Histogram

	// OAuth metrics
	tokenRefreshTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, err
	}

	m.sourceFetchesTotal, err = meter.Int64Counter(
		"dashboard_source_fetches_total",
		metric.WithDescription("Total number of dashboard source fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	m.sourceFetchDuration, err = meter.Float64Histogram(
		"dashboard_source_fetch_duration_seconds",
		metric.WithDescription("Dashboard source fetch duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, err
	}

	m.tokenRefreshTotal, err = meter.Int64Counter(
		"oauth_token_refresh_total",
		metric.WithDescription("Total number of OAuth token refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with its duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	if m.httpRequestsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.Int(attrStatus, status),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordSourceFetch records one aggregation source fetch.
func (m *Metrics) RecordSourceFetch(ctx context.Context, section, result string, duration time.Duration) {
	if m.sourceFetchesTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrSection, section),
		attribute.String(attrResult, result),
	)
	m.sourceFetchesTotal.Add(ctx, 1, attrs)
	m.sourceFetchDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordTokenRefresh records an OAuth token refresh attempt.
func (m *Metrics) RecordTokenRefresh(ctx context.Context, result string) {
	if m.tokenRefreshTotal == nil {
		return
	}
	m.tokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}
