package instrumentation

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the daydash package.
const TracerName = "github.com/teemow/daydash"

// Span attribute keys for operations.
const (
	// SpanAttrSection is the dashboard section name attribute.
	SpanAttrSection = "dashboard.section"

	// SpanAttrService is the Google service name attribute.
	SpanAttrService = "google.service"
)

// Tracer returns the tracer for this application.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// EndSpan records the outcome of an operation on the span and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
