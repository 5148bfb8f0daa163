package instrumentation

import (
	"context"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.ServiceName != "daydash" {
		t.Errorf("ServiceName = %q, want daydash", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("Enabled should default to true")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want prometheus", config.MetricsExporter)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("TracingExporter = %q, want none", config.TracingExporter)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"sampling rate too high", func(c *Config) { c.TraceSamplingRate = 1.5 }, true},
		{"sampling rate negative", func(c *Config) { c.TraceSamplingRate = -0.1 }, true},
		{"bad metrics exporter", func(c *Config) { c.MetricsExporter = "statsd" }, true},
		{"bad tracing exporter", func(c *Config) { c.TracingExporter = "jaeger" }, true},
		{"otlp metrics without endpoint", func(c *Config) { c.MetricsExporter = ExporterOTLP }, true},
		{"otlp tracing without endpoint", func(c *Config) { c.TracingExporter = ExporterOTLP }, true},
		{"otlp with endpoint", func(c *Config) {
			c.MetricsExporter = ExporterOTLP
			c.OTLPEndpoint = "localhost:4318"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDisabledProviderIsNoop(t *testing.T) {
	config := DefaultConfig()
	config.Enabled = false

	provider, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if provider.Enabled() {
		t.Error("provider should report disabled")
	}
	if provider.Metrics() == nil {
		t.Fatal("Metrics() should never be nil")
	}

	// No-op recorders must not panic.
	provider.Metrics().RecordHTTPRequest(context.Background(), "GET", "/", 200, 5*time.Millisecond)
	provider.Metrics().RecordSourceFetch(context.Background(), "gmail", ResultSuccess, time.Millisecond)
	provider.Metrics().RecordTokenRefresh(context.Background(), ResultError)

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
