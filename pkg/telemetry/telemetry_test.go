package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestNewLoggerDefaults(t *testing.T) {
	l, err := NewLogger(LoggingConfig{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	child := l.NewComponentLogger("opkey")
	child.WithResource("db").WithOperationKey("db_monitor_10000").
		Debug("parsed operation key")
}

func TestLoggerContextRoundTrip(t *testing.T) {
	l, err := NewLogger(LoggingConfig{})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	ctx := l.WithContext(context.Background())
	if got := FromContext(ctx); got != l {
		t.Error("FromContext did not return the attached logger")
	}

	// A bare context still yields a usable logger.
	FromContext(context.Background()).Info("fallback logger works")
}

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	// None of these may panic when metrics are disabled.
	m.KeyBuilt("operation")
	m.KeyParsed("transition")
	m.ParseFailed("magic")
	m.DigestFiltered()
	m.HistoryRecorded(true)
	m.ObserveStoreOp("record_result", 5*time.Millisecond)

	if m.Handler() != nil {
		t.Error("Handler() != nil for disabled metrics")
	}
}

func TestMetricsEnabled(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{
		Enabled:       true,
		Namespace:     "pacemaker",
		ListenAddress: "127.0.0.1:0",
	})
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	m.KeyBuilt("operation")
	m.KeyParsed("operation")
	m.ParseFailed("operation")
	m.HistoryRecorded(false)

	if m.Handler() == nil {
		t.Error("Handler() = nil for enabled metrics")
	}
}

func TestNewTracerDisabled(t *testing.T) {
	tr, err := NewTracer(TracingConfig{Enabled: false}, "pacemaker-codec", "dev", "test")
	if err != nil {
		t.Fatalf("NewTracer() error = %v", err)
	}

	ctx, span := tr.StartStoreSpan(context.Background(), "record_result")
	RecordSuccess(span)
	span.End()
	if ctx == nil {
		t.Error("StartStoreSpan returned nil context")
	}
	if err := tr.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
		{
			name: "bad exporter",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Exporter = "carrier-pigeon"
			},
			wantErr: true,
		},
		{
			name: "bad sampling rate",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Exporter = "stdout"
				c.Tracing.SamplingRate = 2.0
			},
			wantErr: true,
		},
		{
			name: "metrics without listen address",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.ListenAddress = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
