package exporters

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestExporter_InvalidName(t *testing.T) {
	_, err := NewTracingExporter(context.Background(), "invalid", nil)
	if err == nil || !strings.Contains(err.Error(), "unknown exporter") {
		t.Fatalf("expected unknown exporter error, got: %v", err)
	}
	_, err = NewMetricsReader(context.Background(), "invalid", nil)
	if err == nil || !strings.Contains(err.Error(), "unknown metrics exporter") {
		t.Fatalf("expected unknown metrics exporter error, got: %v", err)
	}
}

func TestExporter_Stdout(t *testing.T) {
	var buf bytes.Buffer
	exp, err := NewTracingExporter(context.Background(), "stdout", &buf)
	if err != nil || exp == nil {
		t.Fatalf("NewTracingExporter() = %v, %v", exp, err)
	}
	reader, err := NewMetricsReader(context.Background(), "stdout", &buf)
	if err != nil || reader == nil {
		t.Fatalf("NewMetricsReader() = %v, %v", reader, err)
	}
}

func TestExporter_None(t *testing.T) {
	exp, err := NewTracingExporter(context.Background(), "none", nil)
	if err != nil || exp != nil {
		t.Fatalf("NewTracingExporter(none) = %v, %v; want nil, nil", exp, err)
	}
	reader, err := NewMetricsReader(context.Background(), "", nil)
	if err != nil || reader != nil {
		t.Fatalf("NewMetricsReader(\"\") = %v, %v; want nil, nil", reader, err)
	}
}

func TestExporter_OtlpMissingEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	if _, err := NewTracingExporter(context.Background(), "otlp", nil); err == nil || !strings.Contains(err.Error(), "endpoint") {
		t.Fatalf("expected endpoint error, got: %v", err)
	}
	if _, err := NewMetricsReader(context.Background(), "otlp", nil); err == nil || !strings.Contains(err.Error(), "endpoint") {
		t.Fatalf("expected endpoint error, got: %v", err)
	}
}

func TestExporter_Prometheus(t *testing.T) {
	reader, err := NewMetricsReader(context.Background(), "prometheus", nil)
	if err != nil || reader == nil {
		t.Fatalf("NewMetricsReader(prometheus) = %v, %v", reader, err)
	}
}
