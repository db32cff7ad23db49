package telemetry_test

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/kiosk/internal/telemetry"
)

func TestNew_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	p, err := telemetry.New(context.Background())
	assert.NilError(t, err)
	assert.Assert(t, !p.Enabled())

	_, span := p.Tracer("test").Start(context.Background(), "op")
	assert.Assert(t, !span.SpanContext().IsValid(), "no-op spans carry no context")
	span.End()

	assert.NilError(t, p.Shutdown(context.Background()))
}

func TestNew_EnabledWithEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "127.0.0.1:4318")

	p, err := telemetry.New(context.Background())
	assert.NilError(t, err)
	assert.Assert(t, p.Enabled())

	_, span := p.Tracer("test").Start(context.Background(), "op")
	assert.Assert(t, span.SpanContext().IsValid())
	span.End()
}
