package telemetry

import (
	"context"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), "itam-backend", "")
	assert.Equal(t, err, nil)
	assert.Equal(t, shutdown(context.Background()), nil)
}

func TestExporterOptions(t *testing.T) {
	assert.Equal(t, len(exporterOptions("collector:4318")), 2)
	assert.Equal(t, len(exporterOptions("http://collector:4318")), 2)
	assert.Equal(t, len(exporterOptions("https://collector:4318/otlp/v1/traces")), 2)
}
