package exporters

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew(t *testing.T) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	ctx := context.Background()

	exporter, err := New(ctx, Config{}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LoggerExporter{}, exporter)

	exporter, err = New(ctx, Config{Kind: KindOTLPHTTP, Endpoint: "localhost:4318", Insecure: true, Timeout: time.Second}, logger)
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(ctx))

	_, err = New(ctx, Config{Kind: "zipkin"}, logger)
	assert.EqualError(t, err, `unsupported span exporter "zipkin" (use logger, otlp-grpc or otlp-http)`)
}

func TestLoggerExporter(t *testing.T) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	exporter := NewLoggerExporter(logger)

	spans := tracetest.SpanStubs{{Name: "blocks.Update"}, {Name: "Orchestrator.Call"}}.Snapshots()
	assert.NoError(t, exporter.ExportSpans(context.Background(), spans))
	assert.NoError(t, exporter.Shutdown(context.Background()))
}

func TestParseHeaders(t *testing.T) {
	assert.Equal(t, map[string]string{"api-key": "secret", "tenant": "a=b"}, ParseHeaders([]string{"api-key=secret", " tenant = a=b", "=skip"}))
}
