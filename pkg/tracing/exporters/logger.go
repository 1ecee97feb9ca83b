package exporters

import (
	"context"

	"github.com/Gobusters/ectologger"
	"go.opentelemetry.io/otel/sdk/trace"
)

// LoggerExporter writes finished spans to the service logger at debug level.
type LoggerExporter struct {
	logger ectologger.Logger
}

func NewLoggerExporter(logger ectologger.Logger) *LoggerExporter {
	return &LoggerExporter{logger: logger}
}

func (e *LoggerExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	for _, span := range spans {
		e.logger.WithFields(map[string]any{
			"span":        span.Name(),
			"trace_id":    span.SpanContext().TraceID().String(),
			"span_id":     span.SpanContext().SpanID().String(),
			"duration_ms": span.EndTime().Sub(span.StartTime()).Milliseconds(),
			"status":      span.Status().Code.String(),
		}).Debug("span finished")
	}
	return nil
}

func (e *LoggerExporter) Shutdown(ctx context.Context) error {
	return nil
}
