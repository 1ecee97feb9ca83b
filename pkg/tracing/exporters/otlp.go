package exporters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	KindLogger   = "logger"
	KindOTLPGRPC = "otlp-grpc"
	KindOTLPHTTP = "otlp-http"
)

// Config selects where finished spans go.
type Config struct {
	// Kind is logger, otlp-grpc or otlp-http
	Kind string
	// Endpoint of the collector, e.g. localhost:4317 for grpc or localhost:4318 for http
	Endpoint string
	// Insecure disables TLS
	Insecure bool
	Headers  map[string]string
	Timeout  time.Duration
}

// New builds the span exporter named by config.Kind.
func New(ctx context.Context, config Config, logger ectologger.Logger) (trace.SpanExporter, error) {
	switch config.Kind {
	case "", KindLogger:
		return NewLoggerExporter(logger), nil
	case KindOTLPGRPC:
		return newGRPCExporter(ctx, config)
	case KindOTLPHTTP:
		return newHTTPExporter(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported span exporter %q (use %s, %s or %s)", config.Kind, KindLogger, KindOTLPGRPC, KindOTLPHTTP)
	}
}

func newGRPCExporter(ctx context.Context, config Config) (*otlptrace.Exporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(config.Endpoint),
	}
	if config.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(config.Timeout))
	}
	if config.Insecure {
		opts = append(opts,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}
	if len(config.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(config.Headers))
	}

	return otlptracegrpc.New(ctx, opts...)
}

func newHTTPExporter(ctx context.Context, config Config) (*otlptrace.Exporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.Endpoint),
	}
	if config.Timeout > 0 {
		opts = append(opts, otlptracehttp.WithTimeout(config.Timeout))
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(config.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(config.Headers))
	}

	return otlptracehttp.New(ctx, opts...)
}

// ParseHeaders reads key=value pairs. Pairs without a key are skipped.
func ParseHeaders(pairs []string) map[string]string {
	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers
}
