// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tracing installs the OpenTelemetry tracer provider that receives
// the pipeline's per-stage spans. Tracing is off unless enabled in config or
// with OTEL_ENABLED=true; when off the global no-op provider stays in place.
package tracing

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/logging"
	"github.com/pdiddy/research-agent/pkg/types"
)

// ServiceName identifies the agent's spans.
const ServiceName = "research-agent"

// Shutdown flushes buffered spans and stops the exporter.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Enabled reports whether cfg or the environment turns tracing on.
func Enabled(cfg types.TracingConfig) bool {
	return cfg.Enabled || os.Getenv("OTEL_ENABLED") == "true"
}

// Init installs a batching OTLP/HTTP tracer provider as the global provider
// and returns its shutdown function. When tracing is disabled it returns a
// no-op shutdown and leaves the global provider untouched.
func Init(ctx context.Context, cfg types.TracingConfig, version string, log *zap.Logger) (Shutdown, error) {
	log = logging.OrNop(log)
	if !Enabled(cfg) {
		log.Debug("tracing disabled")
		return noop, nil
	}

	// The exporter reads OTEL_EXPORTER_OTLP_ENDPOINT itself; explicit
	// options would override it.
	var opts []otlptracehttp.Option
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = cfg.Endpoint
		if endpoint == "" {
			endpoint = "localhost:4318"
		}
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return noop, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(ServiceName),
			semconv.ServiceVersionKey.String(version),
		)),
	)
	otel.SetTracerProvider(tp)
	log.Info("tracing enabled", zap.String("endpoint", endpoint))
	return tp.Shutdown, nil
}
