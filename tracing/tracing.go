package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/contail/strands-agents-starter/config"
)

// Setup builds a TracerProvider for the configured exporter and registers it
// globally. The returned shutdown func flushes pending spans; it is a no-op
// when tracing is off.
func Setup(ctx context.Context, cfg *config.Config) (trace.TracerProvider, func(context.Context) error, error) {
	if cfg.Trace == config.TraceOff {
		return trace.NewNoopTracerProvider(), func(context.Context) error { return nil }, nil
	}

	r := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String("strands-agents-starter"),
	)

	var opts []sdktrace.TracerProviderOption
	opts = append(opts, sdktrace.WithResource(r))

	switch cfg.Trace {
	case config.TraceStdout:
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithSyncer(exp))

	case config.TraceOTLP:
		client := otlptracehttp.NewClient(otlptracehttp.WithInsecure())
		exp, err := otlptrace.New(ctx, client)
		if err != nil {
			return nil, nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))

	default:
		return nil, nil, fmt.Errorf("unknown trace exporter %q", cfg.Trace)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	return tp, tp.Shutdown, nil
}
