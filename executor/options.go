package executor

import (
	"log/slog"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/trace"

	"github.com/contail/strands-agents-starter/agent"
	"github.com/contail/strands-agents-starter/metrics"
)

type Options struct {
	Logger *slog.Logger

	Metrics metrics.Client

	TracerProvider trace.TracerProvider

	// Clock provides run and task timestamps. Tests inject a mock clock.
	Clock clock.Clock

	// DefaultRunner is used for tasks that don't bind their own runner.
	DefaultRunner agent.Runner
}

type Option func(*Options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func WithMetrics(client metrics.Client) Option {
	return func(o *Options) {
		o.Metrics = client
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Options) {
		o.TracerProvider = tp
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *Options) {
		o.Clock = c
	}
}

func WithDefaultRunner(r agent.Runner) Option {
	return func(o *Options) {
		o.DefaultRunner = r
	}
}

func applyOptions(opts ...Option) Options {
	options := Options{
		Logger:         slog.Default(),
		Metrics:        metrics.NewNoopClient(),
		TracerProvider: trace.NewNoopTracerProvider(),
		Clock:          clock.New(),
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return options
}
