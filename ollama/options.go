package ollama

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/contail/strands-agents-starter/cache"
	"github.com/contail/strands-agents-starter/metrics"
)

type Options struct {
	Logger *slog.Logger

	Metrics metrics.Client

	TracerProvider trace.TracerProvider

	// HTTPClient overrides the default client; the request timeout from the
	// application config is applied when this is left nil.
	HTTPClient *http.Client

	// ResponseCache, when set, short-circuits Generate for repeated
	// model+prompt pairs.
	ResponseCache cache.Cache

	// MaxRetries bounds retries of transient transport failures per request.
	MaxRetries uint64

	// TagsTTL bounds how long the /api/tags response is reused for model
	// auto-selection.
	TagsTTL time.Duration
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

func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = c
	}
}

func WithResponseCache(c cache.Cache) Option {
	return func(o *Options) {
		o.ResponseCache = c
	}
}

func WithMaxRetries(n uint64) Option {
	return func(o *Options) {
		o.MaxRetries = n
	}
}

func WithTagsTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.TagsTTL = ttl
	}
}

func applyOptions(opts ...Option) Options {
	options := Options{
		Logger:         slog.Default(),
		Metrics:        metrics.NewNoopClient(),
		TracerProvider: trace.NewNoopTracerProvider(),
		MaxRetries:     3,
		TagsTTL:        30 * time.Second,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return options
}
