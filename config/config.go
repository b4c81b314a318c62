package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider selects how prompts are executed.
type Provider string

const (
	// ProviderDirect talks to the LLM endpoint over HTTP.
	ProviderDirect Provider = "direct"

	// ProviderDelegated hands execution to an external agent SDK.
	ProviderDelegated Provider = "delegated"
)

// CacheBackend selects the response cache implementation.
type CacheBackend string

const (
	CacheOff    CacheBackend = "off"
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
)

// TraceExporter selects how spans leave the process.
type TraceExporter string

const (
	TraceOff    TraceExporter = "off"
	TraceStdout TraceExporter = "stdout"
	TraceOTLP   TraceExporter = "otlp"
)

// Config is the application configuration, loaded from the environment and
// an optional .env file.
type Config struct {
	// BaseURL is the LLM endpoint, e.g. http://localhost:11434. Empty means
	// unconfigured; endpoint calls will error.
	BaseURL string

	// Model is the model name, or "auto" to pick the most recently modified
	// tag from the endpoint.
	Model string

	// RequestTimeout bounds a single HTTP request to the endpoint.
	RequestTimeout time.Duration

	Provider Provider

	Cache     CacheBackend
	RedisAddr string

	// HistoryPath is the sqlite file for the run history store. Empty
	// disables history recording.
	HistoryPath string

	Trace TraceExporter
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:        os.Getenv("LLM_BASE_URL"),
		Model:          getenv("LLM_MODEL", "qwen2.5-coder:7b"),
		Provider:       Provider(getenv("AGENTS_PROVIDER", string(ProviderDirect))),
		Cache:          CacheBackend(getenv("AGENTS_CACHE", string(CacheOff))),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		HistoryPath:    os.Getenv("AGENTS_HISTORY_PATH"),
		Trace:          TraceExporter(getenv("AGENTS_TRACE", string(TraceOff))),
		RequestTimeout: 60 * time.Second,
	}

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing HTTP_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = time.Duration(secs * float64(time.Second))
	}

	switch cfg.Provider {
	case ProviderDirect, ProviderDelegated:
	default:
		return nil, fmt.Errorf("unknown AGENTS_PROVIDER %q", cfg.Provider)
	}

	switch cfg.Cache {
	case CacheOff, CacheMemory, CacheRedis:
	default:
		return nil, fmt.Errorf("unknown AGENTS_CACHE %q", cfg.Cache)
	}

	switch cfg.Trace {
	case TraceOff, TraceStdout, TraceOTLP:
	default:
		return nil, fmt.Errorf("unknown AGENTS_TRACE %q", cfg.Trace)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
