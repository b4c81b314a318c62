package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	t.Setenv("LLM_BASE_URL", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("AGENTS_PROVIDER", "")
	t.Setenv("AGENTS_CACHE", "")
	t.Setenv("AGENTS_TRACE", "")
	t.Setenv("AGENTS_HISTORY_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "", cfg.BaseURL)
	require.Equal(t, "qwen2.5-coder:7b", cfg.Model)
	require.Equal(t, 60*time.Second, cfg.RequestTimeout)
	require.Equal(t, ProviderDirect, cfg.Provider)
	require.Equal(t, CacheOff, cfg.Cache)
	require.Equal(t, TraceOff, cfg.Trace)
	require.Equal(t, "", cfg.HistoryPath)
}

func Test_Load_Environment(t *testing.T) {
	t.Setenv("LLM_BASE_URL", "http://localhost:11434")
	t.Setenv("LLM_MODEL", "auto")
	t.Setenv("HTTP_TIMEOUT", "2.5")
	t.Setenv("AGENTS_PROVIDER", "delegated")
	t.Setenv("AGENTS_CACHE", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("AGENTS_TRACE", "stdout")
	t.Setenv("AGENTS_HISTORY_PATH", "runs.sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:11434", cfg.BaseURL)
	require.Equal(t, "auto", cfg.Model)
	require.Equal(t, 2500*time.Millisecond, cfg.RequestTimeout)
	require.Equal(t, ProviderDelegated, cfg.Provider)
	require.Equal(t, CacheRedis, cfg.Cache)
	require.Equal(t, "redis:6379", cfg.RedisAddr)
	require.Equal(t, TraceStdout, cfg.Trace)
	require.Equal(t, "runs.sqlite", cfg.HistoryPath)
}

func Test_Load_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad timeout", "HTTP_TIMEOUT", "soon"},
		{"bad provider", "AGENTS_PROVIDER", "magic"},
		{"bad cache", "AGENTS_CACHE", "disk"},
		{"bad trace", "AGENTS_TRACE", "jaeger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}
