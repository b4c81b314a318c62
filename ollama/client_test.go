package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/contail/strands-agents-starter/cache"
	"github.com/contail/strands-agents-starter/config"
)

func testConfig(baseURL, model string) *config.Config {
	return &config.Config{
		BaseURL:        baseURL,
		Model:          model,
		RequestTimeout: 5 * time.Second,
	}
}

func Test_Generate(t *testing.T) {
	var mu sync.Mutex
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		mu.Lock()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		mu.Unlock()

		json.NewEncoder(w).Encode(map[string]string{"response": "hello"})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, "m1"))
	defer c.Close()

	out, err := c.Generate(context.Background(), "say hello")
	require.NoError(t, err)
	require.Equal(t, "hello", out)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "m1", gotBody["model"])
	require.Equal(t, "say hello", gotBody["prompt"])
	require.Equal(t, false, gotBody["stream"])
}

func Test_Generate_StreamingFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Write([]byte("{\"response\":\"hel\"}\n"))
		w.Write([]byte("data: {\"response\":\"lo\"}\n"))
		w.Write([]byte("not json\n"))
		w.Write([]byte("{\"text\":\"!\"}\n"))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, "m1"))
	defer c.Close()

	out, err := c.Generate(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "hello!", out)
}

func Test_Generate_NotConfigured(t *testing.T) {
	c := New(testConfig("", "m1"))
	defer c.Close()

	_, err := c.Generate(context.Background(), "p")
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.ListModels(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
}

func Test_PreferredModel_Auto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "old:1b", "model": "old:1b", "modified_at": "2023-01-01T00:00:00Z"},
				{"name": "new:7b", "model": "new:7b", "modified_at": "2024-06-01T12:30:00Z"},
				{"name": "mid:3b", "model": "mid:3b", "modified_at": "2024-01-01T00:00:00Z"},
			},
		})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, "auto"))
	defer c.Close()

	model, err := c.PreferredModel(context.Background())
	require.NoError(t, err)
	require.Equal(t, "new:7b", model)
}

func Test_PreferredModel_Configured(t *testing.T) {
	// No server: the configured model must resolve without an endpoint call.
	c := New(testConfig("http://localhost:0", "fixed:7b"))
	defer c.Close()

	model, err := c.PreferredModel(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fixed:7b", model)
}

func Test_PreferredModel_AutoNoModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"models": []any{}})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, "auto"))
	defer c.Close()

	model, err := c.PreferredModel(context.Background())
	require.NoError(t, err)
	require.Equal(t, "auto", model)
}

func Test_ListModels_Cached(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{{"name": "m", "model": "m"}},
		})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, "auto"), WithTagsTTL(time.Minute))
	defer c.Close()

	for i := 0; i < 3; i++ {
		tags, err := c.ListModels(context.Background())
		require.NoError(t, err)
		require.Len(t, tags.Models, 1)
	}

	require.Equal(t, int32(1), hits.Load())
}

func Test_Generate_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"response": "ok"})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, "m1"), WithMaxRetries(2))
	defer c.Close()

	out, err := c.Generate(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.Equal(t, int32(2), hits.Load())
}

func Test_Generate_ClientErrorIsPermanent(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, "m1"), WithMaxRetries(5))
	defer c.Close()

	_, err := c.Generate(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 404")
	require.Equal(t, int32(1), hits.Load())
}

func Test_Generate_ResponseCache(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"response": "cached-me"})
	}))
	defer srv.Close()

	respCache := cache.NewMemory(8, time.Minute)
	defer respCache.Close()

	c := New(testConfig(srv.URL, "m1"), WithResponseCache(respCache))
	defer c.Close()

	for i := 0; i < 3; i++ {
		out, err := c.Generate(context.Background(), "same prompt")
		require.NoError(t, err)
		require.Equal(t, "cached-me", out)
	}

	// A different prompt misses the cache.
	_, err := c.Generate(context.Background(), "other prompt")
	require.NoError(t, err)

	require.Equal(t, int32(2), hits.Load())
}
