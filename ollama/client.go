package ollama

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jellydator/ttlcache/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/contail/strands-agents-starter/agent"
	"github.com/contail/strands-agents-starter/cache"
	"github.com/contail/strands-agents-starter/config"
	"github.com/contail/strands-agents-starter/log"
	"github.com/contail/strands-agents-starter/metrics"
)

const TracerName = "agents-ollama"

// ModelAuto selects the most recently modified tag from the endpoint.
const ModelAuto = "auto"

// ErrNotConfigured is returned when no base URL is set.
var ErrNotConfigured = errors.New("LLM_BASE_URL is not configured")

// Model is one entry of the /api/tags response.
type Model struct {
	Name       string    `json:"name"`
	Model      string    `json:"model"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size,omitempty"`
}

// Tags is the /api/tags response.
type Tags struct {
	Models []Model `json:"models"`
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Text     string `json:"text"`
}

func (gr *generateResponse) text() string {
	if gr.Response != "" {
		return gr.Response
	}
	return gr.Text
}

// Client talks to an Ollama-style generation API.
type Client struct {
	baseURL string
	model   string
	hc      *http.Client
	options Options
	tracer  trace.Tracer

	tags *ttlcache.Cache[string, *Tags]
}

func New(cfg *config.Config, opts ...Option) *Client {
	options := applyOptions(opts...)

	hc := options.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.RequestTimeout}
	}

	tags := ttlcache.New(
		ttlcache.WithTTL[string, *Tags](options.TagsTTL),
		ttlcache.WithDisableTouchOnHit[string, *Tags](),
	)

	go tags.Start()

	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:   cfg.Model,
		hc:      hc,
		options: options,
		tracer:  options.TracerProvider.Tracer(TracerName),
		tags:    tags,
	}
}

// ListModels fetches the endpoint's model tags. Responses are reused for a
// short TTL so model auto-selection doesn't hit the endpoint on every call.
func (c *Client) ListModels(ctx context.Context) (*Tags, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	if item := c.tags.Get("tags"); item != nil {
		return item.Value(), nil
	}

	body, err := c.get(ctx, "/api/tags")
	if err != nil {
		return nil, err
	}

	var tags Tags
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}

	c.tags.Set("tags", &tags, ttlcache.DefaultTTL)

	return &tags, nil
}

// PreferredModel resolves the configured model name. "auto" picks the tag
// with the newest modification timestamp; when tags are unusable the
// configured default is kept.
func (c *Client) PreferredModel(ctx context.Context) (string, error) {
	if !strings.EqualFold(c.model, ModelAuto) {
		return c.model, nil
	}

	tags, err := c.ListModels(ctx)
	if err != nil {
		return "", err
	}

	var latest *Model
	for i := range tags.Models {
		m := &tags.Models[i]
		if latest == nil || m.ModifiedAt.After(latest.ModifiedAt) {
			latest = m
		}
	}

	if latest == nil {
		return c.model, nil
	}

	if latest.Model != "" {
		return latest.Model, nil
	}
	return latest.Name, nil
}

// Generate produces a completion for the prompt using the preferred model.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}

	model, err := c.PreferredModel(ctx)
	if err != nil {
		return "", err
	}

	return c.GenerateWithModel(ctx, model, prompt)
}

// GenerateWithModel produces a completion for the prompt using the given
// model, bypassing model resolution.
func (c *Client) GenerateWithModel(ctx context.Context, model, prompt string) (string, error) {
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}

	ctx, span := c.tracer.Start(ctx, "Generate", trace.WithAttributes(
		attribute.String(log.ModelKey, model),
		attribute.Int(log.PromptLenKey, len(prompt)),
	))
	defer span.End()

	key := responseKey(model, prompt)
	if c.options.ResponseCache != nil {
		v, err := c.options.ResponseCache.Get(ctx, key)
		switch {
		case err == nil:
			c.options.Metrics.Counter(metrics.CacheHit, metrics.Tags{log.ModelKey: model}, 1)
			span.SetAttributes(attribute.Bool(log.CacheKey, true))
			return v, nil
		case !errors.Is(err, cache.ErrNotFound):
			c.options.Logger.Warn("response cache lookup failed", "error", err)
		}
	}

	timer := metrics.Timer(c.options.Metrics, metrics.GenerateDuration, metrics.Tags{log.ModelKey: model})
	defer timer.Stop()

	body, err := json.Marshal(&generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("encoding generate request: %w", err)
	}

	raw, err := c.post(ctx, "/api/generate", body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	result := parseGenerateBody(raw)
	span.SetAttributes(attribute.Int(log.ResponseLenKey, len(result)))

	if c.options.ResponseCache != nil {
		if err := c.options.ResponseCache.Set(ctx, key, result); err != nil {
			c.options.Logger.Warn("storing response in cache", "error", err)
		}
	}

	return result, nil
}

// Invoke implements agent.Runner.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	return c.Generate(ctx, prompt)
}

// Close releases the tags cache.
func (c *Client) Close() {
	c.tags.Stop()
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// do performs one HTTP exchange, retrying transient failures (transport
// errors and 5xx responses) with capped exponential backoff. Client errors
// are permanent.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var result []byte

	attempt := 0
	op := func() error {
		attempt++

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			c.options.Logger.Warn("request failed",
				log.EndpointKey, path, log.AttemptKey, attempt, "error", err)
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}

		if resp.StatusCode >= 500 {
			c.options.Logger.Warn("server error",
				log.EndpointKey, path, log.AttemptKey, attempt, "status", resp.StatusCode)
			return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode))
		}

		result = b
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.options.MaxRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}

	return result, nil
}

// parseGenerateBody handles both a single JSON object and streaming NDJSON /
// SSE bodies, accumulating the response chunks line-wise in the latter case.
func parseGenerateBody(raw []byte) string {
	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err == nil {
		return gr.text()
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "data:"))

		var chunk generateResponse
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			// Ignore non-JSON lines.
			continue
		}
		sb.WriteString(chunk.text())
	}

	return sb.String()
}

func responseKey(model, prompt string) string {
	h := sha256.Sum256([]byte(model + "\x00" + prompt))
	return hex.EncodeToString(h[:])
}

var _ agent.Runner = (*Client)(nil)
