package provider

import (
	"context"
	"log/slog"

	"github.com/contail/strands-agents-starter/agent"
	"github.com/contail/strands-agents-starter/config"
	"github.com/contail/strands-agents-starter/log"
)

// SDK is a handle to an external agent SDK that can execute a prompt on the
// application's behalf.
type SDK interface {
	// Name identifies the SDK for logging.
	Name() string

	Invoke(ctx context.Context, prompt string) (string, error)
}

// Provider is the execution strategy for prompts. The variant is selected
// once at construction from configuration; there is no per-call capability
// probing. When the delegated variant is requested but no SDK handle is
// available, the constructor falls back to direct and logs that decision.
type Provider struct {
	mode   config.Provider
	runner agent.Runner
}

// New selects the execution strategy. direct is the agent.Runner talking to
// the LLM endpoint; sdk may be nil when no SDK is wired in.
func New(cfg *config.Config, direct agent.Runner, sdk SDK, logger *slog.Logger) *Provider {
	mode := cfg.Provider

	if mode == config.ProviderDelegated && sdk == nil {
		logger.Warn("delegated provider requested but no SDK is available, falling back to direct",
			slog.String(log.ProviderKey, string(config.ProviderDirect)))
		mode = config.ProviderDirect
	}

	p := &Provider{mode: mode}

	switch mode {
	case config.ProviderDelegated:
		logger.Info("using delegated provider",
			slog.String(log.ProviderKey, string(mode)), "sdk", sdk.Name())
		p.runner = agent.RunnerFunc(sdk.Invoke)
	default:
		logger.Info("using direct provider", slog.String(log.ProviderKey, string(mode)))
		p.runner = direct
	}

	return p
}

// Mode reports the selected variant.
func (p *Provider) Mode() config.Provider {
	return p.mode
}

// Invoke implements agent.Runner.
func (p *Provider) Invoke(ctx context.Context, prompt string) (string, error) {
	return p.runner.Invoke(ctx, prompt)
}

var _ agent.Runner = (*Provider)(nil)
