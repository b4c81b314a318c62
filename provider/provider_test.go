package provider

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contail/strands-agents-starter/agent"
	"github.com/contail/strands-agents-starter/config"
)

type fakeSDK struct {
	invoked bool
}

func (f *fakeSDK) Name() string { return "fake-sdk" }

func (f *fakeSDK) Invoke(ctx context.Context, prompt string) (string, error) {
	f.invoked = true
	return "sdk:" + prompt, nil
}

func directRunner(out string) agent.RunnerFunc {
	return func(ctx context.Context, prompt string) (string, error) {
		return out, nil
	}
}

func Test_New_Direct(t *testing.T) {
	cfg := &config.Config{Provider: config.ProviderDirect}
	sdk := &fakeSDK{}

	p := New(cfg, directRunner("direct"), sdk, slog.Default())
	require.Equal(t, config.ProviderDirect, p.Mode())

	out, err := p.Invoke(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "direct", out)
	require.False(t, sdk.invoked)
}

func Test_New_Delegated(t *testing.T) {
	cfg := &config.Config{Provider: config.ProviderDelegated}
	sdk := &fakeSDK{}

	p := New(cfg, directRunner("direct"), sdk, slog.Default())
	require.Equal(t, config.ProviderDelegated, p.Mode())

	out, err := p.Invoke(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "sdk:hi", out)
	require.True(t, sdk.invoked)
}

func Test_New_DelegatedWithoutSDKFallsBack(t *testing.T) {
	cfg := &config.Config{Provider: config.ProviderDelegated}

	p := New(cfg, directRunner("direct"), nil, slog.Default())
	require.Equal(t, config.ProviderDirect, p.Mode())

	out, err := p.Invoke(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "direct", out)
}
