package provider

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automatosx/internal/config"
)

func mockAdapter(t *testing.T, id string) *CLIAdapter {
	withMockMode(t)
	return NewCLIAdapter(CLIAdapterConfig{Identifier: id, Command: id}, zerolog.Nop())
}

func TestRegistry_SelectPreferred(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(mockAdapter(t, "claude-code"), config.ProviderConfig{Enabled: true, Priority: 2})
	r.Register(mockAdapter(t, "gemini-cli"), config.ProviderConfig{Enabled: true, Priority: 1})

	a, err := r.Select(context.Background(), "claude-code")
	require.NoError(t, err)
	assert.Equal(t, "claude-code", a.Identifier())
}

func TestRegistry_SelectFallsBackToPriority(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(mockAdapter(t, "claude-code"), config.ProviderConfig{Enabled: true, Priority: 2})
	r.Register(mockAdapter(t, "gemini-cli"), config.ProviderConfig{Enabled: true, Priority: 1})

	a, err := r.Select(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "gemini-cli", a.Identifier())
}

func TestRegistry_SelectIgnoresDisabled(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(mockAdapter(t, "claude-code"), config.ProviderConfig{Enabled: false, Priority: 1})
	r.Register(mockAdapter(t, "gemini-cli"), config.ProviderConfig{Enabled: true, Priority: 2})

	a, err := r.Select(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "gemini-cli", a.Identifier())
}

func TestRegistry_NoneAvailable(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(mockAdapter(t, "claude-code"), config.ProviderConfig{Enabled: false, Priority: 1})

	_, err := r.Select(context.Background(), "")
	assert.Error(t, err)
}

func TestRegistry_SelectChainPrefersOrder(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(mockAdapter(t, "claude-code"), config.ProviderConfig{Enabled: true, Priority: 1})
	r.Register(mockAdapter(t, "codex"), config.ProviderConfig{Enabled: true, Priority: 2})

	a, err := r.SelectChain(context.Background(), []string{"codex", "claude-code"})
	require.NoError(t, err)
	assert.Equal(t, "codex", a.Identifier())
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(mockAdapter(t, "claude-code"), config.ProviderConfig{Enabled: true, Priority: 1})

	a, err := r.Get("claude-code")
	require.NoError(t, err)
	assert.Equal(t, "claude-code", a.Identifier())

	_, err = r.Get("ghost")
	assert.Error(t, err)
}
