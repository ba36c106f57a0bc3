package provider

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockMode(t *testing.T) {
	t.Helper()
	require.NoError(t, os.Setenv(MockModeEnvVar, "1"))
	t.Cleanup(func() { os.Unsetenv(MockModeEnvVar) })
}

func TestCLIAdapter_MockExecute(t *testing.T) {
	withMockMode(t)

	a := NewCLIAdapter(CLIAdapterConfig{
		Identifier:  "claude-code",
		Command:     "claude",
		RetryPolicy: DefaultRetryPolicy(),
	}, zerolog.Nop())

	resp, err := a.Execute(context.Background(), Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "hello")
	assert.Equal(t, "claude-code", a.Identifier())
}

func TestCLIAdapter_MockHealthCheckAlwaysHealthy(t *testing.T) {
	withMockMode(t)

	a := NewCLIAdapter(CLIAdapterConfig{Identifier: "gemini-cli", Command: "gemini"}, zerolog.Nop())
	status, err := a.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}

func TestCLIAdapter_SupportsParameter(t *testing.T) {
	a := NewCLIAdapter(CLIAdapterConfig{
		Identifier:       "codex",
		Command:          "codex",
		ParameterSupport: ParameterSupport{MaxTokens: true},
	}, zerolog.Nop())

	assert.True(t, a.SupportsParameter("maxTokens"))
	assert.False(t, a.SupportsParameter("temperature"))
	assert.False(t, a.SupportsParameter("unknown"))
}

func TestCLIAdapter_RealCommandNotFoundFails(t *testing.T) {
	a := NewCLIAdapter(CLIAdapterConfig{
		Identifier:  "ghost",
		Command:     "definitely-not-a-real-binary-xyz",
		RetryPolicy: RetryPolicy{MaxAttempts: 1},
	}, zerolog.Nop())

	_, err := a.Execute(context.Background(), Request{Prompt: "hi"})
	assert.Error(t, err)
}

func TestCLIAdapter_IsAvailableCachesResult(t *testing.T) {
	withMockMode(t)

	a := NewCLIAdapter(CLIAdapterConfig{Identifier: "claude-code", Command: "claude"}, zerolog.Nop())
	assert.True(t, a.IsAvailable(context.Background()))
	available, fresh := a.availability.Get()
	assert.True(t, fresh)
	assert.True(t, available)
}

func TestCLIAdapter_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	a := NewCLIAdapter(CLIAdapterConfig{
		Identifier:       "ghost",
		Command:          "definitely-not-a-real-binary-xyz",
		RetryPolicy:      RetryPolicy{MaxAttempts: 1},
		FailureThreshold: 2,
	}, zerolog.Nop())

	_, err := a.Execute(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	_, err = a.Execute(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)

	_, err = a.Execute(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, "open", a.breaker.State())
}
