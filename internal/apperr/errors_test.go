package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	a := ProfileNotFound("writer")
	b := ProfileNotFound("reviewer")
	assert.True(t, errors.Is(a, b), "two resource-not-found errors of the same kind/code should match Is")

	c := ConfigMissing("providers.claude.command")
	assert.False(t, errors.Is(a, c))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := ProviderExecutionError("claude-code", 1, "stderr text", cause)
	assert.ErrorIs(t, err, cause)
}

func TestError_WithContext(t *testing.T) {
	base := PathTraversal("/etc/passwd", "/home/user/project")
	extended := base.WithContext("agent", "writer")

	assert.Equal(t, "/home/user/project", base.Context["boundary"])
	assert.Nil(t, base.Context["agent"])
	assert.Equal(t, "writer", extended.Context["agent"])
}

func TestError_WithSuggestions(t *testing.T) {
	base := ConfigInvalid("execution.maxConcurrentAgents", 0, "must be > 0")
	extended := base.WithSuggestions("set execution.maxConcurrentAgents to a positive integer")

	assert.Empty(t, base.Suggestions)
	assert.Equal(t, []string{"set execution.maxConcurrentAgents to a positive integer"}, extended.Suggestions)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ProviderTimeout("codex", 5000)))
	assert.False(t, IsRetryable(ProviderNotFound("codex")))
	assert.False(t, IsRetryable(fmt.Errorf("plain error")))
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(DelegationCycle("writer", []string{"lead", "writer"}))
	assert.True(t, ok)
	assert.Equal(t, KindDelegation, kind)

	_, ok = KindOf(errors.New("not an apperr"))
	assert.False(t, ok)
}

func TestError_Error(t *testing.T) {
	err := SessionNotFound("abc-123")
	assert.Contains(t, err.Error(), "abc-123")
	assert.Contains(t, err.Error(), "session")
}
