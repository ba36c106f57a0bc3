package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Providers["claude-code"].Enabled)
	assert.Equal(t, 1, cfg.Providers["claude-code"].Priority)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Execution.MaxConcurrentAgents)
	assert.Equal(t, 0.8, cfg.Execution.Timeouts.WarningThreshold)
}

func TestLoad_OverlayFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"logging": {"level": "debug", "console": false},
		"execution": {"maxConcurrentAgents": 8}
	}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Console)
	assert.Equal(t, 8, cfg.Execution.MaxConcurrentAgents)
	// Untouched sections keep their defaults.
	assert.True(t, cfg.Providers["codex"].Enabled)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
}

func TestValidate_AggregatesEveryOffendingPath(t *testing.T) {
	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"claude-code": {Enabled: true, Priority: 0, Timeout: 10, Command: ""},
		},
		Memory: MemoryConfig{MaxEntries: 1, AutoCleanup: true, CleanupDays: 0},
		Workspace: WorkspaceConfig{
			AutoCleanupTmp: true,
			TmpCleanupDays: 0,
		},
		Logging: LoggingConfig{Level: "verbose"},
		Execution: ExecutionConfig{
			MaxConcurrentAgents: 0,
			Timeouts:            TimeoutsConfig{WarningThreshold: 0.99},
		},
	}

	errs := cfg.Validate()
	require.Len(t, errs, 9)

	paths := make(map[string]bool, len(errs))
	for _, e := range errs {
		paths[e.Context["path"].(string)] = true
	}
	for _, want := range []string{
		"providers.claude-code.priority",
		"providers.claude-code.timeout",
		"providers.claude-code.command",
		"memory.maxEntries",
		"memory.cleanupDays",
		"workspace.tmpCleanupDays",
		"logging.level",
		"execution.maxConcurrentAgents",
		"execution.timeouts.warningThreshold",
	} {
		assert.True(t, paths[want], "expected validation error for %s", want)
	}
}

func TestValidate_ValidConfigHasNoErrors(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())
}

func TestValidate_CacheSkippedWhenDisabled(t *testing.T) {
	cfg := &Config{Cache: CacheConfig{Enabled: false}}
	assert.Empty(t, cfg.validateCache())
}

func TestValidate_CacheValidatedWhenEnabled(t *testing.T) {
	cfg := &Config{Cache: CacheConfig{Enabled: true}}
	errs := cfg.validateCache()
	require.Len(t, errs, 3)
}
