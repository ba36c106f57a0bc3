package config

import "github.com/spf13/viper"

// applyDefaults registers every section's default values on v the way the
// teacher groups them: one function per section, all called before a config
// file or environment variables are layered on top.
func applyDefaults(v *viper.Viper) {
	applyProviderDefaults(v)
	applyMemoryDefaults(v)
	applyWorkspaceDefaults(v)
	applyLoggingDefaults(v)
	applyExecutionDefaults(v)
	applyCacheDefaults(v)
}

func applyProviderDefaults(v *viper.Viper) {
	v.SetDefault("providers.claude-code.enabled", true)
	v.SetDefault("providers.claude-code.priority", 1)
	v.SetDefault("providers.claude-code.timeout", 1_500_000)
	v.SetDefault("providers.claude-code.command", "claude")

	v.SetDefault("providers.gemini-cli.enabled", true)
	v.SetDefault("providers.gemini-cli.priority", 2)
	v.SetDefault("providers.gemini-cli.timeout", 1_500_000)
	v.SetDefault("providers.gemini-cli.command", "gemini")

	v.SetDefault("providers.codex.enabled", true)
	v.SetDefault("providers.codex.priority", 3)
	v.SetDefault("providers.codex.timeout", 1_500_000)
	v.SetDefault("providers.codex.command", "codex")
}

func applyMemoryDefaults(v *viper.Viper) {
	v.SetDefault("memory.maxEntries", 10_000)
	v.SetDefault("memory.persistPath", ".automatosx/memory")
	v.SetDefault("memory.autoCleanup", true)
	v.SetDefault("memory.cleanupDays", 30)
}

func applyWorkspaceDefaults(v *viper.Viper) {
	v.SetDefault("workspace.prdPath", ".automatosx/workspaces")
	v.SetDefault("workspace.tmpPath", ".automatosx/workspaces/shared/sessions")
	v.SetDefault("workspace.autoCleanupTmp", true)
	v.SetDefault("workspace.tmpCleanupDays", 7)
}

func applyLoggingDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.console", true)
}

func applyExecutionDefaults(v *viper.Viper) {
	v.SetDefault("execution.defaultTimeout", 1_500_000)
	v.SetDefault("execution.timeouts.global", 3_600_000)
	v.SetDefault("execution.timeouts.warningThreshold", 0.8)
	v.SetDefault("execution.maxConcurrentAgents", 4)
	v.SetDefault("execution.retry.maxAttempts", 3)
	v.SetDefault("execution.retry.initialDelay", 1_000)
	v.SetDefault("execution.retry.maxDelay", 30_000)
	v.SetDefault("execution.retry.multiplier", 2.0)
	v.SetDefault("execution.retry.jitterFraction", 0.25)
}

func applyCacheDefaults(v *viper.Viper) {
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.maxMemorySize", 500)
	v.SetDefault("cache.maxSize", 10_000)
	v.SetDefault("cache.ttl", 86_400)
}
