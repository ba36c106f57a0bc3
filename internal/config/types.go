package config

// ProviderConfig describes one entry under the providers section: enable
// state, routing priority, CLI invocation timeout, and the command to exec.
type ProviderConfig struct {
	Enabled  bool   `mapstructure:"enabled" json:"enabled"`
	Priority int    `mapstructure:"priority" json:"priority"`
	Timeout  int    `mapstructure:"timeout" json:"timeout"` // milliseconds
	Command  string `mapstructure:"command" json:"command"`
}

// MemoryConfig controls the external memory capability's retention policy.
type MemoryConfig struct {
	MaxEntries  int    `mapstructure:"maxEntries" json:"maxEntries"`
	PersistPath string `mapstructure:"persistPath" json:"persistPath"`
	AutoCleanup bool   `mapstructure:"autoCleanup" json:"autoCleanup"`
	CleanupDays int    `mapstructure:"cleanupDays" json:"cleanupDays"`
}

// WorkspaceConfig controls shared/tmp workspace locations and cleanup.
type WorkspaceConfig struct {
	PRDPath        string `mapstructure:"prdPath" json:"prdPath"`
	TmpPath        string `mapstructure:"tmpPath" json:"tmpPath"`
	AutoCleanupTmp bool   `mapstructure:"autoCleanupTmp" json:"autoCleanupTmp"`
	TmpCleanupDays int    `mapstructure:"tmpCleanupDays" json:"tmpCleanupDays"`
}

// TimeoutsConfig layers timeout overrides from global down to per-agent.
type TimeoutsConfig struct {
	Global           int            `mapstructure:"global" json:"global"`
	Teams            map[string]int `mapstructure:"teams" json:"teams"`
	Agents           map[string]int `mapstructure:"agents" json:"agents"`
	WarningThreshold float64        `mapstructure:"warningThreshold" json:"warningThreshold"`
}

// RetryConfig controls the provider adapter's backoff schedule.
type RetryConfig struct {
	MaxAttempts  int     `mapstructure:"maxAttempts" json:"maxAttempts"`
	InitialDelay int     `mapstructure:"initialDelay" json:"initialDelay"` // milliseconds
	MaxDelay     int     `mapstructure:"maxDelay" json:"maxDelay"`         // milliseconds
	Multiplier   float64 `mapstructure:"multiplier" json:"multiplier"`
	JitterFrac   float64 `mapstructure:"jitterFraction" json:"jitterFraction"`
}

// ExecutionConfig controls concurrency and timeout policy for the execution
// engine.
type ExecutionConfig struct {
	DefaultTimeout      int            `mapstructure:"defaultTimeout" json:"defaultTimeout"`
	Timeouts            TimeoutsConfig `mapstructure:"timeouts" json:"timeouts"`
	MaxConcurrentAgents int            `mapstructure:"maxConcurrentAgents" json:"maxConcurrentAgents"`
	Retry               RetryConfig    `mapstructure:"retry" json:"retry"`
}

// LoggingConfig mirrors pkg/logger.LogConfig field-for-field so the
// application config section can be unmarshaled directly and handed to
// logger.Init without translation.
type LoggingConfig struct {
	Level   string `mapstructure:"level" json:"level"`
	Path    string `mapstructure:"path" json:"path"`
	Console bool   `mapstructure:"console" json:"console"`
}

// CacheConfig controls the two-tier response cache (spec §4.6).
type CacheConfig struct {
	Enabled       bool `mapstructure:"enabled" json:"enabled"`
	MaxMemorySize int  `mapstructure:"maxMemorySize" json:"maxMemorySize"` // L1 entry count
	MaxSize       int  `mapstructure:"maxSize" json:"maxSize"`             // L2 entry count
	TTLSeconds    int  `mapstructure:"ttl" json:"ttl"`
}

// Config is the root of the application configuration described in spec §6.
type Config struct {
	Providers map[string]ProviderConfig `mapstructure:"providers" json:"providers"`
	Memory    MemoryConfig              `mapstructure:"memory" json:"memory"`
	Workspace WorkspaceConfig           `mapstructure:"workspace" json:"workspace"`
	Logging   LoggingConfig             `mapstructure:"logging" json:"logging"`
	Execution ExecutionConfig           `mapstructure:"execution" json:"execution"`
	Cache     CacheConfig               `mapstructure:"cache" json:"cache"`
}
