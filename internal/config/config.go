package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"automatosx/internal/apperr"
)

// ValidationErrors aggregates every offending path found during Validate,
// rather than aborting on the first failure.
type ValidationErrors []*apperr.Error

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d configuration error(s): %s", len(v), strings.Join(msgs, "; "))
}

// Load reads the application configuration from defaults, an optional file
// at path (skipped if path is empty or the file does not exist), and
// environment variables prefixed AUTOMATOSX_ (e.g. AUTOMATOSX_LOGGING_LEVEL
// for logging.level). It returns the merged, validated Config.
func Load(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetEnvPrefix("AUTOMATOSX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType(path))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}

func configType(path string) string {
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return "yaml"
	default:
		return "json"
	}
}

// Validate checks every section against the constraints in spec §6,
// returning one *apperr.Error per offending path instead of stopping at the
// first failure.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors
	errs = append(errs, c.validateProviders()...)
	errs = append(errs, c.validateMemory()...)
	errs = append(errs, c.validateWorkspace()...)
	errs = append(errs, c.validateLogging()...)
	errs = append(errs, c.validateExecution()...)
	errs = append(errs, c.validateCache()...)
	return errs
}

func (c *Config) validateProviders() ValidationErrors {
	var errs ValidationErrors
	for name, p := range c.Providers {
		prefix := fmt.Sprintf("providers.%s", name)
		if p.Priority <= 0 {
			errs = append(errs, apperr.ConfigInvalid(prefix+".priority", p.Priority, "must be a positive integer"))
		}
		if p.Timeout < 1000 {
			errs = append(errs, apperr.ConfigInvalid(prefix+".timeout", p.Timeout, "must be >= 1000ms"))
		}
		if strings.TrimSpace(p.Command) == "" {
			errs = append(errs, apperr.ConfigMissing(prefix+".command"))
		}
	}
	return errs
}

func (c *Config) validateMemory() ValidationErrors {
	var errs ValidationErrors
	if c.Memory.MaxEntries < 100 {
		errs = append(errs, apperr.ConfigInvalid("memory.maxEntries", c.Memory.MaxEntries, "must be >= 100"))
	}
	if c.Memory.AutoCleanup && c.Memory.CleanupDays < 1 {
		errs = append(errs, apperr.ConfigInvalid("memory.cleanupDays", c.Memory.CleanupDays, "must be >= 1"))
	}
	return errs
}

func (c *Config) validateWorkspace() ValidationErrors {
	var errs ValidationErrors
	if c.Workspace.AutoCleanupTmp && c.Workspace.TmpCleanupDays < 1 {
		errs = append(errs, apperr.ConfigInvalid("workspace.tmpCleanupDays", c.Workspace.TmpCleanupDays, "must be >= 1"))
	}
	return errs
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

func (c *Config) validateLogging() ValidationErrors {
	var errs ValidationErrors
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, apperr.ConfigInvalid("logging.level", c.Logging.Level, "must be one of debug, info, warn, error"))
	}
	return errs
}

func (c *Config) validateExecution() ValidationErrors {
	var errs ValidationErrors
	if c.Execution.MaxConcurrentAgents <= 0 {
		errs = append(errs, apperr.ConfigInvalid("execution.maxConcurrentAgents", c.Execution.MaxConcurrentAgents, "must be a positive integer"))
	}
	if wt := c.Execution.Timeouts.WarningThreshold; wt != 0 && (wt < 0.5 || wt > 0.95) {
		errs = append(errs, apperr.ConfigInvalid("execution.timeouts.warningThreshold", wt, "must be in [0.5, 0.95]"))
	}
	return errs
}

func (c *Config) validateCache() ValidationErrors {
	var errs ValidationErrors
	if !c.Cache.Enabled {
		return errs
	}
	if c.Cache.MaxMemorySize <= 0 {
		errs = append(errs, apperr.ConfigInvalid("cache.maxMemorySize", c.Cache.MaxMemorySize, "must be a positive integer"))
	}
	if c.Cache.MaxSize <= 0 {
		errs = append(errs, apperr.ConfigInvalid("cache.maxSize", c.Cache.MaxSize, "must be a positive integer"))
	}
	if c.Cache.TTLSeconds <= 0 {
		errs = append(errs, apperr.ConfigInvalid("cache.ttl", c.Cache.TTLSeconds, "must be a positive integer"))
	}
	return errs
}
