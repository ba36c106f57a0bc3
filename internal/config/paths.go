// Package config loads and validates the application configuration
// described in spec §6: providers, memory, workspace, logging, and
// execution sections, overlaid from defaults, an optional file, and
// environment variables via github.com/spf13/viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HiddenDirName is the project-relative hidden directory AutomatosX keeps
// its agents, abilities, teams, workspaces, and cache under.
const HiddenDirName = ".automatosx"

// DefaultConfigDir returns the default configuration directory (~/.automatosx).
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, HiddenDirName), nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultCachePath returns the default response-cache database file path.
func DefaultCachePath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache", "responses.db"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}

	if path == "~" {
		return os.UserHomeDir()
	}

	return path, nil
}
