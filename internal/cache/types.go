// Package cache implements the Provider Adapter's two-tier response cache
// (spec §4.6): an in-memory LRU hot tier backed by a sqlite-persisted cold
// tier, keyed by a hash of the request that produced the cached response.
package cache

import "time"

// Entry is a single cached provider response, keyed by Key.
type Entry struct {
	Key       string
	Content   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Params is the canonical set of request fields that determine whether two
// requests are cache-equivalent. Field order does not matter; KeyFor hashes
// the canonical JSON encoding.
type Params struct {
	Provider     string   `json:"provider"`
	Prompt       string   `json:"prompt"`
	SystemPrompt string   `json:"systemPrompt"`
	Model        string   `json:"model"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    *int     `json:"maxTokens,omitempty"`
	TopP         *float64 `json:"topP,omitempty"`
}
