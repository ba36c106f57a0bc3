package provider

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"automatosx/internal/apperr"
	"automatosx/internal/config"
)

// registeredProvider pairs an adapter with the priority it was configured
// with, so the router can pick the lowest-priority-integer available one.
type registeredProvider struct {
	adapter  Adapter
	priority int
	enabled  bool
}

// Registry is the Provider Registry & Router from spec §4.5: it holds one
// Adapter per configured provider and resolves a request to a concrete
// adapter, preferring an explicitly named provider and otherwise falling
// back through the remaining enabled providers in priority order.
type Registry struct {
	providers map[string]*registeredProvider
	log       zerolog.Logger
}

// NewRegistry builds an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		providers: make(map[string]*registeredProvider),
		log:       log.With().Str("component", "provider_registry").Logger(),
	}
}

// Register adds an adapter under its own Identifier(), along with the
// priority and enabled flag from its provider config.
func (r *Registry) Register(adapter Adapter, cfg config.ProviderConfig) {
	r.providers[adapter.Identifier()] = &registeredProvider{
		adapter:  adapter,
		priority: cfg.Priority,
		enabled:  cfg.Enabled,
	}
}

// Get returns the adapter registered under identifier, or a not-found
// error.
func (r *Registry) Get(identifier string) (Adapter, error) {
	p, ok := r.providers[identifier]
	if !ok {
		return nil, apperr.ProviderNotFound(identifier)
	}
	return p.adapter, nil
}

// availableProviders returns every enabled, currently-available adapter
// sorted by ascending priority (lowest integer first, per spec §4.5).
func (r *Registry) availableProviders(ctx context.Context) []*registeredProvider {
	var out []*registeredProvider
	for _, p := range r.providers {
		if !p.enabled {
			continue
		}
		if !p.adapter.IsAvailable(ctx) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].priority < out[j].priority })
	return out
}

// Select resolves a request to a concrete adapter. If preferred names a
// registered, enabled, and available provider it wins outright; otherwise
// the lowest-priority available provider is chosen. An empty preferred
// value skips straight to priority selection.
func (r *Registry) Select(ctx context.Context, preferred string) (Adapter, error) {
	if preferred != "" {
		if p, ok := r.providers[preferred]; ok && p.enabled && p.adapter.IsAvailable(ctx) {
			return p.adapter, nil
		}
		r.log.Warn().Str("preferred", preferred).Msg("preferred provider unavailable, falling back")
	}

	available := r.availableProviders(ctx)
	if len(available) == 0 {
		return nil, apperr.ProviderNoneAvailable(r.attemptedIdentifiers())
	}
	return available[0].adapter, nil
}

// SelectChain resolves a request against a primary provider identifier and
// an ordered fallback chain, returning the first available one in that
// order before falling back to priority selection across everything else.
func (r *Registry) SelectChain(ctx context.Context, chain []string) (Adapter, error) {
	for _, identifier := range chain {
		p, ok := r.providers[identifier]
		if !ok || !p.enabled {
			continue
		}
		if p.adapter.IsAvailable(ctx) {
			return p.adapter, nil
		}
	}
	return r.Select(ctx, "")
}

func (r *Registry) attemptedIdentifiers() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every registered provider identifier, sorted.
func (r *Registry) List() []string {
	return r.attemptedIdentifiers()
}
