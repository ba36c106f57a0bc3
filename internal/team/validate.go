package team

import "automatosx/internal/apperr"

// providerAliases maps every recognized provider identifier (including
// aliases) to its canonical form, per spec §6's closed set
// {claude, claude-code, gemini, gemini-cli, codex, openai}.
var providerAliases = map[string]string{
	"claude":      "claude-code",
	"claude-code": "claude-code",
	"gemini":      "gemini-cli",
	"gemini-cli":  "gemini-cli",
	"codex":       "codex",
	"openai":      "openai",
}

// CanonicalProvider resolves identifier through the alias table. ok is
// false when identifier is not a recognized provider.
func CanonicalProvider(identifier string) (string, bool) {
	canonical, ok := providerAliases[identifier]
	return canonical, ok
}

// Validate checks a loaded team config against spec §3/§6: name required,
// primary provider mandatory, and every referenced provider identifier
// (primary, fallback, fallbackChain) recognized.
func Validate(name string, t *TeamConfig) error {
	if t.Name == "" {
		return apperr.ResourceValidationFailed("team", name, "name is required")
	}
	if t.DisplayName == "" {
		return apperr.ResourceValidationFailed("team", name, "displayName is required")
	}
	if t.Description == "" {
		return apperr.ResourceValidationFailed("team", name, "description is required")
	}
	if t.Provider.Primary == "" {
		return apperr.ResourceValidationFailed("team", name, "provider.primary is required")
	}
	if _, ok := CanonicalProvider(t.Provider.Primary); !ok {
		return apperr.ResourceValidationFailed("team", name, "provider.primary is not a recognized provider: "+t.Provider.Primary)
	}
	if t.Provider.Fallback != "" {
		if _, ok := CanonicalProvider(t.Provider.Fallback); !ok {
			return apperr.ResourceValidationFailed("team", name, "provider.fallback is not a recognized provider: "+t.Provider.Fallback)
		}
	}
	for _, id := range t.Provider.FallbackChain {
		if _, ok := CanonicalProvider(id); !ok {
			return apperr.ResourceValidationFailed("team", name, "provider.fallbackChain has an unrecognized provider: "+id)
		}
	}
	return nil
}
