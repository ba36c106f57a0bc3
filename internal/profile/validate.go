package profile

import (
	"regexp"

	"automatosx/internal/apperr"
)

// MaxFileSize is the profile-file size cap from spec §3 (100 KB).
const MaxFileSize = 100 * 1024

var nameCharset = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks a loaded profile against the constraints in spec §3,
// returning the first violation found wrapped as a validation-failed
// resource error.
func Validate(name string, p *Profile) error {
	if !nameCharset.MatchString(name) {
		return apperr.ResourceValidationFailed("profile", name, "name must match ^[A-Za-z0-9_-]+$")
	}
	if p.Role == "" {
		return apperr.ResourceValidationFailed("profile", name, "role is required")
	}
	if p.Description == "" {
		return apperr.ResourceValidationFailed("profile", name, "description is required")
	}
	if p.SystemPrompt == "" {
		return apperr.ResourceValidationFailed("profile", name, "systemPrompt is required")
	}
	if p.Temperature != nil && (*p.Temperature < 0 || *p.Temperature > 1) {
		return apperr.ResourceValidationFailed("profile", name, "temperature must be in [0, 1]")
	}
	if p.MaxTokens < 0 {
		return apperr.ResourceValidationFailed("profile", name, "maxTokens must be > 0")
	}
	for i, s := range p.Stages {
		if s.Name == "" {
			return apperr.ResourceValidationFailed("profile", name, "stage at index has no name")
		}
		for j := i + 1; j < len(p.Stages); j++ {
			if p.Stages[j].Name == s.Name {
				return apperr.ResourceValidationFailed("profile", name, "duplicate stage name "+s.Name)
			}
		}
		if s.Temperature != nil && (*s.Temperature < 0 || *s.Temperature > 1) {
			return apperr.ResourceValidationFailed("profile", name, "stage "+s.Name+" temperature must be in [0, 1]")
		}
	}
	return nil
}
