package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestValidate_Valid(t *testing.T) {
	p := &Profile{Role: "Writer", Description: "d", SystemPrompt: "s", Temperature: ptr(0.5)}
	assert.NoError(t, Validate("writer", p))
}

func TestValidate_BadName(t *testing.T) {
	p := &Profile{Role: "Writer", Description: "d", SystemPrompt: "s"}
	assert.Error(t, Validate("writer name", p))
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	assert.Error(t, Validate("writer", &Profile{Description: "d", SystemPrompt: "s"}))
	assert.Error(t, Validate("writer", &Profile{Role: "r", SystemPrompt: "s"}))
	assert.Error(t, Validate("writer", &Profile{Role: "r", Description: "d"}))
}

func TestValidate_TemperatureOutOfRange(t *testing.T) {
	p := &Profile{Role: "r", Description: "d", SystemPrompt: "s", Temperature: ptr(1.5)}
	assert.Error(t, Validate("writer", p))
}

func TestValidate_DuplicateStageNames(t *testing.T) {
	p := &Profile{
		Role: "r", Description: "d", SystemPrompt: "s",
		Stages: []Stage{{Name: "draft"}, {Name: "draft"}},
	}
	assert.Error(t, Validate("writer", p))
}
