// Package profile implements the Profile Store (spec §4.2): loading,
// validating, and caching agent profiles, and resolving display-name
// aliases to profile names.
package profile

// Stage describes one step of a multi-stage agent profile.
type Stage struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	KeyQuestions []string `yaml:"key_questions,omitempty"`
	Outputs      []string `yaml:"outputs,omitempty"`
	Model        string   `yaml:"model,omitempty"`
	Temperature  *float64 `yaml:"temperature,omitempty"`
}

// Personality carries the optional persona attributes an agent's prompts
// may be composed with.
type Personality struct {
	Traits             []string `yaml:"traits,omitempty"`
	Catchphrase        string   `yaml:"catchphrase,omitempty"`
	CommunicationStyle string   `yaml:"communication_style,omitempty"`
	DecisionMaking     string   `yaml:"decision_making,omitempty"`
}

// Orchestration controls whether, and how deeply, an agent may delegate to
// others, and whether it may read or write shared workspaces.
type Orchestration struct {
	CanDelegate        bool     `yaml:"canDelegate,omitempty"`
	CanDelegateTo      []string `yaml:"canDelegateTo,omitempty"`
	MaxDelegationDepth int      `yaml:"maxDelegationDepth,omitempty"`
	CanReadWorkspaces  bool     `yaml:"canReadWorkspaces,omitempty"`
	CanWriteToShared   bool     `yaml:"canWriteToShared,omitempty"`
}

// AbilitySelection controls which abilities are loaded into context: all of
// them, a fixed core set, or a set chosen by keyword match against the
// task.
type AbilitySelection struct {
	LoadAll   *bool               `yaml:"loadAll,omitempty"`
	Core      []string            `yaml:"core,omitempty"`
	TaskBased map[string][]string `yaml:"taskBased,omitempty"`
}

// Profile is an agent profile as described in spec §6.
type Profile struct {
	Name             string            `yaml:"name,omitempty"`
	DisplayName      string            `yaml:"displayName,omitempty"`
	Role             string            `yaml:"role"`
	Description      string            `yaml:"description"`
	SystemPrompt     string            `yaml:"systemPrompt"`
	Abilities        []string          `yaml:"abilities,omitempty"`
	Team             string            `yaml:"team,omitempty"`
	Stages           []Stage           `yaml:"stages,omitempty"`
	Personality      *Personality      `yaml:"personality,omitempty"`
	ThinkingPatterns []string          `yaml:"thinking_patterns,omitempty"`
	Provider         string            `yaml:"provider,omitempty"`
	Model            string            `yaml:"model,omitempty"`
	Temperature      *float64          `yaml:"temperature,omitempty"`
	MaxTokens        int               `yaml:"maxTokens,omitempty"`
	Tags             []string          `yaml:"tags,omitempty"`
	Version          string            `yaml:"version,omitempty"`
	Metadata         map[string]any    `yaml:"metadata,omitempty"`
	Orchestration    *Orchestration    `yaml:"orchestration,omitempty"`
	AbilitySelection *AbilitySelection `yaml:"abilitySelection,omitempty"`
	Dependencies     []string          `yaml:"dependencies,omitempty"`
	Parallel         bool              `yaml:"parallel,omitempty"`
}
