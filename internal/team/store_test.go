package team

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTeam(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0o644))
}

const validTeam = `
name: editorial
displayName: Editorial Team
description: Writes and reviews content
provider:
  primary: claude
  fallback: codex
`

func TestStore_Get(t *testing.T) {
	dir := t.TempDir()
	writeTeam(t, dir, "editorial", validTeam)

	s := NewStore(dir, "", zerolog.Nop())
	defer s.Close()

	team, err := s.Get("editorial")
	require.NoError(t, err)
	assert.Equal(t, "editorial", team.Name)
	assert.Equal(t, "claude", team.Provider.Primary)
}

func TestStore_NotFound(t *testing.T) {
	s := NewStore(t.TempDir(), "", zerolog.Nop())
	defer s.Close()

	_, err := s.Get("ghost")
	assert.Error(t, err)
}

func TestStore_InvalidProviderFails(t *testing.T) {
	dir := t.TempDir()
	writeTeam(t, dir, "bad", `
name: bad
displayName: Bad Team
description: uses an unknown provider
provider:
  primary: chatgpt-5
`)

	s := NewStore(dir, "", zerolog.Nop())
	defer s.Close()

	_, err := s.Get("bad")
	assert.Error(t, err)
}

func TestStore_List(t *testing.T) {
	dir := t.TempDir()
	writeTeam(t, dir, "editorial", validTeam)
	writeTeam(t, dir, "engineering", validTeam)

	s := NewStore(dir, "", zerolog.Nop())
	defer s.Close()

	assert.Equal(t, []string{"editorial", "engineering"}, s.List())
}

func TestCanonicalProvider_Aliases(t *testing.T) {
	claude, ok := CanonicalProvider("claude")
	assert.True(t, ok)
	claudeCode, ok := CanonicalProvider("claude-code")
	assert.True(t, ok)
	assert.Equal(t, claude, claudeCode)

	_, ok = CanonicalProvider("unknown-provider")
	assert.False(t, ok)
}
