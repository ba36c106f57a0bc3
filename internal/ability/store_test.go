package ability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAbility(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".md"), []byte(body), 0o644))
}

func TestStore_Get(t *testing.T) {
	dir := t.TempDir()
	writeAbility(t, dir, "research", "do research well")

	s, err := NewStore(dir, "", 0, zerolog.Nop())
	require.NoError(t, err)

	body, err := s.Get("research")
	require.NoError(t, err)
	assert.Equal(t, "do research well", body)
}

func TestStore_InvalidName(t *testing.T) {
	s, err := NewStore(t.TempDir(), "", 0, zerolog.Nop())
	require.NoError(t, err)

	_, err = s.Get("../../etc/passwd")
	assert.Error(t, err)

	_, err = s.Get("rm -rf /")
	assert.Error(t, err)
}

func TestStore_NotFound(t *testing.T) {
	s, err := NewStore(t.TempDir(), "", 0, zerolog.Nop())
	require.NoError(t, err)

	_, err = s.Get("ghost")
	assert.Error(t, err)
}

func TestStore_TooLarge(t *testing.T) {
	dir := t.TempDir()
	big := make([]byte, MaxFileSize+1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "huge.md"), big, 0o644))

	s, err := NewStore(dir, "", 0, zerolog.Nop())
	require.NoError(t, err)

	_, err = s.Get("huge")
	assert.Error(t, err)
}

func TestStore_FallbackDirectory(t *testing.T) {
	primary := t.TempDir()
	fallback := t.TempDir()
	writeAbility(t, fallback, "research", "fallback body")

	s, err := NewStore(primary, fallback, 0, zerolog.Nop())
	require.NoError(t, err)

	body, err := s.Get("research")
	require.NoError(t, err)
	assert.Equal(t, "fallback body", body)
}

func TestGetAbilitiesText_ComposesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeAbility(t, dir, "a", "body-a")
	writeAbility(t, dir, "b", "body-b")

	s, err := NewStore(dir, "", 0, zerolog.Nop())
	require.NoError(t, err)

	text := s.GetAbilitiesText([]string{"a", "b"})
	assert.Contains(t, text, "## Ability: a")
	assert.Contains(t, text, "body-a")
	assert.Contains(t, text, "## Ability: b")
	assert.Less(t, indexOf(text, "## Ability: a"), indexOf(text, "## Ability: b"))
}

func TestGetAbilitiesText_SkipsMissingSilently(t *testing.T) {
	dir := t.TempDir()
	writeAbility(t, dir, "a", "body-a")

	s, err := NewStore(dir, "", 0, zerolog.Nop())
	require.NoError(t, err)

	text := s.GetAbilitiesText([]string{"a", "ghost"})
	assert.Contains(t, text, "body-a")
	assert.NotContains(t, text, "ghost")
}

func TestGetAbilitiesText_EmptyWhenNoneResolved(t *testing.T) {
	s, err := NewStore(t.TempDir(), "", 0, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "", s.GetAbilitiesText([]string{"ghost"}))
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
