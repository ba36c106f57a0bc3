// Package ability implements the Abilities Store (spec §4.3): loading the
// text body of named abilities, with an LRU cache and charset-validated
// names so ability names can never be used for path traversal or shell
// metacharacter injection, even though a body is never executed.
package ability

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"automatosx/internal/apperr"
)

// MaxFileSize is the ability-file size cap from spec §3 (500 KB).
const MaxFileSize = 500 * 1024

// DefaultCacheSize bounds the number of ability bodies kept in memory.
const DefaultCacheSize = 256

var nameCharset = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store resolves ability names to their markdown body text, backed by a
// primary and fallback directory and an LRU-by-name cache.
type Store struct {
	primaryDir  string
	fallbackDir string
	cache       *lru.Cache[string, string]
	log         zerolog.Logger
}

// NewStore creates a Store. cacheSize <= 0 uses DefaultCacheSize.
func NewStore(primaryDir, fallbackDir string, cacheSize int, log zerolog.Logger) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("ability store: create LRU cache: %w", err)
	}
	return &Store{
		primaryDir:  primaryDir,
		fallbackDir: fallbackDir,
		cache:       cache,
		log:         log.With().Str("component", "ability_store").Logger(),
	}, nil
}

// Get returns the body text of the named ability, loading and caching it on
// first use.
func (s *Store) Get(name string) (string, error) {
	if !nameCharset.MatchString(name) {
		return "", apperr.ResourceValidationFailed("ability", name, "name must match ^[A-Za-z0-9_-]+$")
	}

	if body, ok := s.cache.Get(name); ok {
		return body, nil
	}

	body, err := s.load(name)
	if err != nil {
		return "", err
	}
	s.cache.Add(name, body)
	return body, nil
}

func (s *Store) load(name string) (string, error) {
	path, err := s.findFile(name)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", apperr.AbilityNotFound(name)
	}
	if info.Size() > MaxFileSize {
		return "", apperr.ResourceTooLarge("ability", name, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperr.AbilityNotFound(name)
	}
	return string(data), nil
}

func (s *Store) findFile(name string) (string, error) {
	for _, dir := range []string{s.primaryDir, s.fallbackDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, name+".md")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", apperr.AbilityNotFound(name)
}

// GetAbilitiesText concatenates the bodies of every ability in names, in
// input order, each preceded by a "## Ability: <name>" header and
// separated by a horizontal rule. Missing or invalid abilities are skipped
// silently (logged as warnings); the result is empty when none resolved.
func (s *Store) GetAbilitiesText(names []string) string {
	var sections []string
	for _, name := range names {
		body, err := s.Get(name)
		if err != nil {
			s.log.Warn().Err(err).Str("ability", name).Msg("ability store: skipping unresolved ability")
			continue
		}
		sections = append(sections, fmt.Sprintf("## Ability: %s\n\n%s", name, body))
	}
	if len(sections) == 0 {
		return ""
	}
	return strings.Join(sections, "\n\n---\n\n")
}

// Invalidate drops every cached ability body.
func (s *Store) Invalidate() {
	s.cache.Purge()
}
