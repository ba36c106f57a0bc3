package profile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"automatosx/internal/apperr"
)

// TTL is how long a successfully loaded profile stays cached before it is
// reloaded from disk, per spec §3.
const TTL = 5 * time.Minute

type cacheEntry struct {
	profile  *Profile
	loadedAt time.Time
}

// Store loads, validates, and caches agent profiles from a primary
// (project-local) directory and a built-in fallback directory.
type Store struct {
	primaryDir  string
	fallbackDir string
	log         zerolog.Logger

	mu           sync.RWMutex
	cache        map[string]*cacheEntry
	aliases      map[string]string // lowercase displayName -> name
	aliasesBuilt bool

	watcher *fsnotify.Watcher
}

// NewStore creates a Store rooted at primaryDir, falling back to
// fallbackDir when a profile is not found in primaryDir. It starts an
// fsnotify watch on both directories so edits invalidate the cache
// immediately instead of waiting out the TTL.
func NewStore(primaryDir, fallbackDir string, log zerolog.Logger) *Store {
	s := &Store{
		primaryDir:  primaryDir,
		fallbackDir: fallbackDir,
		log:         log.With().Str("component", "profile_store").Logger(),
		cache:       make(map[string]*cacheEntry),
	}
	s.startWatch()
	return s
}

func (s *Store) startWatch() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Warn().Err(err).Msg("profile store: fsnotify unavailable, relying on TTL only")
		return
	}
	for _, dir := range []string{s.primaryDir, s.fallbackDir} {
		if dir == "" {
			continue
		}
		if err := w.Add(dir); err != nil {
			s.log.Debug().Err(err).Str("dir", dir).Msg("profile store: watch failed")
		}
	}
	s.watcher = w
	go s.watchLoop(w)
}

func (s *Store) watchLoop(w *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			name := profileNameFromPath(event.Name)
			if name == "" {
				continue
			}
			s.mu.Lock()
			delete(s.cache, name)
			s.aliasesBuilt = false
			s.mu.Unlock()
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the fsnotify watch, if one is running.
func (s *Store) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func profileNameFromPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != ".yaml" && ext != ".yml" {
		return ""
	}
	return strings.TrimSuffix(base, ext)
}

// Get resolves identifier to a profile: first as an exact profile name,
// then, if that fails, as a case-insensitive displayName alias. Exact
// name matches always win over alias matches.
func (s *Store) Get(identifier string) (*Profile, error) {
	p, err := s.getByName(identifier)
	if err == nil {
		return p, nil
	}

	resolved, ok := s.resolveAlias(identifier)
	if !ok {
		return nil, apperr.ProfileNotFound(identifier)
	}
	return s.getByName(resolved)
}

func (s *Store) getByName(name string) (*Profile, error) {
	s.mu.RLock()
	entry, ok := s.cache[name]
	s.mu.RUnlock()
	if ok && time.Since(entry.loadedAt) < TTL {
		return entry.profile, nil
	}

	p, err := s.load(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[name] = &cacheEntry{profile: p, loadedAt: time.Now()}
	s.mu.Unlock()
	return p, nil
}

func (s *Store) load(name string) (*Profile, error) {
	path, err := s.findFile(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, apperr.ProfileNotFound(name)
	}
	if info.Size() > MaxFileSize {
		return nil, apperr.ResourceTooLarge("profile", name, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.ProfileNotFound(name)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, apperr.ResourceValidationFailed("profile", name, "invalid YAML: "+err.Error())
	}
	if p.Name == "" {
		p.Name = name
	}

	if err := Validate(name, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// findFile tries <name>.yaml then <name>.yml in the primary directory, then
// the fallback directory, in that order. The first readable file wins.
func (s *Store) findFile(name string) (string, error) {
	for _, dir := range []string{s.primaryDir, s.fallbackDir} {
		if dir == "" {
			continue
		}
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", apperr.ProfileNotFound(name)
}

// resolveAlias lazily builds a case-insensitive displayName -> name index
// by enumerating every profile in both directories, then looks up
// identifier in it.
func (s *Store) resolveAlias(identifier string) (string, bool) {
	s.mu.Lock()
	if !s.aliasesBuilt {
		s.aliases = s.buildAliasIndex()
		s.aliasesBuilt = true
	}
	aliases := s.aliases
	s.mu.Unlock()

	name, ok := aliases[strings.ToLower(identifier)]
	return name, ok
}

func (s *Store) buildAliasIndex() map[string]string {
	index := make(map[string]string)
	for _, name := range s.listNamesUnlocked() {
		p, err := s.load(name)
		if err != nil {
			s.log.Warn().Err(err).Str("profile", name).Msg("profile store: skipping invalid profile during alias index build")
			continue
		}
		if p.DisplayName != "" {
			index[strings.ToLower(p.DisplayName)] = name
		}
	}
	return index
}

// List returns the union of profile names found in the primary and
// fallback directories, sorted. Files that fail to parse or validate emit
// a warning but are still listed and do not abort enumeration.
func (s *Store) List() []string {
	s.mu.RLock()
	names := s.listNamesUnlocked()
	s.mu.RUnlock()
	for _, name := range names {
		if _, err := s.load(name); err != nil {
			s.log.Warn().Err(err).Str("profile", name).Msg("profile store: invalid profile file during enumeration")
		}
	}
	return names
}

func (s *Store) listNamesUnlocked() []string {
	seen := make(map[string]bool)
	for _, dir := range []string{s.primaryDir, s.fallbackDir} {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if name := profileNameFromPath(entry.Name()); name != "" {
				seen[name] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invalidate drops every cached profile and alias index entry, forcing the
// next Get to reload from disk.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cacheEntry)
	s.aliasesBuilt = false
}
