package team

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

// TTL is how long a successfully loaded team config stays cached, per
// spec §4.4 (10 minutes — longer than the Profile Store's 5).
const TTL = 10 * time.Minute

// MaxFileSize mirrors the Profile Store's 100 KB cap; team files share the
// same shape and loading path.
const MaxFileSize = 100 * 1024

type cacheEntry struct {
	team     *TeamConfig
	loadedAt time.Time
}

// Store loads, validates, and caches team configs from a primary and
// fallback directory, the same shape as profile.Store.
type Store struct {
	primaryDir  string
	fallbackDir string
	log         zerolog.Logger

	mu    sync.RWMutex
	cache map[string]*cacheEntry

	watcher *fsnotify.Watcher
}

// NewStore creates a Store and starts an fsnotify watch on both
// directories so edits invalidate the cache immediately.
func NewStore(primaryDir, fallbackDir string, log zerolog.Logger) *Store {
	s := &Store{
		primaryDir:  primaryDir,
		fallbackDir: fallbackDir,
		log:         log.With().Str("component", "team_store").Logger(),
		cache:       make(map[string]*cacheEntry),
	}
	s.startWatch()
	return s
}

func (s *Store) startWatch() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Warn().Err(err).Msg("team store: fsnotify unavailable, relying on TTL only")
		return
	}
	for _, dir := range []string{s.primaryDir, s.fallbackDir} {
		if dir == "" {
			continue
		}
		if err := w.Add(dir); err != nil {
			s.log.Debug().Err(err).Str("dir", dir).Msg("team store: watch failed")
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
			name := teamNameFromPath(event.Name)
			if name == "" {
				continue
			}
			s.mu.Lock()
			delete(s.cache, name)
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

func teamNameFromPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != ".yaml" && ext != ".yml" {
		return ""
	}
	return strings.TrimSuffix(base, ext)
}

// Get returns the named team config, loading and caching it on first use
// or TTL expiry.
func (s *Store) Get(name string) (*TeamConfig, error) {
	s.mu.RLock()
	entry, ok := s.cache[name]
	s.mu.RUnlock()
	if ok && time.Since(entry.loadedAt) < TTL {
		return entry.team, nil
	}

	t, err := s.load(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[name] = &cacheEntry{team: t, loadedAt: time.Now()}
	s.mu.Unlock()
	return t, nil
}

func (s *Store) load(name string) (*TeamConfig, error) {
	path, err := s.findFile(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, apperr.TeamNotFound(name)
	}
	if info.Size() > MaxFileSize {
		return nil, apperr.ResourceTooLarge("team", name, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.TeamNotFound(name)
	}

	var t TeamConfig
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, apperr.ResourceValidationFailed("team", name, "invalid YAML: "+err.Error())
	}
	if t.Name == "" {
		t.Name = name
	}

	if err := Validate(name, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

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
	return "", apperr.TeamNotFound(name)
}

// List returns the union of team names found in the primary and fallback
// directories, sorted.
func (s *Store) List() []string {
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
			if name := teamNameFromPath(entry.Name()); name != "" {
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

// Invalidate drops every cached team config.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cacheEntry)
}
