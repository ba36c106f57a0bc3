// Package workspace implements the Path & Workspace Resolver: project-root
// detection, boundary-checked path resolution, and per-agent workspace
// directory creation, per spec §4.1.
package workspace

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"automatosx/internal/apperr"
	"automatosx/internal/config"
)

var windowsPathPattern = regexp.MustCompile(`^[A-Za-z]:\\|\\\\`)

// rootMarkers are checked in priority order when walking upward from the
// start directory. The first match wins.
var rootMarkers = []string{
	".git",             // version control
	"package.json",     // JS package manifest
	"requirements.txt", // Python
	"pyproject.toml",   // Python
	"Cargo.toml",       // Rust
	"go.mod",           // Go
	"pom.xml",          // Java (Maven)
	"build.gradle",     // Java (Gradle)
	config.HiddenDirName,
}

var agentNameSanitizer = regexp.MustCompile(`[^A-Za-z0-9-]`)

// SanitizeAgentName replaces every character not in [A-Za-z0-9-] with a
// hyphen and lowercases the result, per §4.1.
func SanitizeAgentName(name string) string {
	return strings.ToLower(agentNameSanitizer.ReplaceAllString(name, "-"))
}

// Resolver resolves user-supplied paths and agent workspace directories
// against a single detected project root.
type Resolver struct {
	projectRoot string
	hiddenDir   string
}

// NewResolver walks upward from startDir looking for the markers in
// rootMarkers, in priority order, and returns a Resolver bound to the
// directory containing the first one found. If none is found, startDir
// itself is used as the root.
func NewResolver(startDir string) (*Resolver, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return nil, apperr.PathInvalid(startDir, err.Error())
	}
	root := detectProjectRoot(abs)
	return &Resolver{projectRoot: root, hiddenDir: config.HiddenDirName}, nil
}

// detectProjectRoot walks upward from dir, checking every marker at each
// level before moving up, so priority order is respected at the closest
// matching directory rather than the closest marker kind.
func detectProjectRoot(dir string) string {
	for current := dir; ; {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
				return current
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dir
		}
		current = parent
	}
}

// ProjectRoot returns the detected project root.
func (r *Resolver) ProjectRoot() string {
	return r.projectRoot
}

// isInside reports whether p lies within base per the boundary check in
// §4.1: canonical equality, or base+separator as a prefix.
func isInside(p, base string) bool {
	p = filepath.Clean(p)
	base = filepath.Clean(base)
	if p == base {
		return true
	}
	return strings.HasPrefix(p, base+string(filepath.Separator))
}

// ResolvePath produces an absolute path guaranteed to lie within the
// project root, or fails with a path-traversal error.
func (r *Resolver) ResolvePath(userPath string) (string, error) {
	if runtime.GOOS != "windows" && windowsPathPattern.MatchString(userPath) {
		return "", apperr.PathInvalid(userPath, "Windows-style path on a non-Windows host")
	}

	var abs string
	if filepath.IsAbs(userPath) {
		abs = filepath.Clean(userPath)
	} else {
		abs = filepath.Clean(filepath.Join(r.projectRoot, userPath))
	}
	if !isInside(abs, r.projectRoot) {
		return "", apperr.PathTraversal(userPath, r.projectRoot)
	}
	return abs, nil
}

// AgentWorkspace returns <projectRoot>/<hidden>/workspaces/<sanitizedName>,
// creating it with owner-only permissions on POSIX platforms if it does not
// already exist.
func (r *Resolver) AgentWorkspace(agentName string) (string, error) {
	sanitized := SanitizeAgentName(agentName)
	ws := filepath.Join(r.projectRoot, r.hiddenDir, "workspaces", sanitized)
	if !isInside(ws, r.projectRoot) {
		return "", apperr.PathTraversal(agentName, r.projectRoot)
	}
	if err := os.MkdirAll(ws, 0o700); err != nil {
		return "", apperr.WorkspaceCreationFailed(ws, err)
	}
	return ws, nil
}

// SharedSessionWorkspace returns the shared, session-scoped workspace
// directory for sessionID, creating it if necessary.
func (r *Resolver) SharedSessionWorkspace(sessionID string) (string, error) {
	ws := filepath.Join(r.projectRoot, r.hiddenDir, "workspaces", "shared", "sessions", sessionID)
	if err := os.MkdirAll(ws, 0o700); err != nil {
		return "", apperr.WorkspaceCreationFailed(ws, err)
	}
	return ws, nil
}

// SharedPersistentWorkspace returns the shared, persistent (cross-session)
// workspace directory, creating it if necessary.
func (r *Resolver) SharedPersistentWorkspace() (string, error) {
	ws := filepath.Join(r.projectRoot, r.hiddenDir, "workspaces", "shared", "persistent")
	if err := os.MkdirAll(ws, 0o700); err != nil {
		return "", apperr.WorkspaceCreationFailed(ws, err)
	}
	return ws, nil
}

// FileInfo describes a single entry returned by ListFiles.
type FileInfo struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime int64
}

// ListFiles lists the entries of the directory at relativePath, resolved
// and boundary-checked against the project root.
func (r *Resolver) ListFiles(relativePath string) ([]FileInfo, error) {
	abs, err := r.ResolvePath(relativePath)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, apperr.PathNotFound(abs)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(relativePath, entry.Name()),
			IsDir:   entry.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime().Unix(),
		})
	}
	return files, nil
}

// ReadFile reads the file at relativePath, resolved and boundary-checked
// against the project root.
func (r *Resolver) ReadFile(relativePath string) ([]byte, error) {
	abs, err := r.ResolvePath(relativePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, apperr.PathNotFound(abs)
	}
	return data, nil
}

// WriteFile writes content to the file at relativePath, resolved and
// boundary-checked against the project root, creating parent directories
// as needed.
func (r *Resolver) WriteFile(relativePath string, content []byte) error {
	abs, err := r.ResolvePath(relativePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return apperr.WorkspaceCreationFailed(filepath.Dir(abs), err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return apperr.WorkspacePermissionDenied(abs, err)
	}
	return nil
}
