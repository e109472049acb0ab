package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Resolver turns a tool name into the executable path autosubsync should run.
//
// Lookup order: explicit override, AUTOSUBSYNC_<NAME>_PATH environment
// variable, the configured search directories, then PATH. When nothing
// matches the bare name is returned so callers can report it.
type Resolver struct {
	SearchPaths []string

	lookPath func(string) (string, error)
	getenv   func(string) string
}

// NewResolver returns a resolver that searches the given directories followed
// by DefaultSearchPaths.
func NewResolver(searchPaths []string) *Resolver {
	paths := make([]string, 0, len(searchPaths)+8)
	for _, dir := range searchPaths {
		if dir = strings.TrimSpace(dir); dir != "" {
			paths = append(paths, dir)
		}
	}
	paths = append(paths, DefaultSearchPaths()...)
	return &Resolver{SearchPaths: paths, lookPath: exec.LookPath, getenv: os.Getenv}
}

// DefaultSearchPaths lists install locations that are commonly missing from
// the PATH a media player is launched with.
func DefaultSearchPaths() []string {
	dirs := []string{}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs,
			filepath.Join(home, ".local", "bin"),
			filepath.Join(home, ".cargo", "bin"),
		)
	}
	return append(dirs, "/usr/local/bin", "/usr/bin", "/opt/homebrew/bin", "/opt/local/bin")
}

// Resolve returns the executable for name. A non-empty override always wins,
// even when it does not exist, so a misconfigured path is reported instead of
// silently replaced.
func (r *Resolver) Resolve(name, override string) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	getenv := r.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if fromEnv := strings.TrimSpace(getenv(envKey(name))); fromEnv != "" {
		return fromEnv
	}
	for _, candidate := range r.candidates(name) {
		if IsExecutable(candidate) {
			return candidate
		}
	}
	lookPath := r.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if found, err := lookPath(name); err == nil {
		return found
	}
	return name
}

func (r *Resolver) candidates(name string) []string {
	out := make([]string, 0, len(r.SearchPaths)+1)
	for _, dir := range r.SearchPaths {
		out = append(out, filepath.Join(dir, name))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		out = append(out, filepath.Join(home, ".local", "pipx", "venvs", name, "bin", name))
	}
	return out
}

func envKey(name string) string {
	upper := strings.ToUpper(name)
	upper = strings.NewReplacer("-", "_", ".", "_").Replace(upper)
	return "AUTOSUBSYNC_" + upper + "_PATH"
}

// IsExecutable reports whether path names a regular file the current user may
// execute. Bare names are looked up on PATH.
func IsExecutable(path string) bool {
	path = strings.TrimSpace(path)
	if path == "" {
		return false
	}
	if !strings.ContainsRune(path, os.PathSeparator) {
		_, err := exec.LookPath(path)
		return err == nil
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}
