// Package workdir finds the workspace directory that holds .smartsearch/,
// so commands run from a subdirectory share the parent's state.
package workdir

import (
	"os"
	"path/filepath"
	"strings"
)

// StateDir is the per-workspace state directory
const StateDir = ".smartsearch"

// rootFile redirects a directory to another workspace. Its content is a path,
// relative paths resolve against the directory holding the file.
const rootFile = ".smartsearch-root"

// ResolveBaseDir walks up from start and returns the first directory that
// has a redirect file (its target) or a .smartsearch directory. With
// neither found, start is returned so a new workspace is created there.
func ResolveBaseDir(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	for {
		if target, ok := readRoot(dir); ok {
			return target
		}
		if fi, err := os.Stat(filepath.Join(dir, StateDir)); err == nil && fi.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func readRoot(dir string) (string, bool) {
	content, err := os.ReadFile(filepath.Join(dir, rootFile))
	if err != nil {
		return "", false
	}
	target := strings.TrimSpace(string(content))
	if target == "" {
		return "", false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	return filepath.Clean(target), true
}
