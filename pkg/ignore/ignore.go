// Package ignore provides gitignore-based directory filtering for corpus walks.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileName is the repo-level override file read in addition to .gitignore.
const FileName = ".skillneatignore"

// Matcher answers ignore questions for paths under a single root.
type Matcher struct {
	root    string
	matcher gitignore.Matcher
}

// NewMatcher layers ignore patterns for root:
// 1. built-in defaults (.git, node_modules)
// 2. .gitignore files, global excludes and .git/info/exclude
// 3. root/.skillneatignore
func NewMatcher(root string) (*Matcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var patterns []gitignore.Pattern
	for _, p := range []string{".git/", "node_modules/"} {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	if gitPatterns, err := gitignore.ReadPatterns(osfs.New(abs), nil); err == nil {
		patterns = append(patterns, gitPatterns...)
	}

	if extra, err := readIgnoreFile(filepath.Join(abs, FileName)); err == nil {
		for _, p := range extra {
			patterns = append(patterns, gitignore.ParsePattern(p, nil))
		}
	}

	return &Matcher{root: abs, matcher: gitignore.NewMatcher(patterns)}, nil
}

func readIgnoreFile(path string) ([]string, error) {
	// #nosec G304 -- fixed file name under the corpus root
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// IsIgnored reports whether the file at path is ignored.
func (m *Matcher) IsIgnored(path string) bool {
	return m.match(path, false)
}

// IsIgnoredDir reports whether the directory at path is ignored and should be pruned.
func (m *Matcher) IsIgnoredDir(path string) bool {
	return m.match(path, true)
}

func (m *Matcher) match(path string, isDir bool) bool {
	if m == nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(m.root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	parts := splitPath(filepath.ToSlash(rel))
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

func splitPath(path string) []string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" && p != "." {
			out = append(out, p)
		}
	}
	return out
}
