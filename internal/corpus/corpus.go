/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package corpus walks the skill tree once and produces the identifier set
// every other pass consults. A skill's identifier is the slash-separated path
// of its directory relative to the corpus root.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fulmenhq/skillneat/pkg/ignore"
	"github.com/fulmenhq/skillneat/pkg/logger"
)

// ErrRootNotFound is returned when the corpus root is missing or not a directory.
var ErrRootNotFound = errors.New("corpus root not found")

// Options tunes a walk.
type Options struct {
	// ManifestName is the file that makes a directory a skill unit.
	ManifestName string
	// Exclude holds doublestar globs matched against root-relative slash paths.
	Exclude []string
	// Ignore prunes directories and files matched by .gitignore/.skillneatignore.
	Ignore *ignore.Matcher
}

// Index is the read-only identifier set for one run.
type Index struct {
	root      string
	ids       map[string]string // id -> manifest path
	ordered   []string
	manifests []string
}

// Build walks root depth-first, skipping hidden directories, and records
// every directory that directly contains the manifest file.
func Build(root string, opts Options) (*Index, error) {
	if opts.ManifestName == "" {
		opts.ManifestName = "SKILL.md"
	}
	ix := &Index{
		root: root,
		ids:  make(map[string]string),
	}
	err := Walk(root, opts, func(path, rel string) {
		if filepath.Base(path) != opts.ManifestName {
			return
		}
		id := filepath.ToSlash(filepath.Dir(rel))
		ix.ids[id] = path
	})
	if err != nil {
		return nil, err
	}

	ix.ordered = make([]string, 0, len(ix.ids))
	for id := range ix.ids {
		ix.ordered = append(ix.ordered, id)
	}
	sort.Strings(ix.ordered)
	ix.manifests = make([]string, 0, len(ix.ordered))
	for _, id := range ix.ordered {
		ix.manifests = append(ix.manifests, ix.ids[id])
	}
	logger.Debug("corpus indexed", logger.Path(root), logger.Int("skills", len(ix.ordered)))
	return ix, nil
}

// Root returns the corpus root the index was built from.
func (ix *Index) Root() string { return ix.root }

// Has reports whether id names a skill unit.
func (ix *Index) Has(id string) bool {
	_, ok := ix.ids[id]
	return ok
}

// Len returns the number of skill units.
func (ix *Index) Len() int { return len(ix.ordered) }

// IDs returns all identifiers in sorted order.
func (ix *Index) IDs() []string {
	return append([]string(nil), ix.ordered...)
}

// Manifests returns the manifest paths, ordered like IDs.
func (ix *Index) Manifests() []string {
	return append([]string(nil), ix.manifests...)
}

// Walk calls fn for every regular file under root that survives the hidden,
// ignore and exclude filters. rel is the path relative to root.
func Walk(root string, opts Options, fn func(path, rel string)) error {
	st, err := os.Stat(root)
	if err != nil || !st.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, the walk goes on.
			logger.Debug("skipping unreadable path", logger.Path(path), logger.Err(err))
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		slashRel := filepath.ToSlash(rel)

		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if opts.Ignore.IsIgnoredDir(path) || excluded(opts.Exclude, slashRel) {
				logger.Trace("pruned directory", logger.Path(slashRel))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if opts.Ignore.IsIgnored(path) || excluded(opts.Exclude, slashRel) {
			return nil
		}
		fn(path, rel)
		return nil
	})
}

func excluded(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// MarkdownFiles lists every .md file under root in walk order.
func MarkdownFiles(root string, opts Options) ([]string, error) {
	var files []string
	err := Walk(root, opts, func(path, _ string) {
		if strings.EqualFold(filepath.Ext(path), ".md") {
			files = append(files, path)
		}
	})
	return files, err
}
