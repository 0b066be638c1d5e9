/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package fix

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/skillneat/pkg/logger"
	"github.com/fulmenhq/skillneat/pkg/safeio"
)

// Runner applies a Rewriter to a set of files under Root.
type Runner struct {
	// Root anchors containment checks and the relative paths in results.
	Root string
	// DryRun computes repairs without writing files. Content a pass would
	// have written is kept in memory so later passes on the same Runner see it.
	DryRun bool
	// Concurrency bounds per-file parallelism; values < 2 run sequentially.
	Concurrency int

	mu     sync.Mutex
	staged map[string]string
}

type fileOutcome struct {
	repairs []Repair
	changed bool
	skip    *Skip
}

// Run processes files and returns the aggregate. Per-file failures land in
// Result.Skipped; only context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, rw Rewriter, files []string) (*Result, error) {
	start := time.Now()
	outcomes := make([]fileOutcome, len(files))

	workers := r.Concurrency
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.processFile(rw, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s pass interrupted: %w", rw.Name(), err)
	}

	res := &Result{
		Pass:         rw.Name(),
		DryRun:       r.DryRun,
		FilesScanned: len(files),
		Repairs:      []Repair{},
	}
	for _, out := range outcomes {
		if out.skip != nil {
			res.Skipped = append(res.Skipped, *out.skip)
			continue
		}
		if out.changed {
			res.FilesChanged++
		}
		res.Repairs = append(res.Repairs, out.repairs...)
	}
	res.Duration = time.Since(start)

	logger.Debug(fmt.Sprintf("%s pass finished", rw.Name()),
		logger.Int("files", res.FilesScanned),
		logger.Int("changed", res.FilesChanged),
		logger.Int("repairs", len(res.Repairs)),
		logger.Int("skipped", len(res.Skipped)),
		logger.Duration("elapsed", res.Duration))
	return res, nil
}

func (r *Runner) processFile(rw Rewriter, path string) fileOutcome {
	rel := r.rel(path)

	content, ok := r.stagedContent(path)
	if !ok {
		data, err := safeio.ReadFileContained(r.Root, path)
		if err != nil {
			logger.Debug("skipping unreadable file", logger.Path(rel), logger.Err(err))
			return fileOutcome{skip: &Skip{File: rel, Reason: err.Error()}}
		}
		if !utf8.Valid(data) {
			logger.Debug("skipping non-UTF-8 file", logger.Path(rel))
			return fileOutcome{skip: &Skip{File: rel, Reason: "not valid UTF-8"}}
		}
		content = string(data)
	}

	updated, repairs := rw.Rewrite(path, content)
	if updated == content || len(repairs) == 0 {
		return fileOutcome{}
	}
	for i := range repairs {
		repairs[i].File = rel
		repairs[i].Pass = rw.Name()
	}

	if r.DryRun {
		r.stage(path, updated)
	} else if err := safeio.WriteFilePreservePerms(path, []byte(updated)); err != nil {
		logger.Warn("failed to write repaired file", logger.Path(rel), logger.Err(err))
		return fileOutcome{skip: &Skip{File: rel, Reason: err.Error()}}
	}
	return fileOutcome{repairs: repairs, changed: true}
}

func (r *Runner) stagedContent(path string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.staged[path]
	return content, ok
}

func (r *Runner) stage(path, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.staged == nil {
		r.staged = make(map[string]string)
	}
	r.staged[path] = content
}

func (r *Runner) rel(path string) string {
	if r.Root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(r.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
