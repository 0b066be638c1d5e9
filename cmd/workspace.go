/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fulmenhq/skillneat/internal/corpus"
	"github.com/fulmenhq/skillneat/internal/report"
	"github.com/fulmenhq/skillneat/pkg/buildinfo"
	"github.com/fulmenhq/skillneat/pkg/config"
	"github.com/fulmenhq/skillneat/pkg/exitcode"
	"github.com/fulmenhq/skillneat/pkg/ignore"
	"github.com/fulmenhq/skillneat/pkg/logger"
)

// workspace is the resolved state shared by every command: configuration,
// layout paths and the corpus index.
type workspace struct {
	cfg       *config.Config
	paths     config.Paths
	walk      corpus.Options
	index     *corpus.Index
	dryRun    bool
	formatter *report.Formatter
}

type globalFlags struct {
	root   string
	config string
	format string
	noOp   bool
}

func readGlobalFlags(fs *pflag.FlagSet) globalFlags {
	var g globalFlags
	g.root, _ = fs.GetString("root")
	g.config, _ = fs.GetString("config")
	g.format, _ = fs.GetString("format")
	g.noOp, _ = fs.GetBool("no-op")
	return g
}

// loadWorkspace reads the global flags, loads configuration and indexes the
// corpus. A missing corpus root is fatal.
func loadWorkspace(cmd *cobra.Command) (*workspace, error) {
	flags := readGlobalFlags(cmd.Flags())

	format, err := report.ParseFormat(flags.format)
	if err != nil {
		return nil, withCode(exitcode.ConfigError, err)
	}

	root, err := filepath.Abs(flags.root)
	if err != nil {
		return nil, withCode(exitcode.FileSystemError, fmt.Errorf("failed to resolve root %s: %w", flags.root, err))
	}

	cfg, sources, err := config.Load(root, flags.config)
	if err != nil {
		return nil, withCode(exitcode.ConfigError, err)
	}
	for _, src := range sources {
		logger.Debug("loaded config", logger.Path(src))
	}

	matcher, err := ignore.NewMatcher(root)
	if err != nil {
		return nil, withCode(exitcode.FileSystemError, fmt.Errorf("failed to load ignore files: %w", err))
	}

	ws := &workspace{
		cfg:   cfg,
		paths: cfg.Resolve(root),
		walk: corpus.Options{
			ManifestName: cfg.Layout.ManifestName,
			Exclude:      cfg.Exclude,
			Ignore:       matcher,
		},
		dryRun:    flags.noOp,
		formatter: report.NewFormatter(format, buildinfo.Version()),
	}

	ws.index, err = corpus.Build(ws.paths.SkillsDir, ws.walk)
	if err != nil {
		if errors.Is(err, corpus.ErrRootNotFound) {
			return nil, withCode(exitcode.FileSystemError, fmt.Errorf("missing skills directory %s", ws.paths.SkillsDir))
		}
		return nil, withCode(exitcode.FileSystemError, err)
	}
	logger.Debug("indexed corpus", logger.Path(ws.paths.SkillsDir), logger.Int("skills", ws.index.Len()))
	return ws, nil
}

// relToRoot renders path relative to the repository root for messages.
func (ws *workspace) relToRoot(path string) string {
	rel, err := filepath.Rel(ws.paths.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
