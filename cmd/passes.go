/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/skillneat/internal/corpus"
	"github.com/fulmenhq/skillneat/internal/fix"
	"github.com/fulmenhq/skillneat/internal/report"
	"github.com/fulmenhq/skillneat/pkg/config"
	"github.com/fulmenhq/skillneat/pkg/exitcode"
	"github.com/fulmenhq/skillneat/pkg/logger"
)

func newNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Normalize manifest names and descriptions",
		Long: `Rewrite each manifest header so the name field equals the skill's
directory name and the description fits metadata.max_description characters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPasses(cmd, "normalize", fix.PassMetadata)
		},
	}
}

func newQuotesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "quotes",
		Short: "Repair quoting of manifest descriptions",
		Long: `Re-serialize each manifest's description as a strictly escaped
double-quoted string. Values already in that form are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPasses(cmd, "quotes", fix.PassQuotes)
		},
	}
}

func newLinksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "links",
		Short: "Replace dangling local links with their label",
		Long: `Scan markdown prose for inline links whose local target does not
exist and replace each with its label text. Web, mail and anchor links
are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPasses(cmd, "links", fix.PassLinks)
		},
	}
}

func newFixCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Run normalize, quotes and links in one go",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPasses(cmd, "fix", fix.PassMetadata, fix.PassQuotes, fix.PassLinks)
		},
	}
	cmd.Flags().Bool("validate", false, "Validate references after repairing")
	return cmd
}

// rewriterFor builds the pass and the files it covers.
func rewriterFor(ws *workspace, pass fix.PassName) (fix.Rewriter, []string, error) {
	switch pass {
	case fix.PassMetadata:
		return fix.NewMetadataNormalizer(ws.cfg.Metadata), ws.index.Manifests(), nil
	case fix.PassQuotes:
		return fix.NewQuoteRepairer(ws.cfg.Metadata.DescriptionField), ws.index.Manifests(), nil
	case fix.PassLinks:
		rw := fix.NewLinkRepairer(ws.cfg.Links)
		if ws.cfg.Links.Scope == config.LinkScopeManifests {
			return rw, ws.index.Manifests(), nil
		}
		files, err := corpus.MarkdownFiles(ws.paths.SkillsDir, ws.walk)
		return rw, files, err
	}
	return nil, nil, fmt.Errorf("unknown pass %q", pass)
}

func runPasses(cmd *cobra.Command, command string, passes ...fix.PassName) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	runner := &fix.Runner{
		Root:        ws.paths.SkillsDir,
		DryRun:      ws.dryRun,
		Concurrency: ws.cfg.Concurrency,
	}
	run := &report.Run{
		Command:        command,
		DryRun:         ws.dryRun,
		ScanDir:        ws.relToRoot(ws.paths.SkillsDir),
		NarrativeLabel: ws.cfg.Layout.NarrativeDoc,
	}
	for _, pass := range passes {
		rw, files, err := rewriterFor(ws, pass)
		if err != nil {
			return withCode(exitcode.FileSystemError, err)
		}
		res, err := runner.Run(cmd.Context(), rw, files)
		if err != nil {
			return err
		}
		for _, s := range res.Skipped {
			logger.Debug("skipped file", logger.Path(s.File), logger.String("reason", s.Reason))
		}
		run.Passes = append(run.Passes, res)
	}

	validate, _ := cmd.Flags().GetBool("validate")
	if validate {
		rep, err := validateReferences(ws)
		if err != nil {
			return err
		}
		run.Validation = rep
	}

	if err := ws.formatter.Write(cmd.OutOrStdout(), run); err != nil {
		return err
	}
	if run.Validation != nil && !run.Validation.Passed() {
		return withCode(exitcode.GeneralError, nil)
	}
	return nil
}
