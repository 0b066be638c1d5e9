/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/skillneat/internal/catalog"
	"github.com/fulmenhq/skillneat/internal/refcheck"
	"github.com/fulmenhq/skillneat/internal/report"
	"github.com/fulmenhq/skillneat/pkg/exitcode"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check catalogs and the narrative document against the corpus",
		Long: `Verify that every skill named by the bundle catalog, every skill
recommended by a workflow step, every bundle a workflow relates to, and
every skill linked from the narrative document exists.

Prints each broken reference and exits 1 when any are found.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	rep, err := validateReferences(ws)
	if err != nil {
		return err
	}

	run := &report.Run{
		Command:        "validate",
		Validation:     rep,
		NarrativeLabel: ws.cfg.Layout.NarrativeDoc,
	}
	if err := ws.formatter.Write(cmd.OutOrStdout(), run); err != nil {
		return err
	}
	if !rep.Passed() {
		return withCode(exitcode.GeneralError, nil)
	}
	return nil
}

func validateReferences(ws *workspace) (*refcheck.Report, error) {
	in := refcheck.Inputs{
		Skills:         ws.index,
		SkillsDir:      ws.paths.SkillsDir,
		Workflows:      ws.paths.Workflows,
		Bundles:        ws.paths.Bundles,
		Narrative:      ws.paths.Narrative,
		NarrativeLabel: ws.cfg.Layout.NarrativeDoc,
	}
	opts := refcheck.Options{
		Schema:       ws.cfg.Validate.Schema,
		DuplicateIDs: ws.cfg.Validate.DuplicateIDs,
	}
	rep, err := refcheck.Validate(in, opts)
	switch {
	case err == nil:
		return rep, nil
	case errors.Is(err, catalog.ErrCatalogNotFound):
		return nil, withCode(exitcode.FileSystemError, err)
	default:
		return nil, withCode(exitcode.ValidationError, err)
	}
}
