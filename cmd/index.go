/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

func newIndexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "List the skill identifiers in the corpus",
		Long: `Walk the skills directory and print every skill identifier: the
slash-separated path of each directory holding a manifest file.`,
		Args: cobra.NoArgs,
		RunE: runIndex,
	}
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	return ws.formatter.WriteIDs(cmd.OutOrStdout(), ws.relToRoot(ws.index.Root()), ws.index.IDs())
}
