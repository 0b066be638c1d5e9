/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/skillneat/pkg/buildinfo"
	"github.com/fulmenhq/skillneat/pkg/exitcode"
	"github.com/fulmenhq/skillneat/pkg/logger"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skillneat",
		Short: "Integrity and normalization engine for skill corpora",
		Long: `Skillneat keeps a skill corpus consistent: every skill directory holds a
SKILL.md manifest whose header is normalized, whose prose links resolve,
and whose identifiers match the workflow and bundle catalogs.

Examples:
   skillneat index              # List skill identifiers
   skillneat fix --no-op        # Show every repair without writing
   skillneat links              # Replace dangling links with their labels
   skillneat validate           # Check catalogs and docs against the corpus`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("no-op", false, "Report repairs without writing files")
	cmd.PersistentFlags().String("root", ".", "Repository root that anchors the corpus layout")
	cmd.PersistentFlags().String("config", "", "Explicit config file (skips discovery)")
	cmd.PersistentFlags().String("format", "text", "Output format (text|markdown|json)")

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("skillneat {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newIndexCommand())
	cmd.AddCommand(newNormalizeCommand())
	cmd.AddCommand(newQuotesCommand())
	cmd.AddCommand(newLinksCommand())
	cmd.AddCommand(newFixCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newVersionCommand())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// exitError carries the process exit code for a failed command. A nil err
// means the command already reported the failure on stdout.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return exitcode.String(e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCodeFor maps a command error to the process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitcode.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitcode.GeneralError
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var ee *exitError
	if !errors.As(err, &ee) || ee.err != nil {
		logger.Error("Command execution failed", logger.Err(err))
	}
	os.Exit(exitCodeFor(err))
}

func init() {
	// Register all subcommands with the production rootCmd
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	noOp, _ := cmd.Flags().GetBool("no-op")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor && os.Getenv("NO_COLOR") == "",
		JSON:      jsonLogs,
		Component: "skillneat",
		NoOp:      noOp,
	}

	if err := logger.Initialize(config); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}
