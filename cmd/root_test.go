/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/skillneat/pkg/exitcode"
)

func loggerFlags(level string, jsonLogs, noColor, noOp bool) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", level, "")
	cmd.Flags().Bool("json", jsonLogs, "")
	cmd.Flags().Bool("no-color", noColor, "")
	cmd.Flags().Bool("no-op", noOp, "")
	return cmd
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		json    bool
		noColor bool
		noOp    bool
	}{
		{"default", "info", false, false, false},
		{"debug", "debug", false, false, false},
		{"invalid level", "invalid", false, false, false},
		{"json", "info", true, false, false},
		{"no color", "info", false, true, false},
		{"no-op", "info", false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				initializeLogger(loggerFlags(tt.level, tt.json, tt.noColor, tt.noOp))
			})
		})
	}
}

func TestRootCmd_Help(t *testing.T) {
	cmd := newRootCommand()
	registerSubcommands(cmd)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "skillneat")
	assert.Contains(t, output, "skill corpus consistent")
	for _, sub := range []string{"index", "normalize", "quotes", "links", "fix", "validate", "version"} {
		assert.Contains(t, output, sub)
	}
}

func TestRootCmd_VersionFlag(t *testing.T) {
	cmd := newRootCommand()
	registerSubcommands(cmd)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "skillneat ")
}

func TestRootCmd_InvalidFlag(t *testing.T) {
	cmd := newRootCommand()
	registerSubcommands(cmd)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--invalid-flag"})
	assert.Error(t, cmd.Execute())
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, exitcode.Success, exitCodeFor(nil))
	assert.Equal(t, exitcode.GeneralError, exitCodeFor(errors.New("boom")))
	assert.Equal(t, exitcode.ConfigError, exitCodeFor(withCode(exitcode.ConfigError, errors.New("bad"))))

	silent := withCode(exitcode.GeneralError, nil)
	assert.Equal(t, exitcode.GeneralError, exitCodeFor(silent))
	assert.Equal(t, "General error", silent.Error())

	inner := errors.New("inner")
	assert.ErrorIs(t, withCode(exitcode.FileSystemError, inner), inner)
}

func TestRootCmd_Registered(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("rootCmd.Version should not be empty")
	}
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["validate"])
	assert.True(t, names["fix"])
}
