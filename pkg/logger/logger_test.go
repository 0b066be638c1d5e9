/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, TraceLevel, ParseLevel("trace"))
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("bogus"))
}

func TestInitializeDefaultsComponent(t *testing.T) {
	saved := defaultLogger
	t.Cleanup(func() { defaultLogger = saved })

	require.NoError(t, Initialize(Config{Level: InfoLevel}))
	require.NotNil(t, defaultLogger)
	assert.Equal(t, "skillneat", defaultLogger.config.Component)
}

func TestPrettyFormatSortsFields(t *testing.T) {
	l := New(Config{Level: InfoLevel, Component: "test"}, &bytes.Buffer{})
	entry := LogEntry{
		Time:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Level:     "INFO",
		Message:   "pass complete",
		Component: "test",
		Fields:    map[string]interface{}{"zeta": 1, "alpha": "a"},
	}
	out := l.formatPretty(entry)
	assert.Equal(t, "2025-01-01 12:00:00 [INFO] test: pass complete {alpha=a, zeta=1}", out)
}

func TestNoOpMarker(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, Component: "test", NoOp: true}, &buf)
	l.Log(InfoLevel, "would rewrite")
	assert.Contains(t, buf.String(), "[NO-OP] would rewrite")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: WarnLevel}, &buf)
	l.Log(InfoLevel, "hidden")
	l.Log(ErrorLevel, "shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, JSON: true, Component: "test"}, &buf)
	l.Log(WarnLevel, "skipped file", Path("skills/a/SKILL.md"), Err(errors.New("denied")))

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "WARN", entry.Level)
	assert.Equal(t, "skipped file", entry.Message)
	assert.Equal(t, "skills/a/SKILL.md", entry.Fields["path"])
	assert.Equal(t, "denied", entry.Fields["error"])
}

func TestPackageHelpersUseDefaultLogger(t *testing.T) {
	saved := defaultLogger
	t.Cleanup(func() { defaultLogger = saved })

	var buf bytes.Buffer
	require.NoError(t, Initialize(Config{Level: TraceLevel, Component: "test"}))
	SetOutput(&buf)

	Debug("debug line", Int("n", 2))
	Warn("warn line", Bool("ok", false))
	out := buf.String()
	assert.Contains(t, out, "debug line {n=2}")
	assert.Contains(t, out, "logger_test.go")
	assert.Contains(t, out, "warn line {ok=false}")
}
