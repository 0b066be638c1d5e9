// Package logger is the leveled diagnostic logger used by skillneat commands.
// Repair and validation output goes to stdout through the commands; this
// logger only carries diagnostics and always writes to stderr by default.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Level represents the severity level of log messages
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = map[Level]string{
	TraceLevel: "TRACE",
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

// ANSI colors keyed by level name.
var levelColors = map[string]string{
	"TRACE": "37",
	"DEBUG": "36",
	"INFO":  "32",
	"WARN":  "33",
	"ERROR": "31",
}

// String returns the string representation of the level
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel maps a flag value to a Level. Unknown values fall back to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Config holds the logger configuration
type Config struct {
	Level     Level
	UseColor  bool
	JSON      bool
	Component string
	// NoOp marks every line so dry runs are obvious in captured logs.
	NoOp bool
}

// Logger writes formatted entries to an underlying *log.Logger.
type Logger struct {
	config Config
	logger *log.Logger
}

var defaultLogger *Logger

// callerSkip points past Log and the package-level helper at the user's call site.
const callerSkip = 3

// Initialize sets up the default logger
func Initialize(config Config) error {
	if config.Component == "" {
		config.Component = "skillneat"
	}
	defaultLogger = New(config, os.Stderr)
	return nil
}

// New returns a standalone logger writing to w.
func New(config Config, w io.Writer) *Logger {
	return &Logger{config: config, logger: log.New(w, "", 0)}
}

// Log writes a log message
func (l *Logger) Log(level Level, message string, fields ...Field) {
	if level < l.config.Level {
		return
	}

	entry := LogEntry{
		Time:      time.Now(),
		Level:     level.String(),
		Message:   message,
		Component: l.config.Component,
	}
	if len(fields) > 0 {
		entry.Fields = make(map[string]interface{}, len(fields))
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	if level <= DebugLevel {
		if _, file, line, ok := runtime.Caller(callerSkip); ok {
			entry.File = file
			entry.Line = line
		}
	}

	if l.config.JSON {
		b, err := json.Marshal(entry)
		if err != nil {
			l.logger.Printf("%s [ERROR] failed to encode log entry: %v", entry.Time.Format(time.RFC3339), err)
			return
		}
		l.logger.Print(string(b))
		return
	}
	l.logger.Print(l.formatPretty(entry))
}

func (l *Logger) paint(code, s string) string {
	if !l.config.UseColor {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// formatPretty renders an entry as a single human-readable line. Fields are
// printed in key order so output is stable across runs.
func (l *Logger) formatPretty(entry LogEntry) string {
	var b strings.Builder

	b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
	level := entry.Level
	if code, ok := levelColors[level]; ok {
		level = l.paint(code, level)
	}
	fmt.Fprintf(&b, " [%s]", level)

	if entry.Component != "" {
		fmt.Fprintf(&b, " %s:", entry.Component)
	}
	if l.config.NoOp {
		b.WriteString(" " + l.paint("35", "[NO-OP]"))
	}
	b.WriteString(" " + entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
		b.WriteString(" {" + strings.Join(parts, ", ") + "}")
	}

	if entry.File != "" {
		fmt.Fprintf(&b, " (%s:%d)", entry.File, entry.Line)
	}
	return b.String()
}

// Field represents a structured field in a log entry
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Path creates a field for a file or directory path.
func Path(value string) Field {
	return Field{Key: "path", Value: value}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// LogEntry represents a log entry
type LogEntry struct {
	Time      time.Time              `json:"time"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	File      string                 `json:"file,omitempty"`
	Line      int                    `json:"line,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func logDefault(level Level, message string, fields []Field) {
	if defaultLogger != nil {
		defaultLogger.Log(level, message, fields...)
	}
}

func Trace(message string, fields ...Field) { logDefault(TraceLevel, message, fields) }
func Debug(message string, fields ...Field) { logDefault(DebugLevel, message, fields) }
func Warn(message string, fields ...Field)  { logDefault(WarnLevel, message, fields) }

// Info logs at info level. Before Initialize it still reaches stderr.
func Info(message string, fields ...Field) { logEarly(InfoLevel, message, fields) }

// Error logs at error level. Before Initialize it still reaches stderr, so
// flag parsing failures are never silent.
func Error(message string, fields ...Field) { logEarly(ErrorLevel, message, fields) }

func logEarly(level Level, message string, fields []Field) {
	if defaultLogger == nil {
		line := fmt.Sprintf("[%s] skillneat: %s", level, message)
		for _, f := range fields {
			line += fmt.Sprintf(" %s=%v", f.Key, f.Value)
		}
		fmt.Fprintln(os.Stderr, line)
		return
	}
	defaultLogger.Log(level, message, fields...)
}

// SetOutput sets the output writer for the logger
func SetOutput(w io.Writer) {
	if defaultLogger != nil {
		defaultLogger.logger.SetOutput(w)
	}
}
