/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package fix

import (
	"time"
)

// PassName identifies a mutating pass
type PassName string

const (
	PassMetadata PassName = "metadata"
	PassQuotes   PassName = "quotes"
	PassLinks    PassName = "links"
)

// Repair is a single change a pass made, or would make in no-op mode
type Repair struct {
	File    string   `json:"file"`
	Pass    PassName `json:"pass"`
	Field   string   `json:"field,omitempty"`
	Before  string   `json:"before,omitempty"`
	After   string   `json:"after"`
	Message string   `json:"message"`
}

// Skip records a file the pass could not process (I/O or decoding failure)
type Skip struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Result aggregates everything one pass did over a file set
type Result struct {
	Pass         PassName      `json:"pass"`
	DryRun       bool          `json:"dry_run"`
	FilesScanned int           `json:"files_scanned"`
	FilesChanged int           `json:"files_changed"`
	Repairs      []Repair      `json:"repairs"`
	Skipped      []Skip        `json:"skipped,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// RepairCount returns the number of repairs
func (r *Result) RepairCount() int { return len(r.Repairs) }

// Rewriter is implemented by every mutating pass. Rewrite must be pure: the
// same path and content always give the same output, and feeding the output
// back in yields no further repairs.
type Rewriter interface {
	Name() PassName
	Rewrite(path, content string) (string, []Repair)
}
