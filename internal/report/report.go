/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package report renders pass results and validation reports.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aymerick/raymond"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fulmenhq/skillneat/internal/assets"
	"github.com/fulmenhq/skillneat/internal/fix"
	"github.com/fulmenhq/skillneat/internal/refcheck"
)

// OutputFormat represents the format for command output
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatMarkdown OutputFormat = "markdown"
	FormatJSON     OutputFormat = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported format %q (want text, markdown or json)", s)
}

// Run is everything one command invocation produced.
type Run struct {
	Command string
	DryRun  bool
	// ScanDir is echoed in the links pass header.
	ScanDir    string
	Passes     []*fix.Result
	Validation *refcheck.Report
	// NarrativeLabel names the narrative document in the success message.
	NarrativeLabel string
}

// Formatter writes a Run in one output format.
type Formatter struct {
	format  OutputFormat
	version string
	now     func() time.Time
	newID   func() string
}

// NewFormatter creates a new formatter. version is stamped into JSON output.
func NewFormatter(format OutputFormat, version string) *Formatter {
	return &Formatter{
		format:  format,
		version: version,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// Write renders run to w.
func (f *Formatter) Write(w io.Writer, run *Run) error {
	switch f.format {
	case FormatText, "":
		return f.writeText(w, run)
	case FormatMarkdown:
		return f.writeMarkdown(w, run)
	case FormatJSON:
		return f.writeJSON(w, run)
	}
	return fmt.Errorf("unsupported format: %s", f.format)
}

var titler = cases.Title(language.English)

// PassTitle is the display name of a pass.
func PassTitle(p fix.PassName) string {
	return titler.String(string(p))
}

// RepairLines returns the text lines for a pass, one per reported change.
// Links report every link; the header passes report once per file.
func RepairLines(res *fix.Result) []string {
	var lines []string
	switch res.Pass {
	case fix.PassLinks:
		for _, r := range res.Repairs {
			lines = append(lines, fmt.Sprintf("Fixing dangling link in %s: %s", r.File, r.Message))
		}
	case fix.PassQuotes:
		for _, file := range changedFiles(res) {
			lines = append(lines, "Fixed quotes in "+file)
		}
	default:
		byFile := make(map[string][]string)
		for _, r := range res.Repairs {
			byFile[r.File] = append(byFile[r.File], r.Message)
		}
		for _, file := range changedFiles(res) {
			lines = append(lines, fmt.Sprintf("Fixed %s: %s", file, strings.Join(byFile[file], "; ")))
		}
	}
	return lines
}

// TotalLine is the closing count line of a pass.
func TotalLine(res *fix.Result) string {
	if res.Pass == fix.PassLinks {
		return fmt.Sprintf("Total dangling links fixed: %d", res.RepairCount())
	}
	return fmt.Sprintf("Total files fixed: %d", res.FilesChanged)
}

// changedFiles lists files with repairs in first-seen order.
func changedFiles(res *fix.Result) []string {
	seen := make(map[string]bool)
	var files []string
	for _, r := range res.Repairs {
		if !seen[r.File] {
			seen[r.File] = true
			files = append(files, r.File)
		}
	}
	return files
}

// SuccessMessage is printed when validation finds nothing broken.
func SuccessMessage(narrativeLabel string) string {
	if narrativeLabel == "" {
		return "All workflow and bundle references are valid."
	}
	return fmt.Sprintf("All workflow, bundle, and %s references are valid.", narrativeLabel)
}

// FailureLine is the closing count line of a failed validation.
func FailureLine(rep *refcheck.Report) string {
	return fmt.Sprintf("Total broken references: %d", len(rep.Problems))
}

func (f *Formatter) writeText(w io.Writer, run *Run) error {
	var b strings.Builder
	for _, res := range run.Passes {
		if res.Pass == fix.PassLinks && run.ScanDir != "" {
			fmt.Fprintf(&b, "Scanning for dangling links in %s...\n", run.ScanDir)
		}
		for _, line := range RepairLines(res) {
			b.WriteString(line + "\n")
		}
		b.WriteString(TotalLine(res) + "\n")
	}
	if len(run.Passes) > 1 {
		b.WriteString("\n" + summaryTable(run.Passes))
	}
	if run.DryRun && len(run.Passes) > 0 {
		b.WriteString("Dry run: no files were written.\n")
	}

	if rep := run.Validation; rep != nil {
		if rep.Passed() {
			b.WriteString(SuccessMessage(run.NarrativeLabel) + "\n")
		} else {
			for _, m := range rep.Messages() {
				b.WriteString(m + "\n")
			}
			b.WriteString("\n" + FailureLine(rep) + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// summaryTable aligns per-pass counts in columns.
func summaryTable(passes []*fix.Result) string {
	header := []string{"Pass", "Scanned", "Changed", "Repairs", "Skipped"}
	rows := [][]string{header}
	for _, res := range passes {
		rows = append(rows, []string{
			PassTitle(res.Pass),
			fmt.Sprint(res.FilesScanned),
			fmt.Sprint(res.FilesChanged),
			fmt.Sprint(res.RepairCount()),
			fmt.Sprint(len(res.Skipped)),
		})
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == 0 {
				cells[i] = runewidth.FillRight(cell, widths[i])
			} else {
				cells[i] = runewidth.FillLeft(cell, widths[i])
			}
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, "  "), " ") + "\n")
	}
	return b.String()
}

func (f *Formatter) writeMarkdown(w io.Writer, run *Run) error {
	tpl, err := assets.GetTemplate(assets.SummaryTemplate)
	if err != nil {
		return fmt.Errorf("failed to load report template: %w", err)
	}

	passes := make([]map[string]interface{}, 0, len(run.Passes))
	for _, res := range run.Passes {
		repairs := make([]map[string]string, 0, len(res.Repairs))
		for _, r := range res.Repairs {
			msg := r.Message
			if res.Pass == fix.PassLinks {
				msg = "removed dangling link to `" + r.Message + "`"
			} else if res.Pass == fix.PassQuotes {
				msg = fmt.Sprintf("%s requoted as `%s`", r.Field, r.After)
			}
			repairs = append(repairs, map[string]string{"file": r.File, "message": escapeCell(msg)})
		}
		passes = append(passes, map[string]interface{}{
			"title":   PassTitle(res.Pass),
			"repairs": repairs,
			"summary": TotalLine(res),
		})
	}

	ctx := map[string]interface{}{
		"command": run.Command,
		"dryRun":  run.DryRun,
		"passes":  passes,
	}
	if rep := run.Validation; rep != nil {
		v := map[string]interface{}{
			"passed": rep.Passed(),
			"errors": rep.Messages(),
		}
		if rep.Passed() {
			v["message"] = SuccessMessage(run.NarrativeLabel)
		} else {
			v["message"] = FailureLine(rep)
		}
		ctx["validation"] = v
	}

	out, err := raymond.Render(string(tpl), ctx)
	if err != nil {
		return fmt.Errorf("failed to render markdown report: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// jsonReport is the machine-readable envelope.
type jsonReport struct {
	RunID       string          `json:"run_id"`
	Tool        string          `json:"tool"`
	Version     string          `json:"version"`
	Command     string          `json:"command"`
	GeneratedAt time.Time       `json:"generated_at"`
	DryRun      bool            `json:"dry_run"`
	Passes      []*fix.Result   `json:"passes,omitempty"`
	Validation  *jsonValidation `json:"validation,omitempty"`
	Totals      map[string]int  `json:"totals,omitempty"`
}

type jsonValidation struct {
	*refcheck.Report
	Passed bool `json:"passed"`
}

func (f *Formatter) writeJSON(w io.Writer, run *Run) error {
	out := jsonReport{
		RunID:       f.newID(),
		Tool:        "skillneat",
		Version:     f.version,
		Command:     run.Command,
		GeneratedAt: f.now().UTC(),
		DryRun:      run.DryRun,
		Passes:      run.Passes,
	}
	if len(run.Passes) > 0 {
		out.Totals = map[string]int{}
		for _, res := range run.Passes {
			out.Totals[string(res.Pass)] = res.RepairCount()
		}
	}
	if run.Validation != nil {
		out.Validation = &jsonValidation{Report: run.Validation, Passed: run.Validation.Passed()}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteIDs prints the corpus identifier set.
func (f *Formatter) WriteIDs(w io.Writer, root string, ids []string) error {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	switch f.format {
	case FormatJSON:
		data, err := json.MarshalIndent(struct {
			Root   string   `json:"root"`
			Count  int      `json:"count"`
			Skills []string `json:"skills"`
		}{root, len(sorted), sorted}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatMarkdown:
		var b strings.Builder
		fmt.Fprintf(&b, "# Skills (%d)\n\n", len(sorted))
		for _, id := range sorted {
			fmt.Fprintf(&b, "- `%s`\n", id)
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
	_, err := io.WriteString(w, strings.Join(sorted, "\n")+lineEnd(len(sorted)))
	return err
}

func lineEnd(n int) string {
	if n == 0 {
		return ""
	}
	return "\n"
}
