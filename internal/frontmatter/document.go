/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package frontmatter models a manifest as an ordered list of header lines
// plus the untouched bytes around them. Rendering a document whose lines
// were not modified returns the input byte for byte.
package frontmatter

import (
	"regexp"
	"strings"
)

// Delimiter is the marker line that opens and closes the metadata block.
const Delimiter = "---"

// The header is the shortest run of lines between an opening "---" line at
// the very start of the file and the next line that is exactly "---".
var blockPattern = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(.*?)\r?\n---[ \t]*(?:\r?\n|\z)`)

// Document is a parsed manifest.
type Document struct {
	content   string
	hasHeader bool
	start     int // byte offset of the first header line
	end       int // byte offset just past the last header line
	bodyStart int // byte offset of the first prose byte
	lines     []string
	changed   bool
}

// Parse splits content into header lines and surrounding text. Content
// without a metadata block yields a document with HasHeader() == false.
func Parse(content string) *Document {
	d := &Document{content: content}
	m := blockPattern.FindStringSubmatchIndex(content)
	if m == nil {
		return d
	}
	d.hasHeader = true
	d.start, d.end = m[2], m[3]
	d.bodyStart = m[1]
	d.lines = strings.Split(content[d.start:d.end], "\n")
	return d
}

// HasHeader reports whether a metadata block was found.
func (d *Document) HasHeader() bool { return d.hasHeader }

// Lines returns the header lines. The slice must not be modified.
func (d *Document) Lines() []string { return d.lines }

// Body returns the prose following the closing delimiter, or the whole
// content when there is no header.
func (d *Document) Body() string { return d.content[d.bodyStart:] }

// BodyOffset is the byte offset of Body() within the original content.
func (d *Document) BodyOffset() int { return d.bodyStart }

// Changed reports whether any header line was replaced.
func (d *Document) Changed() bool { return d.changed }

// Field is one line-scoped `key: value` entry of the header.
type Field struct {
	Index int
	Key   string
	// Raw is the value text with surrounding whitespace removed, quotes intact.
	Raw string
	// Continued is set when the following header line is indented, meaning the
	// value spans several lines and cannot be rewritten line by line.
	Continued bool
}

// Field returns the first top-level header line for key.
func (d *Document) Field(key string) (Field, bool) {
	prefix := key + ":"
	for i, line := range d.lines {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		f := Field{
			Index: i,
			Key:   key,
			Raw:   strings.TrimSpace(line[len(prefix):]),
		}
		if i+1 < len(d.lines) {
			next := d.lines[i+1]
			f.Continued = next != "" && (next[0] == ' ' || next[0] == '\t')
		}
		return f, true
	}
	return Field{}, false
}

// SetField replaces the line holding f with `key: value`, keeping a CRLF
// line ending if the original had one. Writing an identical line is a no-op.
func (d *Document) SetField(f Field, value string) {
	if f.Index < 0 || f.Index >= len(d.lines) {
		return
	}
	line := f.Key + ": " + value
	if strings.HasSuffix(d.lines[f.Index], "\r") {
		line += "\r"
	}
	if line == d.lines[f.Index] {
		return
	}
	d.lines[f.Index] = line
	d.changed = true
}

// String renders the document.
func (d *Document) String() string {
	if !d.hasHeader || !d.changed {
		return d.content
	}
	var b strings.Builder
	b.Grow(len(d.content) + 16)
	b.WriteString(d.content[:d.start])
	b.WriteString(strings.Join(d.lines, "\n"))
	b.WriteString(d.content[d.end:])
	return b.String()
}
