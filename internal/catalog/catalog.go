/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package catalog loads the workflow and bundle catalogs. Both may be written
// as JSON, YAML or TOML; the format follows the file extension.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrCatalogNotFound is returned when a catalog file does not exist.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrUnsupportedFormat is returned for unknown catalog extensions.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

// Format is a catalog serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}

// Step is one stage of a workflow.
type Step struct {
	Title             string   `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	RecommendedSkills []string `json:"recommendedSkills,omitempty" yaml:"recommendedSkills,omitempty" toml:"recommendedSkills,omitempty"`
}

// Workflow is an ordered sequence of steps recommending skills.
type Workflow struct {
	ID             string   `json:"id" yaml:"id" toml:"id"`
	Name           string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Steps          []Step   `json:"steps,omitempty" yaml:"steps,omitempty" toml:"steps,omitempty"`
	RelatedBundles []string `json:"relatedBundles,omitempty" yaml:"relatedBundles,omitempty" toml:"relatedBundles,omitempty"`
}

// Label names the workflow in messages; records without an id read "?".
func (w Workflow) Label() string {
	if w.ID == "" {
		return "?"
	}
	return w.ID
}

// Workflows is the workflow catalog.
type Workflows struct {
	Workflows []Workflow `json:"workflows" yaml:"workflows" toml:"workflows"`
}

// Bundle groups skills under one identifier.
type Bundle struct {
	Name        string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Skills      []string `json:"skills,omitempty" yaml:"skills,omitempty" toml:"skills,omitempty"`
}

// Bundles is the bundle catalog, keyed by bundle id.
type Bundles struct {
	Bundles map[string]Bundle `json:"bundles" yaml:"bundles" toml:"bundles"`
}

// IDs returns the bundle identifiers in sorted order.
func (b *Bundles) IDs() []string {
	ids := make([]string, 0, len(b.Bundles))
	for id := range b.Bundles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether id names a bundle.
func (b *Bundles) Has(id string) bool {
	_, ok := b.Bundles[id]
	return ok
}

// Document is a catalog file read from disk and decoded generically.
type Document struct {
	Path   string
	Format Format
	// Data holds the decoded document as JSON-compatible values.
	Data interface{}
	raw  []byte
}

// Name is the file name used to label messages about this catalog.
func (d *Document) Name() string { return filepath.Base(d.Path) }

// Read loads and parses a catalog file. Syntax errors are returned; shape
// problems surface later from Decode or the schema check.
func Read(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	doc := &Document{Path: path, Format: format, raw: raw}
	if err := doc.unmarshal(&doc.Data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", doc.Name(), err)
	}
	if doc.Data == nil {
		doc.Data = map[string]interface{}{}
	}
	return doc, nil
}

func (d *Document) unmarshal(v interface{}) error {
	switch d.Format {
	case FormatJSON:
		return json.Unmarshal(d.raw, v)
	case FormatYAML:
		return yaml.Unmarshal(d.raw, v)
	case FormatTOML:
		return toml.Unmarshal(d.raw, v)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, d.Format)
}

// Workflows decodes the document as a workflow catalog.
func (d *Document) Workflows() (*Workflows, error) {
	var w Workflows
	if err := d.unmarshal(&w); err != nil {
		return nil, fmt.Errorf("failed to decode workflows from %s: %w", d.Name(), err)
	}
	return &w, nil
}

// Bundles decodes the document as a bundle catalog.
func (d *Document) Bundles() (*Bundles, error) {
	var b Bundles
	if err := d.unmarshal(&b); err != nil {
		return nil, fmt.Errorf("failed to decode bundles from %s: %w", d.Name(), err)
	}
	if b.Bundles == nil {
		b.Bundles = map[string]Bundle{}
	}
	return &b, nil
}
