/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package fix

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/fulmenhq/skillneat/internal/frontmatter"
	"github.com/fulmenhq/skillneat/pkg/config"
)

// MetadataNormalizer pulls header fields toward canonical form: the identity
// field equals the containing directory name and the description fits within
// MaxDescription characters.
type MetadataNormalizer struct {
	IdentityField    string
	DescriptionField string
	MaxDescription   int
	Ellipsis         string
}

// NewMetadataNormalizer builds a normalizer from config.
func NewMetadataNormalizer(cfg config.MetadataConfig) *MetadataNormalizer {
	return &MetadataNormalizer{
		IdentityField:    cfg.IdentityField,
		DescriptionField: cfg.DescriptionField,
		MaxDescription:   cfg.MaxDescription,
		Ellipsis:         cfg.Ellipsis,
	}
}

func (n *MetadataNormalizer) Name() PassName { return PassMetadata }

// Rewrite normalizes the manifest at path.
func (n *MetadataNormalizer) Rewrite(path, content string) (string, []Repair) {
	doc := frontmatter.Parse(content)
	if !doc.HasHeader() {
		return content, nil
	}

	var repairs []Repair
	if r, ok := n.normalizeIdentity(doc, filepath.Base(filepath.Dir(path))); ok {
		repairs = append(repairs, r)
	}
	if r, ok := n.truncateDescription(doc); ok {
		repairs = append(repairs, r)
	}
	if !doc.Changed() {
		return content, nil
	}
	return doc.String(), repairs
}

func (n *MetadataNormalizer) normalizeIdentity(doc *frontmatter.Document, dirName string) (Repair, bool) {
	f, ok := doc.Field(n.IdentityField)
	if !ok || f.Continued || frontmatter.IsBlockScalar(f.Raw) {
		return Repair{}, false
	}
	current := frontmatter.Unquote(f.Raw)
	if current == dirName {
		return Repair{}, false
	}
	value := frontmatter.Plain(dirName)
	doc.SetField(f, value)
	return Repair{
		Field:   n.IdentityField,
		Before:  f.Raw,
		After:   value,
		Message: fmt.Sprintf("%s %q does not match directory, set to %q", n.IdentityField, current, dirName),
	}, true
}

func (n *MetadataNormalizer) truncateDescription(doc *frontmatter.Document) (Repair, bool) {
	f, ok := doc.Field(n.DescriptionField)
	if !ok || f.Continued || frontmatter.IsBlockScalar(f.Raw) {
		return Repair{}, false
	}
	text := frontmatter.Unquote(f.Raw)
	length := utf8.RuneCountInString(text)
	if length <= n.MaxDescription {
		return Repair{}, false
	}
	keep := n.MaxDescription - utf8.RuneCountInString(n.Ellipsis)
	short := string([]rune(text)[:keep]) + n.Ellipsis
	value := frontmatter.Quote(short)
	doc.SetField(f, value)
	return Repair{
		Field:   n.DescriptionField,
		Before:  f.Raw,
		After:   value,
		Message: fmt.Sprintf("%s truncated from %d to %d characters", n.DescriptionField, length, n.MaxDescription),
	}, true
}
