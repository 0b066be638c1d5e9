/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package fix

import (
	"github.com/fulmenhq/skillneat/internal/frontmatter"
)

// QuoteRepairer re-serializes one header field with strict double-quoted
// escaping. Values already in that form are left alone.
type QuoteRepairer struct {
	Field string
}

// NewQuoteRepairer returns a repairer for field.
func NewQuoteRepairer(field string) *QuoteRepairer {
	return &QuoteRepairer{Field: field}
}

func (q *QuoteRepairer) Name() PassName { return PassQuotes }

// Rewrite repairs the quoting of the configured field in the manifest.
func (q *QuoteRepairer) Rewrite(_ string, content string) (string, []Repair) {
	doc := frontmatter.Parse(content)
	if !doc.HasHeader() {
		return content, nil
	}
	f, ok := doc.Field(q.Field)
	if !ok || f.Continued || frontmatter.IsBlockScalar(f.Raw) {
		return content, nil
	}

	quoted := frontmatter.Quote(frontmatter.Unquote(f.Raw))
	if quoted == f.Raw {
		return content, nil
	}
	doc.SetField(f, quoted)
	return doc.String(), []Repair{{
		Field:   q.Field,
		Before:  f.Raw,
		After:   quoted,
		Message: "fixed quotes",
	}}
}
