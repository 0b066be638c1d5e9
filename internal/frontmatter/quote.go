/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package frontmatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var blockScalarPattern = regexp.MustCompile(`^[|>][0-9+-]*\s*(#.*)?$`)

// IsBlockScalar reports whether raw is a YAML block scalar indicator such as
// "|", ">-" or "|2+". The value lives on the following lines.
func IsBlockScalar(raw string) bool {
	return blockScalarPattern.MatchString(raw)
}

// Quote serializes s as a double-quoted scalar that is valid both as a JSON
// string and as a YAML double-quoted scalar. Control characters, quotes and
// backslashes are escaped; all other characters are kept as is.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	out := strings.TrimSuffix(buf.String(), "\n")
	if !needsYAMLEscape(out) {
		return out
	}
	var b strings.Builder
	b.Grow(len(out) + 8)
	for _, r := range out {
		if yamlPrintable(r) {
			b.WriteRune(r)
			continue
		}
		fmt.Fprintf(&b, `\u%04x`, r)
	}
	return b.String()
}

func needsYAMLEscape(s string) bool {
	for _, r := range s {
		if !yamlPrintable(r) {
			return true
		}
	}
	return false
}

// yamlPrintable mirrors the YAML printable character set, minus NEL which a
// YAML 1.1 reader folds as a line break. JSON already escapes everything below 0x20.
func yamlPrintable(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0x7E:
		return true
	case r >= 0xA0 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return r != 0xFEFF
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// StripQuotes removes one layer of matching outer quotes.
func StripQuotes(raw string) (string, bool) {
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' || first == '\'') && first == last {
			return raw[1 : len(raw)-1], true
		}
	}
	return raw, false
}

// Unquote returns the text a raw header value stands for. A well-formed
// single- or double-quoted scalar is decoded with its escapes applied; a
// malformed one loses exactly one layer of outer quotes; anything else is
// returned unchanged.
func Unquote(raw string) string {
	inner, quoted := StripQuotes(raw)
	if !quoted {
		return raw
	}
	if s, ok := decodeQuoted(raw); ok {
		return s
	}
	return inner
}

var singleQuotedPattern = regexp.MustCompile(`^'(?:[^']|'')*'$`)

// decodeQuoted accepts raw only when one quoted scalar spans all of it. A
// YAML reader stops at the first closing quote and drops the rest, so
// `"a "b" c"` must not be handed to it.
func decodeQuoted(raw string) (string, bool) {
	switch raw[0] {
	case '\'':
		if !singleQuotedPattern.MatchString(raw) {
			return "", false
		}
		return strings.ReplaceAll(raw[1:len(raw)-1], "''", "'"), true
	case '"':
		if !wellFormedDoubleQuoted(raw) {
			return "", false
		}
		var doc yaml.Node
		if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
			return "", false
		}
		if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
			return "", false
		}
		n := doc.Content[0]
		if n.Kind != yaml.ScalarNode || n.Style != yaml.DoubleQuotedStyle {
			return "", false
		}
		return n.Value, true
	}
	return "", false
}

// wellFormedDoubleQuoted reports whether the only unescaped double quotes in
// raw are its first and last bytes.
func wellFormedDoubleQuoted(raw string) bool {
	last := len(raw) - 1
	for i := 1; i < last; i++ {
		switch raw[i] {
		case '\\':
			i++
			if i >= last {
				return false
			}
		case '"':
			return false
		}
	}
	return true
}

// Plain returns s unquoted when a YAML reader would load it back as the same
// string, and Quote(s) otherwise.
func Plain(s string) string {
	if s == "" || strings.ContainsAny(s, "\"'\\\n\r\t") {
		return Quote(s)
	}
	var loaded map[string]interface{}
	if err := yaml.Unmarshal([]byte("k: "+s), &loaded); err != nil {
		return Quote(s)
	}
	if v, ok := loaded["k"].(string); ok && v == s {
		return s
	}
	return Quote(s)
}
