/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package fix

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fulmenhq/skillneat/internal/frontmatter"
	"github.com/fulmenhq/skillneat/pkg/config"
	"github.com/fulmenhq/skillneat/pkg/safeio"
)

var (
	// Inline link or image; the label tolerates one level of nested brackets.
	linkPattern = regexp.MustCompile(`(!?)\[((?:[^\[\]]|\[[^\[\]]*\])*)\]\(([^)]+)\)`)

	// Trailing link title: [x](path "Title").
	titlePattern = regexp.MustCompile(`\s+(?:"[^"]*"|'[^']*')\s*$`)

	schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]+:`)
)

// LinkRepairer replaces inline links whose local target does not exist with
// their label text.
type LinkRepairer struct {
	SkipPrefixes []string
	// SkipCode leaves links inside code spans and code blocks untouched.
	SkipCode bool
	// exists is swapped in tests.
	exists func(path string) bool
}

// NewLinkRepairer builds a repairer from config.
func NewLinkRepairer(cfg config.LinksConfig) *LinkRepairer {
	return &LinkRepairer{
		SkipPrefixes: cfg.SkipPrefixes,
		SkipCode:     cfg.SkipCode,
	}
}

func (l *LinkRepairer) Name() PassName { return PassLinks }

// Rewrite repairs dangling links in the prose of the document at path.
// Targets resolve relative to the document's directory.
func (l *LinkRepairer) Rewrite(path, content string) (string, []Repair) {
	doc := frontmatter.Parse(content)
	offset := doc.BodyOffset()
	body := doc.Body()

	var code []span
	if l.SkipCode {
		code = codeRanges([]byte(body))
	}

	out, repairs := l.repairSegment(filepath.Dir(path), body, 0, code)
	if len(repairs) == 0 {
		return content, nil
	}
	return content[:offset] + out, repairs
}

// repairSegment rewrites the links in seg, which starts at byte base of the
// body. Labels are repaired first, so a dangling image inside a link is
// handled whether or not the outer target exists.
func (l *LinkRepairer) repairSegment(dir, seg string, base int, code []span) (string, []Repair) {
	var (
		repairs []Repair
		out     strings.Builder
		last    int
	)
	for _, m := range linkPattern.FindAllStringSubmatchIndex(seg, -1) {
		start, stop := m[0], m[1]
		if overlaps(code, base+start, base+stop) {
			continue
		}
		label, inner := l.repairSegment(dir, seg[m[4]:m[5]], base+m[4], code)
		repairs = append(repairs, inner...)

		href := seg[m[6]:m[7]]
		target, ok := l.localTarget(href)
		if !ok || l.resolves(dir, target) {
			if len(inner) > 0 {
				out.WriteString(seg[last:m[4]])
				out.WriteString(label)
				last = m[5]
			}
			continue
		}

		out.WriteString(seg[last:start])
		out.WriteString(label)
		last = stop
		repairs = append(repairs, Repair{
			Before:  seg[start:stop],
			After:   label,
			Message: href,
		})
	}
	if len(repairs) == 0 {
		return seg, nil
	}
	out.WriteString(seg[last:])
	return out.String(), repairs
}

// localTarget extracts the filesystem part of href. It returns false for
// anything that is not a relative local path.
func (l *LinkRepairer) localTarget(href string) (string, bool) {
	target := strings.TrimSpace(href)
	for _, p := range l.SkipPrefixes {
		if strings.HasPrefix(target, p) {
			return "", false
		}
	}
	if schemePattern.MatchString(target) {
		return "", false
	}
	target = titlePattern.ReplaceAllString(target, "")
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	if target == "" || filepath.IsAbs(target) || strings.HasPrefix(target, "/") {
		return "", false
	}
	return target, true
}

func (l *LinkRepairer) resolves(dir, target string) bool {
	exists := l.exists
	if exists == nil {
		exists = safeio.Exists
	}
	if exists(filepath.Join(dir, filepath.FromSlash(target))) {
		return true
	}
	if decoded, err := url.PathUnescape(target); err == nil && decoded != target {
		return exists(filepath.Join(dir, filepath.FromSlash(decoded)))
	}
	return false
}
