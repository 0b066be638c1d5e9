/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package fix

import (
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// span is a half-open byte range [start, stop).
type span struct {
	start, stop int
}

// codeRanges returns the byte ranges of src covered by code spans, fenced
// code blocks and indented code blocks, sorted by start offset.
func codeRanges(src []byte) []span {
	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	var ranges []span
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			lines := n.Lines()
			if lines.Len() > 0 {
				ranges = append(ranges, span{lines.At(0).Start, lines.At(lines.Len() - 1).Stop})
			}
			return ast.WalkSkipChildren, nil
		case ast.KindCodeSpan:
			s := span{start: -1}
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				t, ok := c.(*ast.Text)
				if !ok {
					continue
				}
				if s.start < 0 {
					s.start = t.Segment.Start
				}
				s.stop = t.Segment.Stop
			}
			if s.start >= 0 {
				ranges = append(ranges, s)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
	return ranges
}

// overlaps reports whether [start, stop) intersects any range.
func overlaps(ranges []span, start, stop int) bool {
	for _, r := range ranges {
		if r.start >= stop {
			return false
		}
		if start < r.stop {
			return true
		}
	}
	return false
}
