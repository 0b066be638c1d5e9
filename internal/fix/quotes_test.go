/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package fix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteRepairer(t *testing.T) {
	q := NewQuoteRepairer("description")

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `Uses "quotes" inside`, `"Uses \"quotes\" inside"`},
		{"single quoted", `'It''s here'`, `"It's here"`},
		{"broken double", `"say "hi" now"`, `"say \"hi\" now"`},
		{"broken double inner word", `"a "quoted" word"`, `"a \"quoted\" word"`},
		{"broken single", `'it's 'here''`, `"it's 'here'"`},
		{"escaped closing quote", `"ends with \"`, `"ends with \\"`},
		{"backslash", `C:\path`, `"C:\\path"`},
		{"colon", `key: value pair`, `"key: value pair"`},
		{"html kept", `<b> & co`, `"<b> & co"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := "---\nname: x\ndescription: " + tt.raw + "\n---\nBody\n"
			out, repairs := q.Rewrite("SKILL.md", in)
			assert.Equal(t, "---\nname: x\ndescription: "+tt.want+"\n---\nBody\n", out)
			require.Len(t, repairs, 1)
			assert.Equal(t, tt.raw, repairs[0].Before)
			assert.Equal(t, tt.want, repairs[0].After)

			again, more := q.Rewrite("SKILL.md", out)
			assert.Equal(t, out, again)
			assert.Empty(t, more)
		})
	}
}

func TestQuoteRepairerLeavesCanonicalValues(t *testing.T) {
	q := NewQuoteRepairer("description")
	cases := []string{
		"---\ndescription: \"already \\\"fine\\\"\"\n---\n",
		"---\ndescription: \"a\\tb\"\n---\n",
		"---\ndescription: |\n  block text\n---\n",
		"---\ndescription: first line\n  continued\n---\n",
		"---\nname: only\n---\n",
		"no header at all\n",
	}
	for _, in := range cases {
		out, repairs := q.Rewrite("SKILL.md", in)
		assert.Equal(t, in, out)
		assert.Empty(t, repairs)
	}
}

func TestQuoteRepairerCommutesWithNormalizer(t *testing.T) {
	q := NewQuoteRepairer("description")
	n := newTestNormalizer()
	in := "---\nname: foo\ndescription: 'It''s a \"long\" one " + strings.Repeat("word ", 60) + "'\n---\n"
	path := manifestPath("foo")

	a, _ := q.Rewrite(path, in)
	a, _ = n.Rewrite(path, a)
	b, _ := n.Rewrite(path, in)
	b, _ = q.Rewrite(path, b)
	assert.Equal(t, a, b)
}
