package compiler

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// runeText maps the rune offsets reported by regexp2 back to byte offsets of
// the original string. regexp2 matches over []rune, which turns every
// invalid UTF-8 byte into U+FFFD; slicing the original keeps those bytes.
type runeText struct {
	s    string
	offs []int // byte offset of each rune, plus len(s)
}

func newRuneText(s string) *runeText {
	offs := make([]int, 0, len(s)+1)
	for i := range s {
		offs = append(offs, i)
	}
	return &runeText{s: s, offs: append(offs, len(s))}
}

// bounds returns the byte range of c.
func (t *runeText) bounds(c regexp2.Capture) (int, int) {
	return t.offs[c.Index], t.offs[c.Index+c.Length]
}

// text returns the original bytes captured by c.
func (t *runeText) text(c regexp2.Capture) string {
	start, end := t.bounds(c)
	return t.s[start:end]
}

// group returns the original bytes of the last capture of a named group, or
// "" when the group did not participate.
func (t *runeText) group(m *regexp2.Match, name string) string {
	g := m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return t.text(g.Capture)
}

// groupN is group for a numbered group.
func (t *runeText) groupN(m *regexp2.Match, n int) string {
	g := m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return t.text(g.Capture)
}

// replaceAll replaces every match of re in source with fn's result. Text
// between matches is copied from source byte for byte.
func replaceAll(source string, re *regexp2.Regexp, fn func(*runeText, *regexp2.Match) string) (string, int, error) {
	m, err := re.FindStringMatch(source)
	if err != nil {
		return "", 0, err
	}
	if m == nil {
		return source, 0, nil
	}

	t := newRuneText(source)
	var b strings.Builder
	last, n := 0, 0
	for m != nil {
		start, end := t.bounds(m.Capture)
		b.WriteString(source[last:start])
		b.WriteString(fn(t, m))
		last = end
		n++
		if m, err = re.FindNextMatch(m); err != nil {
			return "", 0, err
		}
	}
	b.WriteString(source[last:])
	return b.String(), n, nil
}
