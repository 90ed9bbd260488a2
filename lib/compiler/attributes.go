package compiler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

const bindMarker = "bind:"

// Attribute is a single attribute of a component tag, ready for emission.
//
// Value holds the emitted expression: bound attributes carry the raw source
// expression, literal attributes carry a single-quoted, escaped string.
type Attribute struct {
	Key   string
	Value string
	Bound bool
}

// Attributes is an ordered attribute list with unique keys.
//
// Setting an existing key replaces its value in place, so iteration order
// is the order in which keys were first seen.
type Attributes struct {
	items []Attribute
	index map[string]int
}

// Set adds attr, or replaces the value of an existing attribute with the same key.
func (a *Attributes) Set(attr Attribute) {
	if a.index == nil {
		a.index = make(map[string]int)
	}
	if i, ok := a.index[attr.Key]; ok {
		a.items[i] = attr
		return
	}
	a.index[attr.Key] = len(a.items)
	a.items = append(a.items, attr)
}

// Get returns the attribute stored under key.
func (a Attributes) Get(key string) (Attribute, bool) {
	i, ok := a.index[key]
	if !ok {
		return Attribute{}, false
	}
	return a.items[i], true
}

// Len returns the number of attributes.
func (a Attributes) Len() int {
	return len(a.items)
}

// Keys returns the attribute keys in order.
func (a Attributes) Keys() []string {
	keys := make([]string, len(a.items))
	for i, attr := range a.items {
		keys[i] = attr.Key
	}
	return keys
}

// All returns a copy of the attributes in order.
func (a Attributes) All() []Attribute {
	out := make([]Attribute, len(a.items))
	copy(out, a.items)
	return out
}

// Pairs renders the attributes as a PHP array body: 'key' => value,...
func (a Attributes) Pairs() string {
	var b strings.Builder
	for i, attr := range a.items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\'')
		b.WriteString(attr.Key)
		b.WriteString("' => ")
		b.WriteString(attr.Value)
	}
	return b.String()
}

// attributeParser extracts attributes from the raw attribute text of a tag.
type attributeParser struct {
	shorthand *regexp2.Regexp
	attribute *regexp2.Regexp
}

func newAttributeParser(opts compilerOptions) *attributeParser {
	p := &attributeParser{
		// :name= at the start of the text or after whitespace
		shorthand: regexp2.MustCompile(`(?<!\S):([\w-]+)=`, regexp2.None),
		attribute: regexp2.MustCompile(`(?<attribute>[:-]*\w[\w:-]*)(=(?<value>("[^"]+"|'[^']+'|[^\s>]+)))?`, regexp2.None),
	}
	p.shorthand.MatchTimeout = opts.matchTimeout
	p.attribute.MatchTimeout = opts.matchTimeout
	return p
}

// parse converts raw attribute text into Attributes. Fragments that do not
// look like name[=value] are skipped; only a matcher failure is an error.
func (p *attributeParser) parse(raw string) (Attributes, error) {
	var attrs Attributes

	normalized, _, err := replaceAll(raw, p.shorthand, func(t *runeText, m *regexp2.Match) string {
		return bindMarker + t.groupN(m, 1) + "="
	})
	if err != nil {
		return attrs, err
	}

	t := newRuneText(normalized)
	m, err := p.attribute.FindStringMatch(normalized)
	for ; m != nil && err == nil; m, err = p.attribute.FindNextMatch(m) {
		attrs.Set(buildAttribute(t, m))
	}
	return attrs, err
}

func buildAttribute(t *runeText, m *regexp2.Match) Attribute {
	name := camel(t.group(m, "attribute"))

	var value string
	bare := true
	if g := m.GroupByName("value"); g != nil && len(g.Captures) > 0 {
		value = t.text(g.Capture)
		bare = false
	}

	if bare {
		value = "true"
		if !strings.HasPrefix(name, bindMarker) {
			name = bindMarker + name
		}
	}

	value = unquote(value)

	if strings.HasPrefix(name, bindMarker) {
		return Attribute{Key: strings.TrimPrefix(name, bindMarker), Value: value, Bound: true}
	}
	return Attribute{Key: name, Value: "'" + strings.ReplaceAll(value, "'", `\'`) + "'", Bound: false}
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
		return s[1 : len(s)-1]
	}
	return s
}

// camel converts an attribute name to camel case. Hyphens and underscores
// separate words; every other character, including ':', is kept.
func camel(s string) string {
	var b strings.Builder
	upper := false
	for _, r := range s {
		switch {
		case r == '-' || r == '_':
			upper = true
		case upper:
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	r, size := utf8.DecodeRuneInString(out)
	if size == 0 {
		return out
	}
	return string(unicode.ToLower(r)) + out[size:]
}
