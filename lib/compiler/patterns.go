package compiler

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Fragments shared by the tag patterns. Self-closing tags never span lines,
// so their whitespace and attribute text exclude line breaks. A quote with
// no partner later on the line is plain text, so a malformed attribute still
// reaches the attribute parser.
const (
	lineSpace     = `[^\S\r\n]*`
	lineAttrText  = `((?:[^>"'\r\n]|"[^"\r\n]*"|'[^'\r\n]*'|"(?![^"\r\n]*")|'(?![^'\r\n]*'))*?)`
	openingAttrs  = `((?:\s+[\w:-]+(?:=(?:"[^"\r\n]*"|'[^'\r\n]*'|[^\s"'=<>]+))?)*\s*)`
	slotPattern   = `<\s*slot\s[^>]*?(?<![\w-])name=(["'])(?<name>[^"'\r\n]*)\1[^>]*>(?<body>[\s\S]*?)<\s*/\s*slot\s*>`
	namePattern   = `\A[A-Za-z_][\w.:-]*\z`
	prefixPattern = `\A(?:[A-Za-z_][\w.:-]*)?\z`
)

var (
	validName   = regexp2.MustCompile(namePattern, regexp2.None)
	validPrefix = regexp2.MustCompile(prefixPattern, regexp2.None)
)

// ValidateTag reports whether tag can be used as a component tag.
func ValidateTag(tag string) error {
	ok, err := validName.MatchString(tag)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	return nil
}

// ValidatePrefix reports whether prefix can be prepended to component tags.
// The empty prefix is valid.
func ValidatePrefix(prefix string) error {
	ok, err := validPrefix.MatchString(prefix)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}
	return nil
}

// tagPatterns are the compiled patterns of one prefixed component tag.
type tagPatterns struct {
	selfClosing *regexp2.Regexp
	opening     *regexp2.Regexp
	closing     *regexp2.Regexp
}

func compileTagPatterns(prefix, tag string, opts compilerOptions) (*tagPatterns, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}
	if err := ValidateTag(tag); err != nil {
		return nil, err
	}

	name := regexp2.Escape(prefix + tag)
	sources := []string{
		// <x-card title="Hi" />
		`<\s*` + name + `(?=[\s/])` + lineSpace + lineAttrText + lineSpace + `/>`,
		// <x-card title="Hi">, rejecting a '/', '=' or '-' right before '>'
		`<\s*` + name + openingAttrs + `(?<![/=\-])>`,
		// </x-card>
		`</\s*` + name + `(?=[\s>])[^>]*>`,
	}

	compiled := make([]*regexp2.Regexp, len(sources))
	for i, src := range sources {
		re, err := regexp2.Compile(src, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTag, tag, err)
		}
		re.MatchTimeout = opts.matchTimeout
		compiled[i] = re
	}

	return &tagPatterns{
		selfClosing: compiled[0],
		opening:     compiled[1],
		closing:     compiled[2],
	}, nil
}
