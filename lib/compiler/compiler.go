package compiler

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout bounds every single pattern match of a compilation.
const DefaultMatchTimeout = time.Second

// Component describes a registered component tag. It is read-only to the
// compiler.
type Component struct {
	// Tag is matched as <prefix><tag ...>.
	Tag string
	// View identifies the target view. ContextView marks the context
	// pseudo-component.
	View string
	// DataModel optionally names a class instantiated with the merged
	// arguments; its toArray() output is merged last.
	DataModel string
}

// IsContext reports whether c is the context pseudo-component.
func (c Component) IsContext() bool {
	return c.View == ContextView
}

type compilerOptions struct {
	prefix       string
	syntax       Syntax
	matchTimeout time.Duration
	logger       *log.Logger
}

// Option configures a Compiler.
type Option func(*compilerOptions)

// WithPrefix sets the prefix prepended to every component tag, e.g. "x-".
func WithPrefix(prefix string) Option {
	return func(o *compilerOptions) {
		o.prefix = prefix
	}
}

// WithSyntax replaces the Blade directive syntax.
func WithSyntax(s Syntax) Option {
	return func(o *compilerOptions) {
		o.syntax = s
	}
}

// WithMatchTimeout bounds each pattern match. Zero or negative disables the bound.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *compilerOptions) {
		if d <= 0 {
			d = regexp2.DefaultMatchTimeout
		}
		o.matchTimeout = d
	}
}

// WithLogger sets the logger used for per-pass debug output.
func WithLogger(l *log.Logger) Option {
	return func(o *compilerOptions) {
		o.logger = l
	}
}

// Compiler rewrites component tags into directives.
//
// A Compiler holds no per-call state: Compile is a pure function of its
// arguments and is safe for concurrent use. Compiled tag patterns are
// memoised per tag.
type Compiler struct {
	opts     compilerOptions
	attrs    *attributeParser
	slot     *regexp2.Regexp
	patterns sync.Map // tag -> *tagPatterns
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	o := compilerOptions{
		syntax:       Blade(),
		matchTimeout: DefaultMatchTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	slot := regexp2.MustCompile(slotPattern, regexp2.None)
	slot.MatchTimeout = o.matchTimeout

	return &Compiler{
		opts:  o,
		attrs: newAttributeParser(o),
		slot:  slot,
	}
}

// Prefix returns the tag prefix the compiler matches.
func (c *Compiler) Prefix() string {
	return c.opts.prefix
}

// Compile rewrites source for each component in order. Each component runs
// the slot, self-closing, opening and closing passes over the output of the
// previous component. The first failing pass aborts the compilation.
func (c *Compiler) Compile(source string, components []Component) (string, error) {
	out := source
	for _, comp := range components {
		var err error
		out, err = c.compileComponent(out, comp)
		if err != nil {
			return "", err
		}
	}
	return out, nil
}

// ParseAttributes parses the attribute text of a tag.
func (c *Compiler) ParseAttributes(raw string) (Attributes, error) {
	return c.attrs.parse(raw)
}

func (c *Compiler) compileComponent(source string, comp Component) (string, error) {
	pats, err := c.patternsFor(comp.Tag)
	if err != nil {
		return "", &Error{Component: comp, Stage: StagePattern, Err: err}
	}

	var counts [4]int
	out := source

	passes := []struct {
		stage Stage
		run   func(string) (string, int, error)
	}{
		{StageSlot, c.rewriteSlots},
		{StageSelfClosing, func(s string) (string, int, error) {
			return c.rewriteTags(s, pats.selfClosing, func(attrs Attributes) string {
				return c.opts.syntax.ComponentStart(comp, attrs) + c.opts.syntax.ComponentEnd(comp)
			})
		}},
		{StageOpening, func(s string) (string, int, error) {
			return c.rewriteTags(s, pats.opening, func(attrs Attributes) string {
				return c.opts.syntax.ComponentStart(comp, attrs)
			})
		}},
		{StageClosing, func(s string) (string, int, error) {
			return replaceAll(s, pats.closing, func(*runeText, *regexp2.Match) string {
				return c.opts.syntax.ComponentEnd(comp)
			})
		}},
	}

	for i, pass := range passes {
		out, counts[i], err = pass.run(out)
		if err != nil {
			return "", &Error{Component: comp, Stage: pass.stage, Err: err}
		}
	}

	c.opts.logger.Debug("compiled component",
		"tag", c.opts.prefix+comp.Tag,
		"view", comp.View,
		"slots", counts[0],
		"self_closing", counts[1],
		"opening", counts[2],
		"closing", counts[3],
	)

	return out, nil
}

func (c *Compiler) patternsFor(tag string) (*tagPatterns, error) {
	if p, ok := c.patterns.Load(tag); ok {
		return p.(*tagPatterns), nil
	}
	p, err := compileTagPatterns(c.opts.prefix, tag, c.opts)
	if err != nil {
		return nil, err
	}
	actual, _ := c.patterns.LoadOrStore(tag, p)
	return actual.(*tagPatterns), nil
}

// rewriteSlots turns <slot name="x">...</slot> into slot directives. The
// body runs to the next closing slot tag, so slots do not nest.
func (c *Compiler) rewriteSlots(source string) (string, int, error) {
	return replaceAll(source, c.slot, func(t *runeText, m *regexp2.Match) string {
		return c.opts.syntax.Slot(t.group(m, "name"), t.group(m, "body"))
	})
}

// rewriteTags replaces every match of re with emit applied to the parsed
// attributes of capture group 1.
func (c *Compiler) rewriteTags(source string, re *regexp2.Regexp, emit func(Attributes) string) (string, int, error) {
	var parseErr error
	out, n, err := replaceAll(source, re, func(t *runeText, m *regexp2.Match) string {
		if parseErr != nil {
			return t.text(m.Capture)
		}
		attrs, err := c.attrs.parse(t.groupN(m, 1))
		if err != nil {
			parseErr = err
			return t.text(m.Capture)
		}
		return emit(attrs)
	})
	if err == nil {
		err = parseErr
	}
	return out, n, err
}

// Compile compiles source with the given prefix and default options.
func Compile(source, prefix string, components []Component) (string, error) {
	return New(WithPrefix(prefix)).Compile(source, components)
}

// ParseAttributes parses the attribute text of a tag with default options.
func ParseAttributes(raw string) (Attributes, error) {
	return newAttributeParser(compilerOptions{matchTimeout: DefaultMatchTimeout}).parse(raw)
}
