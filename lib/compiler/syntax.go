package compiler

import "fmt"

// ContextView is the reserved view name of the context pseudo-component.
// Its tags push and pop the context stack instead of opening a component.
const ContextView = "bladex::context"

// DefaultContextStack is the runtime class the Blade syntax reads the
// context stack from.
const DefaultContextStack = `Spatie\BladeX\ContextStack`

// Syntax renders the directives a compilation emits. Implement it to target
// a renderer other than Blade; the merge precedence of component arguments
// (context, then attributes, then data model) must be kept.
type Syntax interface {
	ComponentStart(c Component, attrs Attributes) string
	ComponentEnd(c Component) string
	Slot(name, body string) string
}

// BladeSyntax emits Laravel Blade directives.
type BladeSyntax struct {
	// ContextStack is the container binding of the context stack.
	ContextStack string
}

// Blade returns the Blade syntax bound to DefaultContextStack.
func Blade() BladeSyntax {
	return BladeSyntax{ContextStack: DefaultContextStack}
}

func (s BladeSyntax) stack() string {
	if s.ContextStack == "" {
		return DefaultContextStack
	}
	return s.ContextStack
}

func (s BladeSyntax) contextRead() string {
	return fmt.Sprintf("app(%s::class)->read()", s.stack())
}

func (s BladeSyntax) ComponentStart(c Component, attrs Attributes) string {
	args := "[" + attrs.Pairs() + "]"

	if c.IsContext() {
		return fmt.Sprintf("@php(app(%s::class)->push(%s))", s.stack(), args)
	}

	read := s.contextRead()
	if c.DataModel != "" {
		args = fmt.Sprintf("array_merge(%s, %s, app(%s::class, array_merge(%s, %s))->toArray())",
			read, args, c.DataModel, read, args)
	}

	return fmt.Sprintf("@component('%s', array_merge(%s, %s))", c.View, read, args)
}

func (s BladeSyntax) ComponentEnd(c Component) string {
	if c.IsContext() {
		return fmt.Sprintf("@php(app(%s::class)->pop())", s.stack())
	}
	return " @endcomponent"
}

func (s BladeSyntax) Slot(name, body string) string {
	return "@slot('" + name + "')" + body + "@endslot"
}
