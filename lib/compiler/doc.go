// Package compiler rewrites custom component tags in template source into
// Blade component, slot and context directives.
//
// Compilation is a fold over the registered components. For each component,
// in registration order, four passes run over the text produced so far:
//
//  1. <slot name="x">...</slot> becomes @slot('x')...@endslot
//  2. <x-card ... /> becomes a component start immediately followed by its end
//  3. <x-card ...> becomes a component start
//  4. </x-card> becomes a component end
//
// Matching is lexical. Self-closing tags must fit on one line, opening tags
// may spread their attributes over several lines, and a slot runs to the
// next closing slot tag, so slots do not nest.
//
// Attributes written as :name="expr" are bound: their value is emitted as a
// raw expression. Other values are emitted as quoted string literals, and a
// bare attribute is bound to true:
//
//	<x-card :count="5+1" label="hi" disabled />
//
// compiles to
//
//	@component('components.card', array_merge(app(Spatie\BladeX\ContextStack::class)->read(),
//	    ['count' => 5+1,'label' => 'hi','disabled' => true])) @endcomponent
//
// (wrapped here for readability). Component arguments merge the current
// context stack, then the tag attributes, then the output of the
// component's data model, later sources winning.
package compiler
