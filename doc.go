// Package bladex compiles custom HTML-like component tags in Blade templates
// into Blade component directives.
//
// Components are registered explicitly with a Registry:
//
//	reg := bladex.NewRegistry()
//	reg.Add(
//	    bladex.NewComponent("components.alert"),
//	    bladex.NewComponent("components.card").WithDataModel(`App\ViewModels\Card`),
//	)
//	out, err := reg.Compile(`<x-alert type="error" :message="$msg"/>`)
//
// compiles to
//
//	@component('components.alert', array_merge(app(Spatie\BladeX\ContextStack::class)->read(), ['type' => 'error','message' => $msg])) @endcomponent
//
// # Tags and Attributes
//
// Each component is matched as <prefix><tag>, self-closing or paired. The
// prefix defaults to "x-". Attribute names are camel-cased. Literal values
// become quoted strings; values of attributes written as :name="expr" or
// bind:name="expr" are emitted as expressions, and bare attributes are
// bound to true.
//
// Named slots inside a component body become slot directives:
//
//	<x-card><slot name="title">Hello</slot>Body</x-card>
//
// # Context
//
// The built-in <x-context> tag pushes its attributes onto a context stack
// for the enclosed components, which receive them merged under their own
// arguments. ContextStack and Provide are the render-time equivalent for
// templ components.
//
// # Caching
//
// CompileCached keys compiled output by the source, the prefix and the
// registered components. See WithCache, NewMemoryCache and NewDirCache.
//
// The compiler itself lives in lib/compiler and can be used without a
// registry.
package bladex
