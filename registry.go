package bladex

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pthm/bladex/lib/cache"
	"github.com/pthm/bladex/lib/compiler"
	"github.com/pthm/bladex/lib/generator"
)

// DefaultPrefix is the tag prefix of a new registry.
const DefaultPrefix = "x-"

// SourceExt is the file extension of views registered by AddDir.
const SourceExt = ".blade.php"

// Registry holds the registered components and compiles templates against
// them.
//
// The context component is always registered first, so <x-context> works
// without setup. Registration order is the compilation order.
type Registry struct {
	mu         sync.RWMutex
	prefix     string
	components []*Component
	tags       map[string]int // tag -> index into components

	compiler *compiler.Compiler // rebuilt lazily after a prefix change
	cache    cache.Store
	logger   *log.Logger
	timeout  time.Duration
	syntax   compiler.Syntax
}

// Option configures a Registry.
type Option func(*Registry)

// WithCache stores compiled templates in s.
func WithCache(s cache.Store) Option {
	return func(reg *Registry) {
		reg.cache = s
	}
}

// WithLogger sets the registry's logger.
func WithLogger(l *log.Logger) Option {
	return func(reg *Registry) {
		reg.logger = l
	}
}

// WithMatchTimeout bounds each pattern match during compilation.
func WithMatchTimeout(d time.Duration) Option {
	return func(reg *Registry) {
		reg.timeout = d
	}
}

// WithSyntax replaces the emitted directive syntax.
func WithSyntax(s compiler.Syntax) Option {
	return func(reg *Registry) {
		reg.syntax = s
	}
}

// NewRegistry creates a registry with the "x-" prefix and the context
// component.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		prefix:  DefaultPrefix,
		tags:    make(map[string]int),
		timeout: compiler.DefaultMatchTimeout,
		syntax:  compiler.Blade(),
	}
	for _, opt := range opts {
		opt(reg)
	}
	if reg.logger == nil {
		reg.logger = log.New(io.Discard)
	}

	reg.put(NewComponent(compiler.ContextView).WithTag("context"))
	return reg
}

// SetPrefix sets the tag prefix. A non-empty prefix is normalised to end
// with "-", so "x" and "x-" are the same prefix.
func (reg *Registry) SetPrefix(prefix string) error {
	if prefix != "" && !strings.HasSuffix(prefix, "-") {
		prefix += "-"
	}
	if err := compiler.ValidatePrefix(prefix); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPrefix, err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.prefix != prefix {
		reg.prefix = prefix
		reg.compiler = nil
	}
	return nil
}

// Prefix returns the tag prefix.
func (reg *Registry) Prefix() string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.prefix
}

// Add registers components. A component whose tag is already registered
// replaces the existing one in place. No component is added if any of them
// is invalid.
func (reg *Registry) Add(components ...*Component) error {
	for _, c := range components {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, c := range components {
		reg.put(c)
	}
	return nil
}

// put stores c, replacing a component with the same tag. Callers hold mu.
func (reg *Registry) put(c *Component) {
	if i, ok := reg.tags[c.Tag()]; ok {
		reg.logger.Debug("replacing component", "tag", c.Tag(), "old", reg.components[i].View(), "new", c.View())
		reg.components[i] = c
		return
	}
	reg.tags[c.Tag()] = len(reg.components)
	reg.components = append(reg.components, c)
	reg.logger.Debug("registered component", "tag", c.Tag(), "view", c.View())
}

// AddDir registers every view file in dir of fsys, skipping generator
// sources such as alert.x.blade.php. The view name is the
// directory in dot notation followed by the file name without extension:
// components/myAlert.blade.php becomes view components.myAlert with tag
// my-alert.
func (reg *Registry) AddDir(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("bladex: read component directory: %w", err)
	}

	base := strings.Trim(path.Clean(dir), "/")
	var components []*Component
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), SourceExt) || strings.HasSuffix(e.Name(), generator.DefaultSourceExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), SourceExt)
		view := name
		if base != "." && base != "" {
			view = strings.ReplaceAll(base, "/", ".") + "." + name
		}
		components = append(components, NewComponent(view))
	}
	return reg.Add(components...)
}

// Component returns the component registered under tag.
func (reg *Registry) Component(tag string) (*Component, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	i, ok := reg.tags[tag]
	if !ok {
		return nil, false
	}
	return reg.components[i], true
}

// Components returns the compiler descriptors of all registered components
// in registration order.
func (reg *Registry) Components() []compiler.Component {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.descriptors()
}

func (reg *Registry) descriptors() []compiler.Component {
	out := make([]compiler.Component, len(reg.components))
	for i, c := range reg.components {
		out[i] = c.Descriptor()
	}
	return out
}

// Compile rewrites the component tags of source into directives.
func (reg *Registry) Compile(source string) (string, error) {
	c, components := reg.snapshot()
	return c.Compile(source, components)
}

// CompileCached is Compile backed by the registry's cache. Without a cache
// it is Compile. An untrusted cache entry is logged and overwritten.
func (reg *Registry) CompileCached(source string) (string, error) {
	c, components := reg.snapshot()
	if reg.cache == nil {
		return c.Compile(source, components)
	}

	key := cache.Key(source, c.Prefix(), components)
	entry, ok, err := reg.cache.Get(key)
	switch {
	case err != nil:
		reg.logger.Warn("discarding cache entry", "key", key, "err", err)
	case ok:
		return entry.Output, nil
	}

	out, err := c.Compile(source, components)
	if err != nil {
		return "", err
	}
	if err := reg.cache.Put(cache.Entry{Key: key, Output: out, CompiledAt: time.Now()}); err != nil {
		reg.logger.Warn("failed to store cache entry", "key", key, "err", err)
	}
	return out, nil
}

// snapshot returns the current compiler and component list.
func (reg *Registry) snapshot() (*compiler.Compiler, []compiler.Component) {
	reg.mu.RLock()
	c := reg.compiler
	components := reg.descriptors()
	reg.mu.RUnlock()
	if c != nil {
		return c, components
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.compiler == nil {
		reg.compiler = compiler.New(
			compiler.WithPrefix(reg.prefix),
			compiler.WithSyntax(reg.syntax),
			compiler.WithMatchTimeout(reg.timeout),
			compiler.WithLogger(reg.logger),
		)
	}
	return reg.compiler, reg.descriptors()
}

var defaultRegistry atomic.Pointer[Registry]

// SetDefault makes reg the registry used by package-level helpers.
func SetDefault(reg *Registry) {
	defaultRegistry.Store(reg)
}

// Default returns the default registry, creating it on first use.
func Default() *Registry {
	if reg := defaultRegistry.Load(); reg != nil {
		return reg
	}
	defaultRegistry.CompareAndSwap(nil, NewRegistry())
	return defaultRegistry.Load()
}

// Compile compiles source against the default registry.
func Compile(source string) (string, error) {
	return Default().CompileCached(source)
}
