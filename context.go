package bladex

import (
	"context"
	"io"
	"maps"
	"sync"

	"github.com/a-h/templ"
)

// ContextStack holds the values provided by enclosing <x-context> tags.
//
// Compiled templates push a frame when a context tag opens and pop it when
// the tag closes; Read merges the frames with inner values winning. This is
// the render-time counterpart of the directives the compiler emits, for
// templ components that nest inside one another.
type ContextStack struct {
	mu     sync.Mutex
	frames []map[string]any
}

// NewContextStack creates an empty stack.
func NewContextStack() *ContextStack {
	return &ContextStack{}
}

// Push adds a frame. The map is copied.
func (s *ContextStack) Push(values map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, maps.Clone(values))
}

// Pop removes the innermost frame. It reports false on an empty stack.
func (s *ContextStack) Pop() (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

// Read returns all frames merged, innermost last.
func (s *ContextStack) Read() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any)
	for _, frame := range s.frames {
		maps.Copy(out, frame)
	}
	return out
}

// Len returns the number of frames.
func (s *ContextStack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// With pushes values for the duration of fn. The frame is popped even when
// fn fails or panics.
func (s *ContextStack) With(values map[string]any, fn func() error) error {
	s.Push(values)
	defer s.Pop()
	return fn()
}

type contextStackKey struct{}

// WithContextStack returns a context carrying s.
func WithContextStack(ctx context.Context, s *ContextStack) context.Context {
	return context.WithValue(ctx, contextStackKey{}, s)
}

// ContextStackFrom returns the stack carried by ctx, or nil.
func ContextStackFrom(ctx context.Context) *ContextStack {
	s, _ := ctx.Value(contextStackKey{}).(*ContextStack)
	return s
}

// Provide renders children with values pushed onto the context stack.
// A stack is attached to the render context if none is present.
//
//	bladex.Provide(map[string]any{"theme": "dark"}, page())
func Provide(values map[string]any, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		s := ContextStackFrom(ctx)
		if s == nil {
			s = NewContextStack()
			ctx = WithContextStack(ctx, s)
		}
		return s.With(values, func() error {
			return children.Render(ctx, w)
		})
	})
}

// Consume renders the component fn builds from the merged context values.
// Without a stack in the render context, fn receives an empty map.
func Consume(fn func(values map[string]any) templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		values := map[string]any{}
		if s := ContextStackFrom(ctx); s != nil {
			values = s.Read()
		}
		return fn(values).Render(ctx, w)
	})
}
