// Package bladexecho provides Echo framework integration for bladex.
//
// Mount the compile endpoint onto an Echo instance or group:
//
//	e := echo.New()
//	reg := bladexecho.Mount(e)
//	reg.Add(bladex.NewComponent("components.alert"))
//
// Or mount on a group with middleware:
//
//	g := e.Group("/admin", authMiddleware)
//	reg := bladexecho.MountGroup(g)
package bladexecho

import (
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/bladex"
)

// DefaultPath is the route of the compile endpoint.
const DefaultPath = "/_bladex/compile"

// Option configures the Mount and MountGroup functions.
type Option func(*options)

type options struct {
	reg  *bladex.Registry
	path string
}

// WithRegistry mounts an existing registry instead of creating one.
func WithRegistry(reg *bladex.Registry) Option {
	return func(o *options) {
		o.reg = reg
	}
}

// WithPath sets the route of the compile endpoint.
// Defaults to "/_bladex/compile".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// Mount mounts the compile endpoint of a registry on an Echo instance and
// makes the registry the default.
//
//	e := echo.New()
//	reg := bladexecho.Mount(e)
//
//	// With options:
//	reg := bladexecho.Mount(e, bladexecho.WithPath("/compile"))
func Mount(e *echo.Echo, opts ...Option) *bladex.Registry {
	o := newOptions(opts)
	e.POST(o.path, echo.WrapHandler(o.reg.Handler()))
	return o.reg
}

// MountGroup mounts the compile endpoint on an Echo group, so it shares the
// group's middleware (auth, logging, etc.).
//
//	g := e.Group("/admin", authMiddleware)
//	reg := bladexecho.MountGroup(g)
func MountGroup(g *echo.Group, opts ...Option) *bladex.Registry {
	o := newOptions(opts)
	g.POST(o.path, echo.WrapHandler(o.reg.Handler()))
	return o.reg
}

func newOptions(opts []Option) *options {
	o := &options{path: DefaultPath}
	for _, opt := range opts {
		opt(o)
	}
	if o.reg == nil {
		o.reg = bladex.NewRegistry()
	}
	bladex.SetDefault(o.reg)
	return o
}

// Render writes a templ component to the Echo response as plain text.
//
//	func handler(c echo.Context) error {
//	    return bladexecho.Render(c, bladex.View(reg, source))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	return component.Render(c.Request().Context(), c.Response())
}

// View returns a handler that serves source compiled against reg.
func View(reg *bladex.Registry, source string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return Render(c, bladex.View(reg, source))
	}
}
