package bladex

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// MaxSourceSize limits the request body accepted by Handler.
const MaxSourceSize = 1 << 20

// View returns a component that writes source compiled against reg.
// Compilation goes through the registry's cache, if any.
//
//	templ.Handler(bladex.View(reg, `<x-alert type="error"/>`))
func View(reg *Registry, source string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := reg.CompileCached(source)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// Render writes a component to the HTTP response as plain text.
//
// Compiled templates are Blade source, not HTML, so the response is served
// as text/plain using the request's context:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    bladex.Render(w, r, bladex.View(reg, source))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	return component.Render(r.Context(), w)
}

// Handler returns an HTTP handler that compiles the POSTed template.
//
// Templates with unknown or invalid tags answer 422 with the compiler
// error; other failures answer 500.
func (reg *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxSourceSize))
		if err != nil {
			http.Error(w, "Request too large", http.StatusRequestEntityTooLarge)
			return
		}

		out, err := reg.CompileCached(string(body))
		if err != nil {
			reg.logger.Error("compile failed", "err", err)
			if IsInvalidComponent(err) || IsInvalidPrefix(err) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, out)
	})
}
