package main

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
	"github.com/pthm/bladex"
)

//go:embed views
var viewFiles embed.FS

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "example"})

	reg := bladex.NewRegistry(
		bladex.WithLogger(logger),
		bladex.WithCache(bladex.NewMemoryCache()),
	)
	bladex.SetDefault(reg)

	views, err := fs.Sub(viewFiles, "views")
	if err != nil {
		logger.Fatal("views", "err", err)
	}
	if err := reg.AddDir(views, "components"); err != nil {
		logger.Fatal("register components", "err", err)
	}
	if err := reg.Add(bladex.NewComponent("components.card").WithDataModel(`App\ViewModels\Card`)); err != nil {
		logger.Fatal("register card", "err", err)
	}

	page, err := fs.ReadFile(views, "pages/home.x.blade.php")
	if err != nil {
		logger.Fatal("read page", "err", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/compile", reg.Handler())
	mux.Handle("/", templ.Handler(bladex.View(reg, string(page)), templ.WithContentType("text/plain; charset=utf-8")))

	addr := ":8080"
	fmt.Printf("Starting server at http://localhost%s\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server", "err", err)
	}
}
