package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Default file extensions.
const (
	DefaultSourceExt = ".x.blade.php"
	DefaultOutputExt = ".blade.php"
)

// Compiler compiles a template source.
type Compiler interface {
	Compile(source string) (string, error)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(source string) (string, error)

func (f CompilerFunc) Compile(source string) (string, error) {
	return f(source)
}

// Options configures the generator.
type Options struct {
	DryRun    bool
	SourceExt string
	OutputExt string
	Logger    *log.Logger
}

// Generator compiles template files in place: card.x.blade.php is compiled
// to card.blade.php next to it.
type Generator struct {
	compiler Compiler
	opts     Options
}

// New creates a new generator.
func New(c Compiler, opts Options) *Generator {
	if opts.SourceExt == "" {
		opts.SourceExt = DefaultSourceExt
	}
	if opts.OutputExt == "" {
		opts.OutputExt = DefaultOutputExt
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Generator{compiler: c, opts: opts}
}

// Generate compiles the templates in the given directory patterns. A
// pattern ending in /... includes all subdirectories.
func (g *Generator) Generate(patterns ...string) error {
	dirs, err := g.findDirs(patterns)
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		if err := g.generateDir(dir); err != nil {
			return fmt.Errorf("directory %s: %w", dir, err)
		}
	}

	return nil
}

// Clean removes generated files for the given directory patterns.
func (g *Generator) Clean(patterns ...string) error {
	dirs, err := g.findDirs(patterns)
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		if err := g.cleanDir(dir); err != nil {
			return fmt.Errorf("directory %s: %w", dir, err)
		}
	}

	return nil
}

// findDirs resolves directory patterns to directories holding templates.
func (g *Generator) findDirs(patterns []string) ([]string, error) {
	var dirs []string

	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") && pattern != "..." {
			dirs = append(dirs, pattern)
			continue
		}

		root := strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
		if root == "" {
			root = "."
		}

		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			// Skip hidden directories and vendor
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || base == "vendor" || base == "node_modules" || base == "testdata") {
				return filepath.SkipDir
			}

			sources, err := g.sources(path)
			if err != nil {
				return nil
			}
			if len(sources) > 0 {
				dirs = append(dirs, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return dirs, nil
}

// sources lists the template files of dir.
func (g *Generator) sources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), g.opts.SourceExt) {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out, nil
}

// outputPath maps a template file to its generated file.
func (g *Generator) outputPath(source string) string {
	return strings.TrimSuffix(source, g.opts.SourceExt) + g.opts.OutputExt
}

func (g *Generator) generateDir(dir string) error {
	sources, err := g.sources(dir)
	if err != nil {
		return err
	}
	for _, source := range sources {
		if err := g.generateFile(source); err != nil {
			return err
		}
	}
	return nil
}

// cleanDir removes generated files from a directory. Files without the
// generated header are left alone.
func (g *Generator) cleanDir(dir string) error {
	sources, err := g.sources(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, source := range sources {
		path := g.outputPath(source)
		generated, err := isGenerated(path)
		if err != nil {
			return err
		}
		if !generated {
			continue
		}

		g.opts.Logger.Info("removing", "path", path)
		if !g.opts.DryRun {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
