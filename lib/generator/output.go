package generator

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// headerMarker identifies files written by the generator.
const headerMarker = "Code generated by bladex"

// Blade uses {{ }} itself, so the header template uses [[ ]].
var headerTemplate = template.Must(template.New("header").Delims("[[", "]]").Parse(
	"{{-- " + headerMarker + " from [[.Source]]. DO NOT EDIT. --}}\n",
))

// generateFile compiles a template file and writes its output file.
func (g *Generator) generateFile(source string) error {
	outputFile := g.outputPath(source)

	g.opts.Logger.Info("generating", "path", outputFile)

	if g.opts.DryRun {
		return nil
	}

	src, err := os.ReadFile(source)
	if err != nil {
		return err
	}

	compiled, err := g.compiler.Compile(string(src))
	if err != nil {
		return fmt.Errorf("compile %s: %w", source, err)
	}

	code, err := render(filepath.Base(source), compiled)
	if err != nil {
		return fmt.Errorf("render header: %w", err)
	}

	existing, err := os.ReadFile(outputFile)
	if err == nil && bytes.Equal(existing, code) {
		g.opts.Logger.Debug("unchanged", "path", outputFile)
		return nil
	}
	if err == nil && !hasHeader(existing) {
		return fmt.Errorf("refusing to overwrite %s: not generated by bladex", outputFile)
	}

	return os.WriteFile(outputFile, code, 0o644)
}

// render prepends the generated header to the compiled template.
func render(source, compiled string) ([]byte, error) {
	var buf bytes.Buffer
	if err := headerTemplate.Execute(&buf, struct{ Source string }{source}); err != nil {
		return nil, err
	}
	buf.WriteString(compiled)
	return buf.Bytes(), nil
}

func hasHeader(data []byte) bool {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	return bytes.Contains(line, []byte(headerMarker))
}

// isGenerated reports whether path exists and starts with the generated
// header.
func isGenerated(path string) (bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	return strings.Contains(line, headerMarker), nil
}
