package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// run executes the CLI against root and returns stdout.
func run(t *testing.T, root, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--root", root}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func project(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "resources/views/components/alert.blade.php"), "alert")
	writeFile(t, filepath.Join(root, "resources/views/pages/home.x.blade.php"), `<x-alert type="info"/>`)
	return root
}

func TestInit(t *testing.T) {
	root := t.TempDir()
	if _, err := run(t, root, "", "init"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "bladex.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "prefix = 'x-'") && !strings.Contains(string(data), `prefix = "x-"`) {
		t.Errorf("bladex.toml missing prefix:\n%s", data)
	}

	if _, err := run(t, root, "", "init"); err == nil {
		t.Error("second init should fail without --force")
	}
	if _, err := run(t, root, "", "init", "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

func TestCompileStdin(t *testing.T) {
	root := project(t)
	out, err := run(t, root, `<x-alert/>`, "compile")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !strings.HasPrefix(out, "@component('components.alert'") {
		t.Errorf("compile output = %q", out)
	}
}

func TestCompileFile(t *testing.T) {
	root := project(t)
	out, err := run(t, root, "", "compile", filepath.Join(root, "resources/views/pages/home.x.blade.php"))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !strings.Contains(out, `'type' => 'info'`) {
		t.Errorf("compile output = %q", out)
	}
}

func TestComponents(t *testing.T) {
	root := project(t)
	writeFile(t, filepath.Join(root, "bladex.toml"), `prefix = "ui"`)

	out, err := run(t, root, "", "components")
	if err != nil {
		t.Fatalf("components failed: %v", err)
	}
	for _, want := range []string{"<ui-context>", "<ui-alert>", "components.alert"} {
		if !strings.Contains(out, want) {
			t.Errorf("components output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateAndClean(t *testing.T) {
	root := project(t)
	output := filepath.Join(root, "resources/views/pages/home.blade.php")

	if _, err := run(t, root, "", "generate", "--dry-run"); err != nil {
		t.Fatalf("generate --dry-run failed: %v", err)
	}
	if _, err := os.Stat(output); err == nil {
		t.Fatal("dry run wrote a file")
	}

	if _, err := run(t, root, "", "generate"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("generated view missing: %v", err)
	}
	if !strings.Contains(string(data), "@component('components.alert'") {
		t.Errorf("generated view = %q", data)
	}

	if _, err := run(t, root, "", "clean"); err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if _, err := os.Stat(output); err == nil {
		t.Error("clean left the generated view")
	}
}

func TestCleanCache(t *testing.T) {
	root := project(t)
	writeFile(t, filepath.Join(root, "bladex.toml"), "cache_dir = \".bladex-cache\"\ncache_key = \"k\"")

	if _, err := run(t, root, "", "generate"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(root, ".bladex-cache"))
	if len(entries) != 1 {
		t.Fatalf("cache has %d entries, want 1", len(entries))
	}

	if _, err := run(t, root, "", "clean", "--cache"); err != nil {
		t.Fatalf("clean --cache failed: %v", err)
	}
	entries, _ = os.ReadDir(filepath.Join(root, ".bladex-cache"))
	if len(entries) != 0 {
		t.Errorf("cache has %d entries after clean, want 0", len(entries))
	}
}

func TestBadConfig(t *testing.T) {
	root := project(t)
	writeFile(t, filepath.Join(root, "bladex.toml"), `match_timeout = "soon"`)
	if _, err := run(t, root, "", "compile"); err == nil {
		t.Error("compile with bad config should fail")
	}
}

func TestConfigIgnoresWorkingDirectory(t *testing.T) {
	other := t.TempDir()
	writeFile(t, filepath.Join(other, "bladex.toml"), `match_timeout = "soon"`)
	t.Chdir(other)

	root := project(t)
	out, err := run(t, root, `<x-alert/>`, "compile")
	if err != nil {
		t.Fatalf("compile picked up the working directory config: %v", err)
	}
	if !strings.Contains(out, "@component('components.alert'") {
		t.Errorf("output = %q, want the alert component", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "bladex version dev (built from source)\n" {
		t.Errorf("version output = %q", out)
	}
}
