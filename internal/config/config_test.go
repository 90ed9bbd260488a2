package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
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

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(Default(), *cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, `
prefix = "ui"
views = ["components", "partials"]
cache_dir = ".bladex"
cache_key = "k"
match_timeout = "250ms"

[[components]]
view = "mail::components.button"
tag = "button"

[[components]]
view = "components.card"
data_model = 'App\ViewModels\Card'
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Prefix != "ui" {
		t.Errorf("Prefix = %q, want %q", cfg.Prefix, "ui")
	}
	if diff := cmp.Diff([]string{"components", "partials"}, cfg.Views); diff != "" {
		t.Errorf("Views mismatch (-want +got):\n%s", diff)
	}
	want := []Component{
		{View: "mail::components.button", Tag: "button"},
		{View: "components.card", DataModel: `App\ViewModels\Card`},
	}
	if diff := cmp.Diff(want, cfg.Components); diff != "" {
		t.Errorf("Components mismatch (-want +got):\n%s", diff)
	}
	if cfg.CacheDir != ".bladex" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	// Unset keys keep their defaults
	if cfg.SourceExt != Default().SourceExt {
		t.Errorf("SourceExt = %q, want default", cfg.SourceExt)
	}
	if d, err := cfg.Timeout(); err != nil || d != 250*time.Millisecond {
		t.Errorf("Timeout() = %v, %v", d, err)
	}
}

func TestLoadFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bladex.toml"), `prefix = "blade"`)
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prefix != "blade" {
		t.Errorf("Prefix = %q, want %q", cfg.Prefix, "blade")
	}
}

func TestLoadSearchDirs(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "bladex.toml"), `prefix = "cwd"`)
	t.Chdir(cwd)

	root := t.TempDir()
	cfg, err := Load("", root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prefix != Default().Prefix {
		t.Errorf("Prefix = %q, want default %q", cfg.Prefix, Default().Prefix)
	}

	writeFile(t, filepath.Join(root, "bladex.toml"), `prefix = "root"`)
	cfg, err = Load("", root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prefix != "root" {
		t.Errorf("Prefix = %q, want %q", cfg.Prefix, "root")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bladex.toml")
	writeFile(t, path, `prefix = "ui"`)
	t.Setenv("BLADEX_PREFIX", "env")
	t.Setenv("BLADEX_CACHE_KEY", "s3cret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prefix != "env" {
		t.Errorf("Prefix = %q, want %q", cfg.Prefix, "env")
	}
	if cfg.CacheKey != "s3cret" {
		t.Errorf("CacheKey = %q, want %q", cfg.CacheKey, "s3cret")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"bad timeout", `match_timeout = "soon"`, "match_timeout"},
		{"component without view", "[[components]]\ntag = \"x\"", "view is required"},
		{"cache without key", `cache_dir = ".bladex"`, "cache_key"},
		{"same extensions", "source_ext = \".php\"\noutput_ext = \".php\"", "must differ"},
		{"bad toml", `prefix = `, "read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".toml")
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("Load() = %v, want error containing %q", err, tt.errText)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load(missing) should fail")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "bladex.toml")
	cfg := Default()
	cfg.Prefix = "ui-"
	cfg.Components = []Component{{View: "components.card", Tag: "panel"}}

	if err := Write(path, cfg, false); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := Write(path, cfg, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second Write = %v, want ErrConfigExists", err)
	}
	if err := Write(path, cfg, true); err != nil {
		t.Errorf("forced Write failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(cfg, *loaded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "resources/views/components/alert.blade.php"), "alert")
	writeFile(t, filepath.Join(root, "resources/views/components/myCard.blade.php"), "card")

	cfg := Default()
	cfg.Prefix = "ui"
	cfg.Views = []string{"components", "missing"}
	cfg.CacheDir = ".cache"
	cfg.CacheKey = "k"
	cfg.Components = []Component{
		{View: "components.panel", Tag: "my-card", DataModel: `App\Panel`},
	}

	reg, err := cfg.Registry(root, nil)
	if err != nil {
		t.Fatalf("Registry failed: %v", err)
	}
	if reg.Prefix() != "ui-" {
		t.Errorf("Prefix() = %q, want %q", reg.Prefix(), "ui-")
	}

	var views []string
	for _, c := range reg.Components() {
		views = append(views, c.Tag+"="+c.View)
	}
	want := []string{"context=bladex::context", "alert=components.alert", "my-card=components.panel"}
	if diff := cmp.Diff(want, views); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}

	out, err := reg.CompileCached(`<ui-alert/>`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "@component('components.alert'") {
		t.Errorf("CompileCached() = %q", out)
	}
	entries, err := os.ReadDir(filepath.Join(root, ".cache"))
	if err != nil || len(entries) != 1 {
		t.Errorf("cache dir entries = %d, %v; want 1", len(entries), err)
	}
}
