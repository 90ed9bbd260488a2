package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm/bladex/lib/compiler"
	"github.com/pthm/bladex/lib/encoding"
)

var components = []compiler.Component{
	{Tag: "context", View: compiler.ContextView},
	{Tag: "card", View: "components.card"},
}

func TestKey(t *testing.T) {
	base := Key("<x-card/>", "x-", components)

	if len(base) != 64 {
		t.Errorf("Key length = %d, want 64", len(base))
	}
	if again := Key("<x-card/>", "x-", components); again != base {
		t.Errorf("Key should be stable: %s vs %s", base, again)
	}

	changed := []struct {
		name string
		key  string
	}{
		{"source", Key("<x-card />", "x-", components)},
		{"prefix", Key("<x-card/>", "y-", components)},
		{"components", Key("<x-card/>", "x-", components[:1])},
		{"view", Key("<x-card/>", "x-", []compiler.Component{components[0], {Tag: "card", View: "components.panel"}})},
		{"data model", Key("<x-card/>", "x-", []compiler.Component{components[0], {Tag: "card", View: "components.card", DataModel: "App\\Card"}})},
		{"field boundary", Key("-<x-card/>", "x", components)},
	}
	for _, tt := range changed {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key == base {
				t.Errorf("changing %s should change the key", tt.name)
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if _, ok, err := s.Get("missing"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v; want miss", ok, err)
	}

	entry := Entry{Key: "k", Output: "out", CompiledAt: time.Now()}
	if err := s.Put(entry); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := s.Get("k")
	if err != nil || !ok {
		t.Fatalf("Get(k) = %v, %v", ok, err)
	}
	if got.Output != "out" {
		t.Errorf("Output = %q, want %q", got.Output, "out")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func newDirStore(t *testing.T, key string) *DirStore {
	t.Helper()
	codec, err := encoding.NewCodec([]byte(key))
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	s, err := NewDirStore(filepath.Join(t.TempDir(), "cache"), codec)
	if err != nil {
		t.Fatalf("NewDirStore failed: %v", err)
	}
	return s
}

func TestDirStore(t *testing.T) {
	s := newDirStore(t, "secret")

	if _, ok, err := s.Get("missing"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v; want miss", ok, err)
	}

	entry := Entry{
		Key:        Key("<x-card/>", "x-", components),
		Output:     "@component('components.card', [])",
		CompiledAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := s.Put(entry); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := s.Get(entry.Key)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.Output != entry.Output {
		t.Errorf("Output = %q, want %q", got.Output, entry.Output)
	}
	if !got.CompiledAt.Equal(entry.CompiledAt) {
		t.Errorf("CompiledAt = %v, want %v", got.CompiledAt, entry.CompiledAt)
	}

	// No temporary files are left behind
	files, _ := os.ReadDir(s.Dir())
	if len(files) != 1 {
		t.Errorf("cache dir has %d files, want 1", len(files))
	}
}

func TestDirStoreRejectsTamperedEntry(t *testing.T) {
	s := newDirStore(t, "secret")
	entry := Entry{Key: "abc", Output: "original"}
	if err := s.Put(entry); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	path := filepath.Join(s.Dir(), "abc"+FileExt)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[0] ^= 0x01
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	_, ok, err := s.Get("abc")
	if ok {
		t.Error("tampered entry should not be returned")
	}
	if !errors.Is(err, encoding.ErrSignatureInvalid) && !errors.Is(err, encoding.ErrInvalidFormat) {
		t.Errorf("Get error = %v, want signature or format error", err)
	}
}

func TestDirStoreRejectsOtherKey(t *testing.T) {
	writer := newDirStore(t, "one")
	if err := writer.Put(Entry{Key: "abc", Output: "x"}); err != nil {
		t.Fatal(err)
	}

	codec, _ := encoding.NewCodec([]byte("two"))
	reader, err := NewDirStore(writer.Dir(), codec)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := reader.Get("abc"); !errors.Is(err, encoding.ErrSignatureInvalid) {
		t.Errorf("Get with other key = %v, want ErrSignatureInvalid", err)
	}
}

func TestDirStoreRejectsMovedEntry(t *testing.T) {
	s := newDirStore(t, "secret")
	if err := s.Put(Entry{Key: "abc", Output: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(filepath.Join(s.Dir(), "abc"+FileExt), filepath.Join(s.Dir(), "def"+FileExt)); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Get("def"); ok || !errors.Is(err, encoding.ErrInvalidFormat) {
		t.Errorf("Get(def) = %v, %v; want ErrInvalidFormat", ok, err)
	}
}

func TestDirStoreClear(t *testing.T) {
	s := newDirStore(t, "secret")
	for _, k := range []string{"a", "b"} {
		if err := s.Put(Entry{Key: k}); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "keep.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := s.Clear()
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear removed %d files, want 2", n)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "keep.txt")); err != nil {
		t.Errorf("unrelated file removed: %v", err)
	}
}
