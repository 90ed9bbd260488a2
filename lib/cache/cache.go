// Package cache stores compiled templates keyed by their source and the
// component set they were compiled against.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"sync"
	"time"

	"github.com/pthm/bladex/lib/compiler"
)

// Entry is a compiled template.
type Entry struct {
	Key        string    `msgpack:"key"`
	Output     string    `msgpack:"output"`
	CompiledAt time.Time `msgpack:"compiled_at"`
}

// Store persists compiled templates.
//
// Get reports ok=false for a missing entry. An error from Get means an entry
// exists but cannot be trusted; callers recompile and overwrite it.
type Store interface {
	Get(key string) (entry Entry, ok bool, err error)
	Put(entry Entry) error
}

// Key returns the cache key for source compiled with prefix and components.
// Any change to the source, the prefix or the registered components
// produces a different key.
func Key(source, prefix string, components []compiler.Component) string {
	h := sha256.New()
	writeField(h, "bladex/v1")
	writeField(h, prefix)
	for _, c := range components {
		writeField(h, c.Tag)
		writeField(h, c.View)
		writeField(h, c.DataModel)
	}
	writeField(h, source)
	return hex.EncodeToString(h.Sum(nil))
}

// writeField writes a length-prefixed field so that adjacent fields cannot
// run into each other.
func writeField(h hash.Hash, s string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	entries sync.Map // key -> Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(key string) (Entry, bool, error) {
	v, ok := s.entries.Load(key)
	if !ok {
		return Entry{}, false, nil
	}
	return v.(Entry), true, nil
}

func (s *MemoryStore) Put(entry Entry) error {
	s.entries.Store(entry.Key, entry)
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
