package bladex

import (
	"github.com/pthm/bladex/lib/cache"
	"github.com/pthm/bladex/lib/encoding"
)

// Store is an alias for cache.Store for convenience.
type Store = cache.Store

// NewMemoryCache creates an in-process cache for WithCache.
func NewMemoryCache() *cache.MemoryStore {
	return cache.NewMemoryStore()
}

// NewDirCache creates a file cache in dir whose entries are signed with key.
// With sealed set, entries are encrypted instead.
func NewDirCache(dir string, key []byte, sealed bool) (*cache.DirStore, error) {
	var opts []encoding.Option
	if sealed {
		opts = append(opts, encoding.Sealed())
	}
	codec, err := encoding.NewCodec(key, opts...)
	if err != nil {
		return nil, err
	}
	return cache.NewDirStore(dir, codec)
}
