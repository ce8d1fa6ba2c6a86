package manifest

import (
	"github.com/aweris/manifest/internal/store"
)

// Store is the public interface for content-addressed blob storage.
// Re-exported from internal/store for convenience.
type Store = store.Store

// NewLocalStore opens a filesystem-backed store rooted at dir, with an
// in-memory LRU object cache and zstd compression of stored objects.
func NewLocalStore(dir string, cacheSize, compressionLevel int) (Store, error) {
	return store.NewLocalStore(dir, cacheSize, compressionLevel)
}

// NewMemoryStore returns a map-backed store. Useful for tests and tools
// that never need persistence.
func NewMemoryStore() Store {
	return store.NewMemoryStore()
}
