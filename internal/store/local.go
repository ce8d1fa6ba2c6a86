package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aweris/manifest/internal/compression"
)

// LocalStore implements Store using the local filesystem.
//
// Storage layout (git-style sharding):
//
//	basePath/objects/ab/cd123...
//
// Objects are zstd-compressed on disk and cached uncompressed in an
// in-memory LRU.
type LocalStore struct {
	basePath   string
	cache      *lru.Cache[string, []byte]
	compressor *compression.Compressor
}

func NewLocalStore(basePath string, cacheSize, compressionLevel int) (*LocalStore, error) {
	objectsDir := filepath.Join(basePath, "objects")
	if err := os.MkdirAll(objectsDir, 0755); err != nil {
		return nil, fmt.Errorf("create objects dir: %w", err)
	}

	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	compressor, err := compression.NewCompressor(compressionLevel)
	if err != nil {
		return nil, fmt.Errorf("create compressor: %w", err)
	}

	return &LocalStore{
		basePath:   basePath,
		cache:      cache,
		compressor: compressor,
	}, nil
}

// Get retrieves an object by hash.
func (s *LocalStore) Get(ctx context.Context, hash string) ([]byte, error) {
	if data, ok := s.cache.Get(hash); ok {
		return data, nil
	}

	compressed, err := os.ReadFile(s.objectPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
		}
		return nil, fmt.Errorf("read object: %w", err)
	}

	data, err := s.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress object: %w", err)
	}

	s.cache.Add(hash, data)
	return data, nil
}

// Put stores an object and returns its hash. Writing an object that
// already exists is a no-op.
func (s *LocalStore) Put(ctx context.Context, data []byte) (string, error) {
	h := sha256.Sum256(data)
	hash := hex.EncodeToString(h[:])

	path := s.objectPath(hash)
	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}

	compressed, err := s.compressor.Compress(data)
	if err != nil {
		return "", fmt.Errorf("compress object: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}
	if err := os.WriteFile(path, compressed, 0644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}

	s.cache.Add(hash, data)
	return hash, nil
}

// Has checks if an object exists.
func (s *LocalStore) Has(ctx context.Context, hash string) (bool, error) {
	if s.cache.Contains(hash) {
		return true, nil
	}
	_, err := os.Stat(s.objectPath(hash))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *LocalStore) objectPath(hash string) string {
	if len(hash) < 2 {
		return filepath.Join(s.basePath, "objects", hash)
	}
	return filepath.Join(s.basePath, "objects", hash[:2], hash[2:])
}
