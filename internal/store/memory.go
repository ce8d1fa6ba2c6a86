package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// MemoryStore implements Store with a plain map. It counts operations per
// hash, which tests use to verify which tree levels a walk actually read.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	gets    map[string]int
	puts    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		gets:    make(map[string]int),
	}
}

// Get retrieves an object by hash.
func (s *MemoryStore) Get(ctx context.Context, hash string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets[hash]++
	data, ok := s.objects[hash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put stores an object and returns its hash.
func (s *MemoryStore) Put(ctx context.Context, data []byte) (string, error) {
	h := sha256.Sum256(data)
	hash := hex.EncodeToString(h[:])

	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if _, ok := s.objects[hash]; !ok {
		stored := make([]byte, len(data))
		copy(stored, data)
		s.objects[hash] = stored
	}
	return hash, nil
}

// Has checks if an object exists.
func (s *MemoryStore) Has(ctx context.Context, hash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[hash]
	return ok, nil
}

// GetCount returns how many times Get was called for hash.
func (s *MemoryStore) GetCount(hash string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets[hash]
}

// PutCount returns how many times Put was called in total.
func (s *MemoryStore) PutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// Len returns the number of distinct stored objects.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
