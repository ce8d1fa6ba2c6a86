package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aweris/manifest/internal/store"
)

// Hash identifies a persisted object: lowercase hex SHA-256 of its bytes.
type Hash string

const hashLen = 64

// EntryType is the kind of a persisted manifest entry.
type EntryType byte

const (
	TypeFile       EntryType = 'f'
	TypeExecutable EntryType = 'x'
	TypeSymlink    EntryType = 'l'
	TypeTree       EntryType = 't'
)

// IsTree returns true for tree (directory) entries.
func (t EntryType) IsTree() bool {
	return t == TypeTree
}

func (t EntryType) valid() bool {
	switch t {
	case TypeFile, TypeExecutable, TypeSymlink, TypeTree:
		return true
	}
	return false
}

func (t EntryType) String() string {
	return string(rune(t))
}

// ParseEntryType parses a single type character ("f", "x", "l" or "t").
func ParseEntryType(s string) (EntryType, error) {
	if len(s) == 1 && EntryType(s[0]).valid() {
		return EntryType(s[0]), nil
	}
	return 0, fmt.Errorf("invalid entry type %q", s)
}

// ListEntry is one decoded line of a persisted tree node.
type ListEntry struct {
	Name string
	Hash Hash
	Type EntryType
}

// Listing is the decoded content of one persisted tree level, sorted by name.
type Listing struct {
	entries []ListEntry
}

// Entries returns the decoded entries in name order.
func (l *Listing) Entries() []ListEntry {
	return l.entries
}

// Lookup finds a single entry by name.
func (l *Listing) Lookup(name string) (ListEntry, bool) {
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Name >= name
	})
	if i < len(l.entries) && l.entries[i].Name == name {
		return l.entries[i], true
	}
	return ListEntry{}, false
}

// decodeListing parses persisted tree-node bytes.
// Each entry is <name>\0<hex-hash><type-char>\n.
func decodeListing(data []byte) (*Listing, error) {
	var entries []ListEntry
	for len(data) > 0 {
		nl := bytes.IndexByte(data, '\n')
		if nl == -1 {
			return nil, errors.New("tree listing: missing newline")
		}
		line := data[:nl]
		data = data[nl+1:]

		sep := bytes.IndexByte(line, 0)
		if sep == -1 {
			return nil, errors.New("tree listing: missing separator")
		}
		name := string(line[:sep])
		rest := line[sep+1:]
		if name == "" || len(rest) != hashLen+1 {
			return nil, fmt.Errorf("tree listing: malformed entry %q", name)
		}
		typ := EntryType(rest[hashLen])
		if !typ.valid() {
			return nil, fmt.Errorf("tree listing: unknown type %q", rest[hashLen])
		}
		entries = append(entries, ListEntry{
			Name: name,
			Hash: Hash(rest[:hashLen]),
			Type: typ,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return &Listing{entries: entries}, nil
}

// encodeListing produces the canonical byte encoding of a tree level.
// Entries are sorted by name so identical contents always hash identically.
func encodeListing(entries []ListEntry) []byte {
	sorted := make([]ListEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var buf bytes.Buffer
	for _, e := range sorted {
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.WriteString(string(e.Hash))
		buf.WriteByte(byte(e.Type))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// LoadListing reads and decodes the persisted tree node identified by hash.
func LoadListing(ctx context.Context, s Store, hash Hash) (*Listing, error) {
	data, err := s.Get(ctx, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrManifestMissing, hash)
		}
		return nil, fmt.Errorf("load tree %s: %w", hash, err)
	}
	return decodeListing(data)
}
