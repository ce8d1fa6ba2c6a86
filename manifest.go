package manifest

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Manifest is the path-addressed façade over an overlay tree graph. It is
// built from zero, one or two baseline tree hashes, mutated via ChangeEntry,
// merged against another manifest, and flushed back to the store with Save.
type Manifest struct {
	eng  *engine
	root Entry
}

// New creates a manifest backed by the given store. With no parents the
// manifest starts as an empty tree; with one parent it lazily materializes
// from that hash; with two parents the sides are merged immediately and
// the resulting manifest may already contain conflicts.
func New(ctx context.Context, s Store, p1, p2 *Hash, opts ...Option) (*Manifest, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	eng := &engine{store: s, log: options.Logger}

	var root Entry
	switch {
	case p1 == nil && p2 == nil:
		root = emptyTree()
	case p1 != nil && p2 != nil:
		merged, err := eng.merge(ctx, "", treeFromBase(*p1), treeFromBase(*p2))
		if err != nil {
			return nil, err
		}
		root = merged
	case p1 != nil:
		root = treeFromBase(*p1)
	default:
		root = treeFromBase(*p2)
	}

	return &Manifest{eng: eng, root: root}, nil
}

// Root returns the root entry of the overlay graph. After a two-parent
// construction or a merge it may contain Conflict entries below.
func (m *Manifest) Root() Entry {
	return m.root
}

// ChangeEntry adds or replaces the leaf at path (entry non-nil), or
// removes the entry at path (entry nil). Intermediate directories are
// created as needed; only the listings along the path are ever read.
func (m *Manifest) ChangeEntry(ctx context.Context, path string, entry *Leaf) error {
	parts, err := splitEntryPath(path)
	if err != nil {
		return err
	}
	dir, name := parts[:len(parts)-1], parts[len(parts)-1]

	target, err := m.eng.findMut(ctx, m.root, dir)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("%w: %q", ErrPathNotFound, path)
	}
	t, ok := target.(*Tree)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotADirectory, path)
	}

	if entry == nil {
		t.change(name, nil)
	} else {
		t.change(name, entry)
	}
	return nil
}

// Merge merges this manifest (p1) with other (p2), producing a new
// manifest that records conflicting paths as Conflict entries instead of
// silently picking a winner. Both manifests must share a store.
func (m *Manifest) Merge(ctx context.Context, other *Manifest) (*Manifest, error) {
	merged, err := m.eng.merge(ctx, "", m.root, other.root)
	if err != nil {
		return nil, err
	}
	return &Manifest{eng: m.eng, root: merged}, nil
}

// Save recursively persists every modified, non-empty subtree and returns
// the hash of the new root. Subtrees containing unresolved conflicts make
// the whole save fail with ErrUnresolvedConflicts; conflict-free sibling
// subtrees may still have been written, which is safe because writes are
// content-addressed and idempotent.
func (m *Manifest) Save(ctx context.Context) (Hash, error) {
	leaf, err := m.eng.save(ctx, "", m.root)
	if err != nil {
		return "", err
	}
	return leaf.hash, nil
}

// Conflicts materializes the overlay graph and returns the paths of all
// unresolved conflicts, sorted. An empty result means the manifest can be
// saved.
func (m *Manifest) Conflicts(ctx context.Context) ([]string, error) {
	var out []string
	if err := m.eng.collectConflicts(ctx, "", m.root, &out); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (e *engine) collectConflicts(ctx context.Context, path string, entry Entry, out *[]string) error {
	switch n := entry.(type) {
	case *Conflict:
		*out = append(*out, path)
	case *Tree:
		if !n.isModified() {
			// Persisted subtrees cannot hold conflicts.
			return nil
		}
		children, err := e.children(ctx, n)
		if err != nil {
			return err
		}
		for name, child := range children {
			if err := e.collectConflicts(ctx, joinPath(path, name), child, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// splitEntryPath splits a slash-separated manifest path into components.
func splitEntryPath(path string) ([]string, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 1 && parts[0] == "" {
		return nil, fmt.Errorf("%w: empty path", ErrPathNotFound)
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return nil, fmt.Errorf("%w: invalid component in %q", ErrPathNotFound, path)
		}
	}
	return parts, nil
}
