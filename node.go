package manifest

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/aweris/manifest/internal/store"
)

// engine bundles the store handle and logger threaded through every
// recursive operation on the overlay graph.
type engine struct {
	store store.Store
	log   logrus.FieldLogger
}

// entryFromList converts one persisted listing entry into an in-memory
// entry: subtrees become fresh overlay trees rooted at their hash,
// everything else becomes a leaf reference.
func entryFromList(le ListEntry) Entry {
	if le.Type.IsTree() {
		return treeFromBase(le.Hash)
	}
	return NewLeaf(le.Hash, le.Type)
}

// children materializes the full current child mapping of a tree: the
// baseline listing (loaded on demand) with the change-set applied on top.
// Read-only on the store and idempotent.
func (e *engine) children(ctx context.Context, t *Tree) (map[string]Entry, error) {
	out := make(map[string]Entry)
	if t.base != nil {
		listing, err := LoadListing(ctx, e.store, *t.base)
		if err != nil {
			return nil, err
		}
		for _, le := range listing.Entries() {
			out[le.Name] = entryFromList(le)
		}
	}
	t.changes.applyTo(out)
	return out, nil
}

// isEmpty reports whether an entry is a tree whose fully materialized
// child list is empty. Leaves and conflicts are never empty. A persisted,
// unmodified tree is never empty either: save drops empty subtrees, so
// nothing empty is ever written below a root.
func (e *engine) isEmpty(ctx context.Context, entry Entry) (bool, error) {
	t, ok := entry.(*Tree)
	if !ok {
		return false, nil
	}
	if !t.isModified() {
		return false, nil
	}
	children, err := e.children(ctx, t)
	if err != nil {
		return false, err
	}
	if len(children) == 0 {
		return true, nil
	}

	p := pool.NewWithResults[bool]().WithContext(ctx)
	for _, child := range children {
		p.Go(func(ctx context.Context) (bool, error) {
			return e.isEmpty(ctx, child)
		})
	}
	results, err := p.Wait()
	if err != nil {
		return false, err
	}
	for _, empty := range results {
		if !empty {
			return false, nil
		}
	}
	return true, nil
}

// findMut walks down from entry along path, creating intermediate trees
// as needed. Names not yet cached in a change-set are looked up one at a
// time against the baseline, so changing a deep path only ever reads the
// listings along that path. Returns nil when the path passes through a
// non-tree entry.
func (e *engine) findMut(ctx context.Context, entry Entry, path []string) (Entry, error) {
	if len(path) == 0 {
		return entry, nil
	}
	t, ok := entry.(*Tree)
	if !ok {
		return nil, nil
	}

	name := path[0]
	if !t.changes.has(name) && t.base != nil {
		listing, err := LoadListing(ctx, e.store, *t.base)
		if err != nil {
			return nil, err
		}
		if le, ok := listing.Lookup(name); ok {
			t.changes.fill(name, entryFromList(le))
		}
	}
	return e.findMut(ctx, t.changes.descend(name), path[1:])
}
