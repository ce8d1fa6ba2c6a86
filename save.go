package manifest

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

type savedChild struct {
	name string
	leaf *Leaf
}

// save recursively persists an entry bottom-up and returns the persisted
// reference. Leaves are already persisted and returned as-is. Conflicts
// cannot be saved. Unmodified trees are returned as a reference to their
// existing baseline hash without any store write; modified trees drop
// empty children, save the rest in parallel and write one canonical
// listing for this level.
func (e *engine) save(ctx context.Context, path string, entry Entry) (*Leaf, error) {
	switch n := entry.(type) {
	case *Leaf:
		return n, nil

	case *Conflict:
		return nil, fmt.Errorf("%w at %q", ErrUnresolvedConflicts, path)

	case *Tree:
		if !n.isModified() {
			if n.p2 != nil {
				// Looks like a merge result but carries no new content.
				return nil, fmt.Errorf("%w at %q", ErrUnchangedManifest, path)
			}
			return NewLeaf(*n.base, TypeTree), nil
		}
		return e.saveTree(ctx, path, n)

	default:
		return nil, fmt.Errorf("unknown entry variant %T", entry)
	}
}

func (e *engine) saveTree(ctx context.Context, path string, t *Tree) (*Leaf, error) {
	children, err := e.children(ctx, t)
	if err != nil {
		return nil, err
	}

	p := pool.NewWithResults[*savedChild]().WithContext(ctx).WithCancelOnError()
	for name, child := range children {
		p.Go(func(ctx context.Context) (*savedChild, error) {
			empty, err := e.isEmpty(ctx, child)
			if err != nil {
				return nil, err
			}
			if empty {
				// Empty subtrees are dropped, not written.
				return nil, nil
			}
			leaf, err := e.save(ctx, joinPath(path, name), child)
			if err != nil {
				return nil, err
			}
			return &savedChild{name: name, leaf: leaf}, nil
		})
	}
	saved, err := p.Wait()
	if err != nil {
		return nil, err
	}

	entries := make([]ListEntry, 0, len(saved))
	for _, sc := range saved {
		if sc == nil {
			continue
		}
		entries = append(entries, ListEntry{Name: sc.name, Hash: sc.leaf.hash, Type: sc.leaf.typ})
	}

	data := encodeListing(entries)
	hash, err := e.store.Put(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("write tree %q: %w", path, err)
	}

	e.log.WithFields(logrus.Fields{
		"path":    path,
		"hash":    hash,
		"entries": len(entries),
	}).Debug("wrote tree node")

	return NewLeaf(Hash(hash), TypeTree), nil
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "/" + name
}
