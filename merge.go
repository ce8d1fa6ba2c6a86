package manifest

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

type mergedChild struct {
	name  string
	entry Entry
}

// merge combines two entries three-way, tracking conflicts instead of
// picking winners. Order matters: mine corresponds to p1, theirs to p2,
// and conflict candidates are recorded in that order.
//
// A side that is modified but unsaved has no stable identity to compare
// or record as a parent, so it is flushed to the store and reloaded as a
// clean baseline-only tree before the merge proceeds.
func (e *engine) merge(ctx context.Context, path string, mine, theirs Entry) (Entry, error) {
	// A node may be merged into exactly once.
	for _, side := range []Entry{mine, theirs} {
		if t, ok := side.(*Tree); ok && t.isMerge() {
			return nil, fmt.Errorf("%w: parents %s and %s", ErrManifestAlreadyAMerge, *t.p1, *t.p2)
		}
	}

	if t, ok := mine.(*Tree); ok && t.isModified() {
		saved, err := e.save(ctx, path, mine)
		if err != nil {
			return nil, err
		}
		return e.merge(ctx, path, treeFromBase(saved.hash), theirs)
	}
	if t, ok := theirs.(*Tree); ok && t.isModified() {
		saved, err := e.save(ctx, path, theirs)
		if err != nil {
			return nil, err
		}
		return e.merge(ctx, path, mine, treeFromBase(saved.hash))
	}

	// Conflicts on either side must be resolved before merging again.
	if _, ok := mine.(*Conflict); ok {
		return nil, fmt.Errorf("%w at %q", ErrUnresolvedConflicts, path)
	}
	if _, ok := theirs.(*Conflict); ok {
		return nil, fmt.Errorf("%w at %q", ErrUnresolvedConflicts, path)
	}

	myLeaf, myIsLeaf := mine.(*Leaf)
	theirLeaf, theirIsLeaf := theirs.(*Leaf)
	switch {
	case myIsLeaf && theirIsLeaf:
		if myLeaf.same(theirLeaf) {
			return mine, nil
		}
		return &Conflict{entries: []Entry{mine, theirs}}, nil
	case myIsLeaf || theirIsLeaf:
		// Leaf against tree is always a conflict, order preserved.
		return &Conflict{entries: []Entry{mine, theirs}}, nil
	}

	myTree := mine.(*Tree)
	theirTree := theirs.(*Tree)

	// Both sides are unmodified here, so identical baselines mean an
	// identical tree: no new node, no new hash.
	if myTree.base != nil && theirTree.base != nil && *myTree.base == *theirTree.base {
		return mine, nil
	}

	return e.mergeTrees(ctx, path, myTree, theirTree)
}

// mergeTrees merges two trees entry by entry. Names present on only one
// side are taken unchanged; names present on both are merged recursively,
// concurrently across siblings. The result is a fresh tree with no
// baseline whose parents propagate each side's own p1.
func (e *engine) mergeTrees(ctx context.Context, path string, mine, theirs *Tree) (Entry, error) {
	children, err := e.children(ctx, mine)
	if err != nil {
		return nil, err
	}
	theirChildren, err := e.children(ctx, theirs)
	if err != nil {
		return nil, err
	}

	p := pool.NewWithResults[mergedChild]().WithContext(ctx).WithCancelOnError()
	pending := 0
	for name, theirEntry := range theirChildren {
		myEntry, ok := children[name]
		if !ok {
			// Only present on their side - take their version.
			children[name] = theirEntry
			continue
		}
		pending++
		p.Go(func(ctx context.Context) (mergedChild, error) {
			merged, err := e.merge(ctx, joinPath(path, name), myEntry, theirEntry)
			if err != nil {
				return mergedChild{}, err
			}
			return mergedChild{name: name, entry: merged}, nil
		})
	}
	merged, err := p.Wait()
	if err != nil {
		return nil, err
	}

	conflicts := 0
	for _, mc := range merged {
		if _, ok := mc.entry.(*Conflict); ok {
			conflicts++
		}
		children[mc.name] = mc.entry
	}

	e.log.WithFields(logrus.Fields{
		"path":      path,
		"entries":   len(children),
		"merged":    pending,
		"conflicts": conflicts,
	}).Debug("merged tree level")

	changes := newChangeSet()
	for name, entry := range children {
		changes.set(name, entry)
	}
	return &Tree{p1: mine.p1, p2: theirs.p1, changes: changes}, nil
}
