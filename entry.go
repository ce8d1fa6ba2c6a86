package manifest

import "sync"

// Entry is one node of the in-memory manifest graph. It is a closed sum
// over three variants: Leaf (a persisted non-tree blob reference),
// Conflict (an unresolved merge outcome) and Tree (a mutable overlay
// directory node).
type Entry interface {
	entryNode()
}

// Leaf references an already-persisted blob by hash and type. It is
// immutable; the blob content itself is opaque to the merge logic.
type Leaf struct {
	hash Hash
	typ  EntryType
}

// NewLeaf builds a reference to a persisted blob.
func NewLeaf(hash Hash, typ EntryType) *Leaf {
	return &Leaf{hash: hash, typ: typ}
}

func (l *Leaf) Hash() Hash      { return l.hash }
func (l *Leaf) Type() EntryType { return l.typ }

func (l *Leaf) same(other *Leaf) bool {
	return l.hash == other.hash && l.typ == other.typ
}

// Conflict holds the candidates of an unresolved merge, in strict order:
// the first entry came from p1, the second from p2. A Conflict can never
// be saved; it must be resolved externally by replacing the entry.
type Conflict struct {
	entries []Entry
}

// Entries returns the conflicting candidates in parent order.
func (c *Conflict) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Tree is an in-memory overlay directory node: an optional persisted
// baseline plus a sparse change-set recording additions, replacements and
// removals relative to it. Copies of a Tree share one change-set, so a
// mutation made through any handle is visible through all of them.
type Tree struct {
	// base is the hash of the persisted tree this node was materialized
	// from. Absent for freshly created or merge-produced trees.
	base *Hash

	// p1 and p2 record the historical hashes this node derives from.
	// Both set means the node is itself a completed merge.
	p1, p2 *Hash

	changes *changeSet
}

func (*Leaf) entryNode()     {}
func (*Conflict) entryNode() {}
func (*Tree) entryNode()     {}

// emptyTree returns a fresh tree with no baseline, no parents and no changes.
func emptyTree() *Tree {
	return &Tree{changes: newChangeSet()}
}

// treeFromBase returns an unmodified tree materialized from a persisted hash.
func treeFromBase(h Hash) *Tree {
	return &Tree{base: &h, p1: &h, changes: newChangeSet()}
}

// isModified reports whether this tree differs from its baseline. A tree
// without a baseline is modified by definition, even when empty.
func (t *Tree) isModified() bool {
	return t.base == nil || t.changes.len() > 0
}

func (t *Tree) isMerge() bool {
	return t.p1 != nil && t.p2 != nil
}

// Base returns the baseline hash this tree was loaded from, if any.
func (t *Tree) Base() (Hash, bool) {
	if t.base == nil {
		return "", false
	}
	return *t.base, true
}

// Parents returns the up-to-two parent hashes this tree derives from.
func (t *Tree) Parents() (p1, p2 *Hash) {
	return t.p1, t.p2
}

// change records an add/replace (entry non-nil) or a removal (entry nil)
// for name, shadowing any baseline entry of the same name.
func (t *Tree) change(name string, entry Entry) {
	t.changes.set(name, entry)
}

// changeSet is the single mutable shared resource of the model: the sparse
// name to optional-entry mapping of one Tree. A nil value is a tombstone
// marking the name deleted relative to the baseline. The mutex is held for
// single operations only, never across store I/O.
type changeSet struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func newChangeSet() *changeSet {
	return &changeSet{entries: make(map[string]Entry)}
}

func (c *changeSet) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *changeSet) has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[name]
	return ok
}

func (c *changeSet) set(name string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = entry
}

// fill caches a lazily looked-up entry, keeping whatever a concurrent
// fill installed first. Lookups are deterministic for a given baseline
// and name, so losing the race is harmless.
func (c *changeSet) fill(name string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[name]; !ok {
		c.entries[name] = entry
	}
}

// descend returns the entry to navigate into for name, inserting an empty
// tree for absent or deleted names and coercing a Conflict into an
// editable two-parent tree.
func (c *changeSet) descend(name string) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[name]
	if !ok || e == nil {
		e = emptyTree()
		c.entries[name] = e
	}
	if conflict, ok := e.(*Conflict); ok {
		t := conflict.coerce()
		c.entries[name] = t
		e = t
	}
	return e
}

// applyTo layers the recorded changes over a materialized baseline child
// mapping: tombstones remove, entries replace or insert.
func (c *changeSet) applyTo(children map[string]Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, entry := range c.entries {
		if entry == nil {
			delete(children, name)
		} else {
			children[name] = entry
		}
	}
}

// coerce rewrites an unresolved conflict into a fresh tree whose parents
// are the first two unmodified tree-typed candidates. Any further
// candidates are dropped, which loses information when a conflict has
// more than two tree-typed sides.
func (c *Conflict) coerce() *Tree {
	var parents []*Hash
	for _, e := range c.entries {
		if len(parents) == 2 {
			break
		}
		switch n := e.(type) {
		case *Tree:
			if !n.isModified() {
				parents = append(parents, n.base)
			}
		case *Leaf:
			if n.typ.IsTree() {
				h := n.hash
				parents = append(parents, &h)
			}
		}
	}
	t := emptyTree()
	if len(parents) > 0 {
		t.p1 = parents[0]
	}
	if len(parents) > 1 {
		t.p2 = parents[1]
	}
	return t
}
