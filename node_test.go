package manifest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aweris/manifest/internal/store"
)

func TestChildrenFromBaseline(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	eng := testEngine(s)

	blob := putBlob(t, s, "file content")
	sub := putTree(t, s, ListEntry{Name: "inner", Hash: blob, Type: TypeFile})
	base := putTree(t, s,
		ListEntry{Name: "file", Hash: blob, Type: TypeFile},
		ListEntry{Name: "sub", Hash: sub, Type: TypeTree},
	)

	tree := treeFromBase(base)
	children, err := eng.children(ctx, tree)
	require.NoError(t, err)
	require.Len(t, children, 2)

	leaf, ok := children["file"].(*Leaf)
	require.True(t, ok)
	assert.Equal(t, blob, leaf.Hash())

	subTree, ok := children["sub"].(*Tree)
	require.True(t, ok)
	got, ok := subTree.Base()
	require.True(t, ok)
	assert.Equal(t, sub, got)
	p1, p2 := subTree.Parents()
	require.NotNil(t, p1)
	assert.Equal(t, sub, *p1)
	assert.Nil(t, p2)
}

func TestChildrenAppliesChanges(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	eng := testEngine(s)

	blob := putBlob(t, s, "old")
	base := putTree(t, s,
		ListEntry{Name: "keep", Hash: blob, Type: TypeFile},
		ListEntry{Name: "gone", Hash: blob, Type: TypeFile},
		ListEntry{Name: "swap", Hash: blob, Type: TypeFile},
	)

	replacement := NewLeaf(putBlob(t, s, "new"), TypeExecutable)
	tree := treeFromBase(base)
	tree.change("gone", nil)
	tree.change("swap", replacement)
	tree.change("added", NewLeaf(blob, TypeFile))

	children, err := eng.children(ctx, tree)
	require.NoError(t, err)
	assert.Len(t, children, 3)
	assert.Contains(t, children, "keep")
	assert.Contains(t, children, "added")
	assert.NotContains(t, children, "gone")
	assert.Same(t, replacement, children["swap"])
}

func TestChildrenMissingBaseline(t *testing.T) {
	ctx := context.Background()
	eng := testEngine(store.NewMemoryStore())

	tree := treeFromBase(fakeHash(9))
	_, err := eng.children(ctx, tree)
	assert.ErrorIs(t, err, ErrManifestMissing)
}

func TestFindMutLazySeeding(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	eng := testEngine(s)

	blob := putBlob(t, s, "deep")
	sub := putTree(t, s, ListEntry{Name: "file", Hash: blob, Type: TypeFile})
	base := putTree(t, s, ListEntry{Name: "dir", Hash: sub, Type: TypeTree})

	root := treeFromBase(base)
	entry, err := eng.findMut(ctx, root, []string{"dir"})
	require.NoError(t, err)
	dir, ok := entry.(*Tree)
	require.True(t, ok)
	got, ok := dir.Base()
	require.True(t, ok)
	assert.Equal(t, sub, got)

	// The looked-up child is cached in the root's change-set
	assert.True(t, root.changes.has("dir"))
}

func TestFindMutCreatesIntermediates(t *testing.T) {
	ctx := context.Background()
	eng := testEngine(store.NewMemoryStore())

	root := emptyTree()
	entry, err := eng.findMut(ctx, root, []string{"a", "b", "c"})
	require.NoError(t, err)
	tree, ok := entry.(*Tree)
	require.True(t, ok)
	assert.True(t, tree.isModified())
	assert.True(t, root.changes.has("a"))
}

func TestFindMutThroughLeaf(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	eng := testEngine(s)

	blob := putBlob(t, s, "i am a file")
	base := putTree(t, s, ListEntry{Name: "file", Hash: blob, Type: TypeFile})

	root := treeFromBase(base)
	entry, err := eng.findMut(ctx, root, []string{"file", "below"})
	require.NoError(t, err)
	assert.Nil(t, entry, "descending through a file is not found, not auto-creation")
}

func TestFindMutReturnsLeafAtEnd(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	eng := testEngine(s)

	blob := putBlob(t, s, "terminal")
	base := putTree(t, s, ListEntry{Name: "file", Hash: blob, Type: TypeFile})

	root := treeFromBase(base)
	entry, err := eng.findMut(ctx, root, []string{"file"})
	require.NoError(t, err)
	leaf, ok := entry.(*Leaf)
	require.True(t, ok)
	assert.Equal(t, blob, leaf.Hash())
}

func TestFindMutCoercesConflict(t *testing.T) {
	ctx := context.Background()
	eng := testEngine(store.NewMemoryStore())

	root := emptyTree()
	root.change("dir", &Conflict{entries: []Entry{
		treeFromBase(fakeHash(1)),
		treeFromBase(fakeHash(2)),
	}})

	entry, err := eng.findMut(ctx, root, []string{"dir"})
	require.NoError(t, err)
	tree, ok := entry.(*Tree)
	require.True(t, ok)
	p1, p2 := tree.Parents()
	require.NotNil(t, p1)
	require.NotNil(t, p2)
	assert.Equal(t, fakeHash(1), *p1)
	assert.Equal(t, fakeHash(2), *p2)

	// The coerced tree replaces the conflict in the parent's change-set
	replaced := root.changes.descend("dir")
	assert.Same(t, tree, replaced)
}

func TestIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	eng := testEngine(s)

	empty, err := eng.isEmpty(ctx, emptyTree())
	require.NoError(t, err)
	assert.True(t, empty)

	empty, err = eng.isEmpty(ctx, NewLeaf(fakeHash(1), TypeFile))
	require.NoError(t, err)
	assert.False(t, empty, "a leaf is never empty")

	empty, err = eng.isEmpty(ctx, &Conflict{entries: []Entry{NewLeaf(fakeHash(1), TypeFile)}})
	require.NoError(t, err)
	assert.False(t, empty, "a conflict is never empty")
}

func TestIsEmptyAfterDeletions(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	eng := testEngine(s)

	blob := putBlob(t, s, "only file")
	base := putTree(t, s, ListEntry{Name: "only", Hash: blob, Type: TypeFile})

	tree := treeFromBase(base)
	empty, err := eng.isEmpty(ctx, tree)
	require.NoError(t, err)
	assert.False(t, empty)

	tree.change("only", nil)
	empty, err = eng.isEmpty(ctx, tree)
	require.NoError(t, err)
	assert.True(t, empty, "removing the only entry makes the directory empty")
}

func TestIsEmptyNestedEmptySubtrees(t *testing.T) {
	ctx := context.Background()
	eng := testEngine(store.NewMemoryStore())

	root := emptyTree()
	root.change("a", emptyTree())
	root.change("b", emptyTree())

	empty, err := eng.isEmpty(ctx, root)
	require.NoError(t, err)
	assert.True(t, empty, "a tree of empty trees is empty")
}
