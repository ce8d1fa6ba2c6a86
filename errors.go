package manifest

import "errors"

var (
	// ErrManifestMissing is returned when a baseline tree hash does not
	// resolve in the store. Stale reference or data corruption.
	ErrManifestMissing = errors.New("manifest: tree not found in store")

	// ErrPathNotFound is returned when navigation cannot reach the
	// addressed location, including descent through a non-tree entry.
	ErrPathNotFound = errors.New("manifest: path not found")

	// ErrNotADirectory is returned when a directory-only mutation is
	// attempted on a non-tree entry.
	ErrNotADirectory = errors.New("manifest: not a directory")

	// ErrUnresolvedConflicts is returned when a save or merge touches a
	// subtree that still contains an unresolved conflict. The caller must
	// resolve the conflict by editing that path before retrying.
	ErrUnresolvedConflicts = errors.New("manifest: unresolved conflicts")

	// ErrUnchangedManifest is returned when saving a merge-tagged tree
	// that carries no new content.
	ErrUnchangedManifest = errors.New("manifest: merge has no changes to save")

	// ErrManifestAlreadyAMerge is returned when merging a tree that
	// already has two parents. Merges are single-step; chain them one
	// level at a time.
	ErrManifestAlreadyAMerge = errors.New("manifest: tree is already a merge")
)
