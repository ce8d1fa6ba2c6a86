// Package manifest implements an in-memory, copy-on-write directory tree
// (a manifest) over a content-addressed blob store, with lazy
// materialization, three-way merge with conflict tracking, and
// deterministic write-out of modified subtrees.
//
// A manifest is built from zero, one or two persisted tree hashes. Edits
// accumulate as a sparse overlay on top of the baseline; only the
// listings along a touched path are ever read. Merging two manifests
// never picks a winner silently: disagreements become Conflict entries
// that block saving until resolved by a later edit.
//
// Basic usage:
//
//	s, _ := manifest.NewLocalStore("/var/lib/manifests", 1024, 2)
//
//	m, _ := manifest.New(ctx, s, &base, nil)
//
//	// Add, replace and remove entries by path
//	m.ChangeEntry(ctx, "dir/file.txt", manifest.NewLeaf(blobHash, manifest.TypeFile))
//	m.ChangeEntry(ctx, "dir/old.txt", nil)
//
//	// Persist modified subtrees, get the new root hash
//	root, _ := m.Save(ctx)
//
// Merging:
//
//	merged, _ := mine.Merge(ctx, theirs)
//	if paths, _ := merged.Conflicts(ctx); len(paths) > 0 {
//	    // resolve each conflicting path with ChangeEntry, then Save
//	}
package manifest
