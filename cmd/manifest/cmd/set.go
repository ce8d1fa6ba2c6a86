package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aweris/manifest"
)

var setCmd = &cobra.Command{
	Use:   "set <root> <path> <blob-hash> <type>",
	Short: "Add or replace an entry",
	Long: "Load the manifest rooted at <root>, set <path> to the given blob " +
		"(type is one of f, x, l), save, and print the new root hash. " +
		"Use '-' as <root> to start from an empty tree.",
	Args: cobra.ExactArgs(4),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	typ, err := manifest.ParseEntryType(args[3])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	m, err := manifest.New(ctx, s, rootArg(args[0]), nil)
	if err != nil {
		return err
	}

	leaf := manifest.NewLeaf(manifest.Hash(args[2]), typ)
	if err := m.ChangeEntry(ctx, args[1], leaf); err != nil {
		return err
	}

	root, err := m.Save(ctx)
	if err != nil {
		return err
	}

	fmt.Println(root)
	return nil
}

// rootArg turns a CLI root argument into an optional parent hash.
func rootArg(arg string) *manifest.Hash {
	if arg == "-" {
		return nil
	}
	h := manifest.Hash(arg)
	return &h
}
