package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aweris/manifest"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <p1> <p2>",
	Short: "Merge two manifest roots",
	Long: "Merge the manifests rooted at <p1> and <p2>. Prints the merged " +
		"root hash on success, or the conflicting paths when the merge " +
		"cannot be saved.",
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p1 := manifest.Hash(args[0])
	p2 := manifest.Hash(args[1])

	m, err := manifest.New(ctx, s, &p1, &p2)
	if err != nil {
		return err
	}

	conflicts, err := m.Conflicts(ctx)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		fmt.Fprintf(os.Stderr, "%d unresolved conflicts:\n", len(conflicts))
		for _, path := range conflicts {
			fmt.Fprintf(os.Stderr, "  %s\n", path)
		}
		os.Exit(1)
	}

	root, err := m.Save(ctx)
	if err != nil {
		return err
	}

	fmt.Println(root)
	return nil
}
