package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aweris/manifest"
)

var rmCmd = &cobra.Command{
	Use:   "rm <root> <path>",
	Short: "Remove an entry",
	Long: "Load the manifest rooted at <root>, remove the entry at <path>, " +
		"save, and print the new root hash. Directories left empty by the " +
		"removal are dropped from the saved tree.",
	Args: cobra.ExactArgs(2),
	RunE: runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	h := manifest.Hash(args[0])
	m, err := manifest.New(ctx, s, &h, nil)
	if err != nil {
		return err
	}

	if err := m.ChangeEntry(ctx, args[1], nil); err != nil {
		return err
	}

	root, err := m.Save(ctx)
	if err != nil {
		return err
	}

	fmt.Println(root)
	return nil
}
