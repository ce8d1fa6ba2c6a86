package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aweris/manifest"
)

var lsCmd = &cobra.Command{
	Use:   "ls <root> [path]",
	Short: "List a tree level",
	Long:  "List the entries of a persisted tree, optionally descending to a subdirectory first.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	listing, err := manifest.LoadListing(ctx, s, manifest.Hash(args[0]))
	if err != nil {
		return err
	}

	if len(args) > 1 {
		for _, part := range strings.Split(strings.Trim(args[1], "/"), "/") {
			if part == "" {
				continue
			}
			entry, ok := listing.Lookup(part)
			if !ok {
				return fmt.Errorf("%s: no such entry", part)
			}
			if !entry.Type.IsTree() {
				return fmt.Errorf("%s: not a directory", part)
			}
			listing, err = manifest.LoadListing(ctx, s, entry.Hash)
			if err != nil {
				return err
			}
		}
	}

	entries := listing.Entries()
	for _, e := range entries {
		fmt.Printf("%s %s\t%s\n", e.Type, e.Hash, e.Name)
	}
	if len(entries) == 0 {
		fmt.Println("(empty tree)")
	}

	return nil
}
