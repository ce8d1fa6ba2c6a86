package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var putCmd = &cobra.Command{
	Use:   "put <file>",
	Short: "Store a blob",
	Long:  "Store the contents of a file as a blob and print its hash, for use with set.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPut,
}

func init() {
	rootCmd.AddCommand(putCmd)
}

func runPut(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	hash, err := s.Put(cmd.Context(), data)
	if err != nil {
		return err
	}

	fmt.Println(hash)
	return nil
}
