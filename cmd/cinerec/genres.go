package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the distinct genres of the corpus",
	Long:  "Prints every distinct genre token found in the Genre column, sorted lexicographically, one per line.",
	Args:  cobra.NoArgs,
	RunE:  runGenres,
}

func init() {
	rootCmd.AddCommand(genresCmd)
}

func runGenres(cmd *cobra.Command, _ []string) error {
	st, err := openState(cmd.Context())
	if err != nil {
		return err
	}
	for _, g := range st.Genres() {
		fmt.Fprintln(cmd.OutOrStdout(), g)
	}
	return nil
}
