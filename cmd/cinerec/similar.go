package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/cinerec/core"
)

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Find movies with similar content",
	Long: `Ranks movies by TF-IDF cosine similarity of their combined genre, overview and
year text. Use --title to start from a movie in the corpus (exact title, case
insensitive) or --query to search with free text.`,
	Example: `  cinerec similar --title "Baahubali: The Beginning" -n 3
  cinerec similar --query "cricket comeback" --format json`,
	Args: cobra.NoArgs,
	RunE: runSimilar,
}

var (
	similarTitle  string
	similarQuery  string
	similarN      int
	similarFormat string
)

func init() {
	similarCmd.Flags().StringVarP(&similarTitle, "title", "t", "", "Title of the seed movie")
	similarCmd.Flags().StringVarP(&similarQuery, "query", "q", "", "Free text to search for")
	similarCmd.Flags().IntVarP(&similarN, "limit", "n", 0, "Number of movies to return (default: recommend.similar_k)")
	similarCmd.Flags().StringVarP(&similarFormat, "format", "f", formatTable, "Output format: table or json")

	similarCmd.MarkFlagsMutuallyExclusive("title", "query")
	similarCmd.MarkFlagsOneRequired("title", "query")

	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, _ []string) error {
	if err := validateFormat(similarFormat); err != nil {
		return err
	}
	if cmd.Flags().Changed("limit") && similarN < 1 {
		return core.NewDomainError(core.ModuleCLI, core.ErrorCodeInvalidInput, "n must be at least 1")
	}
	st, err := openState(cmd.Context())
	if err != nil {
		return err
	}

	var items []*core.Item
	if similarTitle != "" {
		items, err = st.SimilarTo(cmd.Context(), similarTitle, similarN)
	} else {
		items, err = st.Search(cmd.Context(), similarQuery, similarN)
	}
	if err != nil {
		return fmt.Errorf("failed to find similar movies: %w", err)
	}
	return writeRows(cmd.OutOrStdout(), similarFormat, toRows(items, true))
}
