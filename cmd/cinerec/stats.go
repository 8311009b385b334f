package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	Long:  "Prints corpus size, rows dropped by sanitization, vocabulary size and the year range of the loaded CSV.",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var statsFormat string

func init() {
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", formatTable, "Output format: table or json")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if err := validateFormat(statsFormat); err != nil {
		return err
	}
	st, err := openState(cmd.Context())
	if err != nil {
		return err
	}
	stats := st.Stats()

	w := cmd.OutOrStdout()
	if statsFormat == formatJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	years := "unknown"
	if stats.YearFrom != nil && stats.YearTo != nil {
		years = fmt.Sprintf("%d-%d", *stats.YearFrom, *stats.YearTo)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "rows\t%d\n", stats.Rows)
	fmt.Fprintf(tw, "movies\t%d\n", stats.Movies)
	fmt.Fprintf(tw, "dropped (rating)\t%d\n", stats.DroppedRating)
	fmt.Fprintf(tw, "missing year\t%d\n", stats.MissingYear)
	fmt.Fprintf(tw, "malformed rows\t%d\n", stats.MalformedRows)
	fmt.Fprintf(tw, "genres\t%d\n", stats.Genres)
	fmt.Fprintf(tw, "vocabulary\t%d\n", stats.Vocabulary)
	fmt.Fprintf(tw, "empty documents\t%d\n", stats.EmptyDocs)
	fmt.Fprintf(tw, "years\t%s\n", years)
	return tw.Flush()
}
