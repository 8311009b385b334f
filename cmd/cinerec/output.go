package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/rushteam/cinerec/core"
)

const (
	formatTable = "table"
	formatJSON  = "json"

	noResults = "No movies found for this selection."
)

// movieRow 是一行输出。年份缺失时输出 "unknown"。
type movieRow struct {
	Title      string   `json:"title"`
	Rating     float64  `json:"rating"`
	Year       string   `json:"year"`
	Genre      string   `json:"genre"`
	Overview   string   `json:"overview"`
	Similarity *float64 `json:"similarity,omitempty"`
}

func toRows(items []*core.Item, withScore bool) []movieRow {
	rows := make([]movieRow, 0, len(items))
	for _, it := range items {
		m := it.Movie
		if m == nil {
			continue
		}
		year := m.YearString()
		if year == "" {
			year = "unknown"
		}
		row := movieRow{
			Title:    m.Title,
			Rating:   m.Rating,
			Year:     year,
			Genre:    m.Genre,
			Overview: m.Overview,
		}
		if withScore {
			score := it.Score
			row.Similarity = &score
		}
		rows = append(rows, row)
	}
	return rows
}

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	default:
		return core.NewDomainError(core.ModuleCLI, core.ErrorCodeInvalidInput,
			fmt.Sprintf("unsupported format %q (supported: table, json)", format))
	}
}

// writeRows 按 format 输出；表格模式下空结果输出提示语，JSON 模式输出 []。
func writeRows(w io.Writer, format string, rows []movieRow) error {
	if format == formatJSON {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, noResults)
		return err
	}
	withScore := rows[0].Similarity != nil

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "#\tTITLE\tRATING\tYEAR\tGENRE"
	if withScore {
		header += "\tSIMILARITY"
	}
	fmt.Fprintln(tw, header)
	for i, r := range rows {
		line := strings.Join([]string{
			strconv.Itoa(i + 1),
			r.Title,
			strconv.FormatFloat(r.Rating, 'f', 1, 64),
			r.Year,
			r.Genre,
		}, "\t")
		if withScore {
			line += "\t" + strconv.FormatFloat(*r.Similarity, 'f', 3, 64)
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}
