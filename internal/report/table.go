// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pdiddy/research-agent/pkg/types"
)

// MaxCellWidth caps the display width of a table cell.
const MaxCellWidth = 40

// FormatTable writes the result's entities as an aligned table with one
// column per record field. Widths are measured in terminal cells so CJK and
// emoji names line up.
func FormatTable(res types.ResearchResult, w io.Writer) {
	if len(res.Entities) == 0 {
		fmt.Fprintln(w, "No entities found.")
		return
	}

	header := []string{"Name"}
	seen := map[string]bool{}
	for _, e := range res.Entities {
		for _, f := range e.Fields {
			if !seen[f.Key] {
				seen[f.Key] = true
				header = append(header, f.Key)
			}
		}
	}

	rows := make([][]string, len(res.Entities))
	for i, e := range res.Entities {
		row := []string{e.Name}
		for _, k := range header[1:] {
			row = append(row, e.Get(k))
		}
		rows[i] = row
	}
	writeTable(w, header, rows)
	fmt.Fprintf(w, "\n%d entities (%s)\n", len(res.Entities), res.Category)
}

// FormatDocuments lists stored documents.
func FormatDocuments(docs []types.DocumentInfo, w io.Writer) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents found.")
		return
	}
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = []string{d.Key, d.Name, strconv.FormatInt(d.Size, 10)}
	}
	writeTable(w, []string{"Key", "Name", "Size"}, rows)
}

// FormatRanked lists documents with their relevance scores, best first.
func FormatRanked(docs []types.StoredDocument, w io.Writer) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No relevant documents.")
		return
	}
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = []string{strconv.Itoa(i + 1), fmt.Sprintf("%.2f", d.ScoreValue()), d.Key, d.Name}
	}
	writeTable(w, []string{"Rank", "Score", "Key", "Name"}, rows)
}

// writeTable pads every cell to its column's display width.
func writeTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	measure := func(row []string) {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell(row[i])))
			}
		}
	}
	measure(header)
	for _, r := range rows {
		measure(r)
	}

	line := func(row []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			c := ""
			if i < len(row) {
				c = cell(row[i])
			}
			parts[i] = runewidth.FillRight(c, widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	line(header)
	total := 2 * (len(widths) - 1)
	for _, wd := range widths {
		total += wd
	}
	fmt.Fprintln(w, strings.Repeat("-", total))
	for _, r := range rows {
		line(r)
	}
}

// cell flattens whitespace and truncates to MaxCellWidth cells.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, MaxCellWidth, "...")
}
