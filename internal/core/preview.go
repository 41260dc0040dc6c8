package core

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/featureprep/internal/table"
)

// DefaultPreviewRows is the number of rows shown when none is requested.
const DefaultPreviewRows = 5

// ColumnPreview describes one column in a preview.
type ColumnPreview struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Missing int    `json:"missing"`
}

// PreviewSummary is a small, human-oriented view of a table.
type PreviewSummary struct {
	Rows    int             `json:"rows"`
	Columns []ColumnPreview `json:"columns"`
	Head    [][]string      `json:"head"`
}

// ColumnNames returns the previewed column names in order.
func (p PreviewSummary) ColumnNames() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}

// Preview summarizes t and renders its first n rows. n <= 0 means
// DefaultPreviewRows.
func Preview(t *table.Table, n int) PreviewSummary {
	if n <= 0 {
		n = DefaultPreviewRows
	}
	if n > t.NumRows() {
		n = t.NumRows()
	}

	sum := PreviewSummary{
		Rows:    t.NumRows(),
		Columns: make([]ColumnPreview, 0, t.NumColumns()),
		Head:    make([][]string, n),
	}

	for _, c := range t.Columns() {
		missing := 0
		for i := 0; i < c.Len(); i++ {
			if c.At(i).IsMissing() {
				missing++
			}
		}
		sum.Columns = append(sum.Columns, ColumnPreview{
			Name:    c.Name(),
			Type:    c.Type().String(),
			Missing: missing,
		})
	}

	for r := 0; r < n; r++ {
		row := t.Row(r)
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		sum.Head[r] = cells
	}

	return sum
}

// WritePreview prints a short description of t followed by its first n rows.
func WritePreview(w io.Writer, t *table.Table, n int) error {
	sum := Preview(t, n)

	fmt.Fprintln(w, "--- Data preview ---")
	fmt.Fprintf(w, "%d rows x %d columns\n", sum.Rows, len(sum.Columns))
	fmt.Fprintf(w, "Columns: %s\n\n", strings.Join(sum.ColumnNames(), ", "))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\t"+strings.Join(sum.ColumnNames(), "\t")+"\t")
	for i, row := range sum.Head {
		fmt.Fprintf(tw, "%d\t%s\t\n", i, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
