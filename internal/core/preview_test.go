package core

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/featureprep/internal/project"
	"github.com/JonMunkholm/featureprep/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	tbl := table.MustNew(
		table.NewColumn("event", table.TypeString, []table.Value{str("flood"), na, str("fire")}),
		table.NumericColumn("fatalities", []float64{1, 2.5, 3}),
	)

	got := Preview(tbl, 2)

	assert.Equal(t, 3, got.Rows)
	assert.Equal(t, []string{"event", "fatalities"}, got.ColumnNames())
	assert.Equal(t, ColumnPreview{Name: "event", Type: "string", Missing: 1}, got.Columns[0])
	assert.Equal(t, [][]string{{"flood", "1"}, {"NaN", "2.5"}}, got.Head)
}

func TestPreview_DefaultAndClamp(t *testing.T) {
	tbl := table.MustNew(table.NumericColumn("x", []float64{1, 2, 3, 4, 5, 6, 7}))

	assert.Len(t, Preview(tbl, 0).Head, DefaultPreviewRows)
	assert.Len(t, Preview(tbl, 100).Head, 7)
}

func TestWritePreview(t *testing.T) {
	tbl := table.MustNew(table.NumericColumn("fatalities", []float64{1, 2}))

	var buf bytes.Buffer
	require.NoError(t, WritePreview(&buf, tbl, 5))

	out := buf.String()
	assert.Contains(t, out, "--- Data preview ---")
	assert.Contains(t, out, "2 rows x 1 columns")
	assert.Contains(t, out, "Columns: fatalities")
}

func TestWriteCSV(t *testing.T) {
	tbl := table.MustNew(
		table.NewColumn("name", table.TypeString, []table.Value{str("a,b"), na}),
		table.NewColumn("v", table.TypeNumeric, []table.Value{num(math.Inf(1)), num(math.NaN())}),
		table.NumericColumn("w", []float64{0.1, -2}),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))

	want := "name,v,w\n\"a,b\",inf,0.1\n,,-2\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	p := writeRaw(t, "disasters.csv", disastersCSV)
	raw, err := LoadRawTable(p, "disasters.csv")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, raw))

	back, err := ReadTable(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.True(t, raw.Equal(back))
}

func TestProcessedFilename(t *testing.T) {
	assert.Equal(t, "disasters_features.csv", ProcessedFilename(""))
	assert.Equal(t, "emdat_features.csv", ProcessedFilename("emdat.csv"))
	assert.Equal(t, "x_features.csv", ProcessedFilename("2020/x.csv"))
}

func TestSaveProcessed(t *testing.T) {
	p := project.Resolve(t.TempDir())
	tbl := table.MustNew(table.NumericColumn("x", []float64{1}))

	path, err := SaveProcessed(p, "disasters.csv", tbl)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(p.DataProcessed, "disasters_features.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x\n1\n", string(data))
}
