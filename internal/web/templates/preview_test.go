package templates

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/featureprep/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewPage(t *testing.T) {
	data := PreviewData{
		File:   "disasters.csv",
		Target: "target",
		RunID:  "run-1",
		Summary: core.PreviewSummary{
			Rows: 2,
			Columns: []core.ColumnPreview{
				{Name: "event", Type: "string", Missing: 1},
				{Name: "fatalities", Type: "numeric"},
			},
			Head: [][]string{{"<flood>", "3"}, {"NaN", "1"}},
		},
	}

	var b strings.Builder
	require.NoError(t, PreviewPage(data).Render(context.Background(), &b))
	out := b.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<h1>disasters.csv</h1>")
	assert.Contains(t, out, "2 rows x 2 columns")
	assert.Contains(t, out, "<code>target</code>")
	assert.Contains(t, out, "&lt;flood&gt;", "cells are escaped")
	assert.NotContains(t, out, "<flood>")
	assert.Contains(t, out, `<td class="missing">NaN</td>`)
	assert.Contains(t, out, `title="string, 1 missing"`)
	assert.Equal(t, 3, strings.Count(out, "<tr>"))
}

func TestPreviewPage_NoTarget(t *testing.T) {
	var b strings.Builder
	require.NoError(t, PreviewPage(PreviewData{File: "x.csv"}).Render(context.Background(), &b))
	assert.NotContains(t, b.String(), "target")
}

func TestErrorAlert(t *testing.T) {
	var b strings.Builder
	require.NoError(t, ErrorAlert("Raw input file not found", "Place it in data/raw", "FILE001").Render(context.Background(), &b))
	out := b.String()

	assert.Contains(t, out, `role="alert"`)
	assert.Contains(t, out, "<strong>Raw input file not found</strong>")
	assert.Contains(t, out, "Place it in data/raw")
	assert.Contains(t, out, "Code: FILE001")
}

func TestErrorPage(t *testing.T) {
	var b strings.Builder
	require.NoError(t, ErrorPage("Bad & worse", "", "ERR000").Render(context.Background(), &b))
	out := b.String()

	assert.Contains(t, out, "<title>Error</title>")
	assert.Contains(t, out, "Bad &amp; worse")
	assert.NotContains(t, out, "<p>", "no action paragraph")
	assert.True(t, strings.HasSuffix(out, "</body></html>"))
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRender_ReportsWriteError(t *testing.T) {
	err := PreviewPage(PreviewData{File: "x.csv"}).Render(context.Background(), failWriter{})
	assert.EqualError(t, err, "closed")
}
