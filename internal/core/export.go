package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/featureprep/internal/project"
	"github.com/JonMunkholm/featureprep/internal/table"
)

// WriteCSV writes t with a header row. Missing and NaN cells are written
// empty; infinities as "inf" and "-inf".
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, t.NumColumns())
	for r := 0; r < t.NumRows(); r++ {
		for i, v := range t.Row(r) {
			record[i] = csvCell(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvCell(v table.Value) string {
	if v.IsMissing() {
		return ""
	}
	return v.String()
}

// ProcessedFilename returns the name under which the feature table built
// from rawFilename is stored: "<stem>_features.csv".
func ProcessedFilename(rawFilename string) string {
	if rawFilename == "" {
		rawFilename = DefaultRawFilename
	}
	base := filepath.Base(rawFilename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_features.csv"
}

// SaveProcessed writes t to the processed data directory and returns the
// path written.
func SaveProcessed(p project.Paths, rawFilename string, t *table.Table) (string, error) {
	if err := os.MkdirAll(p.DataProcessed, 0o755); err != nil {
		return "", &project.DirectoryCreationError{Path: p.DataProcessed, Err: err}
	}

	path := filepath.Join(p.DataProcessed, ProcessedFilename(rawFilename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create processed file: %w", err)
	}

	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close processed file: %w", err)
	}
	return path, nil
}
