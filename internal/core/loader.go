package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/featureprep/internal/project"
	"github.com/JonMunkholm/featureprep/internal/table"
)

// DefaultRawFilename is loaded when no filename is given.
const DefaultRawFilename = "disasters.csv"

// ErrEmptyFile is wrapped in a ParseError when the input has no header row.
var ErrEmptyFile = errors.New("empty file: no columns to parse")

// LoadRawTable reads filename from the raw data directory of p.
// An empty filename means DefaultRawFilename.
//
// A missing file yields *MissingInputError; malformed content yields
// *ParseError. Column and row order are those of the file.
func LoadRawTable(p project.Paths, filename string) (*table.Table, error) {
	if filename == "" {
		filename = DefaultRawFilename
	}
	path := filepath.Join(p.DataRaw, filename)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingInputError{Path: path, Filename: filename}
		}
		return nil, fmt.Errorf("stat raw input: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("raw input %s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raw input: %w", err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return t, nil
}

// ReadTable parses comma-separated text with a header row into a table.
// A quote only opens a quoted field at the start of the field; elsewhere it
// is kept as text.
func ReadTable(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(wrapInput(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Err: ErrEmptyFile}
	}
	if err != nil {
		return nil, csvParseError(err)
	}

	names := headerNames(header)
	cells := make([][]string, len(names))

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvParseError(err)
		}
		if len(rec) > len(names) {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("expected %d fields, saw %d", len(names), len(rec)),
			}
		}
		// Short rows are padded with missing cells.
		for i := range names {
			if i < len(rec) {
				cells[i] = append(cells[i], rec[i])
			} else {
				cells[i] = append(cells[i], "")
			}
		}
	}

	cols := make([]table.Column, len(names))
	for i, name := range names {
		cols[i] = inferColumn(name, cells[i])
	}
	return table.New(cols...)
}

func csvParseError(err error) error {
	var ce *csv.ParseError
	if errors.As(err, &ce) {
		return &ParseError{Line: ce.Line, Err: ce.Err}
	}
	return &ParseError{Err: err}
}

// headerNames names blank headers "Unnamed: <i>" and suffixes repeated
// names with ".1", ".2", ... so every column name is unique.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)

	for i, h := range header {
		name := h
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if used[name] {
			base := name
			n := suffix[base]
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if !used[name] {
					break
				}
			}
			suffix[base] = n
		}
		used[name] = true
		names[i] = name
	}
	return names
}
