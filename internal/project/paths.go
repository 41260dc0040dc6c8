// Package project resolves the canonical directory layout of a feature
// preparation project and can create it on disk.
//
// Layout relative to the project root:
//
//	data/
//	  raw/          unprocessed input files
//	  processed/    derived tables written by callers
//	results/
//	  figures/
//	  metrics/
package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the canonical directories of a project. It is a value type;
// every field is derived from ProjectRoot by Resolve.
type Paths struct {
	ProjectRoot   string
	DataDir       string
	DataRaw       string
	DataProcessed string
	ResultsDir    string
	FiguresDir    string
	MetricsDir    string
}

// Resolve computes the project layout under root. No I/O is performed.
func Resolve(root string) Paths {
	root = filepath.Clean(root)
	data := filepath.Join(root, "data")
	results := filepath.Join(root, "results")

	return Paths{
		ProjectRoot:   root,
		DataDir:       data,
		DataRaw:       filepath.Join(data, "raw"),
		DataProcessed: filepath.Join(data, "processed"),
		ResultsDir:    results,
		FiguresDir:    filepath.Join(results, "figures"),
		MetricsDir:    filepath.Join(results, "metrics"),
	}
}

// All returns the six managed directories, parents before children.
func (p Paths) All() []string {
	return []string{
		p.DataDir,
		p.DataRaw,
		p.DataProcessed,
		p.ResultsDir,
		p.FiguresDir,
		p.MetricsDir,
	}
}

// DirectoryCreationError is returned when a managed directory cannot be
// created, e.g. because of permissions or a regular file in the way.
type DirectoryCreationError struct {
	Path string
	Err  error
}

func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("cannot create directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryCreationError) Unwrap() error {
	return e.Err
}

// EnsureDirectories creates any missing managed directory. Directories that
// already exist are left alone.
func EnsureDirectories(p Paths) error {
	for _, dir := range p.All() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &DirectoryCreationError{Path: dir, Err: err}
		}
	}
	return nil
}
