package core

import (
	"fmt"
	"io/fs"
	"strconv"
)

// MissingInputError is returned when the raw input file does not exist.
// It is user-actionable: the file has to be placed in the raw data
// directory, or a different filename passed.
type MissingInputError struct {
	Path     string // resolved path that was checked
	Filename string // filename as given by the caller
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf(
		"raw input file not found: expected %s to exist; place %q in the data/raw folder or pass a different filename",
		e.Path, e.Filename,
	)
}

// Is lets errors.Is(err, fs.ErrNotExist) match.
func (e *MissingInputError) Is(target error) bool {
	return target == fs.ErrNotExist
}

// ParseError reports a CSV file that could not be read into a table.
// Line is 0 when the position is unknown.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	msg := "invalid csv"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Line > 0 {
		msg += ", line " + strconv.Itoa(e.Line)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
