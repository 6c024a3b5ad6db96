// Package source reads raw tabular files (CSV, TSV, XLSX) into string grids.
package source

import (
	"errors"
	"fmt"
	"strings"
)

// Table is a raw header plus rows. Rows are padded to the header width.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Options tunes how a source file is read.
type Options struct {
	// Delimiter for CSV. If 0, chosen from the file suffix.
	Delimiter rune
	// SheetName selects the XLSX sheet; the first sheet is used when empty.
	SheetName string
}

// Reader reads one family of tabular formats.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ErrUnsupported indicates no registered reader handles the file suffix.
var ErrUnsupported = errors.New("unsupported source format")

// Read selects a reader based on filename and returns the raw table.
func Read(path string, opt Options) (*Table, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

// Supported reports whether some registered reader handles path.
func Supported(path string) bool {
	for _, r := range registry {
		if r.CanRead(path) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

func hasSuffix(name string, suffixes ...string) bool {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// pad normalizes row length to n columns.
func pad(rec []string, n int) []string {
	if len(rec) >= n {
		return rec[:n]
	}
	tmp := make([]string, n)
	copy(tmp, rec)
	return tmp
}
