package movies

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type column int

const (
	colName column = iota
	colReleaseDate
	colGenre
	colBudget
	colDomestic
	colInternational
	colWorldwide
	colRuntime
	colShare
	colTheaterCounts
	colOpening
	colMax
	colCompanies
	colDVD
	colBluRay
	numColumns
)

type columnSpec struct {
	col      column
	headers  []string // first entry is canonical; the rest are accepted aliases
	required bool
}

// schema declares the source columns the loader understands. Required columns
// must be present in the header; optional ones load as null when absent.
var schema = []columnSpec{
	{colName, []string{"Movie Name", "Name", "Title"}, true},
	{colReleaseDate, []string{"Release Date"}, false},
	{colGenre, []string{"Genre"}, false},
	{colBudget, []string{"Production Budget (USD)"}, true},
	{colDomestic, []string{"Domestic Gross (USD)", "Domestic Box Office (USD)"}, false},
	{colInternational, []string{"International Gross (USD)", "International Box Office (USD)"}, false},
	{colWorldwide, []string{"Worldwide Gross (USD)"}, true},
	{colRuntime, []string{"Running Time (minutes)"}, false},
	{colShare, []string{"Domestic Share Percentage"}, false},
	{colTheaterCounts, []string{"Theater counts", "Theater Counts"}, false},
	{colOpening, []string{"Opening Theaters"}, false},
	{colMax, []string{"Max Theaters"}, false},
	{colCompanies, []string{"Production/Financing Companies", "Production Companies"}, false},
	{colDVD, []string{"Est. Domestic DVD Sales (USD)"}, false},
	{colBluRay, []string{"Est. Domestic Blu-ray Sales (USD)"}, false},
}

// layout maps schema columns to header indexes; -1 means absent.
type layout [numColumns]int

func (l *layout) has(c column) bool { return l[c] >= 0 }

// cell returns the raw value of column c in row, or "" when absent.
func (l *layout) cell(row []string, c column) string {
	i := l[c]
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// resolveLayout matches a source header against the schema. It fails with
// ErrMissingColumns naming every required column that is absent, and returns
// the canonical names of missing optional columns.
func resolveLayout(header []string) (layout, []string, error) {
	var l layout
	for i := range l {
		l[i] = -1
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	var missingRequired, missingOptional []string
	for _, cs := range schema {
		for _, h := range cs.headers {
			if i, ok := index[normalizeHeader(h)]; ok {
				l[cs.col] = i
				break
			}
		}
		if l[cs.col] >= 0 {
			continue
		}
		if cs.required {
			missingRequired = append(missingRequired, cs.headers[0])
		} else {
			missingOptional = append(missingOptional, cs.headers[0])
		}
	}
	if len(missingRequired) > 0 {
		return l, missingOptional, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missingRequired, ", "))
	}
	return l, missingOptional, nil
}

func normalizeHeader(h string) string {
	s := strings.ToLower(norm.NFKC.String(h))
	return strings.Join(strings.Fields(s), " ")
}
