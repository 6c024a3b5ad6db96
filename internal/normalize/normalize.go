// Package normalize cleans individual cell values of the movie dataset.
//
// Every function here is best-effort: malformed input is reported as missing
// (ok == false or nil) and never as an error.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// stripper removes currency, grouping and percent markers before parsing.
// Plain spaces are only trimmed at the edges, so "12 34" stays malformed.
var stripper = strings.NewReplacer("$", "", ",", "", "%", "", "\u00a0", "")

// Numeric parses a messy numeric cell such as "$1,234.50", "45%" or " 12 ".
// The literal "nan" (any case) and the empty string are missing values.
func Numeric(raw string) (float64, bool) {
	s := strings.TrimSpace(stripper.Replace(raw))
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Text normalizes a free-text cell. Compatibility normalization folds the
// non-breaking space and similar artifacts into plain spaces.
func Text(raw string) (string, bool) {
	s := strings.TrimSpace(norm.NFKC.String(raw))
	if s == "" || strings.EqualFold(s, "nan") {
		return "", false
	}
	return s, true
}

var theaterPattern = regexp.MustCompile(`^([0-9,]+) opening theaters/([0-9,]+) max\. theaters`)

// TheaterCounts extracts the opening and maximum theater counts from text of
// the form "1,200 opening theaters/3,500 max. theaters". Both results are nil
// when the text does not match.
func TheaterCounts(text string) (opening, maximum *int) {
	s, ok := Text(text)
	if !ok {
		return nil, nil
	}
	m := theaterPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}
	o, err1 := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	x, err2 := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &o, &x
}

var placeholders = map[string]struct{}{
	"":        {},
	"unknown": {},
	"n/a":     {},
	"na":      {},
}

// IsPlaceholder reports whether a list token is a stand-in for "no value".
func IsPlaceholder(token string) bool {
	_, ok := placeholders[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

// SplitList splits a comma-separated list into distinct trimmed tokens,
// dropping placeholders. Order of first appearance is kept.
func SplitList(raw string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		tok, ok := Text(part)
		if !ok || IsPlaceholder(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
