package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across fields.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
	// Rows is the number of complete rows the coefficients were computed on.
	Rows int `json:"rows"`
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// Correlations computes pairwise Pearson coefficients over the rows where
// every listed field is non-null. ok is false when fewer than two such rows
// exist. Pairs involving a constant field report 0.
func Correlations(ds *movies.Dataset, fields []movies.Field) (*CorrMatrix, bool) {
	if len(fields) == 0 {
		return nil, false
	}
	cols := make([][]float64, len(fields))
	ds.Each(func(_ int, r *movies.Record) {
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, ok := f.Value(r)
			if !ok {
				return
			}
			row[i] = v
		}
		for i, v := range row {
			cols[i] = append(cols[i], v)
		}
	})
	n := len(cols[0])
	if n < 2 {
		return nil, false
	}

	m := &CorrMatrix{Columns: make([]string, len(fields)), Values: make([][]float64, len(fields)), Rows: n}
	for i, f := range fields {
		m.Columns[i] = f.String()
		m.Values[i] = make([]float64, len(fields))
	}
	for a := range fields {
		m.Values[a][a] = 1
		for b := 0; b < a; b++ {
			r := stat.Correlation(cols[a], cols[b], nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			} else if r > 1 {
				r = 1
			} else if r < -1 {
				r = -1
			}
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m, true
}

// Pairs lists the off-diagonal pairs by descending |r|.
func (m *CorrMatrix) Pairs() []PairCorr {
	if m == nil {
		return nil
	}
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	return pairs
}
