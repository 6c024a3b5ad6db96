// Package analysis aggregates and ranks movie datasets: reductions, grouped
// series, top-N rankings, studio explosion, outliers, correlations and a
// markdown dataset profile. Every function is pure and accepts empty input.
package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
)

// values collects the non-null values of field in record order.
func values(ds *movies.Dataset, field movies.Field) []float64 {
	out := make([]float64, 0, ds.Len())
	ds.Each(func(_ int, r *movies.Record) {
		if v, ok := field.Value(r); ok {
			out = append(out, v)
		}
	})
	return out
}

// Count returns how many records have a non-null field.
func Count(ds *movies.Dataset, field movies.Field) int {
	return len(values(ds, field))
}

// Sum adds the non-null values of field. ok is false when there are none.
func Sum(ds *movies.Dataset, field movies.Field) (float64, bool) {
	vs := values(ds, field)
	if len(vs) == 0 {
		return 0, false
	}
	return sum(vs), true
}

// Mean averages the non-null values of field.
func Mean(ds *movies.Dataset, field movies.Field) (float64, bool) {
	vs := values(ds, field)
	if len(vs) == 0 {
		return 0, false
	}
	return stat.Mean(vs, nil), true
}

// Median returns the middle of the non-null values of field, interpolating
// between the two central values for even counts.
func Median(ds *movies.Dataset, field movies.Field) (float64, bool) {
	vs := values(ds, field)
	if len(vs) == 0 {
		return 0, false
	}
	return median(vs), true
}

func sum(vs []float64) float64 {
	var s float64
	for _, v := range vs {
		s += v
	}
	return s
}

// median sorts a copy of vs.
func median(vs []float64) float64 {
	cp := make([]float64, len(vs))
	copy(cp, vs)
	sort.Float64s(cp)
	return quantile(cp, 0.5)
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

// quantile uses linear interpolation between closest ranks; sorted must be
// ascending.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
