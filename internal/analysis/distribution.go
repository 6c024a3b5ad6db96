package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
)

// DefaultBins is the histogram resolution used for ROI distributions.
const DefaultBins = 50

// Bin is one histogram bucket covering [Lo, Hi).
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram buckets the non-null values of field into equal-width bins
// spanning their range. The last bin includes the maximum. Constant data
// yields a single bin.
func Histogram(ds *movies.Dataset, field movies.Field, bins int) []Bin {
	vs := values(ds, field)
	if len(vs) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	sort.Float64s(vs)
	lo, hi := vs[0], vs[len(vs)-1]
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(vs)}}
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram excludes the upper edge.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, vs, nil)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	out[bins-1].Hi = hi
	return out
}

// Box is a five-number summary of one group.
type Box struct {
	Key    string  `json:"key"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// BoxStats summarizes field per group, ordered by ascending median. Groups
// without non-null values are omitted.
func BoxStats(ds *movies.Dataset, field movies.Field, key movies.GroupKey) []Box {
	groups := map[string][]float64{}
	ds.Each(func(_ int, r *movies.Record) {
		v, ok := field.Value(r)
		if !ok {
			return
		}
		for _, k := range key.Keys(r) {
			groups[k] = append(groups[k], v)
		}
	})
	out := make([]Box, 0, len(groups))
	for k, vs := range groups {
		sort.Float64s(vs)
		out = append(out, Box{
			Key:    k,
			Count:  len(vs),
			Min:    vs[0],
			Q1:     quantile(vs, 0.25),
			Median: quantile(vs, 0.5),
			Q3:     quantile(vs, 0.75),
			Max:    vs[len(vs)-1],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Median == out[j].Median {
			return out[i].Key < out[j].Key
		}
		return out[i].Median < out[j].Median
	})
	return out
}
