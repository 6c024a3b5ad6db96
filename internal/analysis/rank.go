package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
)

// Direction orders rankings.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// TopN returns up to n records with the largest (Descending) or smallest
// (Ascending) non-null field value. Ties keep dataset order.
func TopN(ds *movies.Dataset, field movies.Field, n int, dir Direction) []movies.Record {
	type item struct {
		idx int
		v   float64
	}
	items := make([]item, 0, ds.Len())
	ds.Each(func(i int, r *movies.Record) {
		if v, ok := field.Value(r); ok {
			items = append(items, item{i, v})
		}
	})
	sort.SliceStable(items, func(i, j int) bool {
		if dir == Ascending {
			return items[i].v < items[j].v
		}
		return items[i].v > items[j].v
	})
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	out := make([]movies.Record, len(items))
	for i, it := range items {
		out[i] = *ds.At(it.idx)
	}
	return out
}

// ArgmaxBy returns the first record holding the maximal non-null field value.
// ok is false when every value is null.
func ArgmaxBy(ds *movies.Dataset, field movies.Field) (movies.Record, bool) {
	best := -1
	var bestV float64
	ds.Each(func(i int, r *movies.Record) {
		v, ok := field.Value(r)
		if !ok {
			return
		}
		if best < 0 || v > bestV {
			best, bestV = i, v
		}
	})
	if best < 0 {
		return movies.Record{}, false
	}
	return *ds.At(best), true
}

// StudioRow credits one record to one studio.
type StudioRow struct {
	Studio string
	Record *movies.Record
}

// ExplodeStudios yields one row per distinct studio of each record, skipping
// placeholder names. Records without studios contribute nothing.
func ExplodeStudios(ds *movies.Dataset) []StudioRow {
	var out []StudioRow
	ds.Each(func(_ int, r *movies.Record) {
		for _, s := range r.Studios {
			out = append(out, StudioRow{Studio: s, Record: r})
		}
	})
	return out
}

// StudioTotals sums field per studio over exploded rows, largest first,
// keeping only the top n studios (n <= 0 keeps all).
func StudioTotals(ds *movies.Dataset, field movies.Field, n int) []KeyValue {
	return Limit(SortByValue(GroupSum(ds, field, movies.ByCompany), true), n)
}

// Outliers flags records whose population z-score of field exceeds
// threshold. Constant data has no outliers. Dataset order is kept.
func Outliers(ds *movies.Dataset, field movies.Field, threshold float64) []movies.Record {
	vs := values(ds, field)
	if len(vs) == 0 {
		return nil
	}
	mean, std := stat.PopMeanStdDev(vs, nil)
	if std == 0 {
		return nil
	}
	var out []movies.Record
	ds.Each(func(_ int, r *movies.Record) {
		v, ok := field.Value(r)
		if ok && (v-mean)/std > threshold {
			out = append(out, *r)
		}
	})
	return out
}
