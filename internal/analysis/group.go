package analysis

import (
	"sort"
	"strconv"

	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
)

// Agg selects how grouped values are reduced.
type Agg int

const (
	AggSum Agg = iota
	AggMean
	AggMedian
	AggCount
)

func (a Agg) String() string {
	switch a {
	case AggSum:
		return "sum"
	case AggMean:
		return "mean"
	case AggMedian:
		return "median"
	case AggCount:
		return "count"
	}
	return "unknown"
}

// KeyValue is one point of a grouped series.
type KeyValue struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	// N is the number of records in the group.
	N int `json:"n"`
}

type groupAcc struct {
	n    int
	vals []float64
}

// Group reduces field per group key. Records with a null key are skipped;
// ByCompany credits a record to each of its studios. Keys are returned in
// ascending order, numerically for Year and Decade. Groups without any
// non-null value report 0 for sum and count and are omitted for mean and
// median.
func Group(ds *movies.Dataset, field movies.Field, key movies.GroupKey, agg Agg) []KeyValue {
	groups := map[string]*groupAcc{}
	ds.Each(func(_ int, r *movies.Record) {
		v, ok := field.Value(r)
		for _, k := range key.Keys(r) {
			g := groups[k]
			if g == nil {
				g = &groupAcc{}
				groups[k] = g
			}
			g.n++
			if ok {
				g.vals = append(g.vals, v)
			}
		}
	})

	out := make([]KeyValue, 0, len(groups))
	for k, g := range groups {
		kv := KeyValue{Key: k, N: g.n}
		switch agg {
		case AggSum:
			kv.Value = sum(g.vals)
		case AggCount:
			kv.Value = float64(g.n)
		case AggMean:
			if len(g.vals) == 0 {
				continue
			}
			kv.Value = sum(g.vals) / float64(len(g.vals))
		case AggMedian:
			if len(g.vals) == 0 {
				continue
			}
			kv.Value = median(g.vals)
		}
		out = append(out, kv)
	}
	sortKeys(out, key.Numeric())
	return out
}

// GroupSum is Group with AggSum.
func GroupSum(ds *movies.Dataset, field movies.Field, key movies.GroupKey) []KeyValue {
	return Group(ds, field, key, AggSum)
}

func sortKeys(kvs []KeyValue, numeric bool) {
	sort.Slice(kvs, func(i, j int) bool {
		if numeric {
			a, errA := strconv.Atoi(kvs[i].Key)
			b, errB := strconv.Atoi(kvs[j].Key)
			if errA == nil && errB == nil {
				return a < b
			}
		}
		return kvs[i].Key < kvs[j].Key
	})
}

// SortByValue returns a copy of kvs ordered by value. Equal values keep
// their relative order.
func SortByValue(kvs []KeyValue, desc bool) []KeyValue {
	out := make([]KeyValue, len(kvs))
	copy(out, kvs)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].Value > out[j].Value
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Max returns the first entry with the largest value.
func Max(kvs []KeyValue) (KeyValue, bool) {
	if len(kvs) == 0 {
		return KeyValue{}, false
	}
	best := kvs[0]
	for _, kv := range kvs[1:] {
		if kv.Value > best.Value {
			best = kv
		}
	}
	return best, true
}

// Limit truncates kvs to at most n entries; n <= 0 keeps everything.
func Limit(kvs []KeyValue, n int) []KeyValue {
	if n <= 0 || len(kvs) <= n {
		return kvs
	}
	return kvs[:n]
}
