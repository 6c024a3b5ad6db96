package analysis

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
)

// RobustThreshold is the modified z-score above which the profile counts a
// value as an outlier.
const RobustThreshold = 3.5

// Report is a markdown-friendly profile of a movie dataset.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Corr     *CorrMatrix
	Warnings []string
}

// ColumnSummary captures coverage and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|datetime|categorical
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Outliers (robust Z via MAD)
	OutliersCount   int
	OutliersMaxAbsZ float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

var profileCorrFields = []movies.Field{
	movies.ProductionBudget, movies.WorldwideGross, movies.Profit, movies.ROI,
	movies.RunningTime, movies.TotalVideoSales,
}

// Profile summarizes column coverage, numeric statistics and correlations
// of ds. Loader warnings are carried into the report.
func Profile(ds *movies.Dataset) *Report {
	rep := &Report{Name: ds.Name(), Rows: ds.Len()}

	dates := 0
	ds.Each(func(_ int, r *movies.Record) {
		if r.ReleaseDate != nil {
			dates++
		}
	})
	rep.Cols = append(rep.Cols, ColumnSummary{Name: "Release Date", Kind: "datetime", NonNull: dates, Missing: ds.Len() - dates})

	rep.Cols = append(rep.Cols, categorical("Genre", ds, func(r *movies.Record) []string {
		if r.Genre == nil {
			return nil
		}
		return []string{*r.Genre}
	}))
	rep.Cols = append(rep.Cols, categorical("Studio", ds, func(r *movies.Record) []string { return r.Studios }))

	for _, f := range movies.Fields() {
		rep.Cols = append(rep.Cols, numeric(ds, f))
	}

	if m, ok := Correlations(ds, profileCorrFields); ok {
		rep.Corr = m
	} else if ds.Len() > 0 {
		rep.Warnings = append(rep.Warnings, "insufficient complete rows for correlations")
	}

	lr := ds.Report()
	if len(lr.MissingOptional) > 0 {
		rep.Warnings = append(rep.Warnings, "source lacks optional columns: "+strings.Join(lr.MissingOptional, ", "))
	}
	cols := make([]string, 0, len(lr.CoercionFailures))
	for c := range lr.CoercionFailures {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	for _, c := range cols {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d unparsable %s cells loaded as null", lr.CoercionFailures[c], c))
	}
	return rep
}

func numeric(ds *movies.Dataset, f movies.Field) ColumnSummary {
	vs := values(ds, f)
	s := ColumnSummary{Name: f.String(), Kind: "numeric", NonNull: len(vs), Missing: ds.Len() - len(vs)}
	if len(vs) == 0 {
		return s
	}
	s.Min, s.Max = vs[0], vs[0]
	uniq := map[float64]struct{}{}
	for _, v := range vs {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		uniq[v] = struct{}{}
	}
	s.Unique = len(uniq)
	if len(vs) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(vs, nil)
	} else {
		s.Mean = vs[0]
	}
	if len(vs) >= 8 {
		med, mad := medianMAD(vs)
		if mad > 0 {
			for _, v := range vs {
				z := 0.6745 * (v - med) / mad
				if z < 0 {
					z = -z
				}
				if z > RobustThreshold {
					s.OutliersCount++
				}
				if z > s.OutliersMaxAbsZ {
					s.OutliersMaxAbsZ = z
				}
			}
		}
	}
	return s
}

func categorical(name string, ds *movies.Dataset, keys func(*movies.Record) []string) ColumnSummary {
	s := ColumnSummary{Name: name, Kind: "categorical"}
	cats := map[string]int{}
	ds.Each(func(_ int, r *movies.Record) {
		ks := keys(r)
		if len(ks) == 0 {
			s.Missing++
			return
		}
		s.NonNull++
		for _, k := range ks {
			cats[k]++
		}
	})
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > 8 {
		tops = tops[:8]
	}
	s.TopValues = tops
	s.Unique = len(cats)
	return s
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			}
			if c.OutliersCount > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f (max |z|≈%.2f)", c.OutliersCount, RobustThreshold, c.OutliersMaxAbsZ))
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(": top ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString(fmt.Sprintf("\n[CORRELATIONS] (n=%d)\n", r.Corr.Rows))
		pairs := r.Corr.Pairs()
		if len(pairs) > 10 {
			pairs = pairs[:10]
		}
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
