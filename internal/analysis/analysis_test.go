package analysis

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
	"github.com/KaramelBytes/boxoffice-cli/internal/normalize"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }
func sp(v string) *string   { return &v }

func rec(name, genre string, year int, budget, gross float64, companies string) movies.Record {
	r := movies.Record{
		Name:                name,
		Genre:               sp(genre),
		Year:                ip(year),
		Decade:              ip(movies.DecadeOf(year)),
		ProductionBudgetUSD: fp(budget),
		WorldwideGrossUSD:   fp(gross),
	}
	if companies != "" {
		r.ProductionCompanies = sp(companies)
		r.Studios = normalize.SplitList(companies)
	}
	r.ProfitUSD, r.ROIPercent = movies.Financials(r.WorldwideGrossUSD, r.ProductionBudgetUSD)
	return r
}

func sample() *movies.Dataset {
	noGross := rec("Lost", "Drama", 2001, 30, 0, "")
	noGross.WorldwideGrossUSD = nil
	noGross.ProfitUSD, noGross.ROIPercent = nil, nil
	return movies.NewDataset("sample", []movies.Record{
		rec("A", "Action", 2010, 100, 400, "Alpha, Unknown, Beta"),
		rec("B", "Action", 1999, 50, 100, "Beta"),
		rec("C", "Comedy", 2010, 20, 10, "Gamma, n/a"),
		rec("D", "Drama", 2001, 10, 400, "Alpha"),
		noGross,
	})
}

func TestReductions(t *testing.T) {
	ds := sample()
	if s, ok := Sum(ds, movies.WorldwideGross); !ok || s != 910 {
		t.Fatalf("sum = %v,%v", s, ok)
	}
	if m, ok := Mean(ds, movies.ProductionBudget); !ok || m != 42 {
		t.Fatalf("mean = %v,%v", m, ok)
	}
	if m, ok := Median(ds, movies.WorldwideGross); !ok || m != 250 {
		t.Fatalf("median = %v,%v", m, ok)
	}
	if n := Count(ds, movies.Profit); n != 4 {
		t.Fatalf("count = %d", n)
	}
}

func TestReductions_Empty(t *testing.T) {
	empty := movies.NewDataset("empty", nil)
	for name, fn := range map[string]func(*movies.Dataset, movies.Field) (float64, bool){
		"sum": Sum, "mean": Mean, "median": Median,
	} {
		if _, ok := fn(empty, movies.Profit); ok {
			t.Fatalf("%s on empty input should report ok=false", name)
		}
	}
	if _, ok := ArgmaxBy(empty, movies.Profit); ok {
		t.Fatal("argmax on empty input should report ok=false")
	}
	if _, ok := Correlations(empty, []movies.Field{movies.Profit, movies.ROI}); ok {
		t.Fatal("correlations on empty input should report ok=false")
	}
	if got := Group(empty, movies.WorldwideGross, movies.ByYear, AggSum); len(got) != 0 {
		t.Fatalf("group = %v", got)
	}
	if got := TopN(empty, movies.Profit, 5, Descending); len(got) != 0 {
		t.Fatalf("topN = %v", got)
	}
	if got := Outliers(empty, movies.Profit, 3); got != nil {
		t.Fatalf("outliers = %v", got)
	}
	if got := Histogram(empty, movies.ROI, 10); got != nil {
		t.Fatalf("histogram = %v", got)
	}
}

func TestGroup_YearNumericOrder(t *testing.T) {
	got := GroupSum(sample(), movies.WorldwideGross, movies.ByYear)
	want := []KeyValue{{"1999", 100, 1}, {"2001", 400, 2}, {"2010", 410, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("group = %+v", got)
	}
}

func TestGroup_MeanOmitsAllNullGroups(t *testing.T) {
	lost := rec("Lost", "Horror", 2001, 30, 0, "")
	lost.WorldwideGrossUSD = nil
	ds := movies.NewDataset("x", []movies.Record{rec("A", "Action", 2010, 100, 400, ""), lost})

	mean := Group(ds, movies.WorldwideGross, movies.ByGenre, AggMean)
	if len(mean) != 1 || mean[0].Key != "Action" {
		t.Fatalf("mean groups = %+v", mean)
	}
	sums := Group(ds, movies.WorldwideGross, movies.ByGenre, AggSum)
	if len(sums) != 2 || sums[1].Key != "Horror" || sums[1].Value != 0 {
		t.Fatalf("sum groups = %+v", sums)
	}
	counts := Group(ds, movies.WorldwideGross, movies.ByGenre, AggCount)
	if counts[1].Value != 1 {
		t.Fatalf("count groups = %+v", counts)
	}
}

func TestGroup_MedianByGenre(t *testing.T) {
	got := Group(sample(), movies.ROI, movies.ByGenre, AggMedian)
	// Action ROI: 300, 100 -> 200; Comedy: -50; Drama: 3900 (Lost has no ROI)
	want := map[string]float64{"Action": 200, "Comedy": -50, "Drama": 3900}
	if len(got) != len(want) {
		t.Fatalf("groups = %+v", got)
	}
	for _, kv := range got {
		if want[kv.Key] != kv.Value {
			t.Fatalf("%s = %v, want %v", kv.Key, kv.Value, want[kv.Key])
		}
	}
	best, ok := Max(got)
	if !ok || best.Key != "Drama" {
		t.Fatalf("max = %+v", best)
	}
}

func TestExplodeStudios(t *testing.T) {
	rows := ExplodeStudios(sample())
	var got []string
	for _, r := range rows {
		got = append(got, r.Record.Name+":"+r.Studio)
	}
	want := []string{"A:Alpha", "A:Beta", "B:Beta", "C:Gamma", "D:Alpha"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("explode = %v", got)
	}
}

func TestStudioTotals(t *testing.T) {
	got := StudioTotals(sample(), movies.WorldwideGross, 2)
	want := []KeyValue{{"Alpha", 800, 2}, {"Beta", 500, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("studios = %+v", got)
	}
}

func TestTopN_StableTies(t *testing.T) {
	top := TopN(sample(), movies.WorldwideGross, 3, Descending)
	var got []string
	for _, r := range top {
		got = append(got, r.Name)
	}
	if !reflect.DeepEqual(got, []string{"A", "D", "B"}) {
		t.Fatalf("top = %v", got)
	}
	bottom := TopN(sample(), movies.WorldwideGross, 1, Ascending)
	if len(bottom) != 1 || bottom[0].Name != "C" {
		t.Fatalf("bottom = %v", bottom)
	}
}

func TestArgmaxBy_FirstMaximum(t *testing.T) {
	r, ok := ArgmaxBy(sample(), movies.WorldwideGross)
	if !ok || r.Name != "A" {
		t.Fatalf("argmax = %v,%v", r.Name, ok)
	}
}

func TestArgmaxBy_AllNull(t *testing.T) {
	// Every record is present but none has a domestic gross.
	if r, ok := ArgmaxBy(sample(), movies.DomesticGross); ok {
		t.Fatalf("argmax over all-null field = %q, want none", r.Name)
	}
}

func TestOutliers(t *testing.T) {
	var recs []movies.Record
	for i := 0; i < 20; i++ {
		recs = append(recs, rec("flat", "Drama", 2000, 10, 100, ""))
	}
	recs = append(recs, rec("spike", "Drama", 2000, 10, 10000, ""))
	ds := movies.NewDataset("o", recs)
	out := Outliers(ds, movies.WorldwideGross, 3)
	if len(out) != 1 || out[0].Name != "spike" {
		t.Fatalf("outliers = %v", out)
	}

	constant := movies.NewDataset("c", recs[:20])
	if got := Outliers(constant, movies.WorldwideGross, 3); len(got) != 0 {
		t.Fatalf("constant data must have no outliers, got %d", len(got))
	}
}

func TestCorrelations(t *testing.T) {
	ds := movies.NewDataset("c", []movies.Record{
		rec("a", "X", 2000, 1, 10, ""),
		rec("b", "X", 2000, 2, 20, ""),
		rec("c", "X", 2000, 3, 30, ""),
	})
	m, ok := Correlations(ds, []movies.Field{movies.ProductionBudget, movies.WorldwideGross, movies.ROI})
	if !ok {
		t.Fatal("expected correlations")
	}
	if m.Rows != 3 || m.Values[0][0] != 1 {
		t.Fatalf("matrix = %+v", m)
	}
	if math.Abs(m.Values[0][1]-1) > 1e-9 || m.Values[0][1] != m.Values[1][0] {
		t.Fatalf("budget~gross = %v", m.Values[0][1])
	}
	// ROI is constant (900%) so its coefficients are reported as 0.
	if m.Values[2][0] != 0 || m.Values[2][2] != 1 {
		t.Fatalf("constant column = %v", m.Values[2])
	}
	if p := m.Pairs(); len(p) != 3 || math.Abs(p[0].R) < math.Abs(p[2].R) {
		t.Fatalf("pairs = %+v", p)
	}

	one := movies.NewDataset("one", ds.Records()[:1])
	if _, ok := Correlations(one, []movies.Field{movies.ProductionBudget, movies.WorldwideGross}); ok {
		t.Fatal("one complete row is insufficient")
	}
}

func TestCorrelations_SingleCompleteRow(t *testing.T) {
	partial := rec("b", "X", 2000, 2, 20, "")
	partial.ProductionBudgetUSD = nil
	noGross := rec("c", "X", 2000, 3, 30, "")
	noGross.WorldwideGrossUSD = nil
	ds := movies.NewDataset("c", []movies.Record{rec("a", "X", 2000, 1, 10, ""), partial, noGross})
	m, ok := Correlations(ds, []movies.Field{movies.ProductionBudget, movies.WorldwideGross})
	if ok || m != nil {
		t.Fatalf("one complete row must be insufficient, got %+v", m)
	}
}

func TestHistogram(t *testing.T) {
	var recs []movies.Record
	for _, g := range []float64{10, 20, 30, 40, 110} {
		recs = append(recs, rec("h", "X", 2000, 10, g, ""))
	}
	bins := Histogram(movies.NewDataset("h", recs), movies.WorldwideGross, 4)
	if len(bins) != 4 {
		t.Fatalf("bins = %d", len(bins))
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 5 || bins[0].Count != 3 || bins[1].Count != 1 || bins[3].Count != 1 {
		t.Fatalf("counts = %+v", bins)
	}
	if bins[0].Lo != 10 || bins[3].Hi != 110 {
		t.Fatalf("range = %v..%v", bins[0].Lo, bins[3].Hi)
	}

	flat := Histogram(movies.NewDataset("f", recs[:1]), movies.WorldwideGross, 4)
	if len(flat) != 1 || flat[0].Count != 1 {
		t.Fatalf("flat = %+v", flat)
	}
}

func TestBoxStats_OrderedByMedian(t *testing.T) {
	boxes := BoxStats(sample(), movies.WorldwideGross, movies.ByGenre)
	var keys []string
	for _, b := range boxes {
		keys = append(keys, b.Key)
	}
	if !reflect.DeepEqual(keys, []string{"Comedy", "Action", "Drama"}) {
		t.Fatalf("order = %v", keys)
	}
	a := boxes[1]
	if a.Min != 100 || a.Max != 400 || a.Median != 250 || a.Q1 != 175 || a.Q3 != 325 {
		t.Fatalf("action box = %+v", a)
	}
}

func TestProfileMarkdown(t *testing.T) {
	rep := Profile(sample())
	if rep.Rows != 5 {
		t.Fatalf("rows = %d", rep.Rows)
	}
	md := rep.Markdown()
	for _, want := range []string{"[DATASET SUMMARY]", "[SCHEMA]", "Genre: categorical", "Worldwide Gross (USD): numeric (non-null 4, missing 20.0%)", "Studio: categorical"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestQuantile(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	if q := quantile(s, 0.5); q != 2.5 {
		t.Fatalf("median = %v", q)
	}
	if q := quantile(s, 0); q != 1 {
		t.Fatalf("min = %v", q)
	}
	if q := quantile(nil, 0.5); q != 0 {
		t.Fatalf("empty = %v", q)
	}
}
