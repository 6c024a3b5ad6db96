// Package dashboard answers the page queries of the movie dashboard: each
// function filters the canonical dataset and returns the KPIs and series a
// presentation layer needs. Empty selections produce placeholder values.
package dashboard

import (
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/boxoffice-cli/internal/analysis"
	"github.com/KaramelBytes/boxoffice-cli/internal/filter"
	"github.com/KaramelBytes/boxoffice-cli/internal/format"
	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
)

// None is shown when an insight legitimately has no answer.
const None = "None"

// Options tunes rankings and statistical thresholds.
type Options struct {
	TopN             int     `json:"top_n"`
	TopStudios       int     `json:"top_studios"`
	HistogramBins    int     `json:"histogram_bins"`
	OutlierThreshold float64 `json:"outlier_threshold"`
}

// DefaultOptions mirrors the stock dashboard: top 10 movies, 40 studios,
// 50 ROI bins and a z-score threshold of 3.
func DefaultOptions() Options {
	return Options{TopN: 10, TopStudios: 40, HistogramBins: analysis.DefaultBins, OutlierThreshold: 3}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	if o.TopStudios <= 0 {
		o.TopStudios = d.TopStudios
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = d.HistogramBins
	}
	if o.OutlierThreshold <= 0 {
		o.OutlierThreshold = d.OutlierThreshold
	}
	return o
}

// KPI is one labelled headline number, already formatted.
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Point is one scatter point.
type Point struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// HomeView is the overview page.
type HomeView struct {
	Movies       int                 `json:"movies"`
	KPIs         []KPI               `json:"kpis"`
	GrossByYear  []analysis.KeyValue `json:"gross_by_year"`
	TopMovies    []analysis.KeyValue `json:"top_movies"`
	GenreRevenue []analysis.Box      `json:"genre_revenue"`
	TopStudios   []analysis.KeyValue `json:"top_studios"`
}

// Home computes the overview KPIs, the yearly gross trend, the top movies
// and studios by worldwide gross and the genre revenue distribution.
func Home(ds *movies.Dataset, c filter.Criteria, opts Options) HomeView {
	opts = opts.withDefaults()
	df := filter.Apply(ds, c)

	gross, okGross := analysis.Sum(df, movies.WorldwideGross)
	budget, okBudget := analysis.Mean(df, movies.ProductionBudget)
	runtime, okRuntime := analysis.Mean(df, movies.RunningTime)
	return HomeView{
		Movies: df.Len(),
		KPIs: []KPI{
			{"Total Movies", format.Count(df.Len())},
			{"Total Worldwide Gross", format.Money(gross, okGross)},
			{"Average Budget", format.Money(budget, okBudget)},
			{"Average Runtime", format.Minutes(runtime, okRuntime)},
		},
		GrossByYear:  nonNil(analysis.GroupSum(df, movies.WorldwideGross, movies.ByYear)),
		TopMovies:    ranked(analysis.TopN(df, movies.WorldwideGross, opts.TopN, analysis.Descending), movies.WorldwideGross),
		GenreRevenue: nonNilBoxes(analysis.BoxStats(df, movies.WorldwideGross, movies.ByGenre)),
		TopStudios:   nonNil(analysis.StudioTotals(df, movies.WorldwideGross, opts.TopStudios)),
	}
}

// FinancialView is the financial analysis page.
type FinancialView struct {
	Movies          int                  `json:"movies"`
	KPIs            []KPI                `json:"kpis"`
	BudgetVsProfit  []Point              `json:"budget_vs_profit"`
	ROIByGenre      []analysis.KeyValue  `json:"roi_by_genre"`
	ROIDistribution []analysis.Bin       `json:"roi_distribution"`
	Correlation     *analysis.CorrMatrix `json:"correlation,omitempty"`
}

var financialFields = []movies.Field{movies.ProductionBudget, movies.WorldwideGross, movies.Profit, movies.ROI}

// Financial computes profit KPIs, the budget/profit scatter, median ROI per
// genre, the ROI histogram and the financial correlation matrix.
func Financial(ds *movies.Dataset, c filter.Criteria, opts Options) FinancialView {
	opts = opts.withDefaults()
	df := filter.Apply(ds, c)

	profit, okProfit := analysis.Sum(df, movies.Profit)
	roi, okROI := analysis.Median(df, movies.ROI)
	top := format.NA
	if r, ok := analysis.ArgmaxBy(df, movies.Profit); ok {
		top = r.Name
	}
	v := FinancialView{
		Movies: df.Len(),
		KPIs: []KPI{
			{"Total Profit", format.Money(profit, okProfit)},
			{"Median ROI", format.Percent(roi, okROI)},
			{"Top Profit Movie", top},
		},
		BudgetVsProfit:  points(df, movies.ProductionBudget, movies.Profit),
		ROIByGenre:      nonNil(analysis.SortByValue(analysis.Group(df, movies.ROI, movies.ByGenre, analysis.AggMedian), true)),
		ROIDistribution: analysis.Histogram(df, movies.ROI, opts.HistogramBins),
	}
	if v.ROIDistribution == nil {
		v.ROIDistribution = []analysis.Bin{}
	}
	if m, ok := analysis.Correlations(df, financialFields); ok {
		v.Correlation = m
	}
	return v
}

// VideoView is the home video sales page.
type VideoView struct {
	Movies       int                 `json:"movies"`
	KPIs         []KPI               `json:"kpis"`
	FormatSplit  []analysis.KeyValue `json:"format_split"`
	GrossVsVideo []Point             `json:"gross_vs_video"`
}

// Video computes total video sales, the DVD share, the DVD/Blu-ray split and
// gross against video sales for movies that sold on video.
func Video(ds *movies.Dataset, c filter.Criteria) VideoView {
	df := filter.Apply(ds, c)
	v := VideoView{Movies: df.Len(), FormatSplit: []analysis.KeyValue{}, GrossVsVideo: []Point{}}
	if df.Empty() {
		v.KPIs = []KPI{{"Total Video Sales", format.NA}, {"DVD Share", format.NA}}
		return v
	}
	var dvd, blu float64
	var nDVD, nBlu int
	df.Each(func(_ int, r *movies.Record) {
		dvd += r.DVDSalesUSD
		blu += r.BluRaySalesUSD
		if r.DVDSalesUSD > 0 {
			nDVD++
		}
		if r.BluRaySalesUSD > 0 {
			nBlu++
		}
	})
	total := dvd + blu
	share := 0.0
	if total > 0 {
		share = dvd / total * 100
		v.FormatSplit = []analysis.KeyValue{
			{Key: "DVD", Value: dvd, N: nDVD},
			{Key: "Blu-ray", Value: blu, N: nBlu},
		}
	}
	v.KPIs = []KPI{
		{"Total Video Sales", format.Money(total, true)},
		{"DVD Share", format.Percent(share, true)},
	}
	sold := df.Select(func(r *movies.Record) bool { return r.TotalVideoSalesUSD > 0 })
	v.GrossVsVideo = points(sold, movies.WorldwideGross, movies.TotalVideoSales)
	return v
}

// InsightsView is the insights page. It always covers the whole dataset.
type InsightsView struct {
	KPIs          []KPI               `json:"kpis"`
	GrossByDecade []analysis.KeyValue `json:"gross_by_decade"`
	BudgetVsGross []Point             `json:"budget_vs_gross"`
	Table         []KPI               `json:"table"`
}

// Insights derives the headline findings: the highest-grossing decade, the
// genre with the best median ROI, the most profitable studio, the first
// worldwide gross outlier and the highest-grossing movie.
func Insights(ds *movies.Dataset, opts Options) InsightsView {
	opts = opts.withDefaults()

	decade := format.NA
	decades := analysis.GroupSum(ds, movies.WorldwideGross, movies.ByDecade)
	if best, ok := analysis.Max(decades); ok {
		if d, err := strconv.Atoi(best.Key); err == nil {
			decade = format.Decade(d)
		}
	}
	genre := format.NA
	if best, ok := analysis.Max(analysis.Group(ds, movies.ROI, movies.ByGenre, analysis.AggMedian)); ok {
		genre = best.Key
	}
	studio := format.NA
	if best, ok := analysis.Max(analysis.StudioTotals(ds, movies.Profit, 0)); ok {
		studio = best.Key
	}
	outlier := None
	if out := analysis.Outliers(ds, movies.WorldwideGross, opts.OutlierThreshold); len(out) > 0 {
		outlier = out[0].Name
	}
	topMovie := format.NA
	if r, ok := analysis.ArgmaxBy(ds, movies.WorldwideGross); ok {
		topMovie = r.Name
	}
	if ds.Empty() {
		outlier = format.NA
	}

	return InsightsView{
		KPIs: []KPI{
			{"Highest-Grossing Decade", decade},
			{"Highest ROI Genre", genre},
			{"Most Profitable Studio", studio},
			{"Box Office Outlier", outlier},
		},
		GrossByDecade: nonNil(decades),
		BudgetVsGross: points(ds, movies.ProductionBudget, movies.WorldwideGross),
		Table: []KPI{
			{"Highest-Grossing Decade", decade},
			{"Highest ROI Genre", genre},
			{"Most Profitable Studio", studio},
			{"Highest Gross Movie", topMovie},
		},
	}
}

// FilterOptions describes the value domains filter widgets offer.
type FilterOptions struct {
	Genres    []string `json:"genres"`
	Studios   []string `json:"studios"`
	YearMin   int      `json:"year_min"`
	YearMax   int      `json:"year_max"`
	ProfitMin float64  `json:"profit_min"`
	ProfitMax float64  `json:"profit_max"`
	BudgetMin float64  `json:"budget_min"`
	BudgetMax float64  `json:"budget_max"`
}

// FilterOptionsOf lists the selectable genres and studios and the observed year,
// profit and budget bounds. Fields without data fall back to 2000-2025,
// 0-100M and 0-200M.
func FilterOptionsOf(ds *movies.Dataset) FilterOptions {
	fo := FilterOptions{
		Genres: []string{}, Studios: []string{},
		YearMin: 2000, YearMax: 2025,
		ProfitMin: 0, ProfitMax: 100_000_000,
		BudgetMin: 0, BudgetMax: 200_000_000,
	}
	genres := map[string]struct{}{}
	studios := map[string]struct{}{}
	ds.Each(func(_ int, r *movies.Record) {
		if r.Genre != nil {
			genres[*r.Genre] = struct{}{}
		}
		for _, s := range r.Studios {
			studios[s] = struct{}{}
		}
	})
	for g := range genres {
		fo.Genres = append(fo.Genres, g)
	}
	for s := range studios {
		fo.Studios = append(fo.Studios, s)
	}
	sort.Strings(fo.Genres)
	sort.Strings(fo.Studios)

	if lo, hi, ok := bounds(ds, movies.Year); ok {
		fo.YearMin, fo.YearMax = int(lo), int(hi)
	}
	if lo, hi, ok := bounds(ds, movies.Profit); ok {
		fo.ProfitMin, fo.ProfitMax = lo, hi
	}
	if lo, hi, ok := bounds(ds, movies.ProductionBudget); ok {
		fo.BudgetMin, fo.BudgetMax = lo, hi
	}
	return fo
}

// DetailRow is one line of the movie detail table.
type DetailRow struct {
	Name    string   `json:"Movie Name"`
	Year    *int     `json:"Year"`
	Genre   *string  `json:"Genre"`
	Budget  *float64 `json:"Production Budget (USD)"`
	Gross   *float64 `json:"Worldwide Gross (USD)"`
	Runtime *float64 `json:"Running Time (minutes)"`
}

// DetailColumns are the detail table headers in display order.
var DetailColumns = []string{
	"Movie Name", "Year", "Genre", "Production Budget (USD)", "Worldwide Gross (USD)", "Running Time (minutes)",
}

// DetailRows projects ds onto the detail table columns.
func DetailRows(ds *movies.Dataset) []DetailRow {
	recs := ds.Records()
	out := make([]DetailRow, 0, len(recs))
	for _, r := range recs {
		out = append(out, DetailRow{
			Name:    r.Name,
			Year:    r.Year,
			Genre:   r.Genre,
			Budget:  r.ProductionBudgetUSD,
			Gross:   r.WorldwideGrossUSD,
			Runtime: r.RunningTimeMinutes,
		})
	}
	return out
}

// RankRow is one movie of a ranking.
type RankRow struct {
	Rank    int     `json:"rank"`
	Movie   string  `json:"movie"`
	Year    *int    `json:"year"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// RankView ranks the filtered movies by one numeric field.
type RankView struct {
	Field  string    `json:"field"`
	Order  string    `json:"order"`
	Movies int       `json:"movies"`
	Rows   []RankRow `json:"rows"`
}

// Rank lists up to n filtered movies ordered by field. Movies with a null
// value are left out; ties keep dataset order.
func Rank(ds *movies.Dataset, c filter.Criteria, field movies.Field, n int, dir analysis.Direction) RankView {
	fds := filter.Apply(ds, c)
	v := RankView{Field: field.String(), Order: "descending", Movies: fds.Len(), Rows: []RankRow{}}
	if dir == analysis.Ascending {
		v.Order = "ascending"
	}
	for i, r := range analysis.TopN(fds, field, n, dir) {
		val, _ := field.Value(&r)
		v.Rows = append(v.Rows, RankRow{
			Rank:    i + 1,
			Movie:   r.Name,
			Year:    r.Year,
			Value:   val,
			Display: FieldValue(field, val),
		})
	}
	return v
}

// FieldValue formats v for display as a value of field.
func FieldValue(field movies.Field, v float64) string {
	switch field {
	case movies.ROI, movies.DomesticShare:
		return format.Percent(v, true)
	case movies.RunningTime:
		return format.Minutes(v, true)
	case movies.Year:
		return strconv.Itoa(int(v))
	case movies.Decade:
		return format.Decade(int(v))
	}
	if strings.HasSuffix(field.String(), "(USD)") {
		return format.Money(v, true)
	}
	return format.Human(v, true)
}

// PageBounds returns the [start, end) range of n rows shown on the zero-based
// page of size rows. size <= 0 shows every row; a page past the end, or a
// negative one, is empty.
func PageBounds(n, page, size int) (start, end int) {
	if size <= 0 {
		return 0, n
	}
	if page < 0 || n == 0 || page > (n-1)/size {
		return n, n
	}
	start = page * size
	return start, start + min(size, n-start)
}

// Strings renders the row as display cells; nulls become empty strings.
func (d DetailRow) Strings() []string {
	cell := func(p *float64) string {
		if p == nil {
			return ""
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	year, genre := "", ""
	if d.Year != nil {
		year = strconv.Itoa(*d.Year)
	}
	if d.Genre != nil {
		genre = *d.Genre
	}
	return []string{d.Name, year, genre, cell(d.Budget), cell(d.Gross), cell(d.Runtime)}
}

func points(ds *movies.Dataset, x, y movies.Field) []Point {
	out := []Point{}
	ds.Each(func(_ int, r *movies.Record) {
		xv, okX := x.Value(r)
		yv, okY := y.Value(r)
		if okX && okY {
			out = append(out, Point{Label: r.Name, X: xv, Y: yv})
		}
	})
	return out
}

func ranked(recs []movies.Record, field movies.Field) []analysis.KeyValue {
	out := make([]analysis.KeyValue, 0, len(recs))
	for i := range recs {
		v, _ := field.Value(&recs[i])
		out = append(out, analysis.KeyValue{Key: recs[i].Name, Value: v, N: 1})
	}
	return out
}

func bounds(ds *movies.Dataset, f movies.Field) (lo, hi float64, ok bool) {
	ds.Each(func(_ int, r *movies.Record) {
		v, present := f.Value(r)
		if !present {
			return
		}
		if !ok || v < lo {
			lo = v
		}
		if !ok || v > hi {
			hi = v
		}
		ok = true
	})
	return lo, hi, ok
}

func nonNil(kvs []analysis.KeyValue) []analysis.KeyValue {
	if kvs == nil {
		return []analysis.KeyValue{}
	}
	return kvs
}

func nonNilBoxes(b []analysis.Box) []analysis.Box {
	if b == nil {
		return []analysis.Box{}
	}
	return b
}
