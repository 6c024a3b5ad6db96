package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
)

func ptr[T any](v T) *T { return &v }

func film(name, genre string, year int, budget, gross float64, companies string, dvd, blu float64) movies.Record {
	r := movies.Record{
		Name:                name,
		Year:                ptr(year),
		ProductionBudgetUSD: ptr(budget),
		WorldwideGrossUSD:   ptr(gross),
		DVDSalesUSD:         dvd,
		BluRaySalesUSD:      blu,
		TotalVideoSalesUSD:  dvd + blu,
	}
	if genre != "" {
		r.Genre = ptr(genre)
	}
	if companies != "" {
		r.ProductionCompanies = ptr(companies)
	}
	r.ProfitUSD, r.ROIPercent = movies.Financials(r.WorldwideGrossUSD, r.ProductionBudgetUSD)
	return r
}

func sample() *movies.Dataset {
	noYear := film("Undated", "Drama", 0, 10, 5, "", 0, 0)
	noYear.Year = nil
	return movies.NewDataset("sample", []movies.Record{
		film("Hit", "Action", 2010, 100, 400, "Walt Disney Pictures", 50, 20),
		film("Even", "Action", 2012, 100, 200, "Warner Bros.", 10, 0),
		film("Flop", "Comedy", 2015, 100, 50, "Universal", 0, 5),
		film("Breakeven", "Drama", 2001, 100, 100, "", 0, 0),
		noYear,
	})
}

func names(ds *movies.Dataset) []string {
	var out []string
	ds.Each(func(_ int, r *movies.Record) { out = append(out, r.Name) })
	return out
}

func TestApply_NoCriteria(t *testing.T) {
	ds := sample()
	out := Apply(ds, Criteria{})
	assert.Equal(t, ds.Len(), out.Len())
	assert.NotSame(t, ds, out)
}

func TestApply_Genre(t *testing.T) {
	out := Apply(sample(), Criteria{Genres: []string{"Action", "Drama"}})
	assert.Equal(t, []string{"Hit", "Even", "Breakeven", "Undated"}, names(out))
}

func TestApply_YearRangeExcludesNull(t *testing.T) {
	out := Apply(sample(), Criteria{Years: &IntRange{Min: 2000, Max: 2012}})
	assert.Equal(t, []string{"Hit", "Even", "Breakeven"}, names(out))
}

func TestApply_ProfitAndBudgetInclusive(t *testing.T) {
	out := Apply(sample(), Criteria{Profit: &Range{Min: 0, Max: 100}})
	assert.Equal(t, []string{"Even", "Breakeven"}, names(out))

	out = Apply(sample(), Criteria{Budget: &Range{Min: 10, Max: 10}})
	assert.Equal(t, []string{"Undated"}, names(out))
}

func TestROICategoryBoundaries(t *testing.T) {
	assert.Equal(t, ROIHigh, ROICategoryOf(100.0001))
	assert.Equal(t, ROIModerate, ROICategoryOf(100))
	assert.Equal(t, ROIModerate, ROICategoryOf(0))
	assert.Equal(t, ROILow, ROICategoryOf(-0.0001))
}

func TestApply_ROI(t *testing.T) {
	ds := sample()
	assert.Equal(t, []string{"Hit"}, names(Apply(ds, Criteria{ROI: ROIHigh})))
	assert.Equal(t, []string{"Even", "Breakeven"}, names(Apply(ds, Criteria{ROI: ROIModerate})))
	assert.Equal(t, []string{"Flop", "Undated"}, names(Apply(ds, Criteria{ROI: ROILow})))
	assert.Equal(t, ds.Len(), Apply(ds, Criteria{ROI: ROIAll}).Len())
}

func TestApply_StudioSubstringCaseSensitive(t *testing.T) {
	ds := sample()
	assert.Equal(t, []string{"Hit"}, names(Apply(ds, Criteria{Studio: "Disney"})))
	assert.Empty(t, names(Apply(ds, Criteria{Studio: "disney"})))
}

func TestApply_VideoFormat(t *testing.T) {
	ds := sample()
	assert.Equal(t, []string{"Hit", "Even"}, names(Apply(ds, Criteria{VideoFormat: VideoDVD})))
	assert.Equal(t, []string{"Hit", "Flop"}, names(Apply(ds, Criteria{VideoFormat: VideoBluRay})))
	assert.Equal(t, ds.Len(), Apply(ds, Criteria{VideoFormat: VideoBoth}).Len())
	assert.Equal(t, []string{"Hit", "Even", "Flop"}, names(Apply(ds, Criteria{WithVideoSales: true})))
}

func TestApply_ANDAndMonotonic(t *testing.T) {
	ds := sample()
	a := Criteria{Genres: []string{"Action"}}
	b := Criteria{Genres: []string{"Action"}, VideoFormat: VideoBluRay}
	ra, rb := Apply(ds, a), Apply(ds, b)
	assert.LessOrEqual(t, rb.Len(), ra.Len())
	assert.Equal(t, []string{"Hit"}, names(rb))
	for _, n := range names(rb) {
		assert.Contains(t, names(ra), n)
	}
}

func TestApply_EmptyResult(t *testing.T) {
	out := Apply(sample(), Criteria{Genres: []string{"Western"}})
	require.NotNil(t, out)
	assert.True(t, out.Empty())
}

func TestApply_DoesNotMutate(t *testing.T) {
	ds := sample()
	before := ds.Records()
	_ = Apply(ds, Criteria{ROI: ROIHigh, Studio: "Disney"})
	assert.Equal(t, before, ds.Records())
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(Criteria{}))
	require.NoError(t, Validate(Criteria{ROI: ROIModerate, VideoFormat: VideoBluRay, Years: &IntRange{Min: 2000, Max: 2000}}))

	err := Validate(Criteria{ROI: "huge", Years: &IntRange{Min: 2020, Max: 2010}, Budget: &Range{Min: 5, Max: 1}})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Len(t, ve.Problems, 3)
	assert.Contains(t, err.Error(), "ROI")
	assert.Contains(t, err.Error(), "Years")
	assert.Contains(t, err.Error(), "Budget")

	err = Validate(Criteria{VideoFormat: "vhs"})
	assert.ErrorAs(t, err, &ve)
}
