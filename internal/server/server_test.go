package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/boxoffice-cli/internal/dashboard"
	"github.com/KaramelBytes/boxoffice-cli/internal/filter"
	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
)

const fixtureCSV = `Movie Name,Release Date,Genre,Production Budget (USD),Worldwide Gross (USD),Production/Financing Companies,Est. Domestic DVD Sales (USD),Est. Domestic Blu-ray Sales (USD)
Avatar,2009-12-18,Action,"$237,000,000","$2,923,706,026","Lightstorm, 20th Century Fox","$100,000","$50,000"
Up,2009-05-29,Adventure,"$175,000,000","$735,099,082",Pixar,,
Flop,2012-03-09,Action,"$250,000,000","$200,000,000",Walt Disney,nan,nan
`

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(p, []byte(fixtureCSV), 0o644))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(movies.NewCache(logger), Config{DataPath: p, Options: dashboard.DefaultOptions(), PageSize: 2, Logger: logger}), p
}

func get(t *testing.T, s *Server, target string, out any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

func TestParseCriteria(t *testing.T) {
	q := url.Values{
		"genre":            {"Action,Drama", "Comedy"},
		"year_min":         {"2000"},
		"budget_max":       {"1e8"},
		"roi":              {"HIGH"},
		"with_video_sales": {"true"},
	}
	c, err := ParseCriteria(q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Drama", "Comedy"}, c.Genres)
	require.NotNil(t, c.Years)
	assert.Equal(t, 2000, c.Years.Min)
	assert.True(t, c.Years.Contains(2100))
	require.NotNil(t, c.Budget)
	assert.True(t, c.Budget.Contains(-5))
	assert.False(t, c.Budget.Contains(2e8))
	assert.Nil(t, c.Profit)
	assert.Equal(t, filter.ROIHigh, c.ROI)
	assert.True(t, c.WithVideoSales)

	empty, err := ParseCriteria(url.Values{})
	require.NoError(t, err)
	assert.False(t, empty.Active())
}

func TestParseCriteria_Invalid(t *testing.T) {
	_, err := ParseCriteria(url.Values{"year_min": {"soon"}})
	assert.ErrorContains(t, err, "year_min")

	_, err = ParseCriteria(url.Values{"year_min": {"2010"}, "year_max": {"2000"}, "roi": {"huge"}})
	var ve *filter.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Problems, 2)
}

func TestHome(t *testing.T) {
	s, _ := newTestServer(t)
	var v dashboard.HomeView
	rec := get(t, s, "/api/home?genre=Action", &v)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Snapshot-ID"))
	assert.Equal(t, 2, v.Movies)
	require.NotEmpty(t, v.TopMovies)
	assert.Equal(t, "Avatar", v.TopMovies[0].Key)
}

func TestSnapshotReused(t *testing.T) {
	s, _ := newTestServer(t)
	a := get(t, s, "/api/video", nil).Header().Get("X-Snapshot-ID")
	b := get(t, s, "/api/financial?roi=low", nil).Header().Get("X-Snapshot-ID")
	assert.Equal(t, a, b)
}

func TestMoviesPaging(t *testing.T) {
	s, _ := newTestServer(t)
	var p MoviesPage
	get(t, s, "/api/movies?page=1", &p)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 2, p.PageSize)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "Flop", p.Rows[0].Name)

	rec := get(t, s, "/api/movies?page=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoviesPaging_LargeValues(t *testing.T) {
	s, _ := newTestServer(t)
	for _, q := range []string{
		"page=2305843009213693952&page_size=5",
		"page=4611686018427387904&page_size=4",
		"page=1&page_size=" + strconv.Itoa(math.MaxInt),
	} {
		var p MoviesPage
		rec := get(t, s, "/api/movies?"+q, &p)
		require.Equal(t, http.StatusOK, rec.Code, q)
		assert.Equal(t, 3, p.Total, q)
		assert.Empty(t, p.Rows, q)
	}

	var p MoviesPage
	get(t, s, "/api/movies?page=0&page_size="+strconv.Itoa(math.MaxInt), &p)
	assert.Len(t, p.Rows, 3)
}

func TestBadCriteria(t *testing.T) {
	s, _ := newTestServer(t)
	var e ErrorResponse
	rec := get(t, s, "/api/home?video_format=vhs", &e)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, e.Problems, 1)
	assert.Contains(t, e.Problems[0], "vhs")
}

func TestRank(t *testing.T) {
	s, _ := newTestServer(t)
	var v dashboard.RankView
	require.Equal(t, http.StatusOK, get(t, s, "/api/rank?field=budget&n=2", &v).Code)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "Flop", v.Rows[0].Movie)
	assert.Equal(t, "Avatar", v.Rows[1].Movie)

	get(t, s, "/api/rank?order=asc&genre=Action", &v)
	assert.Equal(t, "Worldwide Gross (USD)", v.Field)
	assert.Equal(t, 2, v.Movies)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "Flop", v.Rows[0].Movie)

	for _, q := range []string{"field=popularity", "n=0", "n=ten", "order=sideways"} {
		var e ErrorResponse
		rec := get(t, s, "/api/rank?"+q, &e)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.NotEmpty(t, e.Error, q)
	}
}

func TestInsightsAndOptions(t *testing.T) {
	s, _ := newTestServer(t)
	var iv dashboard.InsightsView
	assert.Equal(t, http.StatusOK, get(t, s, "/api/insights", &iv).Code)
	assert.NotEmpty(t, iv.KPIs)

	var fo dashboard.FilterOptions
	get(t, s, "/api/options", &fo)
	assert.Equal(t, []string{"Action", "Adventure"}, fo.Genres)
	assert.Equal(t, 2009, fo.YearMin)
}

func TestUnavailableSource(t *testing.T) {
	s, p := newTestServer(t)
	require.NoError(t, os.Remove(p))
	var e ErrorResponse
	rec := get(t, s, "/healthz", &e)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotEmpty(t, e.Error)
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	var h map[string]any
	assert.Equal(t, http.StatusOK, get(t, s, "/healthz", &h).Code)
	assert.Equal(t, "ok", h["status"])
	assert.EqualValues(t, 3, h["movies"])

	rec := get(t, s, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `boxoffice_http_requests_total{code="200",route="/healthz"} 1`), body)
}
