package render

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/boxoffice-cli/internal/analysis"
	"github.com/KaramelBytes/boxoffice-cli/internal/dashboard"
)

func homeView() dashboard.HomeView {
	return dashboard.HomeView{
		Movies: 2,
		KPIs:   []dashboard.KPI{{Label: "Total Movies", Value: "2"}},
		GrossByYear: []analysis.KeyValue{
			{Key: "2009", Value: 2.5e9, N: 1},
			{Key: "2012", Value: 1.5e9, N: 1},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Table, "md": Markdown, "JSON": JSON, "csv": CSV} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v,%v", in, got, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Table, HomePage(homeView())); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Total Movies", "Worldwide Gross by Year", "$2.50B", "Top Movies by Worldwide Gross: No data"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWrite_Markdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Markdown, HomePage(homeView())); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "### Worldwide Gross by Year") || !strings.Contains(out, "| 2009 |") {
		t.Fatalf("unexpected markdown:\n%s", out)
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, JSON, HomePage(homeView())); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var got dashboard.HomeView
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Movies != 2 || len(got.GrossByYear) != 2 {
		t.Fatalf("decoded = %+v", got)
	}
}

func TestDetailPagePaging(t *testing.T) {
	rows := make([]dashboard.DetailRow, 25)
	for i := range rows {
		rows[i].Name = "m"
	}
	p := DetailPage(rows, 2, 10)
	if len(p.Sections[0].Rows) != 5 {
		t.Fatalf("rows = %d", len(p.Sections[0].Rows))
	}
	if p.Sections[0].Title != "Movies 21-25 of 25" {
		t.Fatalf("title = %q", p.Sections[0].Title)
	}
	if p := DetailPage(rows, 9, 10); len(p.Sections[0].Rows) != 0 {
		t.Fatal("page past the end should be empty")
	}
	if p := DetailPage(rows, 0, 0); len(p.Sections[0].Rows) != 25 {
		t.Fatal("page size 0 should print everything")
	}
	if p := DetailPage(rows, 2305843009213693952, 5); len(p.Sections[0].Rows) != 0 {
		t.Fatal("huge page should be empty")
	}
	if p := DetailPage(rows, 0, math.MaxInt); len(p.Sections[0].Rows) != 25 || p.Sections[0].Title != "Movies 1-25 of 25" {
		t.Fatalf("max page size = %d rows, title %q", len(p.Sections[0].Rows), p.Sections[0].Title)
	}
	if p := DetailPage(rows, 1, math.MaxInt); len(p.Sections[0].Rows) != 0 {
		t.Fatal("second page of max page size should be empty")
	}
}

func TestCorrSection(t *testing.T) {
	if s := corr("c", nil); len(s.Rows) != 0 || s.Empty == "" {
		t.Fatalf("nil matrix section = %+v", s)
	}
	m := &analysis.CorrMatrix{Columns: []string{"a", "b"}, Values: [][]float64{{1, 0.5}, {0.5, 1}}}
	s := corr("c", m)
	if len(s.Rows) != 2 || s.Rows[0][2] != "0.500" {
		t.Fatalf("rows = %v", s.Rows)
	}
}

func TestRankPage(t *testing.T) {
	year := 2009
	v := dashboard.RankView{
		Field: "Worldwide Gross (USD)", Order: "ascending", Movies: 3,
		Rows: []dashboard.RankRow{{Rank: 1, Movie: "Flop", Year: &year, Value: 2e8, Display: "$200.00M"}},
	}
	var buf bytes.Buffer
	if err := Write(&buf, Markdown, RankPage(v)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Bottom 1 by Worldwide Gross (USD)", "| Flop |", "$200.00M"} {
		if !strings.Contains(out, want) {
			t.Fatalf("markdown missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	empty := dashboard.RankView{Field: "ROI (%)", Order: "descending", Rows: []dashboard.RankRow{}}
	if err := Write(&buf, Table, RankPage(empty)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "No movies with ROI (%)") {
		t.Fatalf("expected empty message:\n%s", buf.String())
	}
}
