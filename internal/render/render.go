// Package render prints dashboard views to a terminal as tables, markdown,
// CSV or JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/KaramelBytes/boxoffice-cli/internal/analysis"
	"github.com/KaramelBytes/boxoffice-cli/internal/dashboard"
	"github.com/KaramelBytes/boxoffice-cli/internal/format"
)

// Format selects the output encoding.
type Format string

const (
	Table    Format = "table"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// ParseFormat accepts table, markdown (or md), csv and json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return Table, nil
	case "md", "markdown":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, markdown, csv or json)", s)
}

// Section is one titled table of a page.
type Section struct {
	Title  string
	Header []string
	Rows   [][]string
	// Empty is printed instead of the table when Rows is empty.
	Empty string
}

// Page is a printable view: headline KPIs followed by sections.
type Page struct {
	Title    string
	KPIs     []dashboard.KPI
	Sections []Section
	// Raw is encoded as-is in JSON mode.
	Raw any
}

// Write prints p to w in format f.
func Write(w io.Writer, f Format, p Page) error {
	if f == JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p.Raw)
	}
	if len(p.KPIs) > 0 {
		rows := make([][]string, len(p.KPIs))
		for i, k := range p.KPIs {
			rows[i] = []string{k.Label, k.Value}
		}
		if err := writeSection(w, f, Section{Title: p.Title, Header: []string{"KPI", "Value"}, Rows: rows}); err != nil {
			return err
		}
	}
	for _, s := range p.Sections {
		if err := writeSection(w, f, s); err != nil {
			return err
		}
	}
	return nil
}

func writeSection(w io.Writer, f Format, s Section) error {
	if len(s.Rows) == 0 {
		msg := s.Empty
		if msg == "" {
			msg = "No data for the selected filters"
		}
		_, err := fmt.Fprintf(w, "%s: %s\n\n", s.Title, msg)
		return err
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	header := make(table.Row, len(s.Header))
	for i, h := range s.Header {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, r := range s.Rows {
		row := make(table.Row, len(r))
		for i, c := range r {
			row[i] = c
		}
		t.AppendRow(row)
	}
	var out string
	switch f {
	case Markdown:
		if s.Title != "" {
			if _, err := fmt.Fprintf(w, "### %s\n\n", s.Title); err != nil {
				return err
			}
		}
		out = t.RenderMarkdown()
	case CSV:
		if s.Title != "" {
			if _, err := fmt.Fprintf(w, "# %s\n", s.Title); err != nil {
				return err
			}
		}
		out = t.RenderCSV()
	default:
		t.SetTitle(s.Title)
		out = t.Render()
	}
	_, err := fmt.Fprintf(w, "%s\n\n", out)
	return err
}

// HomePage lays out the overview page.
func HomePage(v dashboard.HomeView) Page {
	return Page{
		Title: "Overview",
		KPIs:  v.KPIs,
		Raw:   v,
		Sections: []Section{
			moneySeries("Worldwide Gross by Year", "Year", v.GrossByYear),
			moneySeries("Top Movies by Worldwide Gross", "Movie", v.TopMovies),
			boxes("Revenue Distribution by Genre", v.GenreRevenue),
			moneySeries("Top Production Companies by Worldwide Gross", "Company", v.TopStudios),
		},
	}
}

// FinancialPage lays out the financial analysis page.
func FinancialPage(v dashboard.FinancialView) Page {
	roi := Section{Title: "Median ROI by Genre", Header: []string{"Genre", "ROI (%)", "Movies"}, Empty: "No ROI data by Genre"}
	for _, kv := range v.ROIByGenre {
		roi.Rows = append(roi.Rows, []string{kv.Key, format.Percent(kv.Value, true), strconv.Itoa(kv.N)})
	}
	hist := Section{Title: "ROI Distribution", Header: []string{"From (%)", "To (%)", "Movies"}, Empty: "ROI distribution not available"}
	for _, b := range v.ROIDistribution {
		if b.Count == 0 {
			continue
		}
		hist.Rows = append(hist.Rows, []string{format.Percent(b.Lo, true), format.Percent(b.Hi, true), strconv.Itoa(b.Count)})
	}
	return Page{
		Title: "Financial Analysis",
		KPIs:  v.KPIs,
		Raw:   v,
		Sections: []Section{
			scatter("Budget vs Profit", "Production Budget", "Profit", v.BudgetVsProfit),
			roi,
			hist,
			corr("Financial Metrics Correlation", v.Correlation),
		},
	}
}

// VideoPage lays out the video sales page.
func VideoPage(v dashboard.VideoView) Page {
	split := moneySeries("DVD vs Blu-ray Sales", "Format", v.FormatSplit)
	split.Empty = "No video sales data"
	return Page{
		Title: "Video Sales",
		KPIs:  v.KPIs,
		Raw:   v,
		Sections: []Section{
			split,
			scatter("Worldwide Gross vs Total Video Sales", "Worldwide Gross", "Video Sales", v.GrossVsVideo),
		},
	}
}

// InsightsPage lays out the insights page.
func InsightsPage(v dashboard.InsightsView) Page {
	summary := Section{Title: "Insights Summary", Header: []string{"Insight", "Value"}}
	for _, k := range v.Table {
		summary.Rows = append(summary.Rows, []string{k.Label, k.Value})
	}
	decades := Section{Title: "Revenue by Decade", Header: []string{"Decade", "Worldwide Gross"}}
	for _, kv := range v.GrossByDecade {
		label := kv.Key
		if d, err := strconv.Atoi(kv.Key); err == nil {
			label = format.Decade(d)
		}
		decades.Rows = append(decades.Rows, []string{label, format.Money(kv.Value, true)})
	}
	return Page{
		Title:    "Insights",
		KPIs:     v.KPIs,
		Raw:      v,
		Sections: []Section{decades, summary},
	}
}

// RankPage lays out a ranking of movies by one field.
func RankPage(v dashboard.RankView) Page {
	title := fmt.Sprintf("Top %d by %s", len(v.Rows), v.Field)
	if v.Order == "ascending" {
		title = fmt.Sprintf("Bottom %d by %s", len(v.Rows), v.Field)
	}
	s := Section{Title: title, Header: []string{"#", "Movie", "Year", v.Field}, Empty: "No movies with " + v.Field}
	for _, r := range v.Rows {
		year := ""
		if r.Year != nil {
			year = strconv.Itoa(*r.Year)
		}
		s.Rows = append(s.Rows, []string{strconv.Itoa(r.Rank), r.Movie, year, r.Display})
	}
	return Page{Title: "Ranking", Sections: []Section{s}, Raw: v}
}

// DetailPage lays out the movie detail table, limited to pageSize rows
// starting at page (zero-based). pageSize <= 0 prints every row.
func DetailPage(rows []dashboard.DetailRow, page, pageSize int) Page {
	s := Section{Title: "Movies", Header: dashboard.DetailColumns}
	start, end := dashboard.PageBounds(len(rows), page, pageSize)
	if pageSize > 0 && start < end {
		s.Title = fmt.Sprintf("Movies %d-%d of %d", start+1, end, len(rows))
	}
	for _, r := range rows[start:end] {
		s.Rows = append(s.Rows, r.Strings())
	}
	return Page{Title: "Movies", Sections: []Section{s}, Raw: rows[start:end]}
}

func moneySeries(title, keyHeader string, kvs []analysis.KeyValue) Section {
	s := Section{Title: title, Header: []string{keyHeader, "Amount"}}
	for _, kv := range kvs {
		s.Rows = append(s.Rows, []string{kv.Key, format.Money(kv.Value, true)})
	}
	return s
}

func boxes(title string, bs []analysis.Box) Section {
	s := Section{Title: title, Header: []string{"Group", "Movies", "Min", "Q1", "Median", "Q3", "Max"}}
	for _, b := range bs {
		s.Rows = append(s.Rows, []string{
			b.Key, strconv.Itoa(b.Count),
			format.MoneyAxis(b.Min), format.MoneyAxis(b.Q1), format.MoneyAxis(b.Median),
			format.MoneyAxis(b.Q3), format.MoneyAxis(b.Max),
		})
	}
	return s
}

// scatter prints at most the first 25 points.
func scatter(title, x, y string, pts []dashboard.Point) Section {
	s := Section{Title: title, Header: []string{"Movie", x, y}, Empty: "Not enough data for " + title}
	for i, p := range pts {
		if i == 25 {
			s.Title = fmt.Sprintf("%s (first 25 of %d)", title, len(pts))
			break
		}
		s.Rows = append(s.Rows, []string{p.Label, format.MoneyAxis(p.X), format.MoneyAxis(p.Y)})
	}
	return s
}

func corr(title string, m *analysis.CorrMatrix) Section {
	s := Section{Title: title, Empty: "Not enough data for correlation"}
	if m == nil {
		return s
	}
	s.Header = append([]string{""}, m.Columns...)
	for i, c := range m.Columns {
		row := []string{c}
		for _, v := range m.Values[i] {
			row = append(row, strconv.FormatFloat(v, 'f', 3, 64))
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}
