// Package movies holds the canonical movie dataset: the typed record, the
// loader that coerces raw cells into it, and an invalidatable snapshot cache.
package movies

import (
	"strconv"
	"time"
)

// Record is one cleaned movie row. Pointer fields are nil when the source
// cell was absent or could not be coerced.
type Record struct {
	Name        string     `json:"name"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Year        *int       `json:"year,omitempty"`
	Decade      *int       `json:"decade,omitempty"`
	Month       *int       `json:"month,omitempty"`
	Quarter     *int       `json:"quarter,omitempty"`
	Genre       *string    `json:"genre,omitempty"`

	ProductionBudgetUSD     *float64 `json:"production_budget_usd,omitempty"`
	DomesticGrossUSD        *float64 `json:"domestic_gross_usd,omitempty"`
	InternationalGrossUSD   *float64 `json:"international_gross_usd,omitempty"`
	WorldwideGrossUSD       *float64 `json:"worldwide_gross_usd,omitempty"`
	RunningTimeMinutes      *float64 `json:"running_time_minutes,omitempty"`
	DomesticSharePercentage *float64 `json:"domestic_share_percentage,omitempty"`

	OpeningTheaters *int `json:"opening_theaters,omitempty"`
	MaxTheaters     *int `json:"max_theaters,omitempty"`

	// ProductionCompanies is the raw company text; Studios is its cleaned,
	// de-duplicated split with placeholder names removed.
	ProductionCompanies *string  `json:"production_companies,omitempty"`
	Studios             []string `json:"studios,omitempty"`

	ProfitUSD  *float64 `json:"profit_usd,omitempty"`
	ROIPercent *float64 `json:"roi_percent,omitempty"`

	DVDSalesUSD        float64 `json:"dvd_sales_usd"`
	BluRaySalesUSD     float64 `json:"bluray_sales_usd"`
	TotalVideoSalesUSD float64 `json:"total_video_sales_usd"`
}

// Field names a numeric attribute of Record usable by filters and aggregations.
type Field int

const (
	ProductionBudget Field = iota
	DomesticGross
	InternationalGross
	WorldwideGross
	RunningTime
	DomesticShare
	OpeningTheaters
	MaxTheaters
	Profit
	ROI
	DVDSales
	BluRaySales
	TotalVideoSales
	Year
	Decade
)

var fieldNames = map[Field]string{
	ProductionBudget:   "Production Budget (USD)",
	DomesticGross:      "Domestic Gross (USD)",
	InternationalGross: "International Gross (USD)",
	WorldwideGross:     "Worldwide Gross (USD)",
	RunningTime:        "Running Time (minutes)",
	DomesticShare:      "Domestic Share Percentage",
	OpeningTheaters:    "Opening Theaters",
	MaxTheaters:        "Max Theaters",
	Profit:             "Profit (USD)",
	ROI:                "ROI (%)",
	DVDSales:           "Est. Domestic DVD Sales (USD)",
	BluRaySales:        "Est. Domestic Blu-ray Sales (USD)",
	TotalVideoSales:    "Total Video Sales (USD)",
	Year:               "Year",
	Decade:             "Decade",
}

// Fields lists every numeric field in declaration order.
func Fields() []Field {
	out := make([]Field, 0, len(fieldNames))
	for f := ProductionBudget; f <= Decade; f++ {
		out = append(out, f)
	}
	return out
}

// String returns the canonical column header of the field.
func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return "Unknown"
}

// Value returns the field value of r and whether it is present.
func (f Field) Value(r *Record) (float64, bool) {
	switch f {
	case ProductionBudget:
		return deref(r.ProductionBudgetUSD)
	case DomesticGross:
		return deref(r.DomesticGrossUSD)
	case InternationalGross:
		return deref(r.InternationalGrossUSD)
	case WorldwideGross:
		return deref(r.WorldwideGrossUSD)
	case RunningTime:
		return deref(r.RunningTimeMinutes)
	case DomesticShare:
		return deref(r.DomesticSharePercentage)
	case OpeningTheaters:
		return derefInt(r.OpeningTheaters)
	case MaxTheaters:
		return derefInt(r.MaxTheaters)
	case Profit:
		return deref(r.ProfitUSD)
	case ROI:
		return deref(r.ROIPercent)
	case DVDSales:
		return r.DVDSalesUSD, true
	case BluRaySales:
		return r.BluRaySalesUSD, true
	case TotalVideoSales:
		return r.TotalVideoSalesUSD, true
	case Year:
		return derefInt(r.Year)
	case Decade:
		return derefInt(r.Decade)
	}
	return 0, false
}

// ParseField resolves a field from its header or a short alias such as
// "budget", "gross", "profit" or "roi".
func ParseField(name string) (Field, bool) {
	if f, ok := fieldAliases[normalizeHeader(name)]; ok {
		return f, true
	}
	for f, n := range fieldNames {
		if normalizeHeader(n) == normalizeHeader(name) {
			return f, true
		}
	}
	return 0, false
}

var fieldAliases = map[string]Field{
	"budget":        ProductionBudget,
	"domestic":      DomesticGross,
	"international": InternationalGross,
	"gross":         WorldwideGross,
	"worldwide":     WorldwideGross,
	"runtime":       RunningTime,
	"share":         DomesticShare,
	"opening":       OpeningTheaters,
	"theaters":      MaxTheaters,
	"profit":        Profit,
	"roi":           ROI,
	"dvd":           DVDSales,
	"bluray":        BluRaySales,
	"blu-ray":       BluRaySales,
	"video":         TotalVideoSales,
	"year":          Year,
	"decade":        Decade,
}

// GroupKey names a categorical grouping of records.
type GroupKey int

const (
	ByYear GroupKey = iota
	ByDecade
	ByGenre
	// ByCompany groups by individual studio after exploding the company list.
	ByCompany
)

func (k GroupKey) String() string {
	switch k {
	case ByYear:
		return "Year"
	case ByDecade:
		return "Decade"
	case ByGenre:
		return "Genre"
	case ByCompany:
		return "Company"
	}
	return "Unknown"
}

// Numeric reports whether keys of this grouping order numerically.
func (k GroupKey) Numeric() bool { return k == ByYear || k == ByDecade }

// Keys returns the group keys of r for k. Company yields one key per studio.
func (k GroupKey) Keys(r *Record) []string {
	switch k {
	case ByYear:
		if r.Year != nil {
			return []string{strconv.Itoa(*r.Year)}
		}
	case ByDecade:
		if r.Decade != nil {
			return []string{strconv.Itoa(*r.Decade)}
		}
	case ByGenre:
		if r.Genre != nil {
			return []string{*r.Genre}
		}
	case ByCompany:
		return r.Studios
	}
	return nil
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func derefInt(p *int) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return float64(*p), true
}
