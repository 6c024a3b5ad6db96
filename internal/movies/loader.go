package movies

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/KaramelBytes/boxoffice-cli/internal/normalize"
	"github.com/KaramelBytes/boxoffice-cli/internal/source"
)

// MaxYear is the latest plausible release year. Parsed years past it are
// two-digit-year misparses ("62" read as 2062) and are shifted back a century.
const MaxYear = 2025

// LoadOption customizes Load and FromTable.
type LoadOption func(*loadConfig)

type loadConfig struct {
	source source.Options
	logger *slog.Logger
}

// WithSheet selects the XLSX sheet to load.
func WithSheet(name string) LoadOption {
	return func(c *loadConfig) { c.source.SheetName = name }
}

// WithDelimiter overrides CSV delimiter detection.
func WithDelimiter(d rune) LoadOption {
	return func(c *loadConfig) { c.source.Delimiter = d }
}

// WithLogger routes loader logs to l instead of slog.Default().
func WithLogger(l *slog.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = l }
}

func newLoadConfig(opts []LoadOption) loadConfig {
	c := loadConfig{}
	for _, o := range opts {
		o(&c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Load reads the source file at path and returns the canonical dataset.
// Unreadable or schema-incompatible sources fail with *DataSourceError;
// individual malformed cells load as null.
func Load(path string, opts ...LoadOption) (*Dataset, error) {
	cfg := newLoadConfig(opts)
	t, err := source.Read(path, cfg.source)
	if err != nil {
		return nil, &DataSourceError{Path: path, Op: "read", Err: err}
	}
	ds, err := fromTable(t, cfg)
	if err != nil {
		return nil, &DataSourceError{Path: path, Op: "schema", Err: err}
	}
	return ds, nil
}

// FromTable builds the canonical dataset from an already-read raw table.
func FromTable(t *source.Table, opts ...LoadOption) (*Dataset, error) {
	ds, err := fromTable(t, newLoadConfig(opts))
	if err != nil {
		name := ""
		if t != nil {
			name = t.Name
		}
		return nil, &DataSourceError{Path: name, Op: "schema", Err: err}
	}
	return ds, nil
}

func fromTable(t *source.Table, cfg loadConfig) (*Dataset, error) {
	if t == nil || len(t.Header) == 0 {
		return nil, fmt.Errorf("%w: empty header", ErrMissingColumns)
	}
	lay, missing, err := resolveLayout(t.Header)
	if err != nil {
		return nil, err
	}
	missing = dropSatisfied(missing, &lay)

	c := &coercer{lay: &lay, failures: map[string]int{}}
	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, c.record(row))
	}

	rep := LoadReport{
		Source:           t.Name,
		Rows:             len(records),
		MissingOptional:  missing,
		CoercionFailures: c.failures,
	}
	log := cfg.logger
	log.Info("loaded movie dataset", slog.String("source", t.Name), slog.Int("rows", len(records)))
	if len(missing) > 0 {
		log.Warn("optional columns absent", slog.String("source", t.Name), slog.String("columns", strings.Join(missing, ", ")))
	}
	for col, n := range c.failures {
		log.Debug("cells coerced to null", slog.String("column", col), slog.Int("count", n))
	}
	return &Dataset{name: t.Name, records: records, report: rep}, nil
}

// dropSatisfied removes theater columns from the missing list when the
// alternative encoding is present.
func dropSatisfied(missing []string, lay *layout) []string {
	split := lay.has(colOpening) || lay.has(colMax)
	combined := lay.has(colTheaterCounts)
	if !split && !combined {
		return missing
	}
	out := missing[:0:0]
	for _, m := range missing {
		switch m {
		case "Theater counts":
			if split {
				continue
			}
		case "Opening Theaters", "Max Theaters":
			if combined {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

type coercer struct {
	lay      *layout
	failures map[string]int
}

func (c *coercer) fail(col column) {
	for _, s := range schema {
		if s.col == col {
			c.failures[s.headers[0]]++
			return
		}
	}
}

// number coerces a numeric cell. Empty and "nan" cells are missing; any other
// unparsable text is counted as a coercion failure.
func (c *coercer) number(row []string, col column, nonNegative bool) *float64 {
	raw := c.lay.cell(row, col)
	v, ok := normalize.Numeric(raw)
	if !ok {
		if _, present := normalize.Text(raw); present {
			c.fail(col)
		}
		return nil
	}
	if nonNegative && v < 0 {
		c.fail(col)
		return nil
	}
	return &v
}

func (c *coercer) integer(row []string, col column) *int {
	f := c.number(row, col, true)
	if f == nil {
		return nil
	}
	if *f != math.Trunc(*f) {
		c.fail(col)
		return nil
	}
	n := int(*f)
	return &n
}

func (c *coercer) text(row []string, col column) *string {
	s, ok := normalize.Text(c.lay.cell(row, col))
	if !ok {
		return nil
	}
	return &s
}

func (c *coercer) record(row []string) Record {
	var r Record
	if name := c.text(row, colName); name != nil {
		r.Name = *name
	}
	r.Genre = c.text(row, colGenre)

	r.ProductionBudgetUSD = c.number(row, colBudget, true)
	r.DomesticGrossUSD = c.number(row, colDomestic, true)
	r.InternationalGrossUSD = c.number(row, colInternational, true)
	r.WorldwideGrossUSD = c.number(row, colWorldwide, true)
	r.RunningTimeMinutes = c.number(row, colRuntime, true)
	r.DomesticSharePercentage = c.number(row, colShare, false)

	if c.lay.has(colTheaterCounts) {
		raw := c.lay.cell(row, colTheaterCounts)
		r.OpeningTheaters, r.MaxTheaters = normalize.TheaterCounts(raw)
		if r.OpeningTheaters == nil {
			if s, ok := normalize.Text(raw); ok && !normalize.IsPlaceholder(s) {
				c.fail(colTheaterCounts)
			}
		}
	} else {
		r.OpeningTheaters = c.integer(row, colOpening)
		r.MaxTheaters = c.integer(row, colMax)
	}

	r.ProductionCompanies = c.text(row, colCompanies)
	if r.ProductionCompanies != nil {
		r.Studios = normalize.SplitList(*r.ProductionCompanies)
	}

	if raw, ok := normalize.Text(c.lay.cell(row, colReleaseDate)); ok {
		if d, ok := parseDate(raw); ok {
			setDate(&r, d)
		} else {
			c.fail(colReleaseDate)
		}
	}

	if dvd := c.number(row, colDVD, true); dvd != nil {
		r.DVDSalesUSD = *dvd
	}
	if blu := c.number(row, colBluRay, true); blu != nil {
		r.BluRaySalesUSD = *blu
	}
	r.TotalVideoSalesUSD = r.DVDSalesUSD + r.BluRaySalesUSD

	r.ProfitUSD, r.ROIPercent = Financials(r.WorldwideGrossUSD, r.ProductionBudgetUSD)
	return r
}

// Financials derives profit (gross - budget) and ROI percent (profit / budget
// * 100). Profit is nil when either input is nil; ROI is also nil when the
// budget is zero.
func Financials(gross, budget *float64) (profit, roi *float64) {
	if gross == nil || budget == nil {
		return nil, nil
	}
	p := *gross - *budget
	profit = &p
	if *budget == 0 {
		return profit, nil
	}
	x := p / *budget * 100
	return profit, &x
}

// CorrectYear applies the two-digit-year correction.
func CorrectYear(y int) int {
	if y > MaxYear {
		return y - 100
	}
	return y
}

// DecadeOf returns floor(year/10)*10.
func DecadeOf(y int) int {
	return int(math.Floor(float64(y)/10)) * 10
}

func setDate(r *Record, d time.Time) {
	y := CorrectYear(d.Year())
	if y != d.Year() {
		d = d.AddDate(y-d.Year(), 0, 0)
	}
	dec := DecadeOf(y)
	month := int(d.Month())
	quarter := (month-1)/3 + 1
	r.ReleaseDate = &d
	r.Year = &y
	r.Decade = &dec
	r.Month = &month
	r.Quarter = &quarter
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2-Jan-06",
	"2-Jan-2006",
	"1/2/2006",
	"1/2/06",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"Jan 2006",
	"January 2006",
	"2006",
}

func parseDate(s string) (time.Time, bool) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
