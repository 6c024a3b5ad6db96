// Package filter narrows a movie dataset by user criteria. Every active
// criterion must hold for a record to be kept.
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
)

// ROICategory buckets return on investment.
type ROICategory string

const (
	ROIAll      ROICategory = "all"
	ROIHigh     ROICategory = "high"     // ROI > 100
	ROIModerate ROICategory = "moderate" // 0 <= ROI <= 100
	ROILow      ROICategory = "low"      // ROI < 0
)

// VideoFormat restricts records by home video sales.
type VideoFormat string

const (
	VideoBoth   VideoFormat = "both"
	VideoDVD    VideoFormat = "dvd"
	VideoBluRay VideoFormat = "blu-ray"
)

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int `json:"min" validate:"ltefield=Max"`
	Max int `json:"max"`
}

// Range is an inclusive float interval.
type Range struct {
	Min float64 `json:"min" validate:"ltefield=Max"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r IntRange) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Criteria is the set of filter options. Zero values disable a criterion.
type Criteria struct {
	Genres         []string    `json:"genres,omitempty" validate:"dive,required"`
	Years          *IntRange   `json:"years,omitempty"`
	Profit         *Range      `json:"profit,omitempty"`
	Budget         *Range      `json:"budget,omitempty"`
	ROI            ROICategory `json:"roi,omitempty" validate:"omitempty,oneof=all high moderate low"`
	Studio         string      `json:"studio,omitempty"`
	VideoFormat    VideoFormat `json:"video_format,omitempty" validate:"omitempty,oneof=both dvd blu-ray"`
	WithVideoSales bool        `json:"with_video_sales,omitempty"`
}

// ValidationError lists every problem found in a Criteria value.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid filter criteria: " + strings.Join(e.Problems, "; ")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks enum values and that every range has Min <= Max.
func Validate(c Criteria) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Problems = append(ve.Problems, describe(fe))
	}
	return ve
}

func describe(fe validator.FieldError) string {
	ns := strings.TrimPrefix(fe.Namespace(), "Criteria.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s: %q is not one of [%s]", ns, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "ltefield":
		return fmt.Sprintf("%s: minimum %v exceeds maximum", strings.TrimSuffix(ns, ".Min"), fe.Value())
	case "required":
		return fmt.Sprintf("%s: empty value", ns)
	}
	return fmt.Sprintf("%s: failed %s", ns, fe.Tag())
}

// Active reports whether any criterion would exclude records.
func (c Criteria) Active() bool {
	return len(c.Genres) > 0 || c.Years != nil || c.Profit != nil || c.Budget != nil ||
		(c.ROI != "" && c.ROI != ROIAll) || c.Studio != "" ||
		(c.VideoFormat != "" && c.VideoFormat != VideoBoth) || c.WithVideoSales
}

// Match reports whether r satisfies every active criterion. Records with a
// null value in a filtered field never match that criterion.
func (c Criteria) Match(r *movies.Record) bool {
	if len(c.Genres) > 0 {
		if r.Genre == nil || !slices.Contains(c.Genres, *r.Genre) {
			return false
		}
	}
	if c.Years != nil {
		if r.Year == nil || !c.Years.Contains(*r.Year) {
			return false
		}
	}
	if c.Profit != nil {
		if r.ProfitUSD == nil || !c.Profit.Contains(*r.ProfitUSD) {
			return false
		}
	}
	if c.Budget != nil {
		if r.ProductionBudgetUSD == nil || !c.Budget.Contains(*r.ProductionBudgetUSD) {
			return false
		}
	}
	if c.ROI != "" && c.ROI != ROIAll {
		if r.ROIPercent == nil || ROICategoryOf(*r.ROIPercent) != c.ROI {
			return false
		}
	}
	if c.Studio != "" {
		if r.ProductionCompanies == nil || !strings.Contains(*r.ProductionCompanies, c.Studio) {
			return false
		}
	}
	switch c.VideoFormat {
	case VideoDVD:
		if r.DVDSalesUSD <= 0 {
			return false
		}
	case VideoBluRay:
		if r.BluRaySalesUSD <= 0 {
			return false
		}
	}
	if c.WithVideoSales && r.TotalVideoSalesUSD <= 0 {
		return false
	}
	return true
}

// Apply returns the records of ds matching c as a new dataset. ds is not
// modified. No match yields an empty dataset, not an error.
func Apply(ds *movies.Dataset, c Criteria) *movies.Dataset {
	if !c.Active() {
		return ds.Select(func(*movies.Record) bool { return true })
	}
	return ds.Select(c.Match)
}

// ROICategoryOf returns the bucket of an ROI percentage.
func ROICategoryOf(roi float64) ROICategory {
	switch {
	case roi > 100:
		return ROIHigh
	case roi >= 0:
		return ROIModerate
	default:
		return ROILow
	}
}
