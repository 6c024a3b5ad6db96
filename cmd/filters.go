package cmd

import (
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/boxoffice-cli/internal/filter"
)

// filterFlags holds the shared filtering flags of one command.
type filterFlags struct {
	genres         []string
	yearMin        int
	yearMax        int
	profitMin      float64
	profitMax      float64
	budgetMin      float64
	budgetMax      float64
	roi            string
	studio         string
	videoFormat    string
	withVideoSales bool
}

func addFilterFlags(cmd *cobra.Command, ff *filterFlags) {
	f := cmd.Flags()
	f.StringSliceVar(&ff.genres, "genre", nil, "keep these genres (comma-separated or repeatable)")
	f.IntVar(&ff.yearMin, "year-min", 0, "earliest release year")
	f.IntVar(&ff.yearMax, "year-max", 0, "latest release year")
	f.Float64Var(&ff.profitMin, "profit-min", 0, "minimum profit in USD")
	f.Float64Var(&ff.profitMax, "profit-max", 0, "maximum profit in USD")
	f.Float64Var(&ff.budgetMin, "budget-min", 0, "minimum production budget in USD")
	f.Float64Var(&ff.budgetMax, "budget-max", 0, "maximum production budget in USD")
	f.StringVar(&ff.roi, "roi", "", "ROI band: all | high (>100%) | moderate (0-100%) | low (<0%)")
	f.StringVar(&ff.studio, "studio", "", "keep movies whose production companies contain this text")
	f.StringVar(&ff.videoFormat, "video-format", "", "home video format: both | dvd | blu-ray")
	f.BoolVar(&ff.withVideoSales, "with-video-sales", false, "keep only movies with DVD or Blu-ray sales")
}

// criteria builds validated filter criteria. A range is active when either
// of its bounds was given; the other bound stays open.
func (ff *filterFlags) criteria(cmd *cobra.Command) (filter.Criteria, error) {
	f := cmd.Flags()
	c := filter.Criteria{
		ROI:            filter.ROICategory(strings.ToLower(ff.roi)),
		Studio:         strings.TrimSpace(ff.studio),
		VideoFormat:    filter.VideoFormat(strings.ToLower(ff.videoFormat)),
		WithVideoSales: ff.withVideoSales,
	}
	for _, g := range ff.genres {
		if g = strings.TrimSpace(g); g != "" {
			c.Genres = append(c.Genres, g)
		}
	}
	if f.Changed("year-min") || f.Changed("year-max") {
		r := filter.IntRange{Min: math.MinInt32, Max: math.MaxInt32}
		if f.Changed("year-min") {
			r.Min = ff.yearMin
		}
		if f.Changed("year-max") {
			r.Max = ff.yearMax
		}
		c.Years = &r
	}
	c.Profit = rangeFlag(cmd, "profit", ff.profitMin, ff.profitMax)
	c.Budget = rangeFlag(cmd, "budget", ff.budgetMin, ff.budgetMax)
	return c, filter.Validate(c)
}

func rangeFlag(cmd *cobra.Command, name string, lo, hi float64) *filter.Range {
	f := cmd.Flags()
	minSet, maxSet := f.Changed(name+"-min"), f.Changed(name+"-max")
	if !minSet && !maxSet {
		return nil
	}
	r := filter.Range{Min: math.Inf(-1), Max: math.Inf(1)}
	if minSet {
		r.Min = lo
	}
	if maxSet {
		r.Max = hi
	}
	return &r
}
