package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/boxoffice-cli/internal/analysis"
	"github.com/KaramelBytes/boxoffice-cli/internal/dashboard"
	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
	"github.com/KaramelBytes/boxoffice-cli/internal/render"
)

var (
	rankFilters filterFlags
	rankField   string
	rankN       int
	rankAsc     bool
	rankFormat  string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the filtered movies by any numeric column",
	Long: `Rank the filtered movies by a numeric column, highest first (--asc for lowest).
--field takes a column header or an alias: budget, domestic, international, gross,
profit, roi, runtime, share, opening, theaters, dvd, bluray, video, year, decade.
Movies without a value for the field are left out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		field, ok := movies.ParseField(rankField)
		if !ok {
			return fmt.Errorf("unknown --field %q; see 'boxoffice rank --help' for aliases", rankField)
		}
		c, err := rankFilters.criteria(cmd)
		if err != nil {
			return err
		}
		f, err := render.ParseFormat(rankFormat)
		if err != nil {
			return err
		}
		n := rankN
		if !cmd.Flags().Changed("top") && cfg != nil && cfg.TopN > 0 {
			n = cfg.TopN
		}
		if n < 1 {
			return fmt.Errorf("--top must be 1 or greater, got %d", n)
		}
		dir := analysis.Descending
		if rankAsc {
			dir = analysis.Ascending
		}
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		return render.Write(cmd.OutOrStdout(), f, render.RankPage(dashboard.Rank(ds, c, field, n, dir)))
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
	addFilterFlags(rankCmd, &rankFilters)
	rankCmd.Flags().StringVar(&rankField, "field", "gross", "column to rank by (header or alias)")
	rankCmd.Flags().IntVarP(&rankN, "top", "n", 10, "number of movies to list (default: config top_n)")
	rankCmd.Flags().BoolVar(&rankAsc, "asc", false, "lowest values first")
	rankCmd.Flags().StringVarP(&rankFormat, "format", "f", "table", "output format: table | markdown | csv | json")
}
