package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/boxoffice-cli/internal/dashboard"
	"github.com/KaramelBytes/boxoffice-cli/internal/export"
	"github.com/KaramelBytes/boxoffice-cli/internal/filter"
	"github.com/KaramelBytes/boxoffice-cli/internal/format"
	"github.com/KaramelBytes/boxoffice-cli/internal/render"
)

var (
	movFilters  filterFlags
	movFormat   string
	movPage     int
	movPageSize int

	expFilters filterFlags

	optFormat string
)

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "List the filtered movies one page at a time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := movFilters.criteria(cmd)
		if err != nil {
			return err
		}
		f, err := render.ParseFormat(movFormat)
		if err != nil {
			return err
		}
		if movPage < 1 {
			return fmt.Errorf("--page must be 1 or greater, got %d", movPage)
		}
		size := movPageSize
		if !cmd.Flags().Changed("page-size") && cfg != nil && cfg.PageSize > 0 {
			size = cfg.PageSize
		}
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		rows := dashboard.DetailRows(filter.Apply(ds, c))
		return render.Write(cmd.OutOrStdout(), f, render.DetailPage(rows, movPage-1, size))
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the filtered movie table to a .csv, .xlsx or .json file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := expFilters.criteria(cmd)
		if err != nil {
			return err
		}
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		rows := dashboard.DetailRows(filter.Apply(ds, c))
		if err := export.File(args[0], rows); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %s movies to %s\n", format.Count(len(rows)), args[0])
		return nil
	},
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show the genres, studios and value ranges available for filtering",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := render.ParseFormat(optFormat)
		if err != nil {
			return err
		}
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		fo := dashboard.FilterOptionsOf(ds)
		page := render.Page{
			Title: "Filter Options",
			Raw:   fo,
			KPIs: []dashboard.KPI{
				{Label: "Years", Value: fmt.Sprintf("%d-%d", fo.YearMin, fo.YearMax)},
				{Label: "Profit", Value: format.Money(fo.ProfitMin, true) + " to " + format.Money(fo.ProfitMax, true)},
				{Label: "Budget", Value: format.Money(fo.BudgetMin, true) + " to " + format.Money(fo.BudgetMax, true)},
				{Label: "Genres", Value: strings.Join(fo.Genres, ", ")},
			},
			Sections: []render.Section{{
				Title:  "Production Companies",
				Header: []string{"Company"},
				Rows:   singleColumn(fo.Studios),
				Empty:  "No production companies",
			}},
		}
		return render.Write(cmd.OutOrStdout(), f, page)
	},
}

func singleColumn(vals []string) [][]string {
	rows := make([][]string, len(vals))
	for i, v := range vals {
		rows[i] = []string{v}
	}
	return rows
}

func init() {
	rootCmd.AddCommand(moviesCmd, exportCmd, optionsCmd)

	addFilterFlags(moviesCmd, &movFilters)
	moviesCmd.Flags().StringVarP(&movFormat, "format", "f", "table", "output format: table | markdown | csv | json")
	moviesCmd.Flags().IntVar(&movPage, "page", 1, "1-based page number")
	moviesCmd.Flags().IntVar(&movPageSize, "page-size", 10, "rows per page, 0 prints all (default from page_size)")

	addFilterFlags(exportCmd, &expFilters)

	optionsCmd.Flags().StringVarP(&optFormat, "format", "f", "table", "output format: table | markdown | csv | json")
}
