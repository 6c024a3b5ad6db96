package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/boxoffice-cli/internal/dashboard"
	"github.com/KaramelBytes/boxoffice-cli/internal/filter"
	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
	"github.com/KaramelBytes/boxoffice-cli/internal/render"
)

type pageFunc func(ds *movies.Dataset, c filter.Criteria, opts dashboard.Options) render.Page

// viewCommand builds a command that prints one dashboard page. When
// filtered is false the page always covers the whole dataset.
func viewCommand(use, short string, filtered bool, page pageFunc) *cobra.Command {
	var ff filterFlags
	var format string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c filter.Criteria
			if filtered {
				var err error
				if c, err = ff.criteria(cmd); err != nil {
					return err
				}
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			ds, err := loadDataset()
			if err != nil {
				return err
			}
			return render.Write(cmd.OutOrStdout(), f, page(ds, c, dashboardOptions()))
		},
	}
	if filtered {
		addFilterFlags(cmd, &ff)
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table | markdown | csv | json")
	return cmd
}

func init() {
	rootCmd.AddCommand(
		viewCommand("home", "Overview: KPIs, gross by year, top movies, genres and studios", true,
			func(ds *movies.Dataset, c filter.Criteria, o dashboard.Options) render.Page {
				return render.HomePage(dashboard.Home(ds, c, o))
			}),
		viewCommand("financial", "Profit, ROI by genre, ROI distribution and correlations", true,
			func(ds *movies.Dataset, c filter.Criteria, o dashboard.Options) render.Page {
				return render.FinancialPage(dashboard.Financial(ds, c, o))
			}),
		viewCommand("video", "DVD and Blu-ray sales", true,
			func(ds *movies.Dataset, c filter.Criteria, _ dashboard.Options) render.Page {
				return render.VideoPage(dashboard.Video(ds, c))
			}),
		viewCommand("insights", "Dataset-wide insights: best decade, genre, studio and outliers", false,
			func(ds *movies.Dataset, _ filter.Criteria, o dashboard.Options) render.Page {
				return render.InsightsPage(dashboard.Insights(ds, o))
			}),
	)
}
