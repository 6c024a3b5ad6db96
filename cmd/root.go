package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/boxoffice-cli/internal/config"
	"github.com/KaramelBytes/boxoffice-cli/internal/dashboard"
	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
	"github.com/KaramelBytes/boxoffice-cli/internal/utils"
)

var (
	// Global flags (override config if set)
	cfgFile   string
	debug     bool
	flagData  string
	flagSheet string
	flagDelim string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "boxoffice",
	Short: "Box office analytics over a movie dataset",
	Long: `boxoffice loads a movie table (CSV or XLSX) with financials, genres, studios and
home video sales, filters it, and prints KPIs, rankings and distributions. The same
views are available over HTTP with 'boxoffice serve'.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.boxoffice/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "movie data file, CSV or XLSX (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "XLSX: sheet name to read (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDelim, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default: detect)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{LogLevel: "info"}
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagData != "" {
		cfg.DataPath = flagData
	}
	if f.Changed("sheet") && flagSheet != "" {
		cfg.SheetName = flagSheet
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)})))
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// dataPath resolves the movie table: --data, then data_path, then a
// data/interim directory above the working directory.
func dataPath() (string, error) {
	if cfg != nil && cfg.DataPath != "" {
		return cfg.DataPath, nil
	}
	p, err := utils.FindDataFile("")
	if err != nil {
		return "", fmt.Errorf("%w; pass --data or run 'boxoffice config set data_path <file>'", err)
	}
	return p, nil
}

func loadOptions() ([]movies.LoadOption, error) {
	opts := []movies.LoadOption{movies.WithLogger(slog.Default())}
	if cfg != nil && cfg.SheetName != "" {
		opts = append(opts, movies.WithSheet(cfg.SheetName))
	}
	if flagDelim != "" {
		switch flagDelim {
		case ",":
			opts = append(opts, movies.WithDelimiter(','))
		case "\t", "tab":
			opts = append(opts, movies.WithDelimiter('\t'))
		case ";":
			opts = append(opts, movies.WithDelimiter(';'))
		default:
			return nil, fmt.Errorf("unsupported --delimiter: %s", flagDelim)
		}
	}
	return opts, nil
}

func loadDataset() (*movies.Dataset, error) {
	path, err := dataPath()
	if err != nil {
		return nil, err
	}
	opts, err := loadOptions()
	if err != nil {
		return nil, err
	}
	return movies.Load(path, opts...)
}

func dashboardOptions() dashboard.Options {
	if cfg == nil {
		return dashboard.DefaultOptions()
	}
	return dashboard.Options{
		TopN:             cfg.TopN,
		TopStudios:       cfg.TopStudios,
		HistogramBins:    cfg.HistogramBins,
		OutlierThreshold: cfg.OutlierThreshold,
	}
}
