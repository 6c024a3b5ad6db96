package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
	"github.com/KaramelBytes/boxoffice-cli/internal/server"
)

var (
	srvAddr  string
	srvWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard views as a JSON HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := dataPath()
		if err != nil {
			return err
		}
		addr := srvAddr
		if !cmd.Flags().Changed("addr") && cfg != nil && cfg.ServerAddr != "" {
			addr = cfg.ServerAddr
		}
		watch := srvWatch || (!cmd.Flags().Changed("watch") && cfg != nil && cfg.WatchSource)
		pageSize := 10
		if cfg != nil && cfg.PageSize > 0 {
			pageSize = cfg.PageSize
		}

		opts, err := loadOptions()
		if err != nil {
			return err
		}
		logger := slog.Default()
		cache := movies.NewCache(logger, opts...)
		// Fail fast on an unusable source; later failures are reported per request.
		snap, err := cache.Get(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %d movies from %s\n", snap.Dataset.Len(), path)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if watch {
			go func() {
				if err := cache.Watch(ctx, path); err != nil {
					logger.Warn("source watch stopped", slog.String("path", path), slog.Any("error", err))
				}
			}()
		}
		srv := server.New(cache, server.Config{
			DataPath: path,
			Options:  dashboardOptions(),
			PageSize: pageSize,
			Logger:   logger,
		})
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving on %s (Ctrl+C to stop)\n", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", ":8050", "listen address (default from server_addr)")
	serveCmd.Flags().BoolVar(&srvWatch, "watch", false, "reload the data file when it changes on disk")
}

