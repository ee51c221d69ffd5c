package main

import (
	"fmt"

	"github.com/danmuck/wotreplay/internal/catalog"
	"github.com/danmuck/wotreplay/internal/observability"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newIndexCmd(app *cli) *cobra.Command {
	var dbPath, metricsPath string
	var workers int
	cmd := &cobra.Command{
		Use:   "index <path>...",
		Short: "Decode replays and store their summaries in the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = app.cfg.Catalog.Path
			}
			if workers < 1 {
				workers = app.cfg.Catalog.Workers
			}
			paths, err := catalog.Expand(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := catalog.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			metrics := observability.NewIndexMetrics()
			var entries []catalog.Entry
			failed := 0
			err = catalog.Scan(ctx, paths, workers, func(r catalog.Result) error {
				metrics.RecordDecode(r.Err, r.Elapsed)
				if r.Err != nil {
					failed++
					log.Warn().Str("path", r.Path).Err(r.Err).Msg("index: skipping replay")
					return nil
				}
				entries = append(entries, catalog.Summarize(r.Path, r.Replay))
				return nil
			})
			if err != nil {
				return err
			}
			if err := store.PutAll(ctx, entries); err != nil {
				return err
			}
			metrics.RecordStored(len(entries))
			if metricsPath != "" {
				if err := metrics.WriteTextfile(metricsPath); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			log.Info().Str("catalog", dbPath).Int("indexed", len(entries)).Int("failed", failed).Msg("index: done")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d replays (%d failed)\n", len(entries), failed)
			return err
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "catalog database path (default from config)")
	cmd.Flags().StringVar(&metricsPath, "metrics-file", "", "write Prometheus textfile metrics for this run")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent decoders (default from config)")
	return cmd
}
