package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/danmuck/wotreplay/internal/catalog"
	"github.com/spf13/cobra"
)

func newListCmd(app *cli) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the replays stored in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = app.cfg.Catalog.Path
			}
			store, err := catalog.Open(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			return writeEntries(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "catalog database path (default from config)")
	return cmd
}

func writeEntries(w io.Writer, entries []catalog.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tMAP\tVEHICLE\tWINNER\tPATH")
	for _, e := range entries {
		winner := "-"
		if e.HasResults {
			winner = winnerLabel(e.WinnerTeam)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.BattleStart.UTC().Format(time.DateTime), e.MapDisplay, e.Vehicle, winner, e.Path)
	}
	return tw.Flush()
}
