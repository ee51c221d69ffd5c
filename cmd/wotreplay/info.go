package main

import (
	"github.com/danmuck/wotreplay/format/battle"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <replay>",
		Short: "Summarize the battle recorded in a replay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replay, err := battle.DecodeFile(args[0])
			if err != nil {
				return err
			}
			return writeReplay(cmd.OutOrStdout(), replay)
		},
	}
}
