package main

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/danmuck/wotreplay/format"
	"github.com/danmuck/wotreplay/format/envelope"
	"github.com/spf13/cobra"
)

var errNoBattleResults = errors.New("replay does not contain battle results")

func newParseCmd() *cobra.Command {
	var infoOnly, resultsOnly bool
	cmd := &cobra.Command{
		Use:   "parse <replay>",
		Short: "Print the raw JSON chunks of a replay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := envelope.ReadFile(args[0], true)
			if err != nil {
				return err
			}
			return printChunks(cmd.OutOrStdout(), &c, infoOnly, resultsOnly)
		},
	}
	cmd.Flags().BoolVarP(&infoOnly, "battle-info-only", "i", false, "print only the battle info chunk")
	cmd.Flags().BoolVarP(&resultsOnly, "results-only", "r", false, "print only the battle results chunk")
	cmd.MarkFlagsMutuallyExclusive("battle-info-only", "results-only")
	return cmd
}

func printChunks(w io.Writer, c *envelope.Container, infoOnly, resultsOnly bool) error {
	switch {
	case infoOnly:
		if c.ChunkCount == 0 {
			return format.NewError(format.KindMissingBattleInfo, "parse", format.ChunkBattleInfo, nil)
		}
		return printChunk(w, c, format.ChunkBattleInfo)
	case resultsOnly:
		if c.ChunkCount < 2 {
			return errNoBattleResults
		}
		return printChunk(w, c, format.ChunkBattleResults)
	}
	for i := range c.Chunks {
		if err := printChunk(w, c, i); err != nil {
			return err
		}
	}
	return nil
}

func printChunk(w io.Writer, c *envelope.Container, i int) error {
	chunk, ok := c.Chunk(i)
	if !ok {
		return format.NewError(format.KindInconsistentEnvelope, "parse", i, nil)
	}
	if !utf8.Valid(chunk.Payload) {
		return fmt.Errorf("chunk %d is not valid UTF-8", i)
	}
	_, err := fmt.Fprintf(w, "%s\n", chunk.Payload)
	return err
}
