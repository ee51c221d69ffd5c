package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/danmuck/wotreplay/format/battle"
)

func writeReplay(w io.Writer, r *battle.Replay) error {
	bw := bufio.NewWriter(w)
	bi := &r.BattleInfo
	fmt.Fprintln(bw, "Battle info:")
	fmt.Fprintf(bw, "Server: %s\n", bi.ServerName)
	fmt.Fprintf(bw, "Map: %s (%s)\n", bi.MapDisplayName, bi.MapName)
	fmt.Fprintf(bw, "Battle started: %s\n", bi.DateTime)

	for _, team := range bi.Teams() {
		fmt.Fprintf(bw, "%s:\n", teamLabel(team))
		for _, m := range bi.Team(team) {
			sign := " "
			if m.Vehicle.Name == bi.PlayerName {
				sign = "*"
			}
			fmt.Fprintf(bw, "%s %s\t%s\n", sign, m.Vehicle.FakeName, m.Vehicle.VehicleType)
		}
	}

	if r.HasResults() {
		common := r.Results.General.Common
		fmt.Fprintln(bw, "Battle results:")
		fmt.Fprintf(bw, "Arena: %d\n", r.Results.General.ArenaUniqueID)
		fmt.Fprintf(bw, "Winner: %s\n", winnerLabel(common.WinnerTeam))
		fmt.Fprintf(bw, "Finish reason: %s\n", common.FinishReason)
		fmt.Fprintf(bw, "Duration: %ds\n", common.Duration)
	}
	return bw.Flush()
}

func teamLabel(team uint8) string {
	switch team {
	case 1:
		return "First team"
	case 2:
		return "Second team"
	default:
		return fmt.Sprintf("Team %d", team)
	}
}

func winnerLabel(team uint16) string {
	switch team {
	case 0:
		return "draw"
	case 1, 2:
		return teamLabel(uint8(team))
	default:
		return fmt.Sprintf("team %d", team)
	}
}
