package battle

import (
	"encoding/json"
	"sort"
)

// VehicleInfo is one roster entry of the pre-battle document.
type VehicleInfo struct {
	WTR                       uint32     `json:"wtr"`
	VehicleType               string     `json:"vehicleType"`
	IsAlive                   uint8      `json:"isAlive"`
	PersonalMissionIDs        []uint32   `json:"personalMissionIDs"`
	ForbidInBattleInvitations bool       `json:"forbidInBattleInvitations"`
	FakeName                  string     `json:"fakeName"`
	MaxHealth                 uint32     `json:"maxHealth"`
	IGRType                   uint32     `json:"igrType"`
	ClanAbbrev                string     `json:"clanAbbrev"`
	Ranked                    []uint32   `json:"ranked"`
	IsTeamKiller              uint8      `json:"isTeamKiller"`
	Team                      uint8      `json:"team"`
	OverriddenBadge           uint32     `json:"overriddenBadge"`
	AvatarSessionID           string     `json:"avatarSessionID"`
	Badges                    [][]uint32 `json:"badges"`
	Name                      string     `json:"name"`
}

// BattleInfo is the chunk 0 document: session metadata and roster.
type BattleInfo struct {
	PlayerVehicle        string                 `json:"playerVehicle"`
	ClientVersionFromXML string                 `json:"clientVersionFromXml"`
	ClientVersionFromExe string                 `json:"clientVersionFromExe"`
	RegionCode           string                 `json:"regionCode"`
	ServerName           string                 `json:"serverName"`
	MapName              string                 `json:"mapName"`
	MapDisplayName       string                 `json:"mapDisplayName"`
	ServerSettings       json.RawMessage        `json:"serverSettings"`
	GameplayID           string                 `json:"gameplayID"`
	BattleType           uint16                 `json:"battleType"`
	HasMods              bool                   `json:"hasMods"`
	DateTime             Timestamp              `json:"dateTime"`
	PlayerID             uint64                 `json:"playerID"`
	PlayerName           string                 `json:"playerName"`
	Vehicles             map[string]VehicleInfo `json:"vehicles"`
}

// TeamMember pairs a roster entry with its vehicle id.
type TeamMember struct {
	VehicleID string
	Vehicle   VehicleInfo
}

// Team returns the vehicles assigned to team, ordered by vehicle id.
func (b *BattleInfo) Team(team uint8) []TeamMember {
	members := make([]TeamMember, 0, len(b.Vehicles)/2+1)
	for id, v := range b.Vehicles {
		if v.Team == team {
			members = append(members, TeamMember{VehicleID: id, Vehicle: v})
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].VehicleID < members[j].VehicleID })
	return members
}

// Teams returns the distinct team indexes present in the roster, ascending.
func (b *BattleInfo) Teams() []uint8 {
	seen := make(map[uint8]struct{}, 2)
	for _, v := range b.Vehicles {
		seen[v.Team] = struct{}{}
	}
	out := make([]uint8, 0, len(seen))
	for team := range seen {
		out = append(out, team)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Recorder returns the roster entry of the recording player.
func (b *BattleInfo) Recorder() (TeamMember, bool) {
	for id, v := range b.Vehicles {
		if v.Name == b.PlayerName {
			return TeamMember{VehicleID: id, Vehicle: v}, true
		}
	}
	return TeamMember{}, false
}
