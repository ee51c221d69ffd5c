package battle

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/danmuck/wotreplay/format/envelope"
)

func battleInfoPayload(t *testing.T) []byte {
	t.Helper()
	raw, err := os.ReadFile("testdata/battle_info.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return raw
}

func sampleVehicleResult(team uint8, reason DeathReason) VehicleResult {
	return VehicleResult{
		Spotted:      3,
		XP:           812,
		Kills:        2,
		DamageDealt:  2480,
		DeathReason:  reason,
		MaxHealth:    1100,
		Health:       420,
		Achievements: []uint16{},
		AccountDBID:  14172974,
		LifeTime:     412,
		FlagActions:  [4]uint32{0, 0, 0, 0},
		Team:         team,
		StunDuration: 1.5,
	}
}

func sampleResults() BattleResults {
	return BattleResults{
		General: GeneralBattleResults{
			ArenaUniqueID: 107063387693789855,
			Personal: PersonalBattleResults{
				Avatar: PersonalAvatarResults{
					FairplayViolations: []int32{0, 0, 0},
					Badges:             [][]uint16{},
					ActiveRents:        map[string]uint32{},
					DogTags:            json.RawMessage(`{"components":[]}`),
					RecruitsIDs:        []json.RawMessage{},
					PM2Progress:        json.RawMessage(`{}`),
					QuestsProgress:     json.RawMessage(`{}`),
					AvatarAmmo:         []json.RawMessage{},
					FortClanDBIDs:      []json.RawMessage{},
					AccountDBID:        14172974,
					Credits:            31250,
					Team:               1,
				},
			},
			Vehicles: map[string][]VehicleResult{
				"27881779": {sampleVehicleResult(1, DeathAlive)},
				"27881783": {sampleVehicleResult(2, DeathShot)},
			},
			Avatars: map[string]AvatarResults{
				"14172974": {FairplayViolations: []int32{}, Badges: [][]uint16{}},
			},
			Players: map[string]PlayerInfo{
				"14172974": {Name: "tanker_one", ClanAbbrev: "WGX", Team: 1, RealName: "tanker_one"},
			},
			Common: CommonBattleInfo{
				FinishReason: FinishAllVehiclesDestroyed,
				Duration:     377,
				TeamHealth:   map[string]uint32{"1": 3800, "2": 0},
				WinnerTeam:   1,
				BonusType:    1,
				Bots:         json.RawMessage(`{}`),
			},
		},
		Players: PlayersResults{
			"27881779": {
				VehicleType:         "ussr:R158_LT_432",
				IsAlive:             true,
				PersonalMissionIDs:  []uint32{},
				PersonalMissionInfo: map[string][]uint32{},
				Ranked:              []uint32{},
				Team:                1,
				Events:              map[string]json.RawMessage{},
				Badges:              [][]uint32{},
				Name:                "tanker_one",
			},
		},
		Frags: Frags{"27881779": {Frags: 2}},
	}
}

func resultsPayload(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(sampleResults())
	if err != nil {
		t.Fatalf("marshal results: %v", err)
	}
	return raw
}

// mutateResults decodes raw generically, lets fn edit it and re-encodes.
func mutateResults(t *testing.T, raw []byte, fn func(parts []any)) []byte {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var parts []any
	if err := dec.Decode(&parts); err != nil {
		t.Fatalf("decode generic results: %v", err)
	}
	fn(parts)
	out, err := json.Marshal(parts)
	if err != nil {
		t.Fatalf("re-encode results: %v", err)
	}
	return out
}

// object walks nested JSON objects by key.
func object(t *testing.T, v any, keys ...string) map[string]any {
	t.Helper()
	for _, k := range keys {
		m, ok := v.(map[string]any)
		if !ok {
			t.Fatalf("expected object before key %q", k)
		}
		v = m[k]
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected object at %v", keys)
	}
	return m
}

func containerBytes(t *testing.T, payloads ...[]byte) []byte {
	t.Helper()
	raw, err := envelope.Encode(envelope.New([]byte("opaque replay stream"), payloads...))
	if err != nil {
		t.Fatalf("encode container: %v", err)
	}
	return raw
}
