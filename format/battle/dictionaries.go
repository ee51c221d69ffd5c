package battle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// FinishReason is why the arena ended.
type FinishReason int8

const (
	FinishUnknown              FinishReason = 0
	FinishAllVehiclesDestroyed FinishReason = 1
	FinishBaseCaptured         FinishReason = 2
	FinishTimeout              FinishReason = 3
	FinishArenaFailure         FinishReason = 4
	FinishTechnical            FinishReason = 5
)

var finishReasonNames = map[FinishReason]string{
	FinishUnknown:              "unknown",
	FinishAllVehiclesDestroyed: "all_vehicles_destroyed",
	FinishBaseCaptured:         "base_captured",
	FinishTimeout:              "timeout",
	FinishArenaFailure:         "arena_failure",
	FinishTechnical:            "technical",
}

// DeathReason is how a vehicle left the battle. DeathAlive means it survived.
type DeathReason int8

const (
	DeathAlive               DeathReason = -1
	DeathShot                DeathReason = 0
	DeathFire                DeathReason = 1
	DeathRamming             DeathReason = 2
	DeathWorldCollision      DeathReason = 3
	DeathDeathZone           DeathReason = 4
	DeathDrowning            DeathReason = 5
	DeathGasAttack           DeathReason = 6
	DeathOverturn            DeathReason = 7
	DeathManual              DeathReason = 8
	DeathArtilleryProtection DeathReason = 9
	DeathArtillerySector     DeathReason = 10
	DeathBombers             DeathReason = 11
	DeathRecovery            DeathReason = 12
	DeathArtilleryEquipment  DeathReason = 13
	DeathBomberEquipment     DeathReason = 14
	DeathNone                DeathReason = 15
)

var deathReasonNames = map[DeathReason]string{
	DeathAlive:               "alive",
	DeathShot:                "shot",
	DeathFire:                "fire",
	DeathRamming:             "ramming",
	DeathWorldCollision:      "world_collision",
	DeathDeathZone:           "death_zone",
	DeathDrowning:            "drowning",
	DeathGasAttack:           "gas_attack",
	DeathOverturn:            "overturn",
	DeathManual:              "manual",
	DeathArtilleryProtection: "artillery_protection",
	DeathArtillerySector:     "artillery_sector",
	DeathBombers:             "bombers",
	DeathRecovery:            "recovery",
	DeathArtilleryEquipment:  "artillery_equipment",
	DeathBomberEquipment:     "bomber_equipment",
	DeathNone:                "none",
}

// Valid reports whether r is in the known set.
func (r FinishReason) Valid() bool {
	_, ok := finishReasonNames[r]
	return ok
}

// Valid reports whether r is in the known set.
func (r DeathReason) Valid() bool {
	_, ok := deathReasonNames[r]
	return ok
}

func (r FinishReason) String() string {
	return enumName(r, finishReasonNames, "FinishReason")
}

func (r DeathReason) String() string {
	return enumName(r, deathReasonNames, "DeathReason")
}

func (r *FinishReason) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, finishReasonNames)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (r *DeathReason) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, deathReasonNames)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (r FinishReason) MarshalJSON() ([]byte, error) {
	return encodeEnum(r, finishReasonNames)
}

func (r DeathReason) MarshalJSON() ([]byte, error) {
	return encodeEnum(r, deathReasonNames)
}

func enumName[T ~int8](v T, names map[T]string, typeName string) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("%s(%d)", typeName, int8(v))
}

// decodeEnum matches an integer literal against the closed set. Anything
// else, including a known-range integer outside the set, is a type error
// carrying the raw value.
func decodeEnum[T ~int8](data []byte, names map[T]string) (T, error) {
	data = bytes.TrimSpace(data)
	typ := reflect.TypeOf(T(0))
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, &json.UnmarshalTypeError{Value: describe(data), Type: typ}
	}
	v := T(n)
	if int64(v) != n {
		return 0, &json.UnmarshalTypeError{Value: "number " + string(data), Type: typ}
	}
	if _, ok := names[v]; !ok {
		return 0, &json.UnmarshalTypeError{Value: "number " + string(data), Type: typ}
	}
	return v, nil
}

func encodeEnum[T ~int8](v T, names map[T]string) ([]byte, error) {
	if _, ok := names[v]; !ok {
		return nil, fmt.Errorf("battle: %T value %d outside known set", v, int8(v))
	}
	return strconv.AppendInt(nil, int64(v), 10), nil
}
