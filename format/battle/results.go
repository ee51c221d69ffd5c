package battle

import (
	"encoding/json"
	"fmt"
)

// AvatarResults is the per-avatar aggregate in general results.
type AvatarResults struct {
	AvatarKills        uint16     `json:"avatarKills"`
	PlayerRank         uint16     `json:"playerRank"`
	BasePointsDiff     uint32     `json:"basePointsDiff"`
	HasBattlePass      bool       `json:"hasBattlePass"`
	AvatarDamaged      uint16     `json:"avatarDamaged"`
	TotalDamaged       uint16     `json:"totalDamaged"`
	AvatarDamageDealt  uint32     `json:"avatarDamageDealt"`
	SumPoints          uint32     `json:"sumPoints"`
	FairplayViolations []int32    `json:"fairplayViolations"`
	Badges             [][]uint16 `json:"badges"`
}

// PersonalAvatarResults is the recording player's own result record.
type PersonalAvatarResults struct {
	BasePointsDiff            uint32            `json:"basePointsDiff"`
	AvatarDamageDealt         uint32            `json:"avatarDamageDealt"`
	BPCoinReplay              *uint32           `json:"bpcoinReplay,omitempty"`
	CreditsReplay             *uint32           `json:"creditsReplay,omitempty"`
	FreeXPReplay              *uint32           `json:"freeXPReplay,omitempty"`
	SumPoints                 uint32            `json:"sumPoints"`
	FairplayViolations        []int32           `json:"fairplayViolations"`
	EventBPCoin               uint32            `json:"eventBpcoin"`
	Badges                    [][]uint16        `json:"badges"`
	ActiveRents               map[string]uint32 `json:"activeRents"`
	EventFreeXP               uint32            `json:"eventFreeXP"`
	EventCredits              uint32            `json:"eventCredits"`
	XPReplay                  *uint32           `json:"xpReplay,omitempty"`
	Crystal                   uint32            `json:"crystal"`
	DamageEventList           json.RawMessage   `json:"damageEventList,omitempty"`
	EligibleForCrystalRewards bool              `json:"eligibleForCrystalRewards"`
	DogTags                   json.RawMessage   `json:"dogTags"`
	IsPrematureLeave          bool              `json:"isPrematureLeave"`
	SquadBonusInfo            json.RawMessage   `json:"squadBonusInfo,omitempty"`
	WinnerIfDraw              uint8             `json:"winnerIfDraw"`
	FreeXP                    uint32            `json:"freeXP"`
	AvatarKills               uint16            `json:"avatarKills"`
	EventTMenXP               uint16            `json:"eventTMenXP"`
	RecruitsIDs               []json.RawMessage `json:"recruitsIDs"`
	AvatarDamageEventList     json.RawMessage   `json:"avatarDamageEventList,omitempty"`
	PM2Progress               json.RawMessage   `json:"PM2Progress"`
	HasBattlePass             bool              `json:"hasBattlePass"`
	TotalDamaged              uint16            `json:"totalDamaged"`
	GoldReplay                json.RawMessage   `json:"goldReplay,omitempty"`
	EventCrystal              uint16            `json:"eventCrystal"`
	EventGold                 uint32            `json:"eventGold"`
	TMenXPReplay              json.RawMessage   `json:"tmenXPReplay,omitempty"`
	EventCoinReplay           json.RawMessage   `json:"eventCoinReplay,omitempty"`
	QuestsProgress            json.RawMessage   `json:"questsProgress"`
	AccountDBID               uint64            `json:"accountDBID"`
	AvatarAmmo                []json.RawMessage `json:"avatarAmmo"`
	FareTeamXPPosition        uint16            `json:"fareTeamXPPosition"`
	EventXP                   uint16            `json:"eventXP"`
	FortClanDBIDs             []json.RawMessage `json:"fortClanDBIDs"`
	XP                        uint16            `json:"xp"`
	PlayerRank                uint16            `json:"playerRank"`
	AvatarDamaged             uint16            `json:"avatarDamaged"`
	RecruiterID               uint64            `json:"recruiterID"`
	ProgressiveReward         json.RawMessage   `json:"progressiveReward,omitempty"`
	CrystalReplay             json.RawMessage   `json:"crystalReplay,omitempty"`
	RankChange                uint32            `json:"rankChange"`
	Team                      uint8             `json:"team"`
	ClanDBID                  *uint64           `json:"clanDBID,omitempty"`
	Credits                   int64             `json:"credits"`
	EventEventCoin            uint64            `json:"eventEventCoin"`
	WatchedBattleToTheEnd     bool              `json:"watchedBattleToTheEnd"`
	FLXPReplay                json.RawMessage   `json:"flXPReplay,omitempty"`
}

// PersonalBattleResults wraps the recording player's avatar record.
type PersonalBattleResults struct {
	Avatar PersonalAvatarResults `json:"avatar"`
}

// VehicleResult is one vehicle's post-battle statistics.
type VehicleResult struct {
	Spotted                     uint8           `json:"spotted"`
	VehicleNumCaptured          uint16          `json:"vehicleNumCaptured"`
	DamageAssistedTrack         uint32          `json:"damageAssistedTrack"`
	XPPenalty                   int32           `json:"xpPenalty"`
	DirectTeamHits              uint32          `json:"directTeamHits"`
	DamageReceived              uint32          `json:"damageReceived"`
	SniperDamageDealt           uint32          `json:"sniperDamageDealt"`
	PiercingEnemyHits           uint16          `json:"piercingEnemyHits"`
	DamageAssistedRadio         uint32          `json:"damageAssistedRadio"`
	Mileage                     uint32          `json:"mileage"`
	StunDuration                float32         `json:"stunDuration"`
	Piercings                   uint16          `json:"piercings"`
	DamageBlockedByArmor        uint32          `json:"damageBlockedByArmor"`
	XP                          uint32          `json:"xp"`
	DroppedCapturePoints        uint16          `json:"droppedCapturePoints"`
	KillerID                    uint64          `json:"killerID"`
	XPOther                     uint32          `json:"xp/other"`
	Index                       uint32          `json:"index"`
	DirectHitsReceived          uint32          `json:"directHitsReceived"`
	DamageReceivedFromInvisible uint32          `json:"damageReceivedFromInvisibles"`
	ExplosionHitsReceived       uint32          `json:"explosionHitsReceived"`
	AchievementXP               uint32          `json:"achievementXP"`
	DeathReason                 DeathReason     `json:"deathReason"`
	CapturePoints               uint32          `json:"capturePoints"`
	NumRecovered                uint16          `json:"numRecovered"`
	DirectEnemyHits             uint32          `json:"directEnemyHits"`
	MaxHealth                   uint32          `json:"maxHealth"`
	DamageEventList             json.RawMessage `json:"damageEventList,omitempty"`
	Health                      int32           `json:"health"`
	StopRespawn                 bool            `json:"stopRespawn"`
	AchievementCredits          uint32          `json:"achievementCredits"`
	Achievements                []uint16        `json:"achievements"`
	XPAssist                    uint32          `json:"xp/assist"`
	Shots                       uint32          `json:"shots"`
	Kills                       uint16          `json:"kills"`
	DeathCount                  uint16          `json:"deathCount"`
	FlagCapture                 uint32          `json:"flagCapture"`
	Damaged                     uint16          `json:"damaged"`
	TDamageDealt                uint32          `json:"tdamageDealt"`
	ResourceAbsorbed            uint32          `json:"resourceAbsorbed"`
	Credits                     uint32          `json:"credits"`
	AccountDBID                 uint64          `json:"accountDBID"`
	LifeTime                    uint64          `json:"lifeTime"`
	NoDamageDirectHitsReceived  uint16          `json:"noDamageDirectHitsReceived"`
	NumDefended                 uint32          `json:"numDefended"`
	Stunned                     uint16          `json:"stunned"`
	EquipmentDamageDealt        uint32          `json:"equipmentDamageDealt"`
	IsTeamKiller                bool            `json:"isTeamKiller"`
	TypeCompDescr               uint32          `json:"typeCompDescr"`
	SoloFlagCapture             uint32          `json:"soloFlagCapture"`
	DestructiblesHits           uint32          `json:"destructiblesHits"`
	CapturingBase               json.RawMessage `json:"capturingBase,omitempty"`
	DamageAssistedStun          uint32          `json:"damageAssistedStun"`
	RolloutsCount               uint32          `json:"rolloutsCount"`
	TKills                      uint16          `json:"tkills"`
	PotentialDamageReceived     uint32          `json:"potentialDamageReceived"`
	DamageDealt                 uint32          `json:"damageDealt"`
	DestructiblesNumDestroyed   uint32          `json:"destructiblesNumDestroyed"`
	DamageAssistedSmoke         uint32          `json:"damageAssistedSmoke"`
	DestructiblesDamageDealt    uint32          `json:"destructiblesDamageDealt"`
	FlagActions                 [4]uint32       `json:"flagActions"`
	WinPoints                   uint32          `json:"winPoints"`
	ExplosionHits               uint32          `json:"explosionHits"`
	Team                        uint8           `json:"team"`
	XPAttack                    uint32          `json:"xp/attack"`
	TDestroyedModules           uint32          `json:"tdestroyedModules"`
	StunNum                     uint32          `json:"stunNum"`
	DamageAssistedInspire       uint32          `json:"damageAssistedInspire"`
	AchievementFreeXP           uint32          `json:"achievementFreeXP"`
	DirectHits                  uint32          `json:"directHits"`
}

// PlayerInfo is a roster entry of general results.
type PlayerInfo struct {
	Name        string `json:"name"`
	PrebattleID uint64 `json:"prebattleID"`
	IGRType     uint32 `json:"igrType"`
	ClanAbbrev  string `json:"clanAbbrev"`
	Team        uint8  `json:"team"`
	ClanDBID    uint64 `json:"clanDBID"`
	RealName    string `json:"realName"`
}

// CommonBattleInfo is the arena-level outcome.
type CommonBattleInfo struct {
	Division            *uint32           `json:"division,omitempty"`
	FinishReason        FinishReason      `json:"finishReason"`
	GUIType             uint32            `json:"guiType"`
	CommonNumDefended   uint32            `json:"commonNumDefended"`
	CommonNumCaptured   uint32            `json:"commonNumCaptured"`
	CommonNumStarted    uint32            `json:"commonNumStarted"`
	ArenaCreateTime     uint64            `json:"arenaCreateTime"`
	CommonNumDestroyed  uint32            `json:"commonNumDestroyed"`
	Duration            uint32            `json:"duration"`
	TeamHealth          map[string]uint32 `json:"teamHealth"`
	ArenaTypeID         uint32            `json:"arenaTypeID"`
	GasAttackWinnerTeam int32             `json:"gasAttackWinnerTeam"`
	WinnerTeam          uint16            `json:"winnerTeam"`
	VehLockMode         uint16            `json:"vehLockMode"`
	BonusType           uint16            `json:"bonusType"`
	Bots                json.RawMessage   `json:"bots"`
	AccountCompDescr    json.RawMessage   `json:"accountCompDescr,omitempty"`
}

// GeneralBattleResults is the first element of the results tuple.
type GeneralBattleResults struct {
	ArenaUniqueID uint64                     `json:"arenaUniqueID"`
	Personal      PersonalBattleResults      `json:"personal"`
	Vehicles      map[string][]VehicleResult `json:"vehicles"`
	Avatars       map[string]AvatarResults   `json:"avatars"`
	Players       map[string]PlayerInfo      `json:"players"`
	Common        CommonBattleInfo           `json:"common"`
}

// PlayerResults is the per-player record of the second tuple element.
type PlayerResults struct {
	WTR                       uint32                     `json:"wtr"`
	VehicleType               string                     `json:"vehicleType"`
	IsAlive                   LenientBool                `json:"isAlive"`
	PersonalMissionIDs        []uint32                   `json:"personalMissionIDs"`
	PersonalMissionInfo       map[string][]uint32        `json:"personalMissionInfo"`
	ForbidInBattleInvitations bool                       `json:"forbidInBattleInvitations"`
	FakeName                  string                     `json:"fakeName"`
	MaxHealth                 uint32                     `json:"maxHealth"`
	IGRType                   uint32                     `json:"igrType"`
	ClanAbbrev                string                     `json:"clanAbbrev"`
	Ranked                    []uint32                   `json:"ranked"`
	IsTeamKiller              uint8                      `json:"isTeamKiller"`
	Team                      uint8                      `json:"team"`
	Events                    map[string]json.RawMessage `json:"events"`
	OverriddenBadge           uint32                     `json:"overriddenBadge"`
	AvatarSessionID           string                     `json:"avatarSessionID"`
	Badges                    [][]uint32                 `json:"badges"`
	Name                      string                     `json:"name"`
}

// PlayerFrags is the frag count of one player.
type PlayerFrags struct {
	Frags uint8 `json:"frags"`
}

// PlayersResults is keyed by player/vehicle id.
type PlayersResults map[string]PlayerResults

// Frags is keyed by player/vehicle id.
type Frags map[string]PlayerFrags

// Document names used in schema diagnostics.
const (
	DocBattleInfo     = "battle info"
	DocBattleResults  = "battle results"
	DocGeneralResults = "general results"
	DocPlayersResults = "players results"
	DocFrags          = "frags"
)

// BattleResults is the chunk 1 document, a positional JSON array
// [general, players, frags].
type BattleResults struct {
	General GeneralBattleResults
	Players PlayersResults
	Frags   Frags
}

func (r *BattleResults) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("battle results: expected [general, players, frags]: %w", err)
	}
	if len(parts) != 3 {
		return fmt.Errorf("battle results: expected 3 elements, got %d", len(parts))
	}
	var out BattleResults
	if err := decodeDocument(DocGeneralResults, parts[0], &out.General); err != nil {
		return fmt.Errorf("results[0]: %w", err)
	}
	if err := decodeDocument(DocPlayersResults, parts[1], &out.Players); err != nil {
		return fmt.Errorf("results[1]: %w", err)
	}
	if err := decodeDocument(DocFrags, parts[2], &out.Frags); err != nil {
		return fmt.Errorf("results[2]: %w", err)
	}
	*r = out
	return nil
}

func (r BattleResults) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{r.General, r.Players, r.Frags})
}
