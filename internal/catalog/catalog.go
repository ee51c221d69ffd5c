// Package catalog keeps a SQLite index of decoded replay summaries.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/danmuck/wotreplay/format/battle"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("catalog: replay not indexed")

// Entry is the summary of one replay file. Result fields are zero when
// HasResults is false.
type Entry struct {
	Path          string
	PlayerName    string
	ServerName    string
	MapName       string
	MapDisplay    string
	ClientVersion string
	BattleType    uint16
	BattleStart   time.Time
	Vehicle       string
	Vehicles      int
	HasResults    bool
	ArenaUniqueID uint64
	WinnerTeam    uint16
	FinishReason  string
	Duration      uint32
}

// Summarize flattens the fields of r that the catalog keeps.
func Summarize(path string, r *battle.Replay) Entry {
	bi := &r.BattleInfo
	e := Entry{
		Path:          path,
		PlayerName:    bi.PlayerName,
		ServerName:    bi.ServerName,
		MapName:       bi.MapName,
		MapDisplay:    bi.MapDisplayName,
		ClientVersion: bi.ClientVersionFromExe,
		BattleType:    bi.BattleType,
		BattleStart:   bi.DateTime.Time,
		Vehicle:       bi.PlayerVehicle,
		Vehicles:      len(bi.Vehicles),
	}
	if rec, ok := bi.Recorder(); ok {
		e.Vehicle = rec.Vehicle.VehicleType
	}
	if r.HasResults() {
		common := r.Results.General.Common
		e.HasResults = true
		e.ArenaUniqueID = r.Results.General.ArenaUniqueID
		e.WinnerTeam = common.WinnerTeam
		e.FinishReason = common.FinishReason.String()
		e.Duration = common.Duration
	}
	return e
}

type Store struct {
	db *sql.DB
}

// Open creates or opens the catalog database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug().Str("path", path).Msg("catalog: opened")
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			path TEXT PRIMARY KEY,
			player_name TEXT NOT NULL,
			server_name TEXT NOT NULL,
			map_name TEXT NOT NULL,
			map_display TEXT NOT NULL,
			client_version TEXT NOT NULL,
			battle_type INTEGER NOT NULL,
			battle_start TEXT NOT NULL,
			vehicle TEXT NOT NULL,
			vehicles INTEGER NOT NULL,
			has_results INTEGER NOT NULL DEFAULT 0,
			arena_unique_id TEXT NOT NULL DEFAULT '',
			winner_team INTEGER NOT NULL DEFAULT 0,
			finish_reason TEXT NOT NULL DEFAULT '',
			duration INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS replays_battle_start ON replays (battle_start);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("catalog: create schema: %w", err)
	}
	return nil
}

const upsertEntry = `
	INSERT INTO replays (
		path, player_name, server_name, map_name, map_display, client_version,
		battle_type, battle_start, vehicle, vehicles,
		has_results, arena_unique_id, winner_team, finish_reason, duration
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		player_name = excluded.player_name,
		server_name = excluded.server_name,
		map_name = excluded.map_name,
		map_display = excluded.map_display,
		client_version = excluded.client_version,
		battle_type = excluded.battle_type,
		battle_start = excluded.battle_start,
		vehicle = excluded.vehicle,
		vehicles = excluded.vehicles,
		has_results = excluded.has_results,
		arena_unique_id = excluded.arena_unique_id,
		winner_team = excluded.winner_team,
		finish_reason = excluded.finish_reason,
		duration = excluded.duration
`

const selectEntry = `
	SELECT path, player_name, server_name, map_name, map_display, client_version,
		battle_type, battle_start, vehicle, vehicles,
		has_results, arena_unique_id, winner_team, finish_reason, duration
	FROM replays
`

func (s *Store) Put(ctx context.Context, e Entry) error {
	return s.PutAll(ctx, []Entry{e})
}

// PutAll upserts entries in one transaction, keyed by path.
func (s *Store) PutAll(ctx context.Context, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertEntry)
	if err != nil {
		return fmt.Errorf("catalog: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		arena := ""
		if e.HasResults {
			arena = strconv.FormatUint(e.ArenaUniqueID, 10)
		}
		_, err := stmt.ExecContext(ctx,
			e.Path, e.PlayerName, e.ServerName, e.MapName, e.MapDisplay, e.ClientVersion,
			int64(e.BattleType), e.BattleStart.UTC().Format(time.RFC3339), e.Vehicle, int64(e.Vehicles),
			boolInt(e.HasResults), arena, int64(e.WinnerTeam), e.FinishReason, int64(e.Duration),
		)
		if err != nil {
			return fmt.Errorf("catalog: put %s: %w", e.Path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit: %w", err)
	}
	log.Debug().Int("entries", len(entries)).Msg("catalog: stored")
	return nil
}

func (s *Store) Get(ctx context.Context, path string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectEntry+" WHERE path = ?", path)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return e, err
}

// List returns every entry, newest battle first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntry+" ORDER BY battle_start DESC, path")
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e                          Entry
		battleType, vehicles       int64
		hasResults, winner, length int64
		start, arena               string
	)
	err := row.Scan(
		&e.Path, &e.PlayerName, &e.ServerName, &e.MapName, &e.MapDisplay, &e.ClientVersion,
		&battleType, &start, &e.Vehicle, &vehicles,
		&hasResults, &arena, &winner, &e.FinishReason, &length,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("catalog: scan: %w", err)
	}
	e.BattleType = uint16(battleType)
	e.Vehicles = int(vehicles)
	e.HasResults = hasResults != 0
	e.WinnerTeam = uint16(winner)
	e.Duration = uint32(length)
	if e.BattleStart, err = time.Parse(time.RFC3339, start); err != nil {
		return Entry{}, fmt.Errorf("catalog: %s: battle start: %w", e.Path, err)
	}
	if arena != "" {
		if e.ArenaUniqueID, err = strconv.ParseUint(arena, 10, 64); err != nil {
			return Entry{}, fmt.Errorf("catalog: %s: arena id: %w", e.Path, err)
		}
	}
	return e, nil
}

func boolInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
