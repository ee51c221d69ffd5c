package battle

import (
	"io"
	"os"

	"github.com/danmuck/wotreplay/format"
	"github.com/danmuck/wotreplay/format/envelope"
	"github.com/rs/zerolog/log"
)

// Replay is the typed view of a container. Results is nil when the
// envelope declares fewer than two chunks.
type Replay struct {
	BattleInfo BattleInfo
	Results    *BattleResults
}

// HasResults reports whether the battle results document was present.
func (r *Replay) HasResults() bool {
	return r != nil && r.Results != nil
}

// Extract decodes the typed documents of c. It does not mutate c, so a
// caller can still inspect raw chunk bytes after a failure.
func Extract(c *envelope.Container) (*Replay, error) {
	if c == nil || c.ChunkCount == 0 {
		return nil, format.NewError(format.KindMissingBattleInfo, "extract.battle_info", format.ChunkBattleInfo, nil)
	}
	infoChunk, ok := c.Chunk(format.ChunkBattleInfo)
	if !ok {
		return nil, inconsistent(c, format.ChunkBattleInfo)
	}

	replay := &Replay{}
	if err := decodeDocument(DocBattleInfo, infoChunk.Payload, &replay.BattleInfo); err != nil {
		return nil, format.NewError(format.KindMalformedBattleInfo, "extract.battle_info", format.ChunkBattleInfo, err)
	}
	log.Trace().
		Str("player", replay.BattleInfo.PlayerName).
		Int("vehicles", len(replay.BattleInfo.Vehicles)).
		Msg("battle: decoded battle info")

	if c.ChunkCount <= 1 {
		log.Trace().Msg("battle: no battle results declared")
		return replay, nil
	}
	resultsChunk, ok := c.Chunk(format.ChunkBattleResults)
	if !ok {
		return nil, inconsistent(c, format.ChunkBattleResults)
	}
	var results BattleResults
	if err := decodeDocument(DocBattleResults, resultsChunk.Payload, &results); err != nil {
		return nil, format.NewError(format.KindMalformedBattleResults, "extract.battle_results", format.ChunkBattleResults, err)
	}
	replay.Results = &results
	log.Trace().Uint64("arena", results.General.ArenaUniqueID).Msg("battle: decoded battle results")
	return replay, nil
}

func inconsistent(c *envelope.Container, chunk int) error {
	log.Debug().
		Uint32("declared", c.ChunkCount).
		Int("framed", len(c.Chunks)).
		Msg("battle: envelope declares more chunks than framed")
	return format.NewError(format.KindInconsistentEnvelope, "extract.chunks", chunk, nil)
}

// Decode frames r without its trailing blob and extracts the typed replay.
func Decode(r io.Reader) (*Replay, error) {
	c, err := envelope.Read(r, true)
	if err != nil {
		return nil, err
	}
	return Extract(&c)
}

// DecodeFile opens path, decodes it and closes it on every path.
func DecodeFile(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
