package format

// Magic is the little-endian u32 every replay container starts with
// (bytes 12 32 34 11).
const Magic uint32 = 0x11343212

// Chunk indexes fixed by producer convention.
const (
	ChunkBattleInfo    = 0
	ChunkBattleResults = 1
)

// NoChunk marks an error that is not scoped to a single chunk.
const NoChunk = -1
