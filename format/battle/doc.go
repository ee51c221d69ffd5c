// Package battle turns a framed replay container into typed documents.
//
// Chunk 0 decodes into BattleInfo and is mandatory. Chunk 1, when the
// envelope declares it, decodes into BattleResults: a three element JSON
// array of general results, per-player results and frag counts.
//
// Decoding is all or nothing per call. Every schema field not tagged
// omitempty must be present; unknown fields are ignored.
package battle
