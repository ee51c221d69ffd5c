// Package format owns the replay container wire contract.
//
// Ownership boundary:
// - magic and framing constants
// - error taxonomy shared by the envelope and battle layers
//
// Subpackages:
// - envelope: length-prefixed chunk framing
// - battle: typed battle info / battle results extraction
package format
