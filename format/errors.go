package format

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat          = errors.New("format: invalid magic")
	ErrTruncated              = errors.New("format: truncated input")
	ErrStream                 = errors.New("format: stream read failed")
	ErrMissingBattleInfo      = errors.New("format: missing battle info chunk")
	ErrInconsistentEnvelope   = errors.New("format: declared chunk count disagrees with chunks")
	ErrMalformedBattleInfo    = errors.New("format: malformed battle info")
	ErrMalformedBattleResults = errors.New("format: malformed battle results")
)

// Kind classifies a decode failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidFormat
	KindTruncatedInput
	KindStreamFailure
	KindMissingBattleInfo
	KindInconsistentEnvelope
	KindMalformedBattleInfo
	KindMalformedBattleResults
)

var kindSentinels = map[Kind]error{
	KindInvalidFormat:          ErrInvalidFormat,
	KindTruncatedInput:         ErrTruncated,
	KindStreamFailure:          ErrStream,
	KindMissingBattleInfo:      ErrMissingBattleInfo,
	KindInconsistentEnvelope:   ErrInconsistentEnvelope,
	KindMalformedBattleInfo:    ErrMalformedBattleInfo,
	KindMalformedBattleResults: ErrMalformedBattleResults,
}

func (k Kind) String() string {
	switch k {
	case KindInvalidFormat:
		return "invalid_format"
	case KindTruncatedInput:
		return "truncated_input"
	case KindStreamFailure:
		return "stream_failure"
	case KindMissingBattleInfo:
		return "missing_battle_info"
	case KindInconsistentEnvelope:
		return "inconsistent_envelope"
	case KindMalformedBattleInfo:
		return "malformed_battle_info"
	case KindMalformedBattleResults:
		return "malformed_battle_results"
	default:
		return "unknown"
	}
}

// Sentinel returns the package-level error matched by errors.Is for k.
func (k Kind) Sentinel() error {
	return kindSentinels[k]
}

// Error is a classified decode failure. Op names the stage
// (e.g. "envelope.chunk_payload", "extract.battle_results") and Chunk the
// chunk index, or NoChunk.
type Error struct {
	Kind  Kind
	Op    string
	Chunk int
	Err   error
}

func (e *Error) Error() string {
	base := e.Kind.String()
	if s := e.Kind.Sentinel(); s != nil {
		base = s.Error()
	}
	where := e.Op
	if e.Chunk != NoChunk {
		where = fmt.Sprintf("%s chunk=%d", e.Op, e.Chunk)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", base, where)
	}
	return fmt.Sprintf("%s: %s: %v", base, where, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.Sentinel()
	return s != nil && target == s
}

// NewError builds a classified error.
func NewError(kind Kind, op string, chunk int, cause error) error {
	return &Error{Kind: kind, Op: op, Chunk: chunk, Err: cause}
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// ChunkOf returns the chunk index carried by err, or NoChunk.
func ChunkOf(err error) int {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Chunk
	}
	return NoChunk
}
