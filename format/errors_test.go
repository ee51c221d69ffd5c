package format

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		kind     Kind
		sentinel error
	}{
		{KindInvalidFormat, ErrInvalidFormat},
		{KindTruncatedInput, ErrTruncated},
		{KindStreamFailure, ErrStream},
		{KindMissingBattleInfo, ErrMissingBattleInfo},
		{KindInconsistentEnvelope, ErrInconsistentEnvelope},
		{KindMalformedBattleInfo, ErrMalformedBattleInfo},
		{KindMalformedBattleResults, ErrMalformedBattleResults},
	}
	for _, tc := range cases {
		err := fmt.Errorf("outer: %w", NewError(tc.kind, "test.op", 1, nil))
		if !errors.Is(err, tc.sentinel) {
			t.Fatalf("kind %s: expected errors.Is(%v)", tc.kind, tc.sentinel)
		}
		if KindOf(err) != tc.kind {
			t.Fatalf("kind %s: KindOf=%s", tc.kind, KindOf(err))
		}
		for _, other := range cases {
			if other.kind != tc.kind && errors.Is(err, other.sentinel) {
				t.Fatalf("kind %s unexpectedly matched %v", tc.kind, other.sentinel)
			}
		}
	}
}

func TestErrorUnwrapReachesCause(t *testing.T) {
	err := NewError(KindTruncatedInput, "envelope.chunk_payload", 2, io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected cause reachable through Unwrap")
	}
	if ChunkOf(err) != 2 {
		t.Fatalf("unexpected chunk: %d", ChunkOf(err))
	}
	msg := err.Error()
	if !strings.Contains(msg, "envelope.chunk_payload chunk=2") || !strings.Contains(msg, "unexpected EOF") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestErrorWithoutChunk(t *testing.T) {
	err := NewError(KindInvalidFormat, "envelope.magic", NoChunk, nil)
	if got, want := err.Error(), "format: invalid magic: envelope.magic"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatalf("expected unknown kind")
	}
	if KindOf(nil) != KindUnknown {
		t.Fatalf("expected unknown kind for nil")
	}
	if ChunkOf(nil) != NoChunk {
		t.Fatalf("expected NoChunk for nil")
	}
}
