package envelope

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/danmuck/wotreplay/format"
	"github.com/danmuck/wotreplay/internal/testutil/testlog"
)

func header(count uint32) []byte {
	buf := make([]byte, HeaderLen)
	binary.LittleEndian.PutUint32(buf[0:4], format.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], count)
	return buf
}

func lenPrefix(n uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, n)
	return buf
}

func TestMagicBytesOnWire(t *testing.T) {
	if !bytes.Equal(header(0)[0:4], []byte{0x12, 0x32, 0x34, 0x11}) {
		t.Fatalf("unexpected magic bytes: % x", header(0)[0:4])
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	testlog.Start(t)
	in := New([]byte{0xde, 0xad, 0xbe, 0xef}, []byte(`{"a":1}`), []byte(`[{},{},{}]`), []byte{})
	raw, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Read(bytes.NewReader(raw), false)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Magic != format.Magic || out.ChunkCount != 3 || len(out.Chunks) != 3 {
		t.Fatalf("unexpected container: %+v", out)
	}
	for i := range in.Chunks {
		if out.Chunks[i].Length != in.Chunks[i].Length || !bytes.Equal(out.Chunks[i].Payload, in.Chunks[i].Payload) {
			t.Fatalf("chunk %d mismatch: got=%+v want=%+v", i, out.Chunks[i], in.Chunks[i])
		}
	}
	if !bytes.Equal(out.Trailing, in.Trailing) {
		t.Fatalf("trailing mismatch: % x", out.Trailing)
	}
	again, err := Encode(out)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(again, raw) {
		t.Fatalf("framing round trip changed bytes")
	}
}

func TestReadDataOnlyLeavesTailUnread(t *testing.T) {
	testlog.Start(t)
	raw, err := Encode(New([]byte("opaque-tail"), []byte(`{}`)))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	r := bytes.NewReader(raw)
	c, err := Read(r, true)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(c.Trailing) != 0 {
		t.Fatalf("expected empty trailing, got %q", c.Trailing)
	}
	rest, _ := io.ReadAll(r)
	if string(rest) != "opaque-tail" {
		t.Fatalf("expected tail untouched in stream, got %q", rest)
	}

	// The header-only re-encoding still matches the original prefix.
	head, err := Encode(c)
	if err != nil {
		t.Fatalf("encode data-only: %v", err)
	}
	if !bytes.Equal(head, raw[:len(raw)-len("opaque-tail")]) {
		t.Fatalf("data-only framing does not reproduce envelope prefix")
	}
}

func TestReadInvalidMagic(t *testing.T) {
	testlog.Start(t)
	raw := append([]byte{0x12, 0x32, 0x34, 0x12}, lenPrefix(0)...)
	_, err := Read(bytes.NewReader(raw), true)
	if !errors.Is(err, format.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestReadShortHeaderIsTruncated(t *testing.T) {
	testlog.Start(t)
	cases := map[string][]byte{
		"empty":        {},
		"partialMagic": {0x12, 0x32},
		"noCount":      header(1)[:4],
		"partialCount": header(1)[:6],
	}
	for name, raw := range cases {
		_, err := Read(bytes.NewReader(raw), true)
		if !errors.Is(err, format.ErrTruncated) {
			t.Fatalf("%s: expected ErrTruncated, got %v", name, err)
		}
	}
}

func TestReadFewerChunksThanDeclaredIsTruncated(t *testing.T) {
	testlog.Start(t)
	for declared := uint32(1); declared <= 5; declared++ {
		for supplied := uint32(0); supplied < declared; supplied++ {
			raw := header(declared)
			for i := uint32(0); i < supplied; i++ {
				raw = append(raw, lenPrefix(2)...)
				raw = append(raw, '{', '}')
			}
			c, err := Read(bytes.NewReader(raw), false)
			if !errors.Is(err, format.ErrTruncated) {
				t.Fatalf("declared=%d supplied=%d: expected ErrTruncated, got %v", declared, supplied, err)
			}
			if errors.Is(err, format.ErrInconsistentEnvelope) {
				t.Fatalf("reader must not report inconsistency")
			}
			if format.ChunkOf(err) != int(supplied) {
				t.Fatalf("declared=%d supplied=%d: error chunk=%d", declared, supplied, format.ChunkOf(err))
			}
			if c.Chunks != nil || c.ChunkCount != 0 {
				t.Fatalf("expected zero container on error, got %+v", c)
			}
		}
	}
}

func TestReadShortPayloadIsTruncated(t *testing.T) {
	testlog.Start(t)
	raw := append(header(1), lenPrefix(10)...)
	raw = append(raw, []byte("abc")...)
	_, err := Read(bytes.NewReader(raw), true)
	if !errors.Is(err, format.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	var fe *format.Error
	if !errors.As(err, &fe) || fe.Op != "envelope.chunk_payload" || fe.Chunk != 0 {
		t.Fatalf("unexpected error detail: %+v", err)
	}
}

func TestReadHugeDeclaredLengthOnShortStream(t *testing.T) {
	testlog.Start(t)
	raw := append(header(1), lenPrefix(0xFFFFFFF0)...)
	raw = append(raw, []byte("tiny")...)
	_, err := Read(bytes.NewReader(raw), true)
	if !errors.Is(err, format.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestReadHugeDeclaredCountOnShortStream(t *testing.T) {
	testlog.Start(t)
	for _, count := range []uint32{1 << 31, 0xFFFFFFFF} {
		raw := append(header(count), lenPrefix(2)...)
		raw = append(raw, "{}"...)
		c, err := Read(bytes.NewReader(raw), true)
		if !errors.Is(err, format.ErrTruncated) {
			t.Fatalf("count %#x: expected ErrTruncated, got %v", count, err)
		}
		if got := format.ChunkOf(err); got != 1 {
			t.Fatalf("count %#x: failing chunk = %d, want 1", count, got)
		}
		if c.ChunkCount != 0 || c.Chunks != nil {
			t.Fatalf("count %#x: expected zero container, got %+v", count, c)
		}
	}
}

func TestReadAcceptsArbitraryChunkBytes(t *testing.T) {
	testlog.Start(t)
	payload := []byte{0x00, 0xff, 0xfe, 0x80}
	raw, err := Encode(New(nil, payload))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	c, err := Read(bytes.NewReader(raw), false)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got, ok := c.Chunk(0)
	if !ok || !bytes.Equal(got.Payload, payload) {
		t.Fatalf("unexpected chunk: %+v", got)
	}
	if _, ok := c.Chunk(1); ok {
		t.Fatalf("expected no chunk 1")
	}
}

func TestReadZeroChunks(t *testing.T) {
	testlog.Start(t)
	c, err := Read(bytes.NewReader(header(0)), false)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if c.ChunkCount != 0 || len(c.Chunks) != 0 || len(c.Trailing) != 0 {
		t.Fatalf("unexpected container: %+v", c)
	}
}

type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestReadStreamFailureIsNotTruncation(t *testing.T) {
	testlog.Start(t)
	boom := errors.New("disk on fire")
	raw := append(header(1), lenPrefix(8)...)
	_, err := Read(&failingReader{data: raw, err: boom}, true)
	if !errors.Is(err, format.ErrStream) {
		t.Fatalf("expected ErrStream, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause preserved")
	}
	if errors.Is(err, format.ErrTruncated) {
		t.Fatalf("stream failure must not classify as truncation")
	}
}

func TestWriteRejectsInconsistentContainer(t *testing.T) {
	testlog.Start(t)
	c := New(nil, []byte("x"))
	c.ChunkCount = 2
	if _, err := Encode(c); !errors.Is(err, format.ErrInconsistentEnvelope) {
		t.Fatalf("expected ErrInconsistentEnvelope, got %v", err)
	}
	c = New(nil, []byte("x"))
	c.Chunks[0].Length = 5
	if _, err := Encode(c); !errors.Is(err, format.ErrInconsistentEnvelope) {
		t.Fatalf("expected ErrInconsistentEnvelope for chunk length, got %v", err)
	}
}
