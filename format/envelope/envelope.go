package envelope

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/wotreplay/format"
	"github.com/rs/zerolog/log"
)

// HeaderLen covers magic plus chunk count.
const HeaderLen = 8

// prealloc caps the up-front buffer for one chunk; larger chunks grow as
// bytes actually arrive.
const prealloc = 1 << 20

// Chunk is one length-prefixed payload.
type Chunk struct {
	Length  uint32
	Payload []byte
}

// NewChunk wraps payload with its length.
func NewChunk(payload []byte) Chunk {
	return Chunk{Length: uint32(len(payload)), Payload: payload}
}

// Container is the framed replay: chunks in wire order plus the opaque tail.
// After a successful Read, len(Chunks) == ChunkCount.
type Container struct {
	Magic      uint32
	ChunkCount uint32
	Chunks     []Chunk
	Trailing   []byte
}

// Chunk returns chunk i if it was framed.
func (c *Container) Chunk(i int) (Chunk, bool) {
	if c == nil || i < 0 || i >= len(c.Chunks) {
		return Chunk{}, false
	}
	return c.Chunks[i], true
}

// Read frames r. With dataOnly set the tail is left unread in r.
func Read(r io.Reader, dataOnly bool) (Container, error) {
	var head [HeaderLen]byte

	log.Trace().Msg("envelope: reading magic")
	if err := readFull(r, head[0:4], "envelope.magic", format.NoChunk); err != nil {
		return Container{}, err
	}
	magic := binary.LittleEndian.Uint32(head[0:4])
	if magic != format.Magic {
		return Container{}, format.NewError(
			format.KindInvalidFormat,
			"envelope.magic",
			format.NoChunk,
			fmt.Errorf("got %#08x want %#08x", magic, format.Magic),
		)
	}

	if err := readFull(r, head[4:8], "envelope.chunk_count", format.NoChunk); err != nil {
		return Container{}, err
	}
	count := binary.LittleEndian.Uint32(head[4:8])
	log.Trace().Uint32("chunks", count).Msg("envelope: found data chunks")

	c := Container{
		Magic:      magic,
		ChunkCount: count,
		Chunks:     make([]Chunk, 0, min(count, 16)),
	}
	for i := uint32(0); i < count; i++ {
		chunk, err := readChunk(r, int(i))
		if err != nil {
			return Container{}, err
		}
		c.Chunks = append(c.Chunks, chunk)
	}

	if dataOnly {
		return c, nil
	}
	tail, err := io.ReadAll(r)
	if err != nil {
		return Container{}, format.NewError(format.KindStreamFailure, "envelope.trailing", format.NoChunk, err)
	}
	c.Trailing = tail
	log.Trace().Int("bytes", len(tail)).Msg("envelope: read trailing blob")
	return c, nil
}

// ReadFile opens path, frames it and closes it on every path.
func ReadFile(path string, dataOnly bool) (Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return Container{}, err
	}
	defer f.Close()
	return Read(f, dataOnly)
}

func readChunk(r io.Reader, index int) (Chunk, error) {
	log.Trace().Int("chunk", index).Msg("envelope: reading data chunk")
	var lenBuf [4]byte
	if err := readFull(r, lenBuf[:], "envelope.chunk_length", index); err != nil {
		return Chunk{}, err
	}
	length := binary.LittleEndian.Uint32(lenBuf[:])

	var buf bytes.Buffer
	buf.Grow(int(min(length, prealloc)))
	n, err := io.CopyN(&buf, r, int64(length))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Chunk{}, format.NewError(
				format.KindTruncatedInput,
				"envelope.chunk_payload",
				index,
				fmt.Errorf("declared %d bytes, stream ended after %d: %w", length, n, io.ErrUnexpectedEOF),
			)
		}
		return Chunk{}, format.NewError(format.KindStreamFailure, "envelope.chunk_payload", index, err)
	}
	return Chunk{Length: length, Payload: buf.Bytes()}, nil
}

func readFull(r io.Reader, buf []byte, op string, chunk int) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return format.NewError(format.KindTruncatedInput, op, chunk, io.ErrUnexpectedEOF)
		}
		return format.NewError(format.KindStreamFailure, op, chunk, err)
	}
	return nil
}

// Write serialises c: header, chunks, then the trailing blob.
func Write(w io.Writer, c Container) error {
	if int(c.ChunkCount) != len(c.Chunks) {
		return format.NewError(
			format.KindInconsistentEnvelope,
			"envelope.write",
			format.NoChunk,
			fmt.Errorf("declared %d chunks, have %d", c.ChunkCount, len(c.Chunks)),
		)
	}
	var head [HeaderLen]byte
	binary.LittleEndian.PutUint32(head[0:4], c.Magic)
	binary.LittleEndian.PutUint32(head[4:8], c.ChunkCount)
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	for i, chunk := range c.Chunks {
		if int(chunk.Length) != len(chunk.Payload) {
			return format.NewError(
				format.KindInconsistentEnvelope,
				"envelope.write",
				i,
				fmt.Errorf("declared %d bytes, have %d", chunk.Length, len(chunk.Payload)),
			)
		}
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], chunk.Length)
		if _, err := w.Write(lenBuf[:]); err != nil {
			return err
		}
		if len(chunk.Payload) > 0 {
			if _, err := w.Write(chunk.Payload); err != nil {
				return err
			}
		}
	}
	if len(c.Trailing) > 0 {
		if _, err := w.Write(c.Trailing); err != nil {
			return err
		}
	}
	return nil
}

// Encode is Write into a fresh buffer.
func Encode(c Container) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// New builds a well-formed container around payloads.
func New(trailing []byte, payloads ...[]byte) Container {
	chunks := make([]Chunk, 0, len(payloads))
	for _, p := range payloads {
		chunks = append(chunks, NewChunk(p))
	}
	return Container{
		Magic:      format.Magic,
		ChunkCount: uint32(len(chunks)),
		Chunks:     chunks,
		Trailing:   trailing,
	}
}
