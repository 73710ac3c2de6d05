package pngchunk

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// Errors returned by Recognize and NextChunk.
var (
	ErrMalformed = errors.New("pngchunk: malformed chunk")
	ErrCRC       = errors.New("pngchunk: CRC mismatch")
)

// Source is the Byte Source collaborator: a readable stream of bytes that
// supports peeking ahead without consuming, matching spec.md's "read at
// current position, peek-N, end-of-stream" contract. Grounded on the
// teacher's io.Reader-based chunk reading (internal/container's
// ReadChunk(io.Reader)), wrapped in a bufio.Reader so Recognize can peek
// the 8-byte signature without disturbing the chunk stream that follows —
// an explicit design choice over a true seek-to-absolute, since PNG/APNG
// chunks are always consumed strictly forward (see DESIGN.md).
type Source struct {
	br *bufio.Reader
}

// NewSource wraps r as a chunk Byte Source.
func NewSource(r io.Reader) *Source {
	return &Source{br: bufio.NewReaderSize(r, 4096)}
}

// Recognize peeks exactly 8 bytes and reports whether they match the PNG
// signature. The source's position is left unchanged either way.
func Recognize(s *Source) bool {
	sig, err := s.br.Peek(len(Signature))
	if err != nil {
		return false
	}
	return bytes.Equal(sig, Signature[:])
}

// ReadSignature consumes and validates the 8-byte PNG signature.
func ReadSignature(s *Source) error {
	var sig [8]byte
	if _, err := io.ReadFull(s.br, sig[:]); err != nil {
		return fmt.Errorf("pngchunk: reading signature: %w", err)
	}
	if sig != Signature {
		return fmt.Errorf("%w: bad signature", ErrMalformed)
	}
	return nil
}

// Chunk is one parsed PNG chunk: its type tag and data payload (CRC
// already validated).
type Chunk struct {
	Type Type
	Data []byte
}

// NextChunk reads one chunk: a big-endian 4-byte length, a 4-byte type, the
// length bytes of data, and a 4-byte CRC validated against type+data.
// Returns io.EOF when the source is exhausted before any chunk bytes are
// read, ErrMalformed for a truncated header, an over-large length or a
// truncated payload, or ErrCRC for a CRC mismatch.
func NextChunk(s *Source) (Chunk, error) {
	var hdr [ChunkHeaderSize]byte
	if _, err := io.ReadFull(s.br, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Chunk{}, io.EOF
		}
		return Chunk{}, fmt.Errorf("%w: reading chunk header: %v", ErrMalformed, err)
	}

	length := binary.BigEndian.Uint32(hdr[0:4])
	if length > maxChunkDataSize {
		return Chunk{}, fmt.Errorf("%w: chunk length %d exceeds limit", ErrMalformed, length)
	}
	var typ Type
	copy(typ[:], hdr[4:8])

	rest := make([]byte, int(length)+ChunkCRCSize)
	if _, err := io.ReadFull(s.br, rest); err != nil {
		return Chunk{}, fmt.Errorf("%w: truncated %s chunk: %v", ErrMalformed, typ, err)
	}
	data := rest[:length]
	wantCRC := binary.BigEndian.Uint32(rest[length:])

	crc := crc32.NewIEEE()
	crc.Write(hdr[4:8])
	crc.Write(data)
	if crc.Sum32() != wantCRC {
		return Chunk{}, fmt.Errorf("%w: chunk %s", ErrCRC, typ)
	}

	return Chunk{Type: typ, Data: data}, nil
}
