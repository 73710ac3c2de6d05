// Package pngchunk recognizes the PNG signature and partitions a PNG/APNG
// byte stream into well-formed chunks (length, type, data, CRC).
package pngchunk

// Signature is the 8-byte sequence every PNG stream must begin with.
var Signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ChunkHeaderSize is the size of a chunk's length+type prefix.
const ChunkHeaderSize = 8

// ChunkCRCSize is the size of a chunk's trailing CRC-32.
const ChunkCRCSize = 4

// maxChunkDataSize bounds a single chunk's declared data length. The PNG
// spec allows lengths up to 2^31-1; this repo caps it well below that so
// one malformed length field can't drive a single huge allocation, the
// same defensive posture as mux/demux.go's maxMetadataSize/maxFrames caps
// in the teacher.
const maxChunkDataSize = 256 << 20 // 256 MiB

// Type is a 4-byte PNG chunk type tag.
type Type [4]byte

func (t Type) String() string { return string(t[:]) }

// Critical and ancillary chunk type tags this decoder recognizes.
var (
	TypeIHDR = Type{'I', 'H', 'D', 'R'}
	TypePLTE = Type{'P', 'L', 'T', 'E'}
	TypeIDAT = Type{'I', 'D', 'A', 'T'}
	TypeIEND = Type{'I', 'E', 'N', 'D'}
	TypetRNS = Type{'t', 'R', 'N', 'S'}
	TypeacTL = Type{'a', 'c', 'T', 'L'}
	TypefcTL = Type{'f', 'c', 'T', 'L'}
	TypefdAT = Type{'f', 'd', 'A', 'T'}
)

// IsCritical reports whether a chunk's type is one of the critical PNG
// chunk types (uppercase first letter, per the PNG chunk-naming convention).
func (t Type) IsCritical() bool {
	return t[0]&0x20 == 0
}
