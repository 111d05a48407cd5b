// Package header reads and writes the codec's container header (§4.6):
// four magic bytes, a little-endian uncompressed-size field, and the
// alphabet-size byte for the code-length Huffman tree. Everything after
// byte 8 is bit-packed and handled by the bitio/huffman/rle packages.
package header

import (
	"encoding/binary"
	"errors"
)

// Magic is the four-byte signature identifying this container format.
// Chosen to look like, but not collide with, a standard DEFLATE stream.
var Magic = [4]byte{'D', 'E', 'F', 'c'}

// Size is the fixed byte-aligned header length: 4 magic bytes, 4 bytes of
// little-endian uncompressed size, 1 byte of codesN.
const Size = 9

// ErrWrongHeader is returned when the magic bytes don't match.
var ErrWrongHeader = errors.New("header: wrong magic")

// ErrTruncatedInput is returned when fewer than Size bytes are available.
var ErrTruncatedInput = errors.New("header: truncated input")

// Encode writes the fixed header for a stream of the given uncompressed
// size and code-length alphabet size (codesN = CLMax+4).
func Encode(uncompressedSize uint32, codesN uint8) []byte {
	buf := make([]byte, Size)
	copy(buf[0:4], Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], uncompressedSize)
	buf[8] = codesN
	return buf
}

// Decode parses the fixed header from the front of data, returning the
// uncompressed size, codesN, and the remaining bytes (the bit-packed
// payload, starting at bit 7 of its first byte).
func Decode(data []byte) (uncompressedSize uint32, codesN uint8, rest []byte, err error) {
	if len(data) < Size {
		return 0, 0, nil, ErrTruncatedInput
	}
	if data[0] != Magic[0] || data[1] != Magic[1] || data[2] != Magic[2] || data[3] != Magic[3] {
		return 0, 0, nil, ErrWrongHeader
	}
	uncompressedSize = binary.LittleEndian.Uint32(data[4:8])
	codesN = data[8]
	return uncompressedSize, codesN, data[Size:], nil
}
