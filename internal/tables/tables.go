// Package tables holds the static length/distance code tables from
// RFC-1951 §3.2.5: the mapping between raw match lengths/distances and the
// (symbol, extra-bit-count, base-value) triples used by the literal/length
// and distance Huffman alphabets.
package tables

// Literal/length alphabet layout (RFC-1951 §3.2.5).
const (
	// NumLiteralCodes is the number of literal byte codes (0..255).
	NumLiteralCodes = 256
	// EndOfStreamSymbol is the symbol marking the end of the token stream.
	EndOfStreamSymbol = 256
	// FirstLengthSymbol is the first length code (257).
	FirstLengthSymbol = 257
	// NumLengthSymbols is the number of length codes (257..285).
	NumLengthSymbols = 29
	// NumLitLenSymbols is the total literal/length alphabet size.
	NumLitLenSymbols = FirstLengthSymbol + NumLengthSymbols // 286

	// NumDistanceSymbols is the size of the distance alphabet.
	NumDistanceSymbols = 30

	// MinMatchLength and MaxMatchLength bound LZ77 match lengths.
	MinMatchLength = 3
	MaxMatchLength = 258

	// MaxDistance is the largest representable back-reference distance.
	MaxDistance = 32768
)

// extraBitsLength gives the number of extra bits for each length symbol
// (257..285, indices 0..28).
var extraBitsLength = [NumLengthSymbols]uint8{
	0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 1, 1,
	2, 2, 2, 2,
	3, 3, 3, 3,
	4, 4, 4, 4,
	5, 5, 5, 5,
	0,
}

// baseValueLength gives the smallest match length encoded by each length
// symbol (257..285, indices 0..28).
var baseValueLength = [NumLengthSymbols]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}

// extraBitsDistance gives the number of extra bits for each distance symbol.
var extraBitsDistance = [NumDistanceSymbols]uint8{
	0, 0, 0, 0,
	1, 1,
	2, 2,
	3, 3,
	4, 4,
	5, 5,
	6, 6,
	7, 7,
	8, 8,
	9, 9,
	10, 10,
	11, 11,
	12, 12,
	13, 13,
}

// baseValueDistance gives the smallest distance encoded by each distance
// symbol.
var baseValueDistance = [NumDistanceSymbols]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97,
	129, 193, 257, 385, 513, 769, 1025, 1537, 2049, 3073,
	4097, 6145, 8193, 12289, 16385, 24577,
}

// LengthSymbol maps a match length in [MinMatchLength, MaxMatchLength] to
// its (alphabet symbol, extra-bits value). The symbol is in
// [FirstLengthSymbol, FirstLengthSymbol+NumLengthSymbols).
func LengthSymbol(length int) (symbol int, extra uint32, extraBits int) {
	for i := NumLengthSymbols - 1; i >= 0; i-- {
		if length >= baseValueLength[i] {
			return FirstLengthSymbol + i, uint32(length - baseValueLength[i]), int(extraBitsLength[i])
		}
	}
	// Unreachable for valid inputs (length >= MinMatchLength == baseValueLength[0]).
	return FirstLengthSymbol, 0, 0
}

// LengthExtraBits returns the number of extra bits following a given length
// symbol (257..285).
func LengthExtraBits(symbol int) int {
	return int(extraBitsLength[symbol-FirstLengthSymbol])
}

// LengthFromSymbol reverses LengthSymbol: given a length symbol and the
// extra-bits value read from the stream, returns the original match length.
func LengthFromSymbol(symbol int, extra uint32) int {
	i := symbol - FirstLengthSymbol
	return baseValueLength[i] + int(extra)
}

// DistanceSymbol maps a distance in [1, MaxDistance] to its (alphabet
// symbol, extra-bits value).
func DistanceSymbol(distance int) (symbol int, extra uint32, extraBits int) {
	for i := NumDistanceSymbols - 1; i >= 0; i-- {
		if distance >= baseValueDistance[i] {
			return i, uint32(distance - baseValueDistance[i]), int(extraBitsDistance[i])
		}
	}
	return 0, 0, 0
}

// DistanceExtraBits returns the number of extra bits following a given
// distance symbol.
func DistanceExtraBits(symbol int) int {
	return int(extraBitsDistance[symbol])
}

// DistanceFromSymbol reverses DistanceSymbol.
func DistanceFromSymbol(symbol int, extra uint32) int {
	return baseValueDistance[symbol] + int(extra)
}
