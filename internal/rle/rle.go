// Package rle implements the run-length encoding of the combined
// literal/length + distance code-length vector (§4.5): a small alphabet of
// "literal code length" plus three meta-symbols (repeat-previous,
// short-zero-run, long-zero-run) that is itself Huffman-coded by a third
// tree, shrinking the tree description that would otherwise cost 316
// uncompressed code-length fields.
package rle

import (
	"errors"

	"github.com/deepteams/defc/internal/bitio"
	"github.com/deepteams/defc/internal/huffman"
)

// CombinedLength is the fixed size of the combined code-length vector:
// the literal/length alphabet (286 symbols) followed by the distance
// alphabet (30 symbols).
const CombinedLength = 286 + 30

// ErrBadCodeLengths is returned when the RLE token stream is malformed:
// a repeat-previous token appears before any literal code length, or the
// decoded vector doesn't land on exactly CombinedLength entries.
var ErrBadCodeLengths = huffman.ErrBadCodeLengths

// Token is one entry of the RLE-encoded code-length alphabet: either a
// literal code length (Symbol <= CLMax, ExtraBits == 0) or one of the three
// meta-symbols with its extra-bits payload.
type Token struct {
	Symbol    int
	Extra     uint32
	ExtraBits int
}

// Alphabet symbol offsets relative to CLMax, per §4.5.
const (
	repeatPreviousOffset = 1 // CLMax+1: repeat previous non-zero length
	shortZeroRunOffset   = 2 // CLMax+2: run of 3..10 zeros
	longZeroRunOffset    = 3 // CLMax+3: run of 11..138 zeros
)

// BuildTokens computes CLMax (the largest length present in cl) and encodes
// cl into a token sequence over the CLMax+4-symbol alphabet described in
// §4.5.
func BuildTokens(cl []uint8) (tokens []Token, clMax int) {
	for _, l := range cl {
		if int(l) > clMax {
			clMax = int(l)
		}
	}
	repPrev := clMax + repeatPreviousOffset
	zeroShort := clMax + shortZeroRunOffset
	zeroLong := clMax + longZeroRunOffset

	n := len(cl)
	i := 0
	for i < n {
		m := cl[i]
		if m == 0 {
			j := i
			for j < n && cl[j] == 0 {
				j++
			}
			tokens = appendZeroRun(tokens, j-i, zeroShort, zeroLong)
			i = j
			continue
		}

		tokens = append(tokens, Token{Symbol: int(m)})
		i++

		extra := 0
		for i < n && cl[i] == m && extra < 6 {
			extra++
			i++
		}
		if extra >= 3 {
			tokens = append(tokens, Token{Symbol: repPrev, Extra: uint32(extra - 3), ExtraBits: 2})
		} else {
			for k := 0; k < extra; k++ {
				tokens = append(tokens, Token{Symbol: int(m)})
			}
		}
	}
	return tokens, clMax
}

// appendZeroRun encodes a run of n zeros as literal zeros (n < 3),
// a short-zero-run token (3 <= n <= 10), or one or more long-zero-run
// tokens (n >= 11, chained in chunks of up to 138).
func appendZeroRun(tokens []Token, n, zeroShort, zeroLong int) []Token {
	for n > 0 {
		switch {
		case n < 3:
			for k := 0; k < n; k++ {
				tokens = append(tokens, Token{Symbol: 0})
			}
			return tokens
		case n <= 10:
			tokens = append(tokens, Token{Symbol: zeroShort, Extra: uint32(n - 3), ExtraBits: 3})
			return tokens
		case n <= 138:
			tokens = append(tokens, Token{Symbol: zeroLong, Extra: uint32(n - 11), ExtraBits: 7})
			return tokens
		default:
			tokens = append(tokens, Token{Symbol: zeroLong, Extra: 127, ExtraBits: 7})
			n -= 138
		}
	}
	return tokens
}

// Histogram tallies token symbol frequencies over the CLMax+4-symbol
// alphabet, ready to feed huffman.BuildTree for the third (code-length)
// Huffman tree.
func Histogram(tokens []Token, clMax int) []uint32 {
	hist := make([]uint32, clMax+4)
	for _, t := range tokens {
		hist[t.Symbol]++
	}
	return hist
}

// ErrUnexpectedSymbol is returned when the code-length tree decodes a
// symbol outside the CLMax+4-symbol alphabet range.
var ErrUnexpectedSymbol = errors.New("rle: code-length symbol out of range")

// Decode reads symbols from tree via br until the full CombinedLength code
// lengths are recovered, applying the inverse RLE state machine (repeat
// previous non-zero length, short and long zero runs). prevNonZero starts
// at 0, per §4.5.
func Decode(br *bitio.Reader, tree *huffman.DecodeTree, clMax int) ([]uint8, error) {
	repPrev := clMax + repeatPreviousOffset
	zeroShort := clMax + shortZeroRunOffset
	zeroLong := clMax + longZeroRunOffset

	out := make([]uint8, 0, CombinedLength)
	prevNonZero := uint8(0)
	haveNonZero := false

	for len(out) < CombinedLength {
		sym, err := tree.ReadSymbol(br)
		if err != nil {
			return nil, err
		}

		switch {
		case sym >= 0 && sym <= clMax:
			out = append(out, uint8(sym))
			if sym != 0 {
				prevNonZero = uint8(sym)
				haveNonZero = true
			}

		case sym == repPrev:
			if !haveNonZero {
				return nil, ErrBadCodeLengths
			}
			extra, err := br.ReadBits(2)
			if err != nil {
				return nil, huffman.ErrTruncatedInput
			}
			count := int(extra) + 3
			if len(out)+count > CombinedLength {
				return nil, ErrBadCodeLengths
			}
			for k := 0; k < count; k++ {
				out = append(out, prevNonZero)
			}

		case sym == zeroShort:
			extra, err := br.ReadBits(3)
			if err != nil {
				return nil, huffman.ErrTruncatedInput
			}
			count := int(extra) + 3
			if len(out)+count > CombinedLength {
				return nil, ErrBadCodeLengths
			}
			for k := 0; k < count; k++ {
				out = append(out, 0)
			}

		case sym == zeroLong:
			extra, err := br.ReadBits(7)
			if err != nil {
				return nil, huffman.ErrTruncatedInput
			}
			count := int(extra) + 11
			if len(out)+count > CombinedLength {
				return nil, ErrBadCodeLengths
			}
			for k := 0; k < count; k++ {
				out = append(out, 0)
			}

		default:
			return nil, ErrUnexpectedSymbol
		}
	}

	if len(out) != CombinedLength {
		return nil, ErrBadCodeLengths
	}
	return out, nil
}
