package defc

import (
	"errors"
	"fmt"

	"github.com/deepteams/defc/internal/bitio"
	"github.com/deepteams/defc/internal/header"
	"github.com/deepteams/defc/internal/huffman"
	"github.com/deepteams/defc/internal/rle"
	"github.com/deepteams/defc/internal/tables"
)

// Decode decompresses a stream produced by Encode and returns the original
// bytes, or an error per the taxonomy in errors.go.
func Decode(input []byte) ([]byte, error) {
	out, _, err := DecodeWithStats(input)
	return out, err
}

// DecodeWithStats decompresses input exactly like Decode, additionally
// reporting Stats for the decoded stream.
func DecodeWithStats(input []byte) ([]byte, Stats, error) {
	size, codesN, rest, err := header.Decode(input)
	if err != nil {
		if errors.Is(err, header.ErrWrongHeader) {
			return nil, Stats{}, fmt.Errorf("%w", ErrWrongHeader)
		}
		return nil, Stats{}, fmt.Errorf("%w", ErrTruncatedInput)
	}
	if int(codesN) < 4 {
		return nil, Stats{}, fmt.Errorf("%w: codesN %d below minimum alphabet size", ErrBadCodeLengths, codesN)
	}
	clMax := int(codesN) - 4

	br := bitio.NewReader(rest)

	kBits, err := br.ReadBits(3)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w", ErrTruncatedInput)
	}
	k := int(kBits)
	if k == 0 {
		return nil, Stats{}, fmt.Errorf("%w: zero code-length width", ErrBadCodeLengths)
	}

	clLengths := make([]uint8, codesN)
	for i := range clLengths {
		v, err := br.ReadBits(k)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("%w", ErrTruncatedInput)
		}
		clLengths[i] = uint8(v)
	}
	clCode, err := canonicalCodesFromLengths(clLengths)
	if err != nil {
		return nil, Stats{}, err
	}
	clTree, err := huffman.NewDecodeTree(clCode.CodeLengths, clCode.Codes)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w", ErrBadCodeLengths)
	}

	combined, err := rle.Decode(br, clTree, clMax)
	if err != nil {
		return nil, Stats{}, mapRLEErr(err)
	}

	litLenCode, err := canonicalCodesFromLengths(combined[:tables.NumLitLenSymbols])
	if err != nil {
		return nil, Stats{}, err
	}
	distCode, err := canonicalCodesFromLengths(combined[tables.NumLitLenSymbols:])
	if err != nil {
		return nil, Stats{}, err
	}

	litLenTree, err := huffman.NewDecodeTree(litLenCode.CodeLengths, litLenCode.Codes)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w", ErrBadCodeLengths)
	}
	var distTree *huffman.DecodeTree
	if hasNonZero(distCode.CodeLengths) {
		distTree, err = huffman.NewDecodeTree(distCode.CodeLengths, distCode.Codes)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("%w", ErrBadCodeLengths)
		}
	}

	out := make([]byte, 0, size)
	var stats Stats
	stats.InputSize = len(input)
	stats.CodeLengthMax = clMax
	stats.CodeLengthSize = int(codesN)

	for {
		sym, err := litLenTree.ReadSymbol(br)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("%w", ErrTruncatedInput)
		}
		switch {
		case sym < tables.NumLiteralCodes:
			if len(out) >= int(size) {
				return nil, Stats{}, fmt.Errorf("%w", ErrOutputOverflow)
			}
			out = append(out, byte(sym))
			stats.NumLiterals++

		case sym == tables.EndOfStreamSymbol:
			if len(out) != int(size) {
				return nil, Stats{}, fmt.Errorf("%w: declared %d, got %d", ErrOutputOverflow, size, len(out))
			}
			stats.OutputSize = len(out)
			return out, stats, nil

		case sym < tables.NumLitLenSymbols:
			extraBits := tables.LengthExtraBits(sym)
			var extra uint32
			if extraBits > 0 {
				extra, err = br.ReadBits(extraBits)
				if err != nil {
					return nil, Stats{}, fmt.Errorf("%w", ErrTruncatedInput)
				}
			}
			length := tables.LengthFromSymbol(sym, extra)

			if distTree == nil {
				return nil, Stats{}, fmt.Errorf("%w: match token with empty distance tree", ErrUnexpectedSymbol)
			}
			dsym, err := distTree.ReadSymbol(br)
			if err != nil {
				return nil, Stats{}, fmt.Errorf("%w", ErrTruncatedInput)
			}
			if dsym >= tables.NumDistanceSymbols {
				return nil, Stats{}, fmt.Errorf("%w: distance symbol %d", ErrUnexpectedSymbol, dsym)
			}
			dExtraBits := tables.DistanceExtraBits(dsym)
			var dExtra uint32
			if dExtraBits > 0 {
				dExtra, err = br.ReadBits(dExtraBits)
				if err != nil {
					return nil, Stats{}, fmt.Errorf("%w", ErrTruncatedInput)
				}
			}
			distance := tables.DistanceFromSymbol(dsym, dExtra)
			if distance > len(out) {
				return nil, Stats{}, fmt.Errorf("%w: distance %d exceeds output length %d", ErrUnexpectedSymbol, distance, len(out))
			}
			if len(out)+length > int(size) {
				return nil, Stats{}, fmt.Errorf("%w", ErrOutputOverflow)
			}

			// Self-overlapping copies (distance < length) require a
			// byte-at-a-time copy: the source region can extend into bytes
			// being written by this same match.
			start := len(out) - distance
			for i := 0; i < length; i++ {
				out = append(out, out[start+i])
			}
			stats.NumMatches++
			stats.DuplicateBytes += length

		default:
			return nil, Stats{}, fmt.Errorf("%w: literal/length symbol %d", ErrUnexpectedSymbol, sym)
		}
	}
}

// canonicalCodesFromLengths re-derives canonical codes from a received
// code-length vector, mirroring the encoder's assignCanonicalCodes so the
// two sides agree without the codes ever crossing the wire.
func canonicalCodesFromLengths(lengths []uint8) (*huffman.Code, error) {
	code := &huffman.Code{
		NumSymbols:  len(lengths),
		CodeLengths: make([]uint8, len(lengths)),
		Codes:       make([]uint32, len(lengths)),
	}
	copy(code.CodeLengths, lengths)
	if err := huffman.AssignCanonicalCodes(code); err != nil {
		return nil, fmt.Errorf("%w", ErrBadCodeLengths)
	}
	return code, nil
}

func hasNonZero(lengths []uint8) bool {
	for _, l := range lengths {
		if l != 0 {
			return true
		}
	}
	return false
}

func mapRLEErr(err error) error {
	switch {
	case errors.Is(err, huffman.ErrTruncatedInput):
		return fmt.Errorf("%w", ErrTruncatedInput)
	case errors.Is(err, rle.ErrUnexpectedSymbol):
		return fmt.Errorf("%w", ErrUnexpectedSymbol)
	case errors.Is(err, rle.ErrBadCodeLengths):
		return fmt.Errorf("%w", ErrBadCodeLengths)
	default:
		return fmt.Errorf("%w", ErrBadCodeLengths)
	}
}
