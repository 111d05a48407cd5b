package defc

import (
	"fmt"
	"math"
	"sync"

	"github.com/deepteams/defc/internal/bitio"
	"github.com/deepteams/defc/internal/header"
	"github.com/deepteams/defc/internal/huffman"
	"github.com/deepteams/defc/internal/lzmatch"
	"github.com/deepteams/defc/internal/rle"
	"github.com/deepteams/defc/internal/tables"
)

// encoderPool reuses Encoder scratch state across successive Encode calls,
// in the spirit of the reference's acquireEncoder/releaseEncoder pattern
// (internal/lossless/encode.go): the two frequency tallies are retained
// between calls instead of being reallocated each time.
var encoderPool = sync.Pool{
	New: func() any { return &encoderState{} },
}

type encoderState struct {
	litLenFreq []uint32
	distFreq   []uint32
}

func acquireEncoderState() *encoderState {
	s := encoderPool.Get().(*encoderState)
	if cap(s.litLenFreq) >= tables.NumLitLenSymbols {
		s.litLenFreq = s.litLenFreq[:tables.NumLitLenSymbols]
		for i := range s.litLenFreq {
			s.litLenFreq[i] = 0
		}
	} else {
		s.litLenFreq = make([]uint32, tables.NumLitLenSymbols)
	}
	if cap(s.distFreq) >= tables.NumDistanceSymbols {
		s.distFreq = s.distFreq[:tables.NumDistanceSymbols]
		for i := range s.distFreq {
			s.distFreq[i] = 0
		}
	} else {
		s.distFreq = make([]uint32, tables.NumDistanceSymbols)
	}
	return s
}

func releaseEncoderState(s *encoderState) {
	encoderPool.Put(s)
}

// ProgressFunc receives the number of input bytes tokenized and the total
// input size, for callers that want to display progress (e.g. the CLI's
// progress bar). EncodeWithOptions calls it once, after tokenization; see
// EncodeOptions.Progress.
type ProgressFunc func(bytesDone, bytesTotal int)

// EncodeOptions controls optional Encode behavior.
type EncodeOptions struct {
	// Progress, if non-nil, is invoked after LZ77 tokenization with the
	// final byte counts (tokenization is not itself incremental, so this
	// fires once; it exists to let callers report per-file progress in a
	// batch without special-casing the single-file case).
	Progress ProgressFunc
}

// Encode compresses input and returns the full framed stream, or an error
// per the taxonomy in errors.go. Equivalent to EncodeWithOptions(input, nil).
func Encode(input []byte) ([]byte, error) {
	out, _, err := EncodeWithOptions(input, nil)
	return out, err
}

// EncodeWithOptions compresses input exactly like Encode, additionally
// reporting Stats and honoring opts (nil is equivalent to Encode).
func EncodeWithOptions(input []byte, opts *EncodeOptions) ([]byte, Stats, error) {
	if len(input) > math.MaxUint32 {
		return nil, Stats{}, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(input))
	}

	st := acquireEncoderState()
	defer releaseEncoderState(st)

	tokens := lzmatch.NewMatcher(input).Tokenize()

	var stats Stats
	stats.InputSize = len(input)

	for _, tok := range tokens {
		switch tok.Kind() {
		case lzmatch.KindLiteral:
			st.litLenFreq[tok.Byte()]++
			stats.NumLiterals++
		case lzmatch.KindMatch:
			sym, _, _ := tables.LengthSymbol(tok.Length())
			st.litLenFreq[sym]++
			dsym, _, _ := tables.DistanceSymbol(tok.Distance())
			st.distFreq[dsym]++
			stats.NumMatches++
			stats.DuplicateBytes += tok.Length()
		case lzmatch.KindEnd:
			st.litLenFreq[tables.EndOfStreamSymbol]++
		}
	}
	if opts != nil && opts.Progress != nil {
		opts.Progress(len(input), len(input))
	}

	litLenCode, err := huffman.BuildTree(st.litLenFreq)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: literal/length tree: %w", ErrCodeLengthOverflow, err)
	}
	distCode, err := huffman.BuildTree(st.distFreq)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: distance tree: %w", ErrCodeLengthOverflow, err)
	}

	combined := make([]uint8, rle.CombinedLength)
	copy(combined[:tables.NumLitLenSymbols], litLenCode.CodeLengths)
	copy(combined[tables.NumLitLenSymbols:], distCode.CodeLengths)

	clTokens, clMax := rle.BuildTokens(combined)
	clHist := rle.Histogram(clTokens, clMax)
	clCode, err := huffman.BuildTree(clHist)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: code-length tree: %w", ErrCodeLengthOverflow, err)
	}

	codesN := clMax + 4
	k := bitsPerCodeLength(clCode.CodeLengths)

	w := bitio.NewWriter(len(input))
	w.WriteBits(uint32(k), 3)
	for _, l := range clCode.CodeLengths {
		w.WriteBits(uint32(l), k)
	}
	for _, tok := range clTokens {
		w.WriteBits(clCode.Codes[tok.Symbol], int(clCode.CodeLengths[tok.Symbol]))
		if tok.ExtraBits > 0 {
			w.WriteBits(tok.Extra, tok.ExtraBits)
		}
	}

	for _, tok := range tokens {
		switch tok.Kind() {
		case lzmatch.KindLiteral:
			sym := int(tok.Byte())
			w.WriteBits(litLenCode.Codes[sym], int(litLenCode.CodeLengths[sym]))
		case lzmatch.KindMatch:
			lsym, lextra, lbits := tables.LengthSymbol(tok.Length())
			w.WriteBits(litLenCode.Codes[lsym], int(litLenCode.CodeLengths[lsym]))
			if lbits > 0 {
				w.WriteBits(lextra, lbits)
			}
			dsym, dextra, dbits := tables.DistanceSymbol(tok.Distance())
			w.WriteBits(distCode.Codes[dsym], int(distCode.CodeLengths[dsym]))
			if dbits > 0 {
				w.WriteBits(dextra, dbits)
			}
		case lzmatch.KindEnd:
			sym := tables.EndOfStreamSymbol
			w.WriteBits(litLenCode.Codes[sym], int(litLenCode.CodeLengths[sym]))
		}
	}
	w.Flush()

	out := append(header.Encode(uint32(len(input)), uint8(codesN)), w.Bytes()...)

	stats.OutputSize = len(out)
	stats.CodeLengthMax = clMax
	stats.CodeLengthSize = codesN
	return out, stats, nil
}

// bitsPerCodeLength picks the smallest k in {2..7} such that every length in
// lengths fits in k bits, per §4.6.
func bitsPerCodeLength(lengths []uint8) int {
	var max uint8
	for _, l := range lengths {
		if l > max {
			max = l
		}
	}
	for k := 2; k <= 7; k++ {
		if max < 1<<uint(k) {
			return k
		}
	}
	return 7
}
