package rle

import (
	"testing"

	"github.com/deepteams/defc/internal/bitio"
	"github.com/deepteams/defc/internal/huffman"
)

// buildAndDecode is a small round-trip harness: build tokens for cl, Huffman
// code the token alphabet, write the coded token stream, then Decode it back.
func buildAndDecode(t *testing.T, cl []uint8) []uint8 {
	t.Helper()
	tokens, clMax := BuildTokens(cl)
	hist := Histogram(tokens, clMax)
	code, err := huffman.BuildTree(hist)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	tree, err := huffman.NewDecodeTree(code.CodeLengths, code.Codes)
	if err != nil {
		t.Fatalf("NewDecodeTree: %v", err)
	}

	w := bitio.NewWriter(len(cl))
	for _, tok := range tokens {
		w.WriteBits(code.Codes[tok.Symbol], int(code.CodeLengths[tok.Symbol]))
		if tok.ExtraBits > 0 {
			w.WriteBits(tok.Extra, tok.ExtraBits)
		}
	}
	w.Flush()

	r := bitio.NewReader(w.Bytes())
	got, err := Decode(r, tree, clMax)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return got
}

func padToCombined(cl []uint8) []uint8 {
	out := make([]uint8, CombinedLength)
	copy(out, cl)
	return out
}

func TestRoundTripAllZero(t *testing.T) {
	cl := padToCombined(nil)
	got := buildAndDecode(t, cl)
	for i, v := range got {
		if v != cl[i] {
			t.Fatalf("index %d: want %d, got %d", i, cl[i], v)
		}
	}
}

func TestRoundTripRepeatPrevious(t *testing.T) {
	cl := make([]uint8, CombinedLength)
	for i := 0; i < 6; i++ {
		cl[i] = 5
	}
	cl[10] = 3
	got := buildAndDecode(t, cl)
	for i, v := range got {
		if v != cl[i] {
			t.Fatalf("index %d: want %d, got %d", i, cl[i], v)
		}
	}
}

func TestRoundTripLongZeroRun(t *testing.T) {
	cl := make([]uint8, CombinedLength)
	cl[0] = 4
	for i := 1; i < 150; i++ {
		cl[i] = 0
	}
	cl[150] = 2
	got := buildAndDecode(t, cl)
	for i, v := range got {
		if v != cl[i] {
			t.Fatalf("index %d: want %d, got %d", i, cl[i], v)
		}
	}
}

func TestRoundTripMixedLengths(t *testing.T) {
	cl := make([]uint8, CombinedLength)
	for i := 0; i < CombinedLength; i++ {
		switch {
		case i < 20:
			cl[i] = uint8(1 + i%7)
		case i < 200:
			cl[i] = 0
		default:
			cl[i] = uint8(1 + i%5)
		}
	}
	got := buildAndDecode(t, cl)
	for i, v := range got {
		if v != cl[i] {
			t.Fatalf("index %d: want %d, got %d", i, cl[i], v)
		}
	}
}

func TestBuildTokensEmitsLeadingLiteralBeforeRepeat(t *testing.T) {
	cl := make([]uint8, CombinedLength)
	for i := 0; i < 4; i++ {
		cl[i] = 7
	}
	tokens, clMax := BuildTokens(cl)
	if len(tokens) < 2 {
		t.Fatalf("want at least 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Symbol != 7 {
		t.Fatalf("want leading literal token for symbol 7, got %d", tokens[0].Symbol)
	}
	repPrev := clMax + repeatPreviousOffset
	if tokens[1].Symbol != repPrev {
		t.Fatalf("want repeat-previous token (symbol %d), got %d", repPrev, tokens[1].Symbol)
	}
	if tokens[1].Extra != 0 {
		t.Fatalf("want extra=0 (count 3), got %d", tokens[1].Extra)
	}
}

func TestDecodeRejectsRepeatBeforeAnyNonZero(t *testing.T) {
	clMax := 7
	repPrev := clMax + repeatPreviousOffset
	hist := make([]uint32, clMax+4)
	hist[0] = 1
	hist[repPrev] = 1
	code, err := huffman.BuildTree(hist)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	tree, err := huffman.NewDecodeTree(code.CodeLengths, code.Codes)
	if err != nil {
		t.Fatalf("NewDecodeTree: %v", err)
	}

	w := bitio.NewWriter(1)
	w.WriteBits(code.Codes[repPrev], int(code.CodeLengths[repPrev]))
	w.WriteBits(0, 2)
	w.Flush()

	r := bitio.NewReader(w.Bytes())
	if _, err := Decode(r, tree, clMax); err != ErrBadCodeLengths {
		t.Fatalf("want ErrBadCodeLengths, got %v", err)
	}
}
