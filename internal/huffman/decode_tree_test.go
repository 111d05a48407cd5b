package huffman

import (
	"testing"

	"github.com/deepteams/defc/internal/bitio"
)

func TestDecodeTreeRoundTrip(t *testing.T) {
	hist := []uint32{5, 1, 1, 1, 1, 1, 1, 1}
	code, err := BuildTree(hist)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	tree, err := NewDecodeTree(code.CodeLengths, code.Codes)
	if err != nil {
		t.Fatalf("NewDecodeTree: %v", err)
	}

	w := bitio.NewWriter(4)
	var symbols []int
	for sym, l := range code.CodeLengths {
		if l == 0 {
			continue
		}
		symbols = append(symbols, sym)
		w.WriteBits(code.Codes[sym], int(l))
	}
	w.Flush()

	r := bitio.NewReader(w.Bytes())
	for _, want := range symbols {
		got, err := tree.ReadSymbol(r)
		if err != nil {
			t.Fatalf("ReadSymbol: %v", err)
		}
		if got != want {
			t.Fatalf("want symbol %d, got %d", want, got)
		}
	}
}

func TestDecodeTreeRejectsEmptyAlphabet(t *testing.T) {
	if _, err := NewDecodeTree(make([]uint8, 8), make([]uint32, 8)); err != ErrBadCodeLengths {
		t.Fatalf("want ErrBadCodeLengths, got %v", err)
	}
}

func TestDecodeTreeRejectsOverlappingCodes(t *testing.T) {
	// Two symbols both claiming code "0" at length 1: the second insert
	// must fail since the first already claimed that leaf.
	lengths := []uint8{1, 1}
	codes := []uint32{0, 0}
	if _, err := NewDecodeTree(lengths, codes); err != ErrBadCodeLengths {
		t.Fatalf("want ErrBadCodeLengths for overlapping codes, got %v", err)
	}
}

func TestDecodeTreeTruncatedStream(t *testing.T) {
	hist := []uint32{1, 1, 1, 1}
	code, err := BuildTree(hist)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	tree, err := NewDecodeTree(code.CodeLengths, code.Codes)
	if err != nil {
		t.Fatalf("NewDecodeTree: %v", err)
	}
	// An all-zero single byte may or may not walk to a valid leaf depending
	// on tree shape; instead feed an empty reader to force truncation.
	r := bitio.NewReader(nil)
	if _, err := tree.ReadSymbol(r); err != ErrTruncatedInput {
		t.Fatalf("want ErrTruncatedInput, got %v", err)
	}
}

func TestDecodeTreeSingleSymbolDecodesCodeZero(t *testing.T) {
	hist := make([]uint32, 4)
	hist[1] = 9
	code, err := BuildTree(hist)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	tree, err := NewDecodeTree(code.CodeLengths, code.Codes)
	if err != nil {
		t.Fatalf("NewDecodeTree: %v", err)
	}
	w := bitio.NewWriter(1)
	w.WriteBits(0, 1)
	w.Flush()
	r := bitio.NewReader(w.Bytes())
	got, err := tree.ReadSymbol(r)
	if err != nil {
		t.Fatalf("ReadSymbol: %v", err)
	}
	if got != 1 {
		t.Fatalf("want symbol 1, got %d", got)
	}
}
