package huffman

import "testing"

func TestBuildTreeEmptyHistogram(t *testing.T) {
	code, err := BuildTree(make([]uint32, 8))
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	for sym, l := range code.CodeLengths {
		if l != 0 {
			t.Fatalf("symbol %d: want length 0, got %d", sym, l)
		}
	}
}

func TestBuildTreeSingleSymbol(t *testing.T) {
	hist := make([]uint32, 4)
	hist[2] = 100
	code, err := BuildTree(hist)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if code.CodeLengths[2] != 1 {
		t.Fatalf("want code length 1 for the only symbol, got %d", code.CodeLengths[2])
	}
	if code.Codes[2] != 0 {
		t.Fatalf("want code 0 for the only symbol, got %d", code.Codes[2])
	}
}

func TestBuildTreeIsPrefixFree(t *testing.T) {
	hist := []uint32{10, 1, 1, 1, 1, 1, 1, 1}
	code, err := BuildTree(hist)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if _, err := NewDecodeTree(code.CodeLengths, code.Codes); err != nil {
		t.Fatalf("resulting code lengths did not form a valid tree: %v", err)
	}
}

func TestAssignCanonicalCodesOrdering(t *testing.T) {
	// Classic RFC-1951 example: lengths 3,3,3,3,3,2,4,4 for symbols A..H.
	code := &Code{
		NumSymbols:  8,
		CodeLengths: []uint8{3, 3, 3, 3, 3, 2, 4, 4},
		Codes:       make([]uint32, 8),
	}
	assignCanonicalCodes(code)
	want := []uint32{2, 3, 4, 5, 6, 0, 14, 15}
	for i, w := range want {
		if code.Codes[i] != w {
			t.Errorf("symbol %d: want code %d, got %d", i, w, code.Codes[i])
		}
	}
}

func TestBuildTreeRespectsMaxCodeLength(t *testing.T) {
	// A Fibonacci-weighted histogram is the classic way to force maximal
	// Huffman tree depth; verify the countMin-doubling retry keeps every
	// resulting code length within bounds regardless.
	n := 40
	hist := make([]uint32, n)
	a, b := uint32(1), uint32(1)
	for i := 0; i < n; i++ {
		hist[i] = a
		a, b = b, a+b
	}
	code, err := BuildTree(hist)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	for sym, l := range code.CodeLengths {
		if int(l) > MaxCodeLength {
			t.Fatalf("symbol %d: code length %d exceeds MaxCodeLength %d", sym, l, MaxCodeLength)
		}
	}
}

func TestBuildTreeManySymbolsUniform(t *testing.T) {
	hist := make([]uint32, 286)
	for i := range hist {
		hist[i] = 1
	}
	code, err := BuildTree(hist)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if _, err := NewDecodeTree(code.CodeLengths, code.Codes); err != nil {
		t.Fatalf("uniform histogram did not yield a valid tree: %v", err)
	}
}
