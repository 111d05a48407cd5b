// Package huffman builds and serializes canonical Huffman codes over the
// codec's three alphabets (literal/length, distance, code-length), and
// reconstructs a decode tree from a received code-length vector.
//
// Construction follows RFC-1951 §3.2.2: a frequency-ordered priority queue
// merges leaves bottom-up into a binary tree, whose leaf depths become code
// lengths; canonical code values are then assigned purely from those
// lengths so the encoder never has to transmit the codes themselves.
package huffman

import (
	"container/heap"
	"errors"
)

// CodeMaxBits bounds the bl_count/next_code arrays used by the RFC-1951
// canonical numbering procedure.
const CodeMaxBits = 32

// MaxCodeLength is the hard cap on any single code's length. BuildTree
// keeps every length within CodeMaxBits, which lies below this cap.
const MaxCodeLength = 115

// ErrCodeLengthOverflow is returned when a Huffman tree's leaf depth cannot
// be brought within CodeMaxBits.
var ErrCodeLengthOverflow = errors.New("huffman: code length exceeds maximum")

// Code holds a complete canonical Huffman code: for each symbol in the
// alphabet, its code length (0 if unused) and its canonical code value.
type Code struct {
	NumSymbols  int
	CodeLengths []uint8
	Codes       []uint32
}

// treeNode is a node in the scratch tree built during construction: a leaf
// (value >= 0) or an internal node (value == -1, with left/right children
// indexing back into the same pool).
type treeNode struct {
	weight uint32
	value  int
	left   int
	right  int
}

type nodeHeap struct {
	pool    []treeNode
	indices []int
}

func (h *nodeHeap) Len() int { return len(h.indices) }

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.pool[h.indices[i]], h.pool[h.indices[j]]
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	// Ties resolved by insertion order, matching the pool index: the
	// decoder never sees this choice since only lengths cross the wire.
	return h.indices[i] < h.indices[j]
}

func (h *nodeHeap) Swap(i, j int) { h.indices[i], h.indices[j] = h.indices[j], h.indices[i] }

func (h *nodeHeap) Push(x any) { h.indices = append(h.indices, x.(int)) }

func (h *nodeHeap) Pop() any {
	old := h.indices
	n := len(old)
	idx := old[n-1]
	h.indices = old[:n-1]
	return idx
}

// BuildTree builds a canonical Huffman Code from a symbol frequency
// histogram. Symbols with a zero count receive code length 0. The returned
// lengths are guaranteed <= MaxCodeLength, at the cost of re-running the
// tree build with weights clamped to a growing floor (the same technique
// as the reference's GenerateOptimalTree) when necessary.
func BuildTree(histogram []uint32) (*Code, error) {
	numSymbols := len(histogram)
	code := &Code{
		NumSymbols:  numSymbols,
		CodeLengths: make([]uint8, numSymbols),
		Codes:       make([]uint32, numSymbols),
	}

	nonZero := 0
	var onlySymbol int
	for i, c := range histogram {
		if c > 0 {
			nonZero++
			onlySymbol = i
		}
	}
	switch nonZero {
	case 0:
		return code, nil
	case 1:
		code.CodeLengths[onlySymbol] = 1
		code.Codes[onlySymbol] = 0
		return code, nil
	}

	if err := buildTreeAndExtractLengths(histogram, code.CodeLengths); err != nil {
		return nil, err
	}
	assignCanonicalCodes(code)
	return code, nil
}

// buildTreeAndExtractLengths runs the priority-queue merge and DFS-depth
// extraction, re-running with an increasing weight floor if the resulting
// depth would exceed CodeMaxBits, the widest length canonical numbering
// (and the uint32 code values) can represent.
func buildTreeAndExtractLengths(histogram []uint32, codeLengths []uint8) error {
	numSymbols := len(histogram)

	for countMin := uint32(1); ; countMin *= 2 {
		for i := range codeLengths {
			codeLengths[i] = 0
		}

		h := &nodeHeap{pool: make([]treeNode, 0, 2*numSymbols+1)}
		for sym := 0; sym < numSymbols; sym++ {
			if histogram[sym] == 0 {
				continue
			}
			w := histogram[sym]
			if w < countMin {
				w = countMin
			}
			idx := len(h.pool)
			h.pool = append(h.pool, treeNode{weight: w, value: sym, left: -1, right: -1})
			h.indices = append(h.indices, idx)
		}

		if len(h.indices) == 1 {
			codeLengths[h.pool[h.indices[0]].value] = 1
			return nil
		}

		heap.Init(h)
		for h.Len() > 1 {
			l := heap.Pop(h).(int)
			r := heap.Pop(h).(int)
			parent := len(h.pool)
			h.pool = append(h.pool, treeNode{
				weight: h.pool[l].weight + h.pool[r].weight,
				value:  -1,
				left:   l,
				right:  r,
			})
			heap.Push(h, parent)
		}

		maxDepth := assignDepths(h.pool, h.indices[0], 0, codeLengths)
		if maxDepth <= CodeMaxBits {
			return nil
		}
		if countMin > 1<<30 {
			return ErrCodeLengthOverflow
		}
	}
}

// assignDepths walks the tree iteratively (an explicit stack stands in for
// recursion, since depth can in principle approach MaxCodeLength) and
// stamps each leaf's code length to its depth. Returns the maximum depth
// seen.
func assignDepths(pool []treeNode, root, _ int, codeLengths []uint8) int {
	type frame struct {
		node, depth int
	}
	stack := []frame{{root, 0}}
	maxDepth := 0
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &pool[f.node]
		if n.value >= 0 {
			codeLengths[n.value] = uint8(f.depth)
			if f.depth > maxDepth {
				maxDepth = f.depth
			}
			continue
		}
		if n.left >= 0 {
			stack = append(stack, frame{n.left, f.depth + 1})
		}
		if n.right >= 0 {
			stack = append(stack, frame{n.right, f.depth + 1})
		}
	}
	return maxDepth
}

// AssignCanonicalCodes numbers code.Codes from code.CodeLengths alone, per
// RFC-1951 §3.2.2. Exported so the decoder can re-derive the same codes the
// encoder assigned, from a received code-length vector, without the codes
// ever crossing the wire. Returns ErrBadCodeLengths if a length read from a
// (possibly malformed) stream exceeds CodeMaxBits.
func AssignCanonicalCodes(code *Code) error {
	for _, l := range code.CodeLengths {
		if int(l) > CodeMaxBits {
			return ErrBadCodeLengths
		}
	}
	assignCanonicalCodes(code)
	return nil
}

// assignCanonicalCodes numbers codes per RFC-1951 §3.2.2: tally bl_count,
// derive next_code by length, then assign codes to symbols in ascending
// symbol order. Codes are written MSB-first-ready (no bit reversal) since
// the bitstream packs fields most-significant-bit first.
func assignCanonicalCodes(code *Code) {
	var blCount [CodeMaxBits + 1]uint32
	for _, l := range code.CodeLengths {
		if l > 0 {
			blCount[l]++
		}
	}

	var nextCode [CodeMaxBits + 1]uint32
	blCount[0] = 0
	var c uint32
	for b := 1; b <= CodeMaxBits; b++ {
		c = (c + blCount[b-1]) << 1
		nextCode[b] = c
	}

	for sym, l := range code.CodeLengths {
		if l == 0 {
			continue
		}
		code.Codes[sym] = nextCode[l]
		nextCode[l]++
	}
}
