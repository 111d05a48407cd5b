// Package lzmatch implements the greedy longest-match LZ77 search over a
// 32 KiB sliding window (§4.3): at each input position it either finds a
// back-reference of length >= 3 into the already-scanned window, or falls
// back to a literal byte.
package lzmatch

// Kind distinguishes the three token shapes that can appear in an LZ77
// token stream.
type Kind uint8

const (
	// KindLiteral carries a single raw byte.
	KindLiteral Kind = iota
	// KindMatch carries a length/distance back-reference.
	KindMatch
	// KindEnd marks the end of the stream (appears exactly once, last).
	KindEnd
)

// Token is one element of the LZ77 token stream: a literal byte, a
// length/distance back-reference, or the end-of-stream marker.
//
// Reference: libwebp's PixOrCopy tags a mode byte alongside a packed
// value/distance field; this is the same shape generalized to raw bytes
// instead of ARGB pixels.
type Token struct {
	kind     Kind
	literal  byte
	length   uint16
	distance uint32
}

// Literal creates a literal-byte token.
func Literal(b byte) Token { return Token{kind: KindLiteral, literal: b} }

// Match creates a length/distance back-reference token.
func Match(length, distance int) Token {
	return Token{kind: KindMatch, length: uint16(length), distance: uint32(distance)}
}

// End creates the end-of-stream token.
func End() Token { return Token{kind: KindEnd} }

// Kind returns the token's shape.
func (t Token) Kind() Kind { return t.kind }

// Byte returns the literal byte. Only valid when Kind() == KindLiteral.
func (t Token) Byte() byte { return t.literal }

// Length returns the match length. Only valid when Kind() == KindMatch.
func (t Token) Length() int { return int(t.length) }

// Distance returns the match distance. Only valid when Kind() == KindMatch.
func (t Token) Distance() int { return int(t.distance) }
