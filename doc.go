// Package defc implements a DEFLATE-like compressor and decompressor: LZ77
// back-references over a 32 KiB window, encoded with two canonical Huffman
// trees (literal/length and distance), whose code-length description is
// itself run-length encoded and Huffman-coded with a third tree. The
// container header and code-length framing are custom; streams produced
// here are not compatible with standard DEFLATE.
package defc
