// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package truecodec

import (
	"testing"

	"github.com/sigmafoveon/x3fcore/internal/bitio"
)

func TestDecodeDifferenceSigns(t *testing.T) {
	cases := []struct {
		length uint
		bits   uint32
		want   int32
	}{
		{0, 0, 0},
		{2, 0b11, 3},             // top bit set -> diff = value
		{3, 0b101, 5},            // top bit set -> diff = value
		{3, 0b011, 3 - (1<<3 - 1)}, // top bit clear -> diff = value - (2^L-1)
	}
	for _, c := range cases {
		br := bitio.NewTrue(packMSB(c.bits, c.length))
		got, err := decodeDifference(br, c.length)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("length=%d bits=%b: got %d, want %d", c.length, c.bits, got, c.want)
		}
	}
}

// TestDecodePlaneIndependentPredictors decodes a single-plane
// 2-column-by-1-row stream with seeds (512,512) and deltas (+3, +5),
// expecting samples (515, 517) because even and odd predictors are
// independent.
func TestDecodePlaneIndependentPredictors(t *testing.T) {
	// Run length 2 coded "0", run length 3 coded "10"; an L-bit difference
	// whose top bit is set is taken as its value directly, so run length 2
	// yields +3 via a 2-bit value 0b11, and run length 3 yields +5 via a
	// 3-bit value 0b101.
	table := make([]HuffmanElement, 4)
	table[2] = HuffmanElement{CodeSize: 1, Code: 0b0 << 7}
	table[3] = HuffmanElement{CodeSize: 2, Code: 0b10 << 6}
	trie, err := BuildTrie(table)
	if err != nil {
		t.Fatal(err)
	}

	data := packBitString("0" + "11" + "10" + "101")

	out, err := DecodePlane(data, trie, 2, 1, 512)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 515 || out[1] != 517 {
		t.Fatalf("got (%d,%d), want (515,517)", out[0], out[1])
	}
}

func TestDecodePlaneOutputLength(t *testing.T) {
	table := make([]HuffmanElement, 1)
	table[0] = HuffmanElement{CodeSize: 1, Code: 0}
	trie, err := BuildTrie(table)
	if err != nil {
		t.Fatal(err)
	}
	// Every symbol decodes to run length 0 (zero difference), so any
	// sufficiently long all-zero bitstream satisfies 3x3 columns*rows.
	data := make([]byte, 32)
	out, err := DecodePlane(data, trie, 3, 3, 512)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 9 {
		t.Fatalf("plane length = %d, want 9", len(out))
	}
}

// packBitString packs a string of '0'/'1' into bytes arranged the way
// bitio.True expects: each 32-bit group is little-endian-assembled then
// read MSB-first, so a logically MSB-first bitstream must be byte-swapped
// within each 4-byte word before storage.
func packBitString(bits string) []byte {
	for len(bits)%32 != 0 {
		bits += "0"
	}
	out := make([]byte, len(bits)/8)
	for i, c := range bits {
		if c == '1' {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	for w := 0; w+4 <= len(out); w += 4 {
		out[w], out[w+1], out[w+2], out[w+3] = out[w+3], out[w+2], out[w+1], out[w]
	}
	return out
}

// packMSB left-justifies length bits of a value into one word-swapped
// 32-bit word, so bitio.NewTrue().Take(length) reads exactly bits back.
func packMSB(bits uint32, length uint) []byte {
	word := bits << (32 - length)
	return []byte{byte(word), byte(word >> 8), byte(word >> 16), byte(word >> 24)}
}
