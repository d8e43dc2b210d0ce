// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package classichuff decodes the classic Huffman raw/thumbnail codec:
// X3F type=2 format=11 and type=3 format=6 (x530 and 10-bit variants).
// A single shared trie is walked bit-by-bit to a leaf over a
// row-addressed, three-plane-interleaved layout, with an optional 10-bit
// value-mapping table on top.
package classichuff

import (
	"fmt"

	"github.com/sigmafoveon/x3fcore/internal/bitio"
	"github.com/sigmafoveon/x3fcore/internal/huffman"
)

// BuildTrie decodes the 32-bit packed coding-table words used on disk (high
// byte = code length, low 24 bits = code, right-justified) into a trie.
// A zero word means "unused slot" and is skipped rather than inserted.
func BuildTrie(words []uint32, mapping []uint16) (*huffman.Trie, error) {
	totalBits := 0
	for _, w := range words {
		if w != 0 {
			totalBits += int(w >> 24)
		}
	}
	trie := huffman.NewTrie(totalBits)
	for i, w := range words {
		if w == 0 {
			continue
		}
		length := uint8(w >> 24)
		code := w & 0x00ffffff
		symbol := uint32(i)
		if mapping != nil {
			if i >= len(mapping) {
				return nil, fmt.Errorf("classichuff: symbol %d outside %d-entry mapping table: %w", i, len(mapping), huffman.ErrMalformedTable)
			}
			symbol = uint32(mapping[i])
		}
		if err := trie.Insert(code, length, symbol); err != nil {
			return nil, err
		}
	}
	return trie, nil
}

// Decode reconstructs rows*columns*3 samples, pixel-interleaved row-major,
// at either 1 or 2 bytes per sample (sixteenBit selects the width). For the
// 2-byte path the leaf value is a signed prediction delta against the
// left neighbor in the same plane and row (seeded at 0 for column 0); for
// the 1-byte path the leaf value is the direct sample, no prediction.
//
// If mapping is non-nil it was already folded into the trie's leaf values
// by BuildTrie, so Decode doesn't need to know about it here.
func Decode(data []byte, rowOffsets []uint32, columns, rows int, trie *huffman.Trie, sixteenBit bool) ([]byte, error) {
	if len(rowOffsets) != rows {
		return nil, fmt.Errorf("classichuff: %d row offsets for %d rows", len(rowOffsets), rows)
	}

	elemWidth := 1
	if sixteenBit {
		elemWidth = 2
	}
	out := make([]byte, rows*columns*3*elemWidth)

	for row := 0; row < rows; row++ {
		off := rowOffsets[row]
		if int(off) > len(data) {
			return nil, fmt.Errorf("classichuff: row %d offset %d beyond %d bytes of data", row, off, len(data))
		}
		br := bitio.NewClassic(data[off:])

		var predictor [3]int32
		rowBase := row * columns * 3 * elemWidth
		for col := 0; col < columns; col++ {
			for plane := 0; plane < 3; plane++ {
				sym, err := trie.Decode(br)
				if err != nil {
					return nil, fmt.Errorf("classichuff: row %d col %d plane %d: %w", row, col, plane, err)
				}

				idx := rowBase + (col*3+plane)*elemWidth
				if sixteenBit {
					delta := signExtend(sym)
					predictor[plane] += delta
					sample := predictor[plane]
					if sample < 0 {
						sample = 0
					}
					out[idx] = byte(sample)
					out[idx+1] = byte(sample >> 8)
				} else {
					out[idx] = byte(sym)
				}
			}
		}
	}
	return out, nil
}

// signExtend treats sym as the raw leaf value stored for the 10-bit delta
// path: the coding table's symbol values are taken directly as signed
// 16-bit deltas.
func signExtend(sym uint32) int32 {
	return int32(int16(sym))
}
