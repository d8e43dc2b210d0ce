// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package truecodec decodes the TRUE codec used by Merrill (type=1
// fmt=30) and Quattro (type=1 fmt=35) raw images: three independently
// decoded planes, each run-length/difference Huffman coded and
// reconstructed against a pair of interleaved even/odd-column
// predictors, fed by the word-swapped TRUE reader in package bitio.
package truecodec

import (
	"fmt"

	"github.com/sigmafoveon/x3fcore/internal/bitio"
	"github.com/sigmafoveon/x3fcore/internal/huffman"
)

// HuffmanElement is one (length, code) entry of the TRUE table, (0,0)
// terminated.
type HuffmanElement struct {
	CodeSize uint8
	Code     uint8
}

// BuildTrie constructs the trie the three planes of a Merrill or Quattro
// image share from a TRUE table. Symbols are the element's position in table; on
// disk each code is left-justified within its byte, so it is shifted
// down to CodeSize bits before insertion.
func BuildTrie(table []HuffmanElement) (*huffman.Trie, error) {
	totalBits := 0
	for _, e := range table {
		totalBits += int(e.CodeSize)
	}
	trie := huffman.NewTrie(totalBits)
	for i, e := range table {
		if e.CodeSize == 0 || e.CodeSize > 8 {
			continue
		}
		code := uint32(e.Code) >> (8 - e.CodeSize)
		if err := trie.Insert(code, e.CodeSize, uint32(i)); err != nil {
			return nil, err
		}
	}
	return trie, nil
}

// Predictors holds the even/odd-column accumulators for one plane,
// maintained independently because the sensor's Bayer-like spacing means
// adjacent columns are uncorrelated samples.
type Predictors struct {
	even, odd int32
}

// NewPredictors seeds both tracks with seed (512 on every known Merrill
// file; Quattro supplies per-plane seeds the same way).
func NewPredictors(seed uint16) Predictors {
	return Predictors{even: int32(seed), odd: int32(seed)}
}

// DecodePlane reconstructs one rows x columns 16-bit plane from data,
// which must already be positioned at the plane's base address (callers
// slice the shared payload per plane by the cumulative plane sizes).
// trie is the image's trie, shared by all three planes.
func DecodePlane(data []byte, trie *huffman.Trie, columns, rows int, seed uint16) ([]uint16, error) {
	out := make([]uint16, columns*rows)
	br := bitio.NewTrue(data)
	pred := NewPredictors(seed)

	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			runLen, err := trie.Decode(br)
			if err != nil {
				return nil, fmt.Errorf("truecodec: row %d col %d: run length: %w", row, col, err)
			}
			if runLen > 14 {
				return nil, fmt.Errorf("truecodec: row %d col %d: run length %d out of range", row, col, runLen)
			}
			diff, err := decodeDifference(br, uint(runLen))
			if err != nil {
				return nil, fmt.Errorf("truecodec: row %d col %d: difference: %w", row, col, err)
			}

			parity := col & 1
			var prev int32
			if parity == 0 {
				prev = pred.even
			} else {
				prev = pred.odd
			}
			sample := prev + diff
			if parity == 0 {
				pred.even = sample
			} else {
				pred.odd = sample
			}

			if sample < 0 {
				sample = 0
			}
			out[row*columns+col] = uint16(sample)
		}
		br.Realign()
	}
	return out, nil
}

// decodeDifference reads an L-bit two's-complement-ish difference: a zero
// run length always means a zero difference; otherwise the top bit read
// determines the sign: when clear, D = value - ((1<<L)-1).
func decodeDifference(br *bitio.True, length uint) (int32, error) {
	if length == 0 {
		return 0, nil
	}
	bits, err := br.Take(length)
	if err != nil {
		return 0, err
	}
	topBit := (bits >> (length - 1)) & 1
	value := int32(bits)
	if topBit == 0 {
		value -= (1 << length) - 1
	}
	return value, nil
}
