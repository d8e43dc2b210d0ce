// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package camf

import (
	"fmt"

	"github.com/sigmafoveon/x3fcore/internal/bitio"
	"github.com/sigmafoveon/x3fcore/internal/huffman"
)

// DecodeBlocks implements the type-4 block codec: a TRUE-style
// (length,value) Huffman table decodes block_count blocks of block_size
// running-value differences each, reconstructed against decodeBias, then
// a second additive-mask pass recovers the final plaintext bytes.
//
// Type-5 decodes through the exact same function: neither the type-4 nor
// type-5 header carries a crypt_key (only type-2's does), so both run
// the Huffman block decode and the bias pass, and neither applies
// DecryptType2.
func DecodeBlocks(payload []byte, trie *huffman.Trie, decodedSize int, decodeBias uint32, blockSize, blockCount int) ([]byte, error) {
	if blockSize*blockCount != decodedSize {
		return nil, fmt.Errorf("camf: block_size*block_count (%d*%d) != decoded_data_size %d", blockSize, blockCount, decodedSize)
	}

	out := make([]byte, 0, decodedSize)
	br := bitio.NewTrue(payload)
	for b := 0; b < blockCount; b++ {
		v := int64(decodeBias)
		for i := 0; i < blockSize; i++ {
			delta, err := decodeBlockDelta(br, trie)
			if err != nil {
				return nil, fmt.Errorf("camf: block %d sample %d: %w", b, i, err)
			}
			v += int64(delta)
			out = append(out, byte(v))
		}
	}

	applyBiasMask(out, decodeBias)

	if len(out) != decodedSize {
		return nil, fmt.Errorf("camf: decoded %d bytes, want %d: %w", len(out), decodedSize, ErrCipherInconsistency)
	}
	return out, nil
}

// decodeBlockDelta reuses the TRUE codec's run-length+difference shape: a
// Huffman symbol names the bit width of a following signed difference.
func decodeBlockDelta(br *bitio.True, trie *huffman.Trie) (int32, error) {
	runLen, err := trie.Decode(br)
	if err != nil {
		return 0, err
	}
	if runLen == 0 {
		return 0, nil
	}
	if runLen > 32 {
		return 0, fmt.Errorf("camf: run length %d out of range", runLen)
	}
	bits, err := br.Take(uint(runLen))
	if err != nil {
		return 0, err
	}
	topBit := (bits >> (runLen - 1)) & 1
	value := int32(bits)
	if topBit == 0 {
		value -= int32(1<<runLen) - 1
	}
	return value, nil
}

// applyBiasMask is the second pass over the reconstructed bytes: each
// output byte is adjusted by the low byte of a counter seeded at
// decodeBias and incrementing once per byte. Required to produce valid
// CAMF bytes.
func applyBiasMask(out []byte, decodeBias uint32) {
	c := decodeBias
	for i := range out {
		out[i] -= byte(c)
		c++
	}
}
