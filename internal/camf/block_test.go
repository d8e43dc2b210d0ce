// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package camf

import (
	"testing"

	"github.com/sigmafoveon/x3fcore/internal/truecodec"
)

func TestDecodeBlocksLength(t *testing.T) {
	// One symbol, run length 0, always a zero difference: every block's
	// running value stays at decodeBias, masked afterward.
	table := []truecodec.HuffmanElement{{CodeSize: 1, Code: 0}}
	trie, err := truecodec.BuildTrie(table)
	if err != nil {
		t.Fatal(err)
	}
	data := make([]byte, 32) // plenty of padding words for 6 symbols

	out, err := DecodeBlocks(data, trie, 6, 10, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 6 {
		t.Fatalf("decoded length = %d, want 6", len(out))
	}
}

func TestDecodeBlocksSizeMismatchRejected(t *testing.T) {
	table := []truecodec.HuffmanElement{{CodeSize: 1, Code: 0}}
	trie, err := truecodec.BuildTrie(table)
	if err != nil {
		t.Fatal(err)
	}
	data := make([]byte, 32)
	if _, err := DecodeBlocks(data, trie, 7, 0, 2, 3); err == nil {
		t.Fatal("expected block_size*block_count mismatch error")
	}
}
