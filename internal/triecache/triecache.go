// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package triecache is a bounded cache of built Huffman tries, keyed by a
// fingerprint of the raw coding table they were built from. A container
// can repeat identical CAMF block tables and identical classic/TRUE
// coding tables across its directory entries; rebuilding the same trie
// from scratch every time is wasted work. xxhash supplies the key,
// tinylfu the admission policy.
package triecache

import (
	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"

	"github.com/sigmafoveon/x3fcore/internal/huffman"
)

// Fingerprint hashes a raw coding table (the classic 32-bit word table, a
// TRUE (length,value) byte sequence, or a CAMF type-4 block table) into a
// cache key.
func Fingerprint(rawTable []byte) uint64 {
	return xxhash.Sum64(rawTable)
}

// Cache holds the tries of one container: package x3f creates a new Cache
// for every opened File, so tries are shared across that File's directory
// entries and not across files.
type Cache struct {
	t *tinylfu.T[uint64, *huffman.Trie]
}

// New creates a cache admitting up to size distinct tries.
func New(size int) *Cache {
	if size <= 0 {
		size = 256
	}
	return &Cache{
		t: tinylfu.New[uint64, *huffman.Trie](size, size*10, identity),
	}
}

func identity(k uint64) uint64 { return k }

// Get returns the cached trie for fp, if any.
func (c *Cache) Get(fp uint64) (*huffman.Trie, bool) {
	if c == nil {
		return nil, false
	}
	return c.t.Get(fp)
}

// Add admits trie under key fp.
func (c *Cache) Add(fp uint64, trie *huffman.Trie) {
	if c == nil {
		return
	}
	c.t.Add(fp, trie)
}
