// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package proplist decodes the top-level PROP section: a header followed
// by (name_offset, value_offset) pairs addressing a trailing UTF-16LE
// character pool.
package proplist

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sigmafoveon/x3fcore/internal/bytereader"
)

// ErrMalformedProperty covers an unterminated string within the pool.
var ErrMalformedProperty = errors.New("proplist: malformed property string")

// Pair is one decoded (name, value) property, both UTF-8.
type Pair struct {
	Name  string
	Value string
}

const headerSize = 16 // count, character_format, reserved, total_length, all u32

// Decode parses a PROP section payload (the bytes following the SECp
// submagic) into its ordered list of name/value pairs.
func Decode(payload []byte) ([]Pair, error) {
	if len(payload) < headerSize {
		return nil, fmt.Errorf("%w: header truncated, got %d bytes", bytereader.ErrTruncated, len(payload))
	}
	count := binary.LittleEndian.Uint32(payload[0:])
	// characterFormat and reserved are carried for completeness but every
	// known file uses UTF-16LE; totalLength bounds the pool.
	totalLength := binary.LittleEndian.Uint32(payload[12:])

	pairsStart := headerSize
	pairsEnd := pairsStart + int(count)*8
	if pairsEnd > len(payload) {
		return nil, fmt.Errorf("%w: %d pairs exceed payload of %d bytes", bytereader.ErrTruncated, count, len(payload))
	}

	poolStart := pairsEnd
	poolEnd := poolStart + int(totalLength)
	if poolEnd > len(payload) {
		poolEnd = len(payload)
	}
	pool := payload[poolStart:poolEnd]

	pairs := make([]Pair, 0, count)
	for i := uint32(0); i < count; i++ {
		pos := pairsStart + int(i)*8
		nameOff := binary.LittleEndian.Uint32(payload[pos:])
		valueOff := binary.LittleEndian.Uint32(payload[pos+4:])

		name, err := readPoolString(pool, nameOff)
		if err != nil {
			return nil, fmt.Errorf("property %d name: %w", i, err)
		}
		value, err := readPoolString(pool, valueOff)
		if err != nil {
			return nil, fmt.Errorf("property %d value: %w", i, err)
		}
		pairs = append(pairs, Pair{Name: name, Value: value})
	}
	return pairs, nil
}

// readPoolString locates a UTF-16LE string at pool + 2*offset, reading
// until the 0x0000 terminator. An empty string (terminator at position
// zero) is valid; running off the end of the pool without finding one
// is MalformedProperty.
func readPoolString(pool []byte, offset uint32) (string, error) {
	start := int(offset) * 2
	if start > len(pool) {
		return "", fmt.Errorf("%w: offset %d outside pool of %d bytes", ErrMalformedProperty, offset, len(pool))
	}
	s, _, err := bytereader.DecodeUTF16LEBytes(pool, start)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedProperty, err)
	}
	return s, nil
}
