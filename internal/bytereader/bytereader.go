// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package bytereader implements a positioned random-access reader over an
// X3F input, with the little-endian integer and UTF-16LE primitives the
// rest of the container decoder needs. All seeks are absolute so that the
// directory-first traversal in package x3f can jump straight to any
// section without re-reading what comes before it.
package bytereader

import (
	"errors"
	"fmt"
	"io"
)

// ErrTruncated is wrapped into every short read.
var ErrTruncated = errors.New("truncated input")

// Reader is not safe for concurrent use; callers serialize access the same
// way the container above it is single-threaded (see package x3f).
type Reader struct {
	src  io.ReaderAt
	pos  int64
	size int64
}

// New wraps src, which must report size bytes of readable content.
func New(src io.ReaderAt, size int64) *Reader {
	return &Reader{src: src, size: size}
}

func (r *Reader) Size() int64 { return r.size }

func (r *Reader) Tell() int64 { return r.pos }

func (r *Reader) Seek(abs int64) error {
	if abs < 0 || abs > r.size {
		return fmt.Errorf("bytereader: seek to %d out of range [0,%d]: %w", abs, r.size, ErrTruncated)
	}
	r.pos = abs
	return nil
}

// ReadBytes reads exactly n bytes and advances the cursor. The length
// check against the remaining file size runs before the allocation, so a
// section header claiming an oversized n fails here instead of
// allocating.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if r.pos+int64(n) > r.size {
		return nil, fmt.Errorf("bytereader: read %d bytes at %d exceeds size %d: %w", n, r.pos, r.size, ErrTruncated)
	}
	buf := make([]byte, n)
	if _, err := r.src.ReadAt(buf, r.pos); err != nil {
		return nil, fmt.Errorf("bytereader: read at %d: %w", r.pos, err)
	}
	r.pos += int64(n)
	return buf, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func (r *Reader) ReadF32() (float32, error) {
	u, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return DecodeF32(u), nil
}

// ReadUTF16NulTerminated reads UTF-16LE code units, stopping at the 0x0000
// terminator, up to maxBytes of source data. It returns an error if the
// terminator isn't found before maxBytes is exhausted; that error wraps
// no sentinel of this package.
func (r *Reader) ReadUTF16NulTerminated(maxBytes int) (string, error) {
	units := make([]uint16, 0, maxBytes/2)
	for n := 0; n < maxBytes; n += 2 {
		u, err := r.ReadU16()
		if err != nil {
			return "", err
		}
		if u == 0 {
			return DecodeUTF16(units), nil
		}
		units = append(units, u)
	}
	return "", fmt.Errorf("bytereader: utf16 string not terminated within %d bytes", maxBytes)
}

// DecodeUTF16 converts UTF-16LE code units (already byte-order-decoded) to
// a Go string, same as ReadUTF16NulTerminated's inner conversion.
func DecodeUTF16(units []uint16) string {
	return decodeUTF16(units)
}

// DecodeUTF16LEBytes reads UTF-16LE code units from a NUL-terminated byte
// slice at offset off, stopping at the terminator or the slice end.
func DecodeUTF16LEBytes(b []byte, off int) (string, int, error) {
	var units []uint16
	i := off
	for {
		if i+2 > len(b) {
			return "", i, fmt.Errorf("bytereader: utf16 string runs past end of buffer at %d: %w", i, ErrTruncated)
		}
		u := uint16(b[i]) | uint16(b[i+1])<<8
		i += 2
		if u == 0 {
			return decodeUTF16(units), i, nil
		}
		units = append(units, u)
	}
}
