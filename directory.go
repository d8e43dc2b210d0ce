// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package x3f

import (
	"fmt"

	"github.com/sigmafoveon/x3fcore/internal/bytereader"
)

const (
	magicSECd = 0x64434553

	submagicSECp = 0x70434553
	submagicSECi = 0x69434553
	submagicSECc = 0x63434553

	tagPROP = 0x504F5250
	tagIMAG = 0x47414D49
	tagIMA2 = 0x32414D49
	tagCAMF = 0x464D4143

	directoryEntryHeaderSize = 12 // offset, size, tag, all u32
)

// SectionKind is the directory entry's type-tag, restricted to the three
// kinds the container actually carries.
type SectionKind int

const (
	SectionUnknown SectionKind = iota
	SectionProperty
	SectionImage
	SectionCAMF
)

// Name renders a SectionKind the way the on-disk tag prints, for
// diagnostics; dispatch elsewhere always uses the numeric tag, never
// this string.
func (k SectionKind) Name() string {
	switch k {
	case SectionProperty:
		return "PROP"
	case SectionImage:
		return "IMAG/IMA2"
	case SectionCAMF:
		return "CAMF"
	default:
		return "UNKNOWN"
	}
}

// DirEntry is one directory record: where a section lives and what kind
// it is, without its payload loaded yet.
type DirEntry struct {
	Offset int64
	Size   int64
	Tag    uint32
	Kind   SectionKind

	loaded  bool
	loadErr error
	decoded any
}

func tagToKind(tag uint32) SectionKind {
	switch tag {
	case tagPROP:
		return SectionProperty
	case tagIMAG, tagIMA2:
		return SectionImage
	case tagCAMF:
		return SectionCAMF
	default:
		return SectionUnknown
	}
}

// readDirectory seeks to the trailing 4-byte offset (or opts.LegacyOffset
// if set), verifies SECd, and reads every entry without loading payloads.
func readDirectory(r *bytereader.Reader, opts *DecodeOptions) ([]DirEntry, error) {
	dirOffset, err := locateDirectory(r, opts)
	if err != nil {
		return nil, err
	}

	if err := r.Seek(dirOffset); err != nil {
		return nil, classify("seeking to directory", err)
	}
	magic, err := r.ReadU32()
	if err != nil {
		return nil, classify("reading directory magic", err)
	}
	if magic != magicSECd {
		return nil, wrapErr(KindMalformedHeader, fmt.Sprintf("directory magic %#08x at %d, want SECd", magic, dirOffset), nil)
	}
	if _, err := r.ReadU32(); err != nil { // directory version, unused by this decoder
		return nil, classify("reading directory version", err)
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, classify("reading directory entry count", err)
	}

	entries := make([]DirEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		off, err := r.ReadU32()
		if err != nil {
			return nil, classify(fmt.Sprintf("reading entry %d offset", i), err)
		}
		size, err := r.ReadU32()
		if err != nil {
			return nil, classify(fmt.Sprintf("reading entry %d size", i), err)
		}
		tag, err := r.ReadU32()
		if err != nil {
			return nil, classify(fmt.Sprintf("reading entry %d tag", i), err)
		}
		if int64(off)+int64(size) > r.Size() {
			return nil, wrapErr(KindMalformedSection, fmt.Sprintf("entry %d [%d,%d) exceeds file size %d", i, off, off+size, r.Size()), nil)
		}
		entries = append(entries, DirEntry{Offset: int64(off), Size: int64(size), Tag: tag, Kind: tagToKind(tag)})
	}

	if err := verifyNonOverlapping(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func verifyNonOverlapping(entries []DirEntry) error {
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			if a.Offset < b.Offset+b.Size && b.Offset < a.Offset+a.Size {
				return wrapErr(KindMalformedSection, fmt.Sprintf("entries %d and %d overlap", i, j), nil)
			}
		}
	}
	return nil
}

func locateDirectory(r *bytereader.Reader, opts *DecodeOptions) (int64, error) {
	if opts != nil && opts.LegacyOffset != 0 {
		return opts.LegacyOffset, nil
	}
	if err := r.Seek(r.Size() - 4); err != nil {
		return 0, classify("seeking to trailing directory offset", err)
	}
	off, err := r.ReadU32()
	if err != nil {
		return 0, classify("reading trailing directory offset", err)
	}

	if opts != nil && opts.AutoLegacyOffset {
		if ok, _ := magicAt(r, int64(off), magicSECd); !ok {
			if found, scanErr := scanForSECd(r); scanErr == nil {
				opts.logger().Warn("legacyDirectoryOffsetRecovered", "trailerOffset", off, "foundOffset", found)
				return found, nil
			}
		}
	}
	return int64(off), nil
}

func magicAt(r *bytereader.Reader, offset int64, want uint32) (bool, error) {
	if offset < 0 || offset+4 > r.Size() {
		return false, nil
	}
	if err := r.Seek(offset); err != nil {
		return false, err
	}
	got, err := r.ReadU32()
	if err != nil {
		return false, err
	}
	return got == want, nil
}

// scanForSECd is the AutoLegacyOffset fallback: a linear scan for the
// SECd magic, used only when the trailing offset doesn't point at one.
func scanForSECd(r *bytereader.Reader) (int64, error) {
	for offset := int64(0); offset+4 <= r.Size(); offset++ {
		ok, err := magicAt(r, offset, magicSECd)
		if err != nil {
			return 0, err
		}
		if ok {
			return offset, nil
		}
	}
	return 0, wrapErr(KindMalformedHeader, "no SECd magic found by legacy scan", nil)
}
