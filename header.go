// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package x3f

import (
	"fmt"

	"github.com/sigmafoveon/x3fcore/internal/bytereader"
)

const (
	magicFOVb = 0x62564F46

	versionMask2x = 0x00020000 // major == 2

	whiteBalanceLabelSize = 32
	adjustmentEntryCount  = 32
	headerUniqueIDSize    = 16
)

// AdjustmentKind tags one slot of the parallel user-adjustment arrays
// carried by version 2.1 and later headers.
type AdjustmentKind byte

const (
	AdjustmentNone AdjustmentKind = iota
	AdjustmentExposure
	AdjustmentContrast
	AdjustmentShadow
	AdjustmentHighlight
	AdjustmentSaturation
	AdjustmentSharpness
	AdjustmentRed
	AdjustmentGreen
	AdjustmentBlue
	AdjustmentFill
)

// Adjustment is one (kind, value) slot; AdjustmentNone slots are unused
// and carried verbatim rather than filtered out.
type Adjustment struct {
	Kind  AdjustmentKind
	Value float32
}

// Header is the parsed FOVb fixed header.
type Header struct {
	Version      uint32
	UniqueID     [headerUniqueIDSize]byte
	MarkBits     uint32
	Columns      uint32
	Rows         uint32
	Rotation     uint32
	WhiteBalance string // empty for version < 2.1
	Adjustments  []Adjustment
}

// VersionMajor and VersionMinor split the packed major<<16|minor field.
func (h *Header) VersionMajor() uint32 { return h.Version >> 16 }
func (h *Header) VersionMinor() uint32 { return h.Version & 0xFFFF }

func readHeader(r *bytereader.Reader) (*Header, error) {
	if err := r.Seek(0); err != nil {
		return nil, classify("seeking to header", err)
	}
	magic, err := r.ReadU32()
	if err != nil {
		return nil, classify("reading header magic", err)
	}
	if magic != magicFOVb {
		return nil, wrapErr(KindMalformedHeader, fmt.Sprintf("bad magic %#08x, want FOVb", magic), nil)
	}

	version, err := r.ReadU32()
	if err != nil {
		return nil, classify("reading version", err)
	}
	if version&0xFFFF0000 != versionMask2x {
		return nil, wrapErr(KindUnsupportedVersion, fmt.Sprintf("major version %#04x not recognized", version>>16), nil)
	}

	h := &Header{Version: version}

	idBytes, err := r.ReadBytes(headerUniqueIDSize)
	if err != nil {
		return nil, classify("reading unique id", err)
	}
	copy(h.UniqueID[:], idBytes)

	if h.MarkBits, err = r.ReadU32(); err != nil {
		return nil, classify("reading mark bits", err)
	}
	if h.Columns, err = r.ReadU32(); err != nil {
		return nil, classify("reading pre-rotation columns", err)
	}
	if h.Rows, err = r.ReadU32(); err != nil {
		return nil, classify("reading pre-rotation rows", err)
	}
	if h.Rotation, err = r.ReadU32(); err != nil {
		return nil, classify("reading rotation", err)
	}
	switch h.Rotation {
	case 0, 90, 180, 270:
	default:
		return nil, wrapErr(KindMalformedHeader, fmt.Sprintf("rotation %d not in {0,90,180,270}", h.Rotation), nil)
	}

	if version&0xFFFF >= 1 { // 2.1 and later
		wbBytes, err := r.ReadBytes(whiteBalanceLabelSize)
		if err != nil {
			return nil, classify("reading white balance label", err)
		}
		h.WhiteBalance = trimNulString(wbBytes)

		h.Adjustments, err = readAdjustments(r)
		if err != nil {
			return nil, err
		}
	}

	return h, nil
}

func readAdjustments(r *bytereader.Reader) ([]Adjustment, error) {
	kinds := make([]AdjustmentKind, adjustmentEntryCount)
	for i := range kinds {
		b, err := r.ReadU8()
		if err != nil {
			return nil, classify("reading adjustment kind", err)
		}
		kinds[i] = AdjustmentKind(b)
	}
	adjustments := make([]Adjustment, adjustmentEntryCount)
	for i := range adjustments {
		v, err := r.ReadF32()
		if err != nil {
			return nil, classify("reading adjustment value", err)
		}
		adjustments[i] = Adjustment{Kind: kinds[i], Value: v}
	}
	return adjustments, nil
}

func trimNulString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
