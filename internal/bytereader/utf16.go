// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package bytereader

import (
	"math"
	"unicode/utf16"
)

func decodeUTF16(units []uint16) string {
	if len(units) == 0 {
		return ""
	}
	return string(utf16.Decode(units))
}

// DecodeF32 reinterprets a little-endian-decoded u32 as an IEEE-754 float32,
// the layout CAMF matrix entries and header adjustment values use on disk.
func DecodeF32(bits uint32) float32 {
	return math.Float32frombits(bits)
}
