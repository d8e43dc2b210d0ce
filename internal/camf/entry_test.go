// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package camf

import (
	"encoding/binary"
	"testing"
)

func putU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

// cstr renders a CAMF string the way the format stores it: single-byte
// chars with a NUL terminator.
func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func TestParseEntriesEmptyBuffer(t *testing.T) {
	entries, err := ParseEntries(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}

func TestParseTextEntry(t *testing.T) {
	name := cstr("Description")
	text := cstr("hello")

	header := make([]byte, entryHeaderSize)
	nameOff := entryHeaderSize
	valueOff := nameOff + len(name)
	entrySize := valueOff + len(text)

	putU32(header, 0, tagText)
	putU32(header, 4, 1)                 // id
	putU32(header, 12, uint32(entrySize)) // entry_size
	putU32(header, 16, uint32(nameOff))
	putU32(header, 20, uint32(valueOff))

	buf := append(header, name...)
	buf = append(buf, text...)

	entries, err := ParseEntries(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Kind != KindText || e.Name != "Description" || e.Text != "hello" {
		t.Fatalf("got %+v", e)
	}
}

func TestParsePropertyEntry(t *testing.T) {
	name := cstr("Cal")
	makeV := cstr("Make")
	sigma := cstr("Sigma")

	header := make([]byte, entryHeaderSize)
	nameOff := entryHeaderSize
	valueOff := nameOff + len(name)

	// value block: count(4) + 1 pair(8) + pool
	pairsStart := 4
	pool := append(append([]byte{}, makeV...), sigma...)
	valueBlock := make([]byte, pairsStart+8)
	binary.LittleEndian.PutUint32(valueBlock, 1)
	binary.LittleEndian.PutUint32(valueBlock[pairsStart:], uint32(len(valueBlock)))       // nameOff points past header into pool
	binary.LittleEndian.PutUint32(valueBlock[pairsStart+4:], uint32(len(valueBlock)+len(makeV))) // valOff
	valueBlock = append(valueBlock, pool...)

	entrySize := valueOff + len(valueBlock)
	putU32(header, 0, tagProperty)
	putU32(header, 12, uint32(entrySize))
	putU32(header, 16, uint32(nameOff))
	putU32(header, 20, uint32(valueOff))

	buf := append(header, name...)
	buf = append(buf, valueBlock...)

	entries, err := ParseEntries(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || len(entries[0].Properties) != 1 {
		t.Fatalf("got %+v", entries)
	}
	p := entries[0].Properties[0]
	if p.Name != "Make" || p.Value != "Sigma" {
		t.Fatalf("got %+v", p)
	}
}

func TestParseGenericEntryRaw(t *testing.T) {
	header := make([]byte, entryHeaderSize)
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	entrySize := entryHeaderSize + len(payload)

	putU32(header, 0, tagGeneric)
	putU32(header, 12, uint32(entrySize))
	putU32(header, 16, uint32(entryHeaderSize)) // nameOffset points at payload start, empty name
	putU32(header, 20, uint32(entryHeaderSize))

	buf := append(header, payload...)
	entries, err := ParseEntries(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Kind != KindGeneric {
		t.Fatalf("got %+v", entries)
	}
	if string(entries[0].Raw) != string(payload) {
		t.Fatalf("got raw %v, want %v", entries[0].Raw, payload)
	}
}
