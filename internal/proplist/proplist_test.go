// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package proplist

import (
	"encoding/binary"
	"errors"
	"testing"
)

func utf16leTerminated(s string) []byte {
	out := make([]byte, 0, len(s)*2+2)
	for _, r := range s {
		out = append(out, byte(r), 0)
	}
	return append(out, 0, 0)
}

func buildPropPayload(pairs []Pair) []byte {
	pool := []byte{}
	offsets := make([][2]uint32, len(pairs))
	for i, p := range pairs {
		offsets[i][0] = uint32(len(pool) / 2)
		pool = append(pool, utf16leTerminated(p.Name)...)
		offsets[i][1] = uint32(len(pool) / 2)
		pool = append(pool, utf16leTerminated(p.Value)...)
	}

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header, uint32(len(pairs)))
	binary.LittleEndian.PutUint32(header[12:], uint32(len(pool)))

	buf := header
	for _, off := range offsets {
		pair := make([]byte, 8)
		binary.LittleEndian.PutUint32(pair, off[0])
		binary.LittleEndian.PutUint32(pair[4:], off[1])
		buf = append(buf, pair...)
	}
	return append(buf, pool...)
}

func TestDecodeRoundTripProperties(t *testing.T) {
	want := []Pair{{Name: "Make", Value: "Sigma"}, {Name: "Model", Value: "DP2M"}}
	payload := buildPropPayload(want)

	got, err := Decode(payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d pairs, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pair %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDecodeEmptyValueString(t *testing.T) {
	payload := buildPropPayload([]Pair{{Name: "Comment", Value: ""}})

	got, err := Decode(payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Value != "" {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeZeroCount(t *testing.T) {
	payload := buildPropPayload(nil)
	got, err := Decode(payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d pairs, want 0", len(got))
	}
}

func TestDecodeUnterminatedStringIsMalformed(t *testing.T) {
	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header, 1)
	binary.LittleEndian.PutUint32(header[12:], 2)

	pair := make([]byte, 8)
	binary.LittleEndian.PutUint32(pair, 0)
	binary.LittleEndian.PutUint32(pair[4:], 0)

	pool := []byte{'A', 0} // one code unit, never terminated

	buf := append(header, pair...)
	buf = append(buf, pool...)

	_, err := Decode(buf)
	if err == nil {
		t.Fatal("expected MalformedProperty error")
	}
	if !errors.Is(err, ErrMalformedProperty) {
		t.Fatalf("got %v, want ErrMalformedProperty", err)
	}
}
