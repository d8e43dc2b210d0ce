// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package bytereader

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func TestLittleEndianDirectoryOffset(t *testing.T) {
	// A 128-byte file with bytes at offset 124..127 equal to
	// 0x30 0x00 0x00 0x00 yields directory offset 48.
	buf := make([]byte, 128)
	binary.LittleEndian.PutUint32(buf[124:], 48)

	r := New(bytes.NewReader(buf), int64(len(buf)))
	if err := r.Seek(124); err != nil {
		t.Fatal(err)
	}
	got, err := r.ReadU32()
	if err != nil {
		t.Fatal(err)
	}
	if got != 48 {
		t.Fatalf("directory offset = %d, want 48", got)
	}
}

func TestReadUTF16NulTerminated(t *testing.T) {
	var buf bytes.Buffer
	for _, r := range "Sigma" {
		binary.Write(&buf, binary.LittleEndian, uint16(r))
	}
	buf.Write([]byte{0, 0})

	r := New(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	s, err := r.ReadUTF16NulTerminated(buf.Len())
	if err != nil {
		t.Fatal(err)
	}
	if s != "Sigma" {
		t.Fatalf("got %q, want Sigma", s)
	}
}

func TestReadUTF16NulTerminatedMissingTerminator(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16('A'))

	r := New(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if _, err := r.ReadUTF16NulTerminated(buf.Len()); err == nil {
		t.Fatal("expected error for unterminated string")
	} else if !strings.Contains(err.Error(), "not terminated") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadPastEndIsTruncated(t *testing.T) {
	r := New(bytes.NewReader([]byte{1, 2, 3}), 3)
	if _, err := r.ReadBytes(4); err == nil {
		t.Fatal("expected truncated-input error")
	}
}

func TestEmptyStringValue(t *testing.T) {
	buf := []byte{0, 0}
	s, n, err := DecodeUTF16LEBytes(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s != "" || n != 2 {
		t.Fatalf("got %q,%d want \"\",2", s, n)
	}
}
