// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package x3f

import (
	"encoding/binary"
	"fmt"

	"github.com/sigmafoveon/x3fcore/internal/camf"
)

const (
	camfTypeCipher = 2
	camfTypeBlock4 = 4
	camfTypeBlock5 = 5
)

// CAMFContainer is the decoded calibration metadata blob: the cipher or
// block codec has already run, and decoded_data has been walked into
// typed entries.
type CAMFContainer struct {
	Type    uint32
	Entries []camf.Entry
}

func (f *File) loadCAMF(entry *DirEntry) (*CAMFContainer, error) {
	payload, err := f.sectionPayload(entry, submagicSECc)
	if err != nil {
		return nil, err
	}
	if len(payload) < 4 {
		return nil, wrapErr(KindTruncatedInput, "camf container header truncated", nil)
	}
	containerType := binary.LittleEndian.Uint32(payload)
	body := payload[4:]

	var decoded []byte
	switch containerType {
	case camfTypeCipher:
		decoded, err = decodeCipherCAMF(body)
	case camfTypeBlock4, camfTypeBlock5:
		decoded, err = f.decodeBlockCAMF(body)
	default:
		return nil, wrapErr(KindMalformedHeader, fmt.Sprintf("camf container type %d not recognized", containerType), nil)
	}
	if err != nil {
		return nil, err
	}

	entries, err := camf.ParseEntries(decoded)
	if err != nil {
		return nil, classify("parsing camf entries", err)
	}
	return &CAMFContainer{Type: containerType, Entries: entries}, nil
}

// decodeCipherCAMF handles type-2: (reserved, infotype, infotype_version,
// crypt_key) followed by ciphertext running to the end of the section.
func decodeCipherCAMF(body []byte) ([]byte, error) {
	const headerSize = 16
	if len(body) < headerSize {
		return nil, wrapErr(KindTruncatedInput, "type-2 camf header truncated", nil)
	}
	cryptKey := uint16(binary.LittleEndian.Uint32(body[12:]))
	ciphertext := body[headerSize:]
	return camf.DecryptType2(ciphertext, cryptKey), nil
}

// decodeBlockCAMF handles type-4 and type-5: (decoded_data_size,
// decode_bias, block_size, block_count) followed by a TRUE-style
// (code_size, code) Huffman table terminated by a (0,0) pair, then the
// block-coded payload. Type-5 headers carry the same two trailing
// fields, so both types read them as block_size/block_count.
func (f *File) decodeBlockCAMF(body []byte) ([]byte, error) {
	const headerSize = 16
	if len(body) < headerSize {
		return nil, wrapErr(KindTruncatedInput, "camf block header truncated", nil)
	}
	decodedSize := binary.LittleEndian.Uint32(body)
	decodeBias := binary.LittleEndian.Uint32(body[4:])
	blockSize := binary.LittleEndian.Uint32(body[8:])
	blockCount := binary.LittleEndian.Uint32(body[12:])

	table, tableEnd, err := readTrueTable(body, headerSize)
	if err != nil {
		return nil, err
	}
	trie, err := f.buildTrueTrie(table)
	if err != nil {
		return nil, classify("building camf block huffman trie", err)
	}

	payload := body[tableEnd:]
	decoded, err := camf.DecodeBlocks(payload, trie, int(decodedSize), decodeBias, int(blockSize), int(blockCount))
	if err != nil {
		return nil, classify("decoding camf block payload", err)
	}
	return decoded, nil
}
