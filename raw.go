// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package x3f

import (
	"encoding/binary"
	"fmt"

	"github.com/sigmafoveon/x3fcore/internal/classichuff"
	"github.com/sigmafoveon/x3fcore/internal/huffman"
	"github.com/sigmafoveon/x3fcore/internal/triecache"
	"github.com/sigmafoveon/x3fcore/internal/truecodec"
)

const imageHeaderSize = 20 // type, format, columns, rows, row_stride, all u32

// imageTypeFormat packs (type,format) into one key, so dispatch is a
// single switch instead of a nested one.
type imageTypeFormat struct {
	typ, format uint32
}

var (
	tfThumbPixmap   = imageTypeFormat{2, 3}
	tfThumbHuffman8 = imageTypeFormat{2, 11}
	tfThumbJPEG     = imageTypeFormat{2, 18}
	tfHuffman10     = imageTypeFormat{3, 6}
	tfHuffmanLegacy = imageTypeFormat{3, 5}
	tfTrueMerrill   = imageTypeFormat{1, 30}
	tfTrueQuattro   = imageTypeFormat{1, 35}
)

// ImageKind discriminates the decoded shape of an IMAG/IMA2 section.
type ImageKind int

const (
	ImageUnknown ImageKind = iota
	ImageRawClassicHuffman
	ImageRawTrueMerrill
	ImageRawTrueQuattro
	ImageThumbPixmap
	ImageThumbHuffman
	ImageThumbJPEG
)

// Plane is one decoded color-plane buffer with the dimensions it was
// decoded at (Quattro's top plane is half resolution of the other two).
type Plane struct {
	Columns, Rows uint32
	Samples       []uint16 // 16-bit TRUE planes
	Bytes         []byte   // interleaved classic/pixmap output, or JPEG bytes
}

// ImageSection is the decoded view of an IMAG/IMA2 directory entry,
// covering both raw sensor data and thumbnail variants; the directory
// doesn't distinguish them; only the embedded type/format pair does.
type ImageSection struct {
	Kind          ImageKind
	Columns, Rows uint32
	RowStride     uint32
	Planes        []Plane
}

func (f *File) loadImage(entry *DirEntry) (*ImageSection, error) {
	payload, err := f.sectionPayload(entry, submagicSECi)
	if err != nil {
		return nil, err
	}
	if len(payload) < imageHeaderSize {
		return nil, wrapErr(KindTruncatedInput, "image header truncated", nil)
	}
	typ := binary.LittleEndian.Uint32(payload)
	format := binary.LittleEndian.Uint32(payload[4:])
	columns := binary.LittleEndian.Uint32(payload[8:])
	rows := binary.LittleEndian.Uint32(payload[12:])
	rowStride := binary.LittleEndian.Uint32(payload[16:])
	body := payload[imageHeaderSize:]

	tf := imageTypeFormat{typ, format}
	switch tf {
	case tfThumbPixmap:
		return decodePixmap(body, columns, rows, ImageThumbPixmap)
	case tfThumbJPEG:
		return &ImageSection{Kind: ImageThumbJPEG, Columns: columns, Rows: rows, RowStride: rowStride,
			Planes: []Plane{{Columns: columns, Rows: rows, Bytes: body}}}, nil
	case tfThumbHuffman8:
		return f.decodeClassic(body, columns, rows, rowStride, ImageThumbHuffman, false)
	case tfHuffman10:
		return f.decodeClassic(body, columns, rows, rowStride, ImageRawClassicHuffman, true)
	case tfHuffmanLegacy:
		return f.decodeClassic(body, columns, rows, rowStride, ImageRawClassicHuffman, false)
	case tfTrueMerrill:
		return f.decodeTrueMerrill(body, columns, rows)
	case tfTrueQuattro:
		return f.decodeTrueQuattro(body, columns, rows)
	default:
		return nil, wrapErr(KindMalformedHeader, fmt.Sprintf("image type=%d format=%d not recognized", typ, format), nil)
	}
}

func decodePixmap(body []byte, columns, rows uint32, kind ImageKind) (*ImageSection, error) {
	want := int(columns) * int(rows) * 3
	if len(body) < want {
		return nil, wrapErr(KindMalformedSection, "pixmap payload shorter than columns*rows*3", nil)
	}
	return &ImageSection{Kind: kind, Columns: columns, Rows: rows,
		Planes: []Plane{{Columns: columns, Rows: rows, Bytes: body[:want]}}}, nil
}

// decodeClassic reads the classic-codec auxiliary data: an optional
// 16-entry mapping table, the packed-word coding table, and a per-row
// offset array, then hands off to internal/classichuff.
func (f *File) decodeClassic(body []byte, columns, rows, rowStride uint32, kind ImageKind, sixteenBit bool) (*ImageSection, error) {
	pos := 0
	readU32 := func(label string) (uint32, error) {
		if pos+4 > len(body) {
			return 0, wrapErr(KindTruncatedInput, label+" truncated", nil)
		}
		v := binary.LittleEndian.Uint32(body[pos:])
		pos += 4
		return v, nil
	}

	mappingPresent, err := readU32("mapping presence flag")
	if err != nil {
		return nil, err
	}
	var mapping []uint16
	if mappingPresent != 0 {
		if pos+32 > len(body) {
			return nil, wrapErr(KindTruncatedInput, "mapping table truncated", nil)
		}
		mapping = make([]uint16, 16)
		for i := range mapping {
			mapping[i] = binary.LittleEndian.Uint16(body[pos:])
			pos += 2
		}
	}

	wordCount, err := readU32("coding table word count")
	if err != nil {
		return nil, err
	}
	if pos+int(wordCount)*4 > len(body) {
		return nil, wrapErr(KindTruncatedInput, "coding table truncated", nil)
	}
	words := make([]uint32, wordCount)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(body[pos:])
		pos += 4
	}

	rowOffsetCount, err := readU32("row offset count")
	if err != nil {
		return nil, err
	}
	if int(rowOffsetCount) != int(rows) {
		return nil, wrapErr(KindMalformedSection, fmt.Sprintf("%d row offsets for %d rows", rowOffsetCount, rows), nil)
	}
	if pos+int(rowOffsetCount)*4 > len(body) {
		return nil, wrapErr(KindTruncatedInput, "row offset array truncated", nil)
	}
	rowOffsets := make([]uint32, rowOffsetCount)
	for i := range rowOffsets {
		rowOffsets[i] = binary.LittleEndian.Uint32(body[pos:])
		pos += 4
	}

	data := body[pos:]

	fp := triecacheFingerprint(words, mapping)
	trie, ok := f.trieCache.Get(fp)
	if !ok {
		var err error
		trie, err = classichuff.BuildTrie(words, mapping)
		if err != nil {
			return nil, classify("building classic huffman trie", err)
		}
		f.trieCache.Add(fp, trie)
	}
	f.log.Debug("classicTrieCache", "fingerprint", fp, "hit", ok)

	out, err := classichuff.Decode(data, rowOffsets, int(columns), int(rows), trie, sixteenBit)
	if err != nil {
		return nil, classify("decoding classic huffman image", err)
	}
	return &ImageSection{Kind: kind, Columns: columns, Rows: rows, RowStride: rowStride,
		Planes: []Plane{{Columns: columns, Rows: rows, Bytes: out}}}, nil
}

// readTrueSeeds reads the three per-plane predictor seeds (512 on every
// known file, but stored on disk regardless) plus the trailing reserved
// word, which is always zero.
func readTrueSeeds(body []byte, pos int) ([3]uint16, int, error) {
	var seeds [3]uint16
	if pos+8 > len(body) {
		return seeds, 0, wrapErr(KindTruncatedInput, "true seeds truncated", nil)
	}
	for i := 0; i < 3; i++ {
		seeds[i] = binary.LittleEndian.Uint16(body[pos:])
		pos += 2
	}
	pos += 2 // unknown/reserved
	return seeds, pos, nil
}

// trueTrieFingerprint hashes a TRUE/CAMF-block (length,code) table the
// same way triecacheFingerprint hashes a classic coding table, so one
// shared trie cache serves all three table shapes.
func trueTrieFingerprint(table []truecodec.HuffmanElement) uint64 {
	buf := make([]byte, len(table)*2)
	for i, e := range table {
		buf[i*2] = e.CodeSize
		buf[i*2+1] = e.Code
	}
	return triecache.Fingerprint(buf)
}

func (f *File) buildTrueTrie(table []truecodec.HuffmanElement) (*huffman.Trie, error) {
	fp := trueTrieFingerprint(table)
	trie, ok := f.trieCache.Get(fp)
	if !ok {
		var err error
		trie, err = truecodec.BuildTrie(table)
		if err != nil {
			return nil, err
		}
		f.trieCache.Add(fp, trie)
	}
	f.log.Debug("trueTrieCache", "fingerprint", fp, "hit", ok)
	return trie, nil
}

// decodeTrueMerrill reads the TRUE auxiliary data in on-disk order:
// seed[3]+unknown, then the zero-terminated (length,code) table, then
// the three plane sizes last.
func (f *File) decodeTrueMerrill(body []byte, columns, rows uint32) (*ImageSection, error) {
	seeds, pos, err := readTrueSeeds(body, 0)
	if err != nil {
		return nil, err
	}

	table, tableEnd, err := readTrueTable(body, pos)
	if err != nil {
		return nil, err
	}
	trie, err := f.buildTrueTrie(table)
	if err != nil {
		return nil, classify("building true huffman trie", err)
	}

	if tableEnd+12 > len(body) {
		return nil, wrapErr(KindTruncatedInput, "true plane size table truncated", nil)
	}
	planeSizes := [3]uint32{
		binary.LittleEndian.Uint32(body[tableEnd:]),
		binary.LittleEndian.Uint32(body[tableEnd+4:]),
		binary.LittleEndian.Uint32(body[tableEnd+8:]),
	}
	planeData := body[tableEnd+12:]
	if err := checkPlaneSizesFit(planeSizes[:], len(planeData)); err != nil {
		return nil, err
	}

	planes := make([]Plane, 3)
	addr := 0
	for i, size := range planeSizes {
		samples, err := truecodec.DecodePlane(planeData[addr:addr+int(size)], trie, int(columns), int(rows), seeds[i])
		if err != nil {
			return nil, classify(fmt.Sprintf("decoding true plane %d", i), err)
		}
		planes[i] = Plane{Columns: columns, Rows: rows, Samples: samples}
		addr += int(size)
	}
	return &ImageSection{Kind: ImageRawTrueMerrill, Columns: columns, Rows: rows, Planes: planes}, nil
}

// decodeTrueQuattro adds per-plane (columns uint16, rows uint16)
// dimensions ahead of everything else, then the same seed/table layout
// as Merrill, then one reserved uint32, then the three plane sizes
// last. The dimension table is authoritative: the top plane is stored
// at half resolution of the other two.
func (f *File) decodeTrueQuattro(body []byte, columns, rows uint32) (*ImageSection, error) {
	if len(body) < 12 {
		return nil, wrapErr(KindTruncatedInput, "quattro plane dims truncated", nil)
	}
	var dims [3][2]uint32 // columns, rows per plane
	pos := 0
	for i := 0; i < 3; i++ {
		dims[i][0] = uint32(binary.LittleEndian.Uint16(body[pos:]))
		dims[i][1] = uint32(binary.LittleEndian.Uint16(body[pos+2:]))
		pos += 4
	}

	seeds, pos, err := readTrueSeeds(body, pos)
	if err != nil {
		return nil, err
	}

	table, tableEnd, err := readTrueTable(body, pos)
	if err != nil {
		return nil, err
	}
	trie, err := f.buildTrueTrie(table)
	if err != nil {
		return nil, classify("building true huffman trie", err)
	}

	pos = tableEnd + 4 // Quattro reserved word
	if pos+12 > len(body) {
		return nil, wrapErr(KindTruncatedInput, "quattro plane size table truncated", nil)
	}
	planeSizes := [3]uint32{
		binary.LittleEndian.Uint32(body[pos:]),
		binary.LittleEndian.Uint32(body[pos+4:]),
		binary.LittleEndian.Uint32(body[pos+8:]),
	}
	planeData := body[pos+12:]
	if err := checkPlaneSizesFit(planeSizes[:], len(planeData)); err != nil {
		return nil, err
	}

	planes := make([]Plane, 3)
	addr := 0
	for i, size := range planeSizes {
		pc, pr := dims[i][0], dims[i][1]
		samples, err := truecodec.DecodePlane(planeData[addr:addr+int(size)], trie, int(pc), int(pr), seeds[i])
		if err != nil {
			return nil, classify(fmt.Sprintf("decoding quattro plane %d", i), err)
		}
		planes[i] = Plane{Columns: pc, Rows: pr, Samples: samples}
		addr += int(size)
	}
	return &ImageSection{Kind: ImageRawTrueQuattro, Columns: columns, Rows: rows, Planes: planes}, nil
}

// readTrueTable reads (code_size, code) byte pairs starting at offset
// until a (0,0) terminator pair.
func readTrueTable(body []byte, offset int) ([]truecodec.HuffmanElement, int, error) {
	var table []truecodec.HuffmanElement
	pos := offset
	for {
		if pos+2 > len(body) {
			return nil, 0, wrapErr(KindTruncatedInput, "true table ran past end without (0,0) terminator", nil)
		}
		size, code := body[pos], body[pos+1]
		pos += 2
		if size == 0 && code == 0 {
			return table, pos, nil
		}
		table = append(table, truecodec.HuffmanElement{CodeSize: size, Code: code})
	}
}

func checkPlaneSizesFit(planeSizes []uint32, available int) error {
	var total int64
	for _, s := range planeSizes {
		total += int64(s)
	}
	if total > int64(available) {
		return wrapErr(KindMalformedSection, fmt.Sprintf("sum of plane sizes %d exceeds available %d bytes", total, available), nil)
	}
	return nil
}

func triecacheFingerprint(words []uint32, mapping []uint16) uint64 {
	buf := make([]byte, 0, len(words)*4+len(mapping)*2)
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	for _, m := range mapping {
		buf = binary.LittleEndian.AppendUint16(buf, m)
	}
	return triecache.Fingerprint(buf)
}
