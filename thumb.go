// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package x3f

// GetThumbnailPlain returns the first IMAG section decoded as a plain
// 3x8 RGB pixmap ((2,3)), or nil if the file has none.
func (f *File) GetThumbnailPlain() (*ImageSection, error) {
	return f.firstImageOfKind(ImageThumbPixmap)
}

// GetThumbnailHuffman returns the first IMAG section decoded as a
// classic Huffman-coded 3x8 thumbnail ((2,11)), or nil if none.
func (f *File) GetThumbnailHuffman() (*ImageSection, error) {
	return f.firstImageOfKind(ImageThumbHuffman)
}

// GetThumbnailJPEG returns the first IMAG section carrying an embedded
// JPEG byte stream ((2,18)); the bytes are passed through undecoded.
func (f *File) GetThumbnailJPEG() (*ImageSection, error) {
	return f.firstImageOfKind(ImageThumbJPEG)
}

// GetRaw returns the first IMAG section decoded as sensor raw data
// (classic Huffman, TRUE-Merrill, or TRUE-Quattro), or nil if none.
func (f *File) GetRaw() (*ImageSection, error) {
	for i := range f.Entries {
		entry := &f.Entries[i]
		if entry.Kind != SectionImage {
			continue
		}
		decoded, err := f.LoadData(entry)
		if err != nil {
			return nil, err
		}
		img := decoded.(*ImageSection)
		switch img.Kind {
		case ImageRawClassicHuffman, ImageRawTrueMerrill, ImageRawTrueQuattro:
			return img, nil
		}
	}
	return nil, nil
}

func (f *File) firstImageOfKind(kind ImageKind) (*ImageSection, error) {
	for i := range f.Entries {
		entry := &f.Entries[i]
		if entry.Kind != SectionImage {
			continue
		}
		decoded, err := f.LoadData(entry)
		if err != nil {
			return nil, err
		}
		img := decoded.(*ImageSection)
		if img.Kind == kind {
			return img, nil
		}
	}
	return nil, nil
}

// GetProperty returns the first PROP section's decoded pairs, or nil.
func (f *File) GetProperty() (*PropertyList, error) {
	entry := f.FindByKind(SectionProperty)
	if entry == nil {
		return nil, nil
	}
	decoded, err := f.LoadData(entry)
	if err != nil {
		return nil, err
	}
	return decoded.(*PropertyList), nil
}

// GetCAMF returns the first CAMF section's decoded entries, or nil.
func (f *File) GetCAMF() (*CAMFContainer, error) {
	entry := f.FindByKind(SectionCAMF)
	if entry == nil {
		return nil, nil
	}
	decoded, err := f.LoadData(entry)
	if err != nil {
		return nil, err
	}
	return decoded.(*CAMFContainer), nil
}
