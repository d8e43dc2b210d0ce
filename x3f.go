// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package x3f

import (
	"io"
	"log/slog"
	"os"

	"github.com/sigmafoveon/x3fcore/internal/bytereader"
	"github.com/sigmafoveon/x3fcore/internal/triecache"
)

// File is an opened X3F container: header, directory, and whatever
// sections have been decoded so far. The input file handle is
// exclusively owned by File for its lifetime: two containers over two
// files are independent, but a single File is not safe for concurrent
// Load* calls.
type File struct {
	r         *bytereader.Reader
	closer    io.Closer
	opts      *DecodeOptions
	log       *slog.Logger
	trieCache *triecache.Cache

	Header  *Header
	Entries []DirEntry

	// failed latches the first load error. Sections decoded before the
	// failure stay queryable; further loads are refused.
	failed error
}

// Open reads the header and directory of path. The file handle is held
// open until Close; every exit path during construction (including
// returning an error) releases it.
func Open(path string, opts *DecodeOptions) (f *File, err error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, wrapErr(KindIoError, "opening file", err)
	}
	defer func() {
		if err != nil {
			fh.Close()
		}
	}()

	info, err := fh.Stat()
	if err != nil {
		return nil, wrapErr(KindIoError, "stat", err)
	}

	return openReaderAt(fh, fh, info.Size(), opts)
}

// OpenReaderAt builds a File over an already-open random-access source
// (e.g. an in-memory buffer in tests), with no file handle of its own to
// close; closer may be nil.
func OpenReaderAt(src io.ReaderAt, size int64, closer io.Closer, opts *DecodeOptions) (*File, error) {
	return openReaderAt(src, closer, size, opts)
}

func openReaderAt(src io.ReaderAt, closer io.Closer, size int64, opts *DecodeOptions) (*File, error) {
	br := bytereader.New(src, size)

	header, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	entries, err := readDirectory(br, opts)
	if err != nil {
		return nil, err
	}

	f := &File{
		r:         br,
		closer:    closer,
		opts:      opts,
		log:       opts.logger(),
		trieCache: triecache.New(opts.trieCacheSize()),
		Header:    header,
		Entries:   entries,
	}
	return f, nil
}

// Close releases the underlying file handle, if any. Decoded buffers
// already produced remain valid after Close.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	if err := f.closer.Close(); err != nil {
		return wrapErr(KindIoError, "closing file", err)
	}
	return nil
}

// FindByKind returns the first directory entry of the given kind, or nil
// if none exists.
func (f *File) FindByKind(kind SectionKind) *DirEntry {
	for i := range f.Entries {
		if f.Entries[i].Kind == kind {
			return &f.Entries[i]
		}
	}
	return nil
}

// LoadData materializes entry's payload, dispatching by kind. A second
// call on the same entry is a no-op that returns the cached result.
func (f *File) LoadData(entry *DirEntry) (any, error) {
	if entry.loaded {
		return entry.decoded, entry.loadErr
	}
	if f.failed != nil {
		return nil, wrapErr(KindMalformedSection, "container is in an error state", f.failed)
	}
	var decoded any
	var err error
	switch entry.Kind {
	case SectionProperty:
		decoded, err = f.loadProperty(entry)
	case SectionImage:
		decoded, err = f.loadImage(entry)
	case SectionCAMF:
		decoded, err = f.loadCAMF(entry)
	default:
		err = wrapErr(KindMalformedSection, "unknown section kind", nil)
	}
	entry.loaded = true
	entry.decoded = decoded
	entry.loadErr = err
	if err != nil && f.failed == nil {
		f.failed = err
	}
	return decoded, err
}

// sectionPayload reads the submagic at entry.Offset, verifies it against
// want, and returns the remaining bytes of the section.
func (f *File) sectionPayload(entry *DirEntry, want uint32) ([]byte, error) {
	if err := f.r.Seek(entry.Offset); err != nil {
		return nil, classify("seeking to section", err)
	}
	got, err := f.r.ReadU32()
	if err != nil {
		return nil, classify("reading section submagic", err)
	}
	if got != want {
		return nil, wrapErr(KindMalformedHeader, "section submagic mismatch", nil)
	}
	remaining := entry.Size - 4
	if remaining < 0 || entry.Offset+entry.Size > f.r.Size() {
		return nil, wrapErr(KindMalformedSection, "section size exceeds file bounds", nil)
	}
	payload, err := f.r.ReadBytes(int(remaining))
	if err != nil {
		return nil, classify("reading section payload", err)
	}
	return payload, nil
}
