// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package x3f

import "github.com/sigmafoveon/x3fcore/internal/proplist"

// Property is one decoded (name, value) pair from a PROP section.
type Property = proplist.Pair

// PropertyList is the decoded view of a PROP directory entry.
type PropertyList struct {
	Pairs []Property
}

func (f *File) loadProperty(entry *DirEntry) (*PropertyList, error) {
	payload, err := f.sectionPayload(entry, submagicSECp)
	if err != nil {
		return nil, err
	}
	pairs, err := proplist.Decode(payload)
	if err != nil {
		return nil, classify("decoding property list", err)
	}
	return &PropertyList{Pairs: pairs}, nil
}
