// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package x3f

import (
	"github.com/sigmafoveon/x3fcore/internal/bitio"
	"github.com/sigmafoveon/x3fcore/internal/bytereader"
	"github.com/sigmafoveon/x3fcore/internal/camf"
	"github.com/sigmafoveon/x3fcore/internal/huffman"
	"github.com/sigmafoveon/x3fcore/internal/proplist"
)

// Local aliases so errors.go's classify can errors.Is against the
// internal packages' sentinels without every call site importing them
// directly.
var (
	errTruncated           = bytereader.ErrTruncated
	errMalformedTable      = huffman.ErrMalformedTable
	errExhausted           = bitio.ErrExhausted
	errCipherInconsistency = camf.ErrCipherInconsistency
	errMalformedCamfEntry  = camf.ErrMalformedEntry
	errMalformedProperty   = proplist.ErrMalformedProperty
)
