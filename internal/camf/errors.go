// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package camf

import "errors"

// ErrCipherInconsistency is returned when a decoded CAMF payload's length
// doesn't match its declared decoded_data_size.
var ErrCipherInconsistency = errors.New("camf: decoded size does not match decoded_data_size")

// ErrMalformedEntry covers CAMF entries with an inconsistent dim count,
// element size, or unterminated string.
var ErrMalformedEntry = errors.New("camf: malformed entry")
