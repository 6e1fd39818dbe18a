// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package derive

import "errors"

var (
	ErrDerivationExhausted   = errors.New("unable to find a viable derivation nonce")
	ErrInvalidDerivation     = errors.New("derived address is a valid curve point")
	ErrMaxSeedLengthExceeded = errors.New("length of the seed is too long for address generation")
)
