// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import "github.com/ava-labs/countervm/codec"

// Authorize fails unless [claimed] is the [stored] authority.
func Authorize(stored, claimed codec.Address) error {
	if stored != claimed {
		return ErrNotOwner
	}
	return nil
}
