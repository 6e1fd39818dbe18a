// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	smath "github.com/ava-labs/avalanchego/utils/math"
)

// CheckedIncrement returns [value]+1 or [ErrOverflow]. It never wraps.
func CheckedIncrement(value uint64) (uint64, error) {
	next, err := smath.Add64(value, 1)
	if err != nil {
		return value, ErrOverflow
	}
	return next, nil
}

// Assign returns [v] unchanged. Unlike increment, assignment accepts every
// value including zero and the maximum.
func Assign(v uint64) uint64 {
	return v
}
