// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import "errors"

var (
	ErrClosed       = errors.New("vm closed")
	ErrTxExtraBytes = errors.New("tx has extra bytes")
)
