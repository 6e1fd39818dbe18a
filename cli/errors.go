// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import "errors"

var (
	ErrInputEmpty      = errors.New("input is empty")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrIndexOutOfRange = errors.New("index out-of-range")
	ErrDuplicate       = errors.New("duplicate")
	ErrNoEndpoints     = errors.New("no available endpoints")
	ErrNoKeys          = errors.New("no available keys")
	ErrTxFailed        = errors.New("tx failed")
	ErrUnreachable     = errors.New("endpoint unreachable")
)
