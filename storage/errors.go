// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrAddressInUse        = errors.New("account address already in use")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountTypeMismatch = errors.New("account type mismatch")
	ErrInvalidRecordSize   = errors.New("invalid record size")
)
