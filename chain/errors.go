// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	ErrDuplicateTx       = errors.New("duplicate transaction")
	ErrInvalidTimestamp  = errors.New("invalid timestamp")
	ErrMissingAction     = errors.New("missing action")
	ErrMissingAuth       = errors.New("missing auth")
	ErrAuthFailed        = errors.New("auth failed")
	ErrEmptyBatch        = errors.New("empty batch")
	ErrBatchTooLarge     = errors.New("batch too large")
	ErrInvalidObject     = errors.New("invalid object")
	ErrTransactionTooBig = errors.New("transaction too big")
)
