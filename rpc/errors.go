// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"errors"
	"strings"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/counter"
)

var (
	ErrTxNotFound    = errors.New("tx not found")
	ErrTooManyTxs    = errors.New("too many txs")
	ErrLimitTooLarge = errors.New("limit too large")
)

// knownErrors are recovered by the client from the message of a server
// error.
var knownErrors = []error{
	counter.ErrAccountNotFound,
	counter.ErrAccountTypeMismatch,
	counter.ErrRegistryUninitialized,
	counter.ErrInvalidID,
	chain.ErrDuplicateTx,
	chain.ErrAuthFailed,
	chain.ErrBatchTooLarge,
	ErrTxNotFound,
}

// parseError maps an error returned over the wire back to the sentinel it
// was created from.
func parseError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range knownErrors {
		if strings.Contains(err.Error(), known.Error()) {
			return errors.Join(known, err)
		}
	}
	return err
}
