// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"errors"

	"github.com/ava-labs/countervm/derive"
	"github.com/ava-labs/countervm/storage"
)

var (
	ErrNotOwner              = errors.New("not owner")
	ErrOverflow              = errors.New("overflow")
	ErrInvalidID             = errors.New("invalid id")
	ErrRegistryUninitialized = errors.New("registry not initialized")
	ErrUnknownVariant        = errors.New("unknown counter variant")
	ErrSeedNotAllowed        = errors.New("registered counters take no seed")

	// Raised by the account store and the address deriver.
	ErrAddressInUse        = storage.ErrAddressInUse
	ErrAccountNotFound     = storage.ErrAccountNotFound
	ErrAccountTypeMismatch = storage.ErrAccountTypeMismatch
	ErrDerivationExhausted = derive.ErrDerivationExhausted
)
