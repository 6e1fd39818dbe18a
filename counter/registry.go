// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"context"
	"errors"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/derive"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
)

const registryDomainTag = "shared_registry"

// RegistryAddress derives the well-known address of the registry record. It
// depends only on the program id, so every call returns the same address.
func RegistryAddress() (codec.Address, uint8, error) {
	return derive.FindAddress(registryDomainTag)
}

// InitializeRegistry creates the registry with a next id of 1. It can
// succeed only once; later calls fail with [ErrAddressInUse].
func InitializeRegistry(ctx context.Context, mu state.Mutable) (*Registry, error) {
	addr, nonce, err := RegistryAddress()
	if err != nil {
		return nil, err
	}
	r := &Registry{NextID: 1, Nonce: nonce}
	b, err := r.Marshal()
	if err != nil {
		return nil, err
	}
	if err := storage.CreateAccount(ctx, mu, addr, b); err != nil {
		return nil, err
	}
	return r, nil
}

// GetRegistry loads the registry or returns [ErrRegistryUninitialized].
func GetRegistry(ctx context.Context, im state.Immutable) (*Registry, error) {
	addr, _, err := RegistryAddress()
	if err != nil {
		return nil, err
	}
	b, err := storage.LoadAccount(ctx, im, addr, RegistryTag, RegistrySize)
	if errors.Is(err, storage.ErrAccountNotFound) {
		return nil, ErrRegistryUninitialized
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalRegistry(b)
}

func storeRegistry(ctx context.Context, mu state.Mutable, r *Registry) error {
	addr, _, err := RegistryAddress()
	if err != nil {
		return err
	}
	b, err := r.Marshal()
	if err != nil {
		return err
	}
	return storage.StoreAccount(ctx, mu, addr, b)
}

// Allocate returns the next id and advances the registry by exactly one.
func Allocate(ctx context.Context, mu state.Mutable) (uint64, error) {
	r, err := GetRegistry(ctx, mu)
	if err != nil {
		return 0, err
	}
	id := r.NextID
	next, err := CheckedIncrement(id)
	if err != nil {
		return 0, err
	}
	r.NextID = next
	if err := storeRegistry(ctx, mu, r); err != nil {
		return 0, err
	}
	return id, nil
}

// ValidateID rejects ids the registry has never handed out.
func ValidateID(r *Registry, id uint64) error {
	if id == 0 || id >= r.NextID {
		return ErrInvalidID
	}
	return nil
}
