// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/state"
)

var _ chain.Action = (*InitializeRegistry)(nil)

// InitializeRegistry creates the singleton registry used by registered
// counters. The signer pays for it.
type InitializeRegistry struct{}

func (*InitializeRegistry) GetTypeID() uint8 {
	return consts.InitializeRegistryID
}

func (*InitializeRegistry) StateKeys(codec.Address, ids.ID) state.Keys {
	k, err := counter.InitializeRegistryStateKeys()
	if err != nil {
		// Execute fails with the same derivation error.
		return state.Keys{}
	}
	return k
}

func (*InitializeRegistry) Execute(
	ctx context.Context,
	mu state.Mutable,
	_ int64,
	_ codec.Address,
	_ ids.ID,
) ([]byte, error) {
	r, err := counter.InitializeRegistry(ctx, mu)
	if err != nil {
		return nil, err
	}
	addr, _, err := counter.RegistryAddress()
	if err != nil {
		return nil, err
	}
	return (&InitializeRegistryResult{Registry: addr, NextID: r.NextID}).Bytes()
}

func (*InitializeRegistry) Size() int {
	return 0
}

func (*InitializeRegistry) Marshal(*codec.Packer) {}

func UnmarshalInitializeRegistry(*codec.Packer) (chain.Action, error) {
	return &InitializeRegistry{}, nil
}

type InitializeRegistryResult struct {
	Registry codec.Address `json:"registry"`
	NextID   uint64        `json:"nextId"`
}

func (r *InitializeRegistryResult) Bytes() ([]byte, error) {
	p := codec.NewWriter(codec.AddressLen+consts.Uint64Len, consts.NetworkSizeLimit)
	p.PackAddress(r.Registry)
	p.PackUint64(r.NextID)
	return p.Bytes(), p.Err()
}

func UnmarshalInitializeRegistryResult(b []byte) (*InitializeRegistryResult, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	var r InitializeRegistryResult
	p.UnpackAddress(true, &r.Registry)
	r.NextID = p.UnpackUint64(true)
	return &r, p.Err()
}
