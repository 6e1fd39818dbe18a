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

var _ chain.Action = (*CreateCounter)(nil)

// CreateCounter creates a counter with a value of 0. Owned counters are
// mutable only by the signer; shared counters by anyone.
type CreateCounter struct {
	Variant counter.Variant `json:"variant"`

	// Seed picks one of many derived counters per creator. It must be 0
	// for registered counters.
	Seed uint64 `json:"seed"`
}

func (*CreateCounter) GetTypeID() uint8 {
	return consts.CreateCounterID
}

func (c *CreateCounter) StateKeys(actor codec.Address, txID ids.ID) state.Keys {
	k, err := counter.CreateStateKeys(c.Variant, actor, c.Seed, txID)
	if err != nil {
		// Execute derives the same address before touching state and
		// returns this error from there.
		return state.Keys{}
	}
	return k
}

func (c *CreateCounter) Execute(
	ctx context.Context,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	txID ids.ID,
) ([]byte, error) {
	addr, ctr, err := counter.Create(ctx, mu, c.Variant, actor, c.Seed, txID)
	if err != nil {
		return nil, err
	}
	return (&CreateCounterResult{
		Counter: addr,
		Variant: ctr.Variant,
		ID:      ctr.ID,
		Nonce:   ctr.Nonce,
	}).Bytes()
}

func (*CreateCounter) Size() int {
	return consts.Uint8Len + consts.Uint64Len
}

func (c *CreateCounter) Marshal(p *codec.Packer) {
	p.PackByte(uint8(c.Variant))
	p.PackUint64(c.Seed)
}

func UnmarshalCreateCounter(p *codec.Packer) (chain.Action, error) {
	var c CreateCounter
	c.Variant = counter.Variant(p.UnpackByte())
	c.Seed = p.UnpackUint64(false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !c.Variant.Valid() {
		return nil, ErrUnknownVariant
	}
	return &c, nil
}

type CreateCounterResult struct {
	Counter codec.Address   `json:"counter"`
	Variant counter.Variant `json:"variant"`
	ID      uint64          `json:"id"`
	Nonce   uint8           `json:"nonce"`
}

func (r *CreateCounterResult) Bytes() ([]byte, error) {
	p := codec.NewWriter(codec.AddressLen+consts.Uint8Len+consts.Uint64Len+consts.Uint8Len, consts.NetworkSizeLimit)
	p.PackAddress(r.Counter)
	p.PackByte(uint8(r.Variant))
	p.PackUint64(r.ID)
	p.PackByte(r.Nonce)
	return p.Bytes(), p.Err()
}

func UnmarshalCreateCounterResult(b []byte) (*CreateCounterResult, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	var r CreateCounterResult
	p.UnpackAddress(true, &r.Counter)
	r.Variant = counter.Variant(p.UnpackByte())
	r.ID = p.UnpackUint64(false)
	r.Nonce = p.UnpackByte()
	return &r, p.Err()
}
