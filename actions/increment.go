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

var _ chain.Action = (*Increment)(nil)

type Increment struct {
	Counter codec.Address   `json:"counter"`
	Variant counter.Variant `json:"variant"`
}

func (*Increment) GetTypeID() uint8 {
	return consts.IncrementID
}

func (i *Increment) StateKeys(codec.Address, ids.ID) state.Keys {
	return counter.MutateStateKeys(i.Counter)
}

func (i *Increment) Execute(
	ctx context.Context,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([]byte, error) {
	v, err := counter.Increment(ctx, mu, i.Counter, i.Variant, actor)
	if err != nil {
		return nil, err
	}
	return (&ValueResult{Value: v}).Bytes()
}

func (*Increment) Size() int {
	return codec.AddressLen + consts.Uint8Len
}

func (i *Increment) Marshal(p *codec.Packer) {
	p.PackAddress(i.Counter)
	p.PackByte(uint8(i.Variant))
}

func UnmarshalIncrement(p *codec.Packer) (chain.Action, error) {
	var i Increment
	p.UnpackAddress(true, &i.Counter)
	i.Variant = counter.Variant(p.UnpackByte())
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !i.Variant.Valid() {
		return nil, ErrUnknownVariant
	}
	return &i, nil
}

// ValueResult is the value of a counter after a mutation.
type ValueResult struct {
	Value uint64 `json:"value"`
}

func (r *ValueResult) Bytes() ([]byte, error) {
	p := codec.NewWriter(consts.Uint64Len, consts.Uint64Len)
	p.PackUint64(r.Value)
	return p.Bytes(), p.Err()
}

func UnmarshalValueResult(b []byte) (*ValueResult, error) {
	p := codec.NewReader(b, consts.Uint64Len)
	r := &ValueResult{Value: p.UnpackUint64(false)}
	return r, p.Err()
}
