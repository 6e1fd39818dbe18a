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

var _ chain.Action = (*SetValue)(nil)

type SetValue struct {
	Counter codec.Address   `json:"counter"`
	Variant counter.Variant `json:"variant"`
	Value   uint64          `json:"value"`
}

func (*SetValue) GetTypeID() uint8 {
	return consts.SetValueID
}

func (s *SetValue) StateKeys(codec.Address, ids.ID) state.Keys {
	return counter.MutateStateKeys(s.Counter)
}

func (s *SetValue) Execute(
	ctx context.Context,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([]byte, error) {
	if err := counter.SetValue(ctx, mu, s.Counter, s.Variant, actor, s.Value); err != nil {
		return nil, err
	}
	return (&ValueResult{Value: s.Value}).Bytes()
}

func (*SetValue) Size() int {
	return codec.AddressLen + consts.Uint8Len + consts.Uint64Len
}

func (s *SetValue) Marshal(p *codec.Packer) {
	p.PackAddress(s.Counter)
	p.PackByte(uint8(s.Variant))
	p.PackUint64(s.Value)
}

func UnmarshalSetValue(p *codec.Packer) (chain.Action, error) {
	var s SetValue
	p.UnpackAddress(true, &s.Counter)
	s.Variant = counter.Variant(p.UnpackByte())
	s.Value = p.UnpackUint64(false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !s.Variant.Valid() {
		return nil, ErrUnknownVariant
	}
	return &s, nil
}
