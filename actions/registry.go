// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

// Register adds every action to [p].
func Register(p *codec.TypeParser[chain.Action]) error {
	errs := &wrappers.Errs{}
	errs.Add(
		p.Register(consts.InitializeRegistryID, UnmarshalInitializeRegistry),
		p.Register(consts.CreateCounterID, UnmarshalCreateCounter),
		p.Register(consts.IncrementID, UnmarshalIncrement),
		p.Register(consts.SetValueID, UnmarshalSetValue),
	)
	return errs.Err
}
