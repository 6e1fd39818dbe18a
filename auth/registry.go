// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

// Register adds every auth module to [p].
func Register(p *codec.TypeParser[chain.Auth]) error {
	return p.Register(consts.ED25519ID, UnmarshalED25519)
}
