// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/version"
)

const (
	// Name identifies the program in logs, metrics and RPC routes.
	Name = "countervm"

	// HRP is the bech32 human readable part of every address.
	HRP = "counter"
)

// Address type IDs (first byte of a [codec.Address]).
const (
	ED25519ID    uint8 = 0
	DerivedID    uint8 = 1
	RegisteredID uint8 = 2
)

// Action type IDs.
const (
	InitializeRegistryID uint8 = 0
	CreateCounterID      uint8 = 1
	IncrementID          uint8 = 2
	SetValueID           uint8 = 3
)

var Version = &version.Semantic{
	Major: 0,
	Minor: 1,
	Patch: 0,
}

// ProgramID is mixed into every derived address so that addresses derived by
// this program never collide with those of another program using the same seeds.
var ProgramID = ids.ID(hashing.ComputeHash256Array([]byte(Name)))
