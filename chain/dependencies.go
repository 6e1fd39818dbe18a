// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/executor"
	"github.com/ava-labs/countervm/state"
)

type Action interface {
	// GetTypeID uniquely identifies each supported [Action]. We use IDs to avoid
	// reflection.
	GetTypeID() uint8

	// StateKeys is a full enumeration of all database keys that could be touched during execution
	// of an [Action]. Keys touched by two transactions serialize them, keys touched by one run in
	// parallel with everything else.
	//
	// All keys specified must be suffixed with the number of chunks that could ever be read from that
	// key (formatted as a big-endian uint16).
	StateKeys(actor codec.Address, txID ids.ID) state.Keys

	// Execute actually runs the [Action]. Any state changes that the [Action] performs should
	// be done here.
	//
	// If any keys are touched during [Execute] that are not specified in [StateKeys], the transaction
	// will revert.
	//
	// If [Execute] returns an error, execution will halt and any state changes
	// will revert.
	Execute(
		ctx context.Context,
		mu state.Mutable,
		timestamp int64,
		actor codec.Address,
		txID ids.ID,
	) (output []byte, err error)

	// Size is the number of bytes [Marshal] writes.
	Size() int
	Marshal(p *codec.Packer)
}

type Auth interface {
	// GetTypeID uniquely identifies each supported [Auth]. We use IDs to avoid
	// reflection.
	GetTypeID() uint8

	// Verify checks that the auth authorizes [msg]. It performs no state
	// access.
	Verify(ctx context.Context, msg []byte) error

	// Actor is the identity the [Action] executes as. It is prefixed by the
	// [Auth] type ID so two auth modules never collide.
	Actor() codec.Address

	Size() int
	Marshal(p *codec.Packer)
}

type AuthFactory interface {
	// Sign is used by helpers, auth object should store internally to be ready for marshaling
	Sign(msg []byte) (Auth, error)
	Address() codec.Address
}

type Parser interface {
	ActionRegistry() *codec.TypeParser[Action]
	AuthRegistry() *codec.TypeParser[Auth]
}

// Indexer persists whatever the node wants to remember about an executed
// transaction. It writes into the same batch as the state changes.
type Indexer interface {
	Index(ctx context.Context, w database.KeyValueWriter, tx *Transaction, result *Result) error
}

type Metrics interface {
	executor.Metrics

	RecordResult(success bool)
}
