// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/vm"
)

type VM interface {
	Logger() logging.Logger
	Tracer() trace.Tracer
	ParseTx(b []byte) (*chain.Transaction, error)
	Submit(ctx context.Context, txs []*chain.Transaction) ([]*chain.Result, error)
	GetTransaction(ctx context.Context, txID ids.ID) (bool, int64, *chain.Result, error)
	GetRegistry(ctx context.Context) (codec.Address, *counter.Registry, error)
	GetCounter(ctx context.Context, addr codec.Address, variant *counter.Variant) (*counter.Counter, error)
	GetCounterByID(ctx context.Context, id uint64) (codec.Address, *counter.Counter, error)
	ListCounters(ctx context.Context, filter vm.CounterFilter) ([]*vm.CounterEntry, error)
}
