// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/storage"
)

var _ chain.Indexer = (*txIndexer)(nil)

// txIndexer logs every executed operation and remembers where each
// registered counter lives so it can be found by id. The index is written
// in the same batch as the counter.
type txIndexer struct {
	log logging.Logger
}

func (i *txIndexer) Index(
	_ context.Context,
	w database.KeyValueWriter,
	tx *chain.Transaction,
	result *chain.Result,
) error {
	logResult(i.log, tx, result)
	if !result.Success {
		return nil
	}
	create, ok := tx.Action.(*actions.CreateCounter)
	if !ok || create.Variant.Capabilities().Addressing != counter.Registered {
		return nil
	}
	created, err := actions.UnmarshalCreateCounterResult(result.Output)
	if err != nil {
		return err
	}
	i.log.Debug("indexed registered counter",
		zap.Uint64("id", created.ID),
		zap.Stringer("txID", tx.ID()),
	)
	return storage.StoreRegisteredID(w, created.ID, created.Counter)
}

func logResult(log logging.Logger, tx *chain.Transaction, result *chain.Result) {
	fields := []zap.Field{
		zap.String("action", actionName(tx.Action)),
		zap.Stringer("actor", tx.Auth.Actor()),
		zap.Stringer("txID", tx.ID()),
	}
	if !result.Success {
		log.Debug("operation failed", append(fields, zap.String("error", result.Error))...)
		return
	}
	switch a := tx.Action.(type) {
	case *actions.CreateCounter:
		if created, err := actions.UnmarshalCreateCounterResult(result.Output); err == nil {
			fields = append(fields,
				zap.Stringer("variant", created.Variant),
				zap.Stringer("counter", created.Counter),
				zap.Uint64("seed", a.Seed),
				zap.Uint64("id", created.ID),
			)
		}
	case *actions.Increment:
		fields = append(fields, zap.Stringer("counter", a.Counter), zap.Stringer("variant", a.Variant))
		if v, err := actions.UnmarshalValueResult(result.Output); err == nil {
			fields = append(fields, zap.Uint64("value", v.Value))
		}
	case *actions.SetValue:
		fields = append(fields,
			zap.Stringer("counter", a.Counter),
			zap.Stringer("variant", a.Variant),
			zap.Uint64("value", a.Value),
		)
	}
	log.Debug("operation executed", fields...)
}

func actionName(a chain.Action) string {
	switch a.(type) {
	case *actions.InitializeRegistry:
		return "initialize_registry"
	case *actions.CreateCounter:
		return "create_counter"
	case *actions.Increment:
		return "increment"
	case *actions.SetValue:
		return "set_value"
	default:
		return "unknown"
	}
}
