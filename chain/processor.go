// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/executor"
	"github.com/ava-labs/countervm/lockmap"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/tstate"
)

// Processor executes transactions against a database. Transactions that
// touch the same key are serialized, everything else runs concurrently.
// Each call either writes all of its state changes and results or nothing.
type Processor struct {
	log         logging.Logger
	tracer      trace.Tracer
	db          database.Database
	locks       *lockmap.Lockmap
	metrics     Metrics
	indexer     Indexer
	parallelism int
	maxBatch    int
}

type ProcessorConfig struct {
	Parallelism  int
	MaxBatchSize int
}

func NewProcessor(
	log logging.Logger,
	tracer trace.Tracer,
	db database.Database,
	metrics Metrics,
	indexer Indexer,
	cfg ProcessorConfig,
) *Processor {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Processor{
		log:         log,
		tracer:      tracer,
		db:          db,
		locks:       lockmap.New(1024),
		metrics:     metrics,
		indexer:     indexer,
		parallelism: cfg.Parallelism,
		maxBatch:    cfg.MaxBatchSize,
	}
}

// lock acquires every key in sorted order. Read-only keys are shared.
func (p *Processor) lock(keys state.Keys) func() {
	sorted := keys.Sorted()
	for _, k := range sorted {
		if keys[k] == state.Read {
			p.locks.RLock(k)
		} else {
			p.locks.Lock(k)
		}
	}
	return func() {
		for i := len(sorted) - 1; i >= 0; i-- {
			k := sorted[i]
			if keys[k] == state.Read {
				p.locks.RUnlock(k)
			} else {
				p.locks.Unlock(k)
			}
		}
	}
}

func (p *Processor) checkReplay(tx *Transaction) error {
	seen, err := storage.HasTransaction(p.db, tx.ID())
	if err != nil {
		return err
	}
	if seen {
		return fmt.Errorf("%w: %s", ErrDuplicateTx, tx.ID())
	}
	return nil
}

// execute runs [tx] in its own view of [ts] and commits the view only on
// success.
func (p *Processor) execute(ctx context.Context, ts *tstate.TState, tx *Transaction) *Result {
	view := ts.NewView(tx.StateKeys())
	output, err := tx.Action.Execute(ctx, view, tx.Timestamp, tx.Auth.Actor(), tx.ID())
	if err != nil {
		view.Rollback(ctx, 0)
		p.log.Debug("transaction failed",
			zap.Stringer("txID", tx.ID()),
			zap.Error(err),
		)
		if p.metrics != nil {
			p.metrics.RecordResult(false)
		}
		return &Result{TxID: tx.ID(), Error: err.Error()}
	}
	view.Commit()
	if p.metrics != nil {
		p.metrics.RecordResult(true)
	}
	return &Result{TxID: tx.ID(), Success: true, Output: output}
}

// commit writes [results] and the changes in [ts] in a single batch.
func (p *Processor) commit(ctx context.Context, ts *tstate.TState, txs []*Transaction, results []*Result) error {
	batch := p.db.NewBatch()
	for i, tx := range txs {
		if err := storage.StoreTransaction(ctx, batch, tx.ID(), results[i].toStorage(tx.Timestamp)); err != nil {
			return err
		}
		if p.indexer == nil {
			continue
		}
		if err := p.indexer.Index(ctx, batch, tx, results[i]); err != nil {
			return err
		}
	}
	return ts.Flush(batch)
}

// Execute verifies and executes a single transaction.
func (p *Processor) Execute(ctx context.Context, tx *Transaction) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "Processor.Execute")
	defer span.End()

	if err := tx.Verify(ctx); err != nil {
		return nil, err
	}
	keys := tx.StateKeys()
	unlock := p.lock(keys)
	defer unlock()

	if err := p.checkReplay(tx); err != nil {
		return nil, err
	}
	ts := tstate.New(p.db, len(keys))
	result := p.execute(ctx, ts, tx)
	if err := p.commit(ctx, ts, []*Transaction{tx}, []*Result{result}); err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteBatch verifies every transaction and then executes them
// concurrently, running conflicting transactions in the order given.
func (p *Processor) ExecuteBatch(ctx context.Context, txs []*Transaction) ([]*Result, error) {
	ctx, span := p.tracer.Start(ctx, "Processor.ExecuteBatch", trace.WithAttributes(
		attribute.Int("txs", len(txs)),
	))
	defer span.End()

	if len(txs) == 0 {
		return nil, ErrEmptyBatch
	}
	if p.maxBatch > 0 && len(txs) > p.maxBatch {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(txs), p.maxBatch)
	}
	seen := set.NewSet[ids.ID](len(txs))
	for _, tx := range txs {
		if seen.Contains(tx.ID()) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTx, tx.ID())
		}
		seen.Add(tx.ID())
	}
	if err := verifyAuths(ctx, txs, p.parallelism); err != nil {
		return nil, err
	}

	keys := state.Keys{}
	for _, tx := range txs {
		keys.Union(tx.StateKeys())
	}
	unlock := p.lock(keys)
	defer unlock()

	for _, tx := range txs {
		if err := p.checkReplay(tx); err != nil {
			return nil, err
		}
	}

	var (
		ts      = tstate.New(p.db, len(keys))
		e       = executor.New(len(txs), p.parallelism, p.metrics)
		results = make([]*Result, len(txs))
	)
	for i, tx := range txs {
		i, tx := i, tx
		e.Run(tx.StateKeys(), func() error {
			results[i] = p.execute(ctx, ts, tx)
			return nil
		})
	}
	if err := e.Wait(); err != nil {
		return nil, err
	}
	if err := p.commit(ctx, ts, txs, results); err != nil {
		return nil, err
	}
	p.log.Debug("executed batch",
		zap.Int("txs", len(txs)),
		zap.Int("keys", len(keys)),
	)
	return results, nil
}
