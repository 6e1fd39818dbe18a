// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/tstate"
)

// VM owns the counter state and is the only way to change it. Writes go
// through [Submit], everything else is a read.
type VM struct {
	config *config.Config
	log    logging.Logger
	tracer trace.Tracer
	db     database.Database

	parser    *Parser
	metrics   *Metrics
	registry  *prometheus.Registry
	processor *chain.Processor

	closeOnce sync.Once
	closed    chan struct{}
}

func New(
	log logging.Logger,
	tracer trace.Tracer,
	db database.Database,
	cfg *config.Config,
) (*VM, error) {
	parser, err := NewParser()
	if err != nil {
		return nil, err
	}
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, err
	}
	vm := &VM{
		config:   cfg,
		log:      log,
		tracer:   tracer,
		db:       db,
		parser:   parser,
		metrics:  metrics,
		registry: registry,
		closed:   make(chan struct{}),
	}
	vm.processor = chain.NewProcessor(
		log,
		tracer,
		db,
		metrics,
		&txIndexer{log: log},
		chain.ProcessorConfig{
			Parallelism:  cfg.Parallelism,
			MaxBatchSize: cfg.MaxBatchSize,
		},
	)
	log.Info("initialized vm",
		zap.Int("parallelism", cfg.Parallelism),
		zap.Int("maxBatchSize", cfg.MaxBatchSize),
	)
	return vm, nil
}

func (vm *VM) Logger() logging.Logger {
	return vm.log
}

func (vm *VM) Tracer() trace.Tracer {
	return vm.tracer
}

func (vm *VM) Parser() chain.Parser {
	return vm.parser
}

// Registry holds the metrics of the vm and its processor.
func (vm *VM) Registry() *prometheus.Registry {
	return vm.registry
}

// ParseTx decodes a transaction submitted by a client.
func (vm *VM) ParseTx(b []byte) (*chain.Transaction, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	tx, err := chain.UnmarshalTx(p, vm.parser)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, ErrTxExtraBytes
	}
	return tx, nil
}

// Submit executes [txs] and returns one result per transaction. An error
// means nothing was executed.
func (vm *VM) Submit(ctx context.Context, txs []*chain.Transaction) ([]*chain.Result, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.Submit", oteltrace.WithAttributes(
		attribute.Int("txs", len(txs)),
	))
	defer span.End()

	select {
	case <-vm.closed:
		return nil, ErrClosed
	default:
	}

	vm.metrics.recordSubmitted(txs)
	var (
		results []*chain.Result
		err     error
	)
	if len(txs) == 1 {
		var result *chain.Result
		result, err = vm.processor.Execute(ctx, txs[0])
		results = []*chain.Result{result}
	} else {
		results, err = vm.processor.ExecuteBatch(ctx, txs)
	}
	if err != nil {
		vm.metrics.txsRejected.Add(float64(len(txs)))
		vm.log.Debug("rejected txs",
			zap.Int("txs", len(txs)),
			zap.Error(err),
		)
		return nil, err
	}
	return results, nil
}

// GetTransaction returns the recorded result of [txID] and the timestamp
// it was submitted with.
func (vm *VM) GetTransaction(ctx context.Context, txID ids.ID) (bool, int64, *chain.Result, error) {
	vm.metrics.recordQuery("tx")
	found, r, err := storage.GetTransaction(ctx, vm.db, txID)
	if err != nil || !found {
		return false, 0, nil, err
	}
	return true, r.Timestamp, chain.ResultFromStorage(txID, r), nil
}

// GetRegistry returns the registry and its address.
func (vm *VM) GetRegistry(ctx context.Context) (codec.Address, *counter.Registry, error) {
	vm.metrics.recordQuery("registry")
	addr, _, err := counter.RegistryAddress()
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	r, err := counter.GetRegistry(ctx, vm.view())
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	return addr, r, nil
}

// GetCounter loads the counter at [addr]. If [variant] is nil the record
// may be any counter variant.
func (vm *VM) GetCounter(ctx context.Context, addr codec.Address, variant *counter.Variant) (*counter.Counter, error) {
	vm.metrics.recordQuery("counter")
	if variant == nil {
		return counter.Lookup(ctx, vm.view(), addr)
	}
	return counter.Get(ctx, vm.view(), addr, *variant)
}

// GetCounterByID resolves a registered counter by the id it was assigned.
func (vm *VM) GetCounterByID(ctx context.Context, id uint64) (codec.Address, *counter.Counter, error) {
	vm.metrics.recordQuery("counter_by_id")
	view := vm.view()
	r, err := counter.GetRegistry(ctx, view)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	if err := counter.ValidateID(r, id); err != nil {
		return codec.EmptyAddress, nil, fmt.Errorf("%w: %d", err, id)
	}
	addr, err := storage.GetRegisteredID(vm.db, id)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	c, err := counter.Get(ctx, view, addr, counter.SharedRegistered)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	return addr, c, nil
}

// CounterFilter narrows [ListCounters]. Zero values match everything.
type CounterFilter struct {
	Variant   *counter.Variant
	Authority codec.Address
	Limit     int
}

func (f *CounterFilter) matches(c *counter.Counter) bool {
	if f.Variant != nil && c.Variant != *f.Variant {
		return false
	}
	return f.Authority == codec.EmptyAddress || c.Authority == f.Authority
}

type CounterEntry struct {
	Address codec.Address    `json:"address"`
	Counter *counter.Counter `json:"counter"`
}

// ListCounters returns every counter matching [filter] in address order.
func (vm *VM) ListCounters(ctx context.Context, filter CounterFilter) ([]*CounterEntry, error) {
	_, span := vm.tracer.Start(ctx, "VM.ListCounters")
	defer span.End()

	vm.metrics.recordQuery("counters")
	var (
		entries []*CounterEntry
		decErr  error
	)
	err := storage.IterateRecords(vm.db, func(r storage.Record) bool {
		c, err := counter.UnmarshalCounter(r.Value)
		if errors.Is(err, counter.ErrAccountTypeMismatch) {
			// Not a counter (the registry)
			return true
		}
		if err != nil {
			decErr = fmt.Errorf("%w: %s", err, r.Address)
			return false
		}
		if !filter.matches(c) {
			return true
		}
		entries = append(entries, &CounterEntry{Address: r.Address, Counter: c})
		return filter.Limit <= 0 || len(entries) < filter.Limit
	})
	if err != nil {
		return nil, err
	}
	return entries, decErr
}

// view is a read-only view of the latest committed state.
func (vm *VM) view() *tstate.TState {
	return tstate.New(vm.db, 0)
}

// Close stops accepting transactions and releases the database and tracer.
func (vm *VM) Close() error {
	errs := wrappers.Errs{}
	vm.closeOnce.Do(func() {
		close(vm.closed)
		errs.Add(
			vm.db.Close(),
			vm.tracer.Close(),
		)
		vm.log.Info("closed vm")
	})
	return errs.Err
}
