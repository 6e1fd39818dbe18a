// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/vm"
)

const (
	MaxSubmitTxs     = 1_024
	MaxCountersLimit = 4_096
)

type JSONRPCServer struct {
	vm VM
}

func NewJSONRPCServer(vm VM) *JSONRPCServer {
	return &JSONRPCServer{vm}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.vm.Logger().Info("ping")
	reply.Success = true
	return nil
}

type SubmitTxArgs struct {
	Tx []byte `json:"tx"`
}

type SubmitTxReply struct {
	TxID    ids.ID `json:"txId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Output  []byte `json:"output,omitempty"`
}

func (j *JSONRPCServer) SubmitTx(
	req *http.Request,
	args *SubmitTxArgs,
	reply *SubmitTxReply,
) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.SubmitTx")
	defer span.End()

	tx, err := j.vm.ParseTx(args.Tx)
	if err != nil {
		return err
	}
	results, err := j.vm.Submit(ctx, []*chain.Transaction{tx})
	if err != nil {
		return err
	}
	r := results[0]
	reply.TxID = r.TxID
	reply.Success = r.Success
	reply.Error = r.Error
	reply.Output = r.Output
	return nil
}

type SubmitTxsArgs struct {
	Txs [][]byte `json:"txs"`
}

type SubmitTxsReply struct {
	Results []*chain.Result `json:"results"`
}

// SubmitTxs executes a batch of transactions. Transactions touching
// different counters run in parallel.
func (j *JSONRPCServer) SubmitTxs(
	req *http.Request,
	args *SubmitTxsArgs,
	reply *SubmitTxsReply,
) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.SubmitTxs", trace.WithAttributes(
		attribute.Int("txs", len(args.Txs)),
	))
	defer span.End()

	if len(args.Txs) > MaxSubmitTxs {
		return ErrTooManyTxs
	}
	txs := make([]*chain.Transaction, len(args.Txs))
	for i, b := range args.Txs {
		tx, err := j.vm.ParseTx(b)
		if err != nil {
			return err
		}
		txs[i] = tx
	}
	results, err := j.vm.Submit(ctx, txs)
	if err != nil {
		return err
	}
	reply.Results = results
	return nil
}

type TxArgs struct {
	TxID ids.ID `json:"txId"`
}

type TxReply struct {
	Timestamp int64  `json:"timestamp"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Output    []byte `json:"output,omitempty"`
}

func (j *JSONRPCServer) Tx(req *http.Request, args *TxArgs, reply *TxReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Tx")
	defer span.End()

	found, timestamp, r, err := j.vm.GetTransaction(ctx, args.TxID)
	if err != nil {
		return err
	}
	if !found {
		return ErrTxNotFound
	}
	reply.Timestamp = timestamp
	reply.Success = r.Success
	reply.Error = r.Error
	reply.Output = r.Output
	return nil
}

type RegistryReply struct {
	Address codec.Address `json:"address"`
	NextID  uint64        `json:"nextId"`
	Nonce   uint8         `json:"nonce"`
}

func (j *JSONRPCServer) Registry(req *http.Request, _ *struct{}, reply *RegistryReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Registry")
	defer span.End()

	addr, r, err := j.vm.GetRegistry(ctx)
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.NextID = r.NextID
	reply.Nonce = r.Nonce
	return nil
}

type CounterArgs struct {
	Address codec.Address    `json:"address"`
	Variant *counter.Variant `json:"variant,omitempty"`
}

type CounterReply struct {
	Counter *counter.Counter `json:"counter"`
}

func (j *JSONRPCServer) Counter(req *http.Request, args *CounterArgs, reply *CounterReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Counter")
	defer span.End()

	c, err := j.vm.GetCounter(ctx, args.Address, args.Variant)
	if err != nil {
		return err
	}
	reply.Counter = c
	return nil
}

type CounterByIDArgs struct {
	ID uint64 `json:"id"`
}

type CounterByIDReply struct {
	Address codec.Address    `json:"address"`
	Counter *counter.Counter `json:"counter"`
}

func (j *JSONRPCServer) CounterByID(req *http.Request, args *CounterByIDArgs, reply *CounterByIDReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.CounterByID", trace.WithAttributes(
		attribute.Int64("id", int64(args.ID)),
	))
	defer span.End()

	addr, c, err := j.vm.GetCounterByID(ctx, args.ID)
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.Counter = c
	return nil
}

type CountersArgs struct {
	Variant   *counter.Variant `json:"variant,omitempty"`
	Authority *codec.Address   `json:"authority,omitempty"`
	Limit     int              `json:"limit,omitempty"`
}

type CountersReply struct {
	Counters []*vm.CounterEntry `json:"counters"`
}

func (j *JSONRPCServer) Counters(req *http.Request, args *CountersArgs, reply *CountersReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Counters")
	defer span.End()

	if args.Limit > MaxCountersLimit {
		return ErrLimitTooLarge
	}
	filter := vm.CounterFilter{
		Variant: args.Variant,
		Limit:   args.Limit,
	}
	if filter.Limit <= 0 {
		filter.Limit = MaxCountersLimit
	}
	if args.Authority != nil {
		filter.Authority = *args.Authority
	}
	entries, err := j.vm.ListCounters(ctx, filter)
	if err != nil {
		return err
	}
	j.vm.Logger().Debug("listed counters",
		zap.Int("count", len(entries)),
	)
	reply.Counters = entries
	return nil
}
