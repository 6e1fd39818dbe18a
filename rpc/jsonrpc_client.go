// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/ids"

	avarpc "github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/vm"
)

type JSONRPCClient struct {
	requester avarpc.EndpointRequester

	l             sync.Mutex
	lastTimestamp int64
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: avarpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args interface{}, reply interface{}) error {
	return parseError(cli.requester.SendRequest(ctx, Name+"."+method, args, reply))
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) SubmitTx(ctx context.Context, d []byte) (*chain.Result, error) {
	resp := new(SubmitTxReply)
	err := cli.send(
		ctx,
		"submitTx",
		&SubmitTxArgs{Tx: d},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return &chain.Result{
		TxID:    resp.TxID,
		Success: resp.Success,
		Error:   resp.Error,
		Output:  resp.Output,
	}, nil
}

func (cli *JSONRPCClient) SubmitTxs(ctx context.Context, txs [][]byte) ([]*chain.Result, error) {
	resp := new(SubmitTxsReply)
	err := cli.send(
		ctx,
		"submitTxs",
		&SubmitTxsArgs{Txs: txs},
		resp,
	)
	return resp.Results, err
}

// timestamp returns a millisecond timestamp strictly greater than any it
// returned before, so identical actions signed back to back get different
// ids.
func (cli *JSONRPCClient) timestamp() int64 {
	cli.l.Lock()
	defer cli.l.Unlock()

	t := time.Now().UnixMilli()
	if t <= cli.lastTimestamp {
		t = cli.lastTimestamp + 1
	}
	cli.lastTimestamp = t
	return t
}

// GenerateTransaction signs [action] with [factory].
func (cli *JSONRPCClient) GenerateTransaction(
	parser chain.Parser,
	factory chain.AuthFactory,
	action chain.Action,
) (*chain.Transaction, error) {
	return chain.NewTx(cli.timestamp(), action).Sign(factory, parser)
}

// SubmitAction signs [action] with [factory] and submits it.
func (cli *JSONRPCClient) SubmitAction(
	ctx context.Context,
	parser chain.Parser,
	factory chain.AuthFactory,
	action chain.Action,
) (*chain.Result, error) {
	tx, err := cli.GenerateTransaction(parser, factory, action)
	if err != nil {
		return nil, err
	}
	return cli.SubmitTx(ctx, tx.Bytes())
}

func (cli *JSONRPCClient) Tx(ctx context.Context, txID ids.ID) (bool, *TxReply, error) {
	resp := new(TxReply)
	err := cli.send(
		ctx,
		"tx",
		&TxArgs{TxID: txID},
		resp,
	)
	// Hide the error if the tx was not found
	if err != nil && strings.Contains(err.Error(), ErrTxNotFound.Error()) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	return true, resp, nil
}

func (cli *JSONRPCClient) Registry(ctx context.Context) (*RegistryReply, error) {
	resp := new(RegistryReply)
	err := cli.send(
		ctx,
		"registry",
		nil,
		resp,
	)
	return resp, err
}

// Counter loads the counter at [addr]. A nil [variant] accepts any variant.
func (cli *JSONRPCClient) Counter(ctx context.Context, addr codec.Address, variant *counter.Variant) (*counter.Counter, error) {
	resp := new(CounterReply)
	err := cli.send(
		ctx,
		"counter",
		&CounterArgs{Address: addr, Variant: variant},
		resp,
	)
	return resp.Counter, err
}

func (cli *JSONRPCClient) CounterByID(ctx context.Context, id uint64) (codec.Address, *counter.Counter, error) {
	resp := new(CounterByIDReply)
	err := cli.send(
		ctx,
		"counterByID",
		&CounterByIDArgs{ID: id},
		resp,
	)
	return resp.Address, resp.Counter, err
}

func (cli *JSONRPCClient) Counters(ctx context.Context, args *CountersArgs) ([]*vm.CounterEntry, error) {
	resp := new(CountersReply)
	err := cli.send(
		ctx,
		"counters",
		args,
		resp,
	)
	return resp.Counters, err
}
