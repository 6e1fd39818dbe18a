// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/utils"
	"github.com/ava-labs/countervm/vm"
)

// submit signs [action] with the default key and sends it to the default
// endpoint.
func (h *Handler) submit(ctx context.Context, action chain.Action) (*chain.Result, error) {
	key, err := h.GetDefaultKey(true)
	if err != nil {
		return nil, err
	}
	cli, err := h.client()
	if err != nil {
		return nil, err
	}
	parser, err := vm.NewParser()
	if err != nil {
		return nil, err
	}
	result, err := cli.SubmitAction(ctx, parser, key.Factory(), action)
	if err != nil {
		return nil, err
	}
	utils.Outf("{{yellow}}txID:{{/}} %s\n", result.TxID)
	if !result.Success {
		utils.Outf("{{red}}transaction failed:{{/}} %s\n", result.Error)
		return nil, fmt.Errorf("%w: %s", ErrTxFailed, result.Error)
	}
	return result, nil
}

func (h *Handler) InitializeRegistry(ctx context.Context) error {
	result, err := h.submit(ctx, &actions.InitializeRegistry{})
	if err != nil {
		return err
	}
	r, err := actions.UnmarshalInitializeRegistryResult(result.Output)
	if err != nil {
		return err
	}
	utils.Outf("{{green}}registry:{{/}} %s {{green}}next id:{{/}} %d\n", r.Registry, r.NextID)
	return nil
}

func (h *Handler) CreateCounter(ctx context.Context, variant counter.Variant, seed uint64) error {
	result, err := h.submit(ctx, &actions.CreateCounter{Variant: variant, Seed: seed})
	if err != nil {
		return err
	}
	created, err := actions.UnmarshalCreateCounterResult(result.Output)
	if err != nil {
		return err
	}
	utils.Outf("{{green}}created %s counter:{{/}} %s\n", created.Variant, created.Counter)
	if created.Variant.Capabilities().Addressing == counter.Registered {
		utils.Outf("{{green}}id:{{/}} %d\n", created.ID)
	} else {
		utils.Outf("{{green}}nonce:{{/}} %d\n", created.Nonce)
	}
	return nil
}

// lookupVariant finds the variant of the counter at [addr] so the caller
// does not need to know it.
func (h *Handler) lookupVariant(ctx context.Context, addr codec.Address) (counter.Variant, error) {
	cli, err := h.client()
	if err != nil {
		return 0, err
	}
	c, err := cli.Counter(ctx, addr, nil)
	if err != nil {
		return 0, err
	}
	return c.Variant, nil
}

func (h *Handler) Increment(ctx context.Context, addr codec.Address) error {
	variant, err := h.lookupVariant(ctx, addr)
	if err != nil {
		return err
	}
	result, err := h.submit(ctx, &actions.Increment{Counter: addr, Variant: variant})
	if err != nil {
		return err
	}
	v, err := actions.UnmarshalValueResult(result.Output)
	if err != nil {
		return err
	}
	utils.Outf("{{green}}value:{{/}} %d\n", v.Value)
	return nil
}

func (h *Handler) SetValue(ctx context.Context, addr codec.Address, value uint64) error {
	variant, err := h.lookupVariant(ctx, addr)
	if err != nil {
		return err
	}
	if _, err := h.submit(ctx, &actions.SetValue{Counter: addr, Variant: variant, Value: value}); err != nil {
		return err
	}
	utils.Outf("{{green}}value:{{/}} %d\n", value)
	return nil
}

func printCounter(addr codec.Address, c *counter.Counter) {
	switch c.Variant {
	case counter.Owned:
		utils.Outf(
			"{{cyan}}%s{{/}} %s {{cyan}}authority:{{/}} %s {{cyan}}seed:{{/}} %d {{cyan}}value:{{/}} %d\n",
			c.Variant, addr, c.Authority, c.Seed, c.Value,
		)
	case counter.SharedDerived:
		utils.Outf(
			"{{cyan}}%s{{/}} %s {{cyan}}seed:{{/}} %d {{cyan}}value:{{/}} %d\n",
			c.Variant, addr, c.Seed, c.Value,
		)
	default:
		utils.Outf(
			"{{cyan}}%s{{/}} %s {{cyan}}id:{{/}} %d {{cyan}}value:{{/}} %d\n",
			c.Variant, addr, c.ID, c.Value,
		)
	}
}

func (h *Handler) ShowCounter(ctx context.Context, addr codec.Address) error {
	cli, err := h.client()
	if err != nil {
		return err
	}
	c, err := cli.Counter(ctx, addr, nil)
	if err != nil {
		return err
	}
	printCounter(addr, c)
	return nil
}

func (h *Handler) ShowCounterByID(ctx context.Context, id uint64) error {
	cli, err := h.client()
	if err != nil {
		return err
	}
	addr, c, err := cli.CounterByID(ctx, id)
	if err != nil {
		return err
	}
	printCounter(addr, c)
	return nil
}

// ListCounters prints counters of [variant] (all if nil). If [mine] is set
// only counters owned by the default key are listed.
func (h *Handler) ListCounters(ctx context.Context, variant *counter.Variant, mine bool, limit int) error {
	cli, err := h.client()
	if err != nil {
		return err
	}
	args := &rpc.CountersArgs{Variant: variant, Limit: limit}
	if mine {
		key, err := h.GetDefaultKey(true)
		if err != nil {
			return err
		}
		args.Authority = &key.Address
	}
	entries, err := cli.Counters(ctx, args)
	if err != nil {
		return err
	}
	utils.Outf("{{yellow}}counters:{{/}} %d\n", len(entries))
	for _, e := range entries {
		printCounter(e.Address, e.Counter)
	}
	return nil
}

func (h *Handler) ShowRegistry(ctx context.Context) error {
	cli, err := h.client()
	if err != nil {
		return err
	}
	r, err := cli.Registry(ctx)
	if err != nil {
		return err
	}
	utils.Outf("{{cyan}}registry:{{/}} %s {{cyan}}next id:{{/}} %d\n", r.Address, r.NextID)
	return nil
}

func (h *Handler) ShowTx(ctx context.Context, txID ids.ID) error {
	cli, err := h.client()
	if err != nil {
		return err
	}
	found, tx, err := cli.Tx(ctx, txID)
	if err != nil {
		return err
	}
	if !found {
		utils.Outf("{{red}}%s not found{{/}}\n", txID)
		return nil
	}
	if tx.Success {
		utils.Outf("{{green}}success{{/}} {{cyan}}timestamp:{{/}} %d\n", tx.Timestamp)
	} else {
		utils.Outf("{{red}}failed:{{/}} %s {{cyan}}timestamp:{{/}} %d\n", tx.Error, tx.Timestamp)
	}
	return nil
}
