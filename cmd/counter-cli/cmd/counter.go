// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
)

var counterCmd = &cobra.Command{
	Use: "counter",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

// counterAddress parses the first arg or prompts for it.
func counterAddress(args []string) (codec.Address, error) {
	if len(args) > 0 {
		return codec.ParseAddressBech32(consts.HRP, args[0])
	}
	return handler.PromptAddress("counter")
}

var createCounterCmd = &cobra.Command{
	Use: "create",
	RunE: func(*cobra.Command, []string) error {
		var (
			v   counter.Variant
			err error
		)
		if len(variant) > 0 {
			v, err = counter.ParseVariant(variant)
		} else {
			v, err = handler.PromptVariant("variant")
		}
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return handler.CreateCounter(ctx, v, seed)
	},
}

var incrementCounterCmd = &cobra.Command{
	Use: "increment [address]",
	RunE: func(_ *cobra.Command, args []string) error {
		addr, err := counterAddress(args)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return handler.Increment(ctx, addr)
	},
}

var setCounterCmd = &cobra.Command{
	Use: "set [address] [value]",
	RunE: func(_ *cobra.Command, args []string) error {
		addr, err := counterAddress(args)
		if err != nil {
			return err
		}
		var value uint64
		if len(args) > 1 {
			value, err = strconv.ParseUint(args[1], 10, 64)
		} else {
			value, err = handler.PromptUint64("value")
		}
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return handler.SetValue(ctx, addr, value)
	},
}

var showCounterCmd = &cobra.Command{
	Use:   "show [address|id]",
	Short: "Show a counter by address, or a registered counter by id",
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if len(args) > 0 {
			if id, err := strconv.ParseUint(args[0], 10, 64); err == nil {
				return handler.ShowCounterByID(ctx, id)
			}
		}
		addr, err := counterAddress(args)
		if err != nil {
			return err
		}
		return handler.ShowCounter(ctx, addr)
	},
}

var listCountersCmd = &cobra.Command{
	Use: "list",
	RunE: func(*cobra.Command, []string) error {
		var filter *counter.Variant
		if len(variant) > 0 {
			v, err := counter.ParseVariant(variant)
			if err != nil {
				return err
			}
			filter = &v
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return handler.ListCounters(ctx, filter, mine, limit)
	},
}
