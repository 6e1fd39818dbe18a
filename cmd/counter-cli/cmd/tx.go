// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"
)

var txCmd = &cobra.Command{
	Use: "tx [txID]",
	RunE: func(_ *cobra.Command, args []string) error {
		var (
			txID ids.ID
			err  error
		)
		if len(args) == 1 {
			txID, err = ids.FromString(args[0])
		} else {
			txID, err = handler.PromptID("txID")
		}
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return handler.ShowTx(ctx, txID)
	},
}
