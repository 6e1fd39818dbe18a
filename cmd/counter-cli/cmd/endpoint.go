// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var endpointCmd = &cobra.Command{
	Use: "endpoint",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var importEndpointCmd = &cobra.Command{
	Use: "import [uri]",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return handler.ImportEndpoint(ctx, args[0])
	},
}

var setEndpointCmd = &cobra.Command{
	Use: "set",
	RunE: func(*cobra.Command, []string) error {
		return handler.SetEndpoint()
	},
}
