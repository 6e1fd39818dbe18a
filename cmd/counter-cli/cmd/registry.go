// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var registryCmd = &cobra.Command{
	Use: "registry",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var initRegistryCmd = &cobra.Command{
	Use: "init",
	RunE: func(*cobra.Command, []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return handler.InitializeRegistry(ctx)
	},
}

var showRegistryCmd = &cobra.Command{
	Use: "show",
	RunE: func(*cobra.Command, []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return handler.ShowRegistry(ctx)
	},
}
