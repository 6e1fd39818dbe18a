// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "counter-cli" implements countervm client operation interface.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/cli"
)

const (
	requestTimeout = 30 * time.Second
	databaseFolder = ".counter-cli"
)

var (
	handler *cli.Handler

	dbPath  string
	variant string
	seed    uint64
	mine    bool
	limit   int

	rootCmd = &cobra.Command{
		Use:        "counter-cli",
		Short:      "CounterVM CLI",
		SuggestFor: []string{"counter-cli", "countercli"},
		PersistentPreRunE: func(*cobra.Command, []string) error {
			h, err := cli.New(dbPath)
			if err != nil {
				return fmt.Errorf("unable to open %s: %w", dbPath, err)
			}
			handler = h
			return nil
		},
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(
		keyCmd,
		endpointCmd,
		registryCmd,
		counterCmd,
		txCmd,
	)
	rootCmd.PersistentFlags().StringVar(
		&dbPath,
		"database",
		defaultDatabasePath(),
		"path to the key and endpoint store",
	)

	// key
	keyCmd.AddCommand(
		genKeyCmd,
		importKeyCmd,
		exportKeyCmd,
		setKeyCmd,
	)

	// endpoint
	endpointCmd.AddCommand(
		importEndpointCmd,
		setEndpointCmd,
	)

	// registry
	registryCmd.AddCommand(
		initRegistryCmd,
		showRegistryCmd,
	)

	// counter
	counterCmd.AddCommand(
		createCounterCmd,
		incrementCounterCmd,
		setCounterCmd,
		showCounterCmd,
		listCountersCmd,
	)
	createCounterCmd.Flags().StringVar(
		&variant,
		"variant",
		"",
		"owned, shared or registered (prompted if empty)",
	)
	createCounterCmd.Flags().Uint64Var(
		&seed,
		"seed",
		0,
		"seed of a derived counter",
	)
	listCountersCmd.Flags().StringVar(
		&variant,
		"variant",
		"",
		"only list counters of this variant",
	)
	listCountersCmd.Flags().BoolVar(
		&mine,
		"mine",
		false,
		"only list counters owned by the default key",
	)
	listCountersCmd.Flags().IntVar(
		&limit,
		"limit",
		0,
		"maximum number of counters to list",
	)
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return databaseFolder
	}
	return filepath.Join(home, databaseFolder)
}

func Execute() error {
	defer func() {
		if handler != nil {
			_ = handler.CloseDatabase()
		}
	}()
	return rootCmd.Execute()
}
