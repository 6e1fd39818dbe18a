// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "countervm" runs a counter node serving JSON-RPC.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/ulimit"
	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/cmd/countervm/version"
	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/node"

	clog "github.com/ava-labs/countervm/internal/logging"
)

var (
	configFile    string
	configContent string
	dbDir         string
	httpPort      uint16

	rootCmd = &cobra.Command{
		Use:        consts.Name,
		Short:      "CounterVM node",
		SuggestFor: []string{consts.Name},
		RunE:       runFunc,
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(
		version.NewCommand(),
	)
	rootCmd.PersistentFlags().StringVar(
		&configFile,
		"config-file",
		"",
		"path to a JSON config file",
	)
	rootCmd.PersistentFlags().StringVar(
		&configContent,
		"config",
		"",
		"JSON config (overrides --config-file)",
	)
	rootCmd.PersistentFlags().StringVar(
		&dbDir,
		"db-dir",
		"",
		"database directory (overrides the config)",
	)
	rootCmd.PersistentFlags().Uint16Var(
		&httpPort,
		"http-port",
		0,
		"API port (overrides the config)",
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed %v\n", consts.Name, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func loadConfig() (*config.Config, error) {
	var raw []byte
	switch {
	case len(configContent) > 0:
		raw = []byte(configContent)
	case len(configFile) > 0:
		b, err := os.ReadFile(configFile)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	cfg, err := config.New(raw)
	if err != nil {
		return nil, err
	}
	if len(dbDir) > 0 {
		cfg.DatabaseDir = dbDir
	}
	if httpPort != 0 {
		cfg.HTTPPort = httpPort
	}
	return cfg, nil
}

func runFunc(*cobra.Command, []string) error {
	if err := ulimit.Set(ulimit.DefaultFDLimit, logging.NoLog{}); err != nil {
		return fmt.Errorf("%w: failed to set fd limit correctly", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := clog.New(consts.Name, cfg)
	if err != nil {
		return err
	}
	defer log.Stop()

	listener, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return err
	}
	n, err := node.New(log, cfg, listener)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return n.Run(ctx)
}
