// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"sync"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/rpc"
)

// Handler keeps the keys and endpoints of a CLI user in a local pebble
// database.
type Handler struct {
	db database.Database

	// One client per endpoint so transaction timestamps stay strictly
	// increasing for the life of the process.
	clientsL sync.Mutex
	clients  map[string]*rpc.JSONRPCClient
}

func New(dbPath string) (*Handler, error) {
	db, _, err := pebble.New(dbPath, pebble.NewDefaultConfig())
	if err != nil {
		return nil, err
	}
	return &Handler{
		db:      db,
		clients: map[string]*rpc.JSONRPCClient{},
	}, nil
}
