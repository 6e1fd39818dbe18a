// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"net"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/server"
	"github.com/ava-labs/countervm/trace"
	"github.com/ava-labs/countervm/vm"
)

// Node serves a [vm.VM] over JSON-RPC and exposes its metrics.
type Node struct {
	log    logging.Logger
	config *config.Config
	vm     *vm.VM
	server server.Server
}

// New opens the database named by [cfg] (in memory if none is set) and
// prepares the API on [listener]. Nothing is served until [Run].
func New(log logging.Logger, cfg *config.Config, listener net.Listener) (*Node, error) {
	var (
		db         database.Database
		gatherers  = prometheus.Gatherers{}
		dbRegistry *prometheus.Registry
		err        error
	)
	if len(cfg.DatabaseDir) == 0 {
		log.Warn("no database directory set, state will not persist")
		db = memdb.New()
	} else {
		db, dbRegistry, err = pebble.New(cfg.DatabaseDir, cfg.Pebble)
		if err != nil {
			return nil, err
		}
		gatherers = append(gatherers, dbRegistry)
	}

	tracer, err := trace.New(&cfg.Trace)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	v, err := vm.New(log, tracer, db, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	gatherers = append(gatherers, v.Registry())

	s := server.New(
		log,
		listener,
		server.HTTPConfig{
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		cfg.AllowedOrigins,
		cfg.ShutdownTimeout,
	)
	handler, err := rpc.NewJSONRPCHandler(v)
	if err != nil {
		_ = v.Close()
		return nil, err
	}
	if err := s.AddRoute(handler, rpc.JSONRPCEndpoint); err != nil {
		_ = v.Close()
		return nil, err
	}
	metrics := promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
	if err := s.AddRoute(metrics, rpc.MetricsEndpoint); err != nil {
		_ = v.Close()
		return nil, err
	}
	return &Node{
		log:    log,
		config: cfg,
		vm:     v,
		server: s,
	}, nil
}

func (n *Node) VM() *vm.VM {
	return n.vm
}

func (n *Node) Addr() net.Addr {
	return n.server.Addr()
}

// Run serves until [ctx] is cancelled and then shuts the node down.
func (n *Node) Run(ctx context.Context) error {
	n.log.Info("serving",
		zap.Stringer("addr", n.Addr()),
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(n.server.Dispatch)
	g.Go(func() error {
		<-gctx.Done()
		n.log.Info("shutting down")
		err := n.server.Shutdown()
		if cerr := n.vm.Close(); err == nil {
			err = cerr
		}
		return err
	})
	return g.Wait()
}
