// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"fmt"

	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/utils"
)

// ImportEndpoint stores [uri] as the default endpoint once it answers a
// ping.
func (h *Handler) ImportEndpoint(ctx context.Context, uri string) error {
	ok, err := h.clientFor(uri).Ping(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	if !ok {
		return ErrUnreachable
	}
	if err := h.StoreEndpoint(uri); err != nil {
		return err
	}
	if err := h.StoreDefaultEndpoint(uri); err != nil {
		return err
	}
	utils.Outf("{{green}}stored endpoint:{{/}} %s\n", uri)
	return nil
}

func (h *Handler) SetEndpoint() error {
	uris, err := h.GetEndpoints()
	if err != nil {
		return err
	}
	if len(uris) == 0 {
		return ErrNoEndpoints
	}
	for i, uri := range uris {
		utils.Outf("%d) {{cyan}}endpoint:{{/}} %s\n", i, uri)
	}
	index, err := h.PromptChoice("set default endpoint", len(uris))
	if err != nil {
		return err
	}
	return h.StoreDefaultEndpoint(uris[index])
}

func (h *Handler) client() (*rpc.JSONRPCClient, error) {
	uri, err := h.GetDefaultEndpoint(true)
	if err != nil {
		return nil, err
	}
	return h.clientFor(uri), nil
}

func (h *Handler) clientFor(uri string) *rpc.JSONRPCClient {
	h.clientsL.Lock()
	defer h.clientsL.Unlock()

	cli, ok := h.clients[uri]
	if !ok {
		cli = rpc.NewJSONRPCClient(uri)
		h.clients[uri] = cli
	}
	return cli
}
