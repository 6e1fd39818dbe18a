// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2"
)

// NewJSONRPCHandler serves the methods of [JSONRPCServer] for [vm] as
// "countervm.<method>". The avalanchego codec lets clients send method names
// starting with a lower case letter.
func NewJSONRPCHandler(vm VM) (http.Handler, error) {
	server := rpc.NewServer()
	codec := json.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	if err := server.RegisterService(NewJSONRPCServer(vm), Name); err != nil {
		return nil, err
	}
	return server, nil
}
