// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

const (
	Name            = "countervm"
	JSONRPCEndpoint = "/rpc"
	MetricsEndpoint = "/metrics"
)
