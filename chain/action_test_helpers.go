// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/state"
)

// ActionTest is a single test case for an [Action].
type ActionTest struct {
	Name string

	Action Action

	State     state.Mutable
	Timestamp int64
	Actor     codec.Address
	TxID      ids.ID

	ExpectedOutputs []byte
	ExpectedErr     error

	// Assertion runs after [Execute] to check the resulting state.
	Assertion func(context.Context, *testing.T, state.Mutable)
}

// Run executes the action and checks its output, error and resulting state.
func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		output, err := test.Action.Execute(ctx, test.State, test.Timestamp, test.Actor, test.TxID)

		require.ErrorIs(err, test.ExpectedErr)
		require.Equal(test.ExpectedOutputs, output)

		if test.Assertion != nil {
			test.Assertion(ctx, t, test.State)
		}
	})
}
