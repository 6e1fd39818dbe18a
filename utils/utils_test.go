// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestToID(t *testing.T) {
	require := require.New(t)
	require.Equal(ToID([]byte("counter")), ToID([]byte("counter")))
	require.NotEqual(ToID([]byte("counter")), ToID([]byte("registry")))
	require.NotEqual(ids.Empty, ToID(nil))
}
