// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package derive

import (
	"bytes"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

func TestFindAddressDeterministic(t *testing.T) {
	require := require.New(t)
	creator := ids.ID{1}

	a1, n1, err := FindAddress("shared", creator[:], Uint64Seed(7))
	require.NoError(err)
	a2, n2, err := FindAddress("shared", creator[:], Uint64Seed(7))
	require.NoError(err)
	require.Equal(a1, a2)
	require.Equal(n1, n2)
	require.Equal(consts.DerivedID, a1.TypeID())
	require.False(OnCurve(a1.ID()))

	// Re-deriving with the found nonce yields the same address
	a3, err := CreateAddress("shared", [][]byte{creator[:], Uint64Seed(7)}, n1)
	require.NoError(err)
	require.Equal(a1, a3)
}

func TestFindAddressSeparation(t *testing.T) {
	require := require.New(t)
	alice := ids.ID{1}
	bob := ids.ID{2}

	tests := []struct {
		name  string
		tagA  string
		seedA [][]byte
		tagB  string
		seedB [][]byte
	}{
		{"creator", "shared", [][]byte{alice[:], Uint64Seed(1)}, "shared", [][]byte{bob[:], Uint64Seed(1)}},
		{"seed", "owned", [][]byte{alice[:], Uint64Seed(1)}, "owned", [][]byte{alice[:], Uint64Seed(2)}},
		{"tag", "owned", [][]byte{alice[:], Uint64Seed(1)}, "shared", [][]byte{alice[:], Uint64Seed(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, err := FindAddress(tt.tagA, tt.seedA...)
			require.NoError(err)
			b, _, err := FindAddress(tt.tagB, tt.seedB...)
			require.NoError(err)
			require.NotEqual(a, b)
		})
	}
}

func TestFindAddressSearchOrder(t *testing.T) {
	require := require.New(t)
	addr, nonce, err := FindAddress("shared_registry")
	require.NoError(err)

	// Every nonce above the result must be on the curve
	for n := int(consts.MaxUint8); n > int(nonce); n-- {
		_, err := CreateAddress("shared_registry", nil, uint8(n))
		require.ErrorIs(err, ErrInvalidDerivation)
	}
	again, err := CreateAddress("shared_registry", nil, nonce)
	require.NoError(err)
	require.Equal(addr, again)
}

func TestSeedLimits(t *testing.T) {
	require := require.New(t)

	_, _, err := FindAddress("owned", bytes.Repeat([]byte{1}, MaxSeedLen+1))
	require.ErrorIs(err, ErrMaxSeedLengthExceeded)

	seeds := make([][]byte, MaxSeeds)
	_, _, err = FindAddress("owned", seeds...)
	require.ErrorIs(err, ErrMaxSeedLengthExceeded)

	_, err = CreateAddress("owned", [][]byte{bytes.Repeat([]byte{1}, MaxSeedLen+1)}, 255)
	require.ErrorIs(err, ErrMaxSeedLengthExceeded)

	_, _, err = FindAddress("owned", seeds[:MaxSeeds-1]...)
	require.NoError(err)

	// A creator id fits, a full address with its type byte does not
	creator := codec.CreateAddress(consts.ED25519ID, ids.ID{1})
	creatorID := creator.ID()
	_, _, err = FindAddress("owned", creatorID[:], Uint64Seed(1))
	require.NoError(err)
	_, _, err = FindAddress("owned", creator[:], Uint64Seed(1))
	require.ErrorIs(err, ErrMaxSeedLengthExceeded)
}

func TestOnCurve(t *testing.T) {
	require := require.New(t)
	// The identity point encodes as 1 followed by zeros
	var identity [32]byte
	identity[0] = 1
	require.True(OnCurve(identity))
}

func TestUint64Seed(t *testing.T) {
	require.Equal(t, []byte{7, 0, 0, 0, 0, 0, 0, 0}, Uint64Seed(7))
}
