// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting/address"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/consts"
)

func TestAddress(t *testing.T) {
	require := require.New(t)
	addrID := ids.GenerateTestID()

	addr := CreateAddress(consts.DerivedID, addrID)
	require.Equal(consts.DerivedID, addr.TypeID())
	require.Equal(addrID, addr.ID())

	addrStr, err := addr.MarshalText()
	require.NoError(err)

	var parsedAddr Address
	require.NoError(parsedAddr.UnmarshalText(addrStr))
	require.Equal(addr, parsedAddr)
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(consts.ED25519ID, ids.GenerateTestID())

	addrJSONBytes, err := json.Marshal(addr)
	require.NoError(err)

	var parsedAddr Address
	require.NoError(json.Unmarshal(addrJSONBytes, &parsedAddr))
	require.Equal(addr, parsedAddr)
}

func TestParseAddressBech32(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(consts.RegisteredID, ids.GenerateTestID())

	s, err := AddressBech32("other", addr)
	require.NoError(err)
	_, err = ParseAddressBech32(consts.HRP, s)
	require.ErrorIs(err, ErrIncorrectHRP)

	parsed, err := ParseAddressBech32(consts.HRP, addr.String())
	require.NoError(err)
	require.Equal(addr, parsed)

	short, err := address.FormatBech32(consts.HRP, addr[:10])
	require.NoError(err)
	_, err = ParseAddressBech32(consts.HRP, short)
	require.ErrorIs(err, ErrInsufficientLength)
}

func TestParseAddressBech32Padding(t *testing.T) {
	tests := []struct {
		name string
		addr Address
	}{
		{"empty", EmptyAddress},
		{"ed25519", CreateAddress(consts.ED25519ID, ids.GenerateTestID())},
		{"full", Address(bytes.Repeat([]byte{0xff}, AddressLen))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			s := tt.addr.String()

			// avalanchego hands back the payload with the pad byte attached
			_, raw, err := address.ParseBech32(s)
			require.NoError(err)
			require.Len(raw, AddressLen+1)

			parsed, err := ParseAddressBech32(consts.HRP, s)
			require.NoError(err)
			require.Equal(tt.addr, parsed)

			var text Address
			require.NoError(text.UnmarshalText([]byte(s)))
			require.Equal(tt.addr, text)
		})
	}

	long, err := address.FormatBech32(consts.HRP, bytes.Repeat([]byte{1}, AddressLen+2))
	require.NoError(t, err)
	_, err = ParseAddressBech32(consts.HRP, long)
	require.ErrorIs(t, err, ErrInvalidSize)
}
