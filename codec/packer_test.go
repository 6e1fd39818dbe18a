// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/consts"
)

func TestPackerRoundTrip(t *testing.T) {
	require := require.New(t)
	id := ids.GenerateTestID()
	addr := CreateAddress(consts.ED25519ID, ids.GenerateTestID())

	wp := NewWriter(64, consts.NetworkSizeLimit)
	wp.PackByte(7)
	wp.PackUint64(consts.MaxUint64)
	wp.PackInt64(-5)
	wp.PackBool(true)
	wp.PackID(id)
	wp.PackAddress(addr)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), consts.NetworkSizeLimit)
	require.Equal(byte(7), rp.UnpackByte())
	require.Equal(consts.MaxUint64, rp.UnpackUint64(true))
	require.Equal(int64(-5), rp.UnpackInt64(true))
	require.True(rp.UnpackBool())
	var uid ids.ID
	rp.UnpackID(true, &uid)
	require.Equal(id, uid)
	var uaddr Address
	rp.UnpackAddress(true, &uaddr)
	require.Equal(addr, uaddr)
	require.NoError(rp.Err())
	require.True(rp.Empty())
}

func TestPackerRequiredUnpack(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(consts.Uint64Len, consts.Uint64Len)
	wp.PackUint64(0)
	rp := NewReader(wp.Bytes(), consts.Uint64Len)
	require.Zero(rp.UnpackUint64(true))
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)

	wp = NewWriter(AddressLen, AddressLen)
	wp.PackAddress(EmptyAddress)
	rp = NewReader(wp.Bytes(), AddressLen)
	var addr Address
	rp.UnpackAddress(false, &addr)
	require.NoError(rp.Err())
}

func TestPackerInsufficientBytes(t *testing.T) {
	require := require.New(t)
	rp := NewReader([]byte{1, 2, 3}, consts.Uint64Len)
	rp.UnpackUint64(false)
	require.Error(rp.Err())
}

func TestTypeParser(t *testing.T) {
	require := require.New(t)
	p := NewTypeParser[uint64]()
	require.NoError(p.Register(1, func(pk *Packer) (uint64, error) {
		return pk.UnpackUint64(false), pk.Err()
	}))
	require.ErrorIs(p.Register(1, nil), ErrDuplicateItem)

	wp := NewWriter(9, 9)
	wp.PackByte(1)
	wp.PackUint64(42)
	v, err := p.Unmarshal(NewReader(wp.Bytes(), 9))
	require.NoError(err)
	require.Equal(uint64(42), v)

	_, err = p.Unmarshal(NewReader([]byte{9}, 9))
	require.ErrorIs(err, ErrUnknownType)
}

func TestPackerBytes(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(32, consts.NetworkSizeLimit)
	wp.PackBytes([]byte{1, 2, 3})
	wp.PackString("not owner")
	wp.PackBytes(nil)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), consts.NetworkSizeLimit)
	var b []byte
	rp.UnpackBytes(3, true, &b)
	require.Equal([]byte{1, 2, 3}, b)
	require.Equal("not owner", rp.UnpackString(true))
	rp.UnpackBytes(-1, true, &b)
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerBytesLimit(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(32, consts.NetworkSizeLimit)
	wp.PackBytes([]byte{1, 2, 3})
	rp := NewReader(wp.Bytes(), consts.NetworkSizeLimit)
	var b []byte
	rp.UnpackBytes(2, false, &b)
	require.Error(rp.Err())
}
