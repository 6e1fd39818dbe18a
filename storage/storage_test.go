// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/tstate"
)

func newView(addrs ...codec.Address) *tstate.TStateView {
	scope := state.Keys{}
	for _, a := range addrs {
		scope.Add(string(RecordKey(a)), state.All)
	}
	return tstate.New(memdb.New(), 4).NewView(scope)
}

func record(tag Tag, size int) []byte {
	v := make([]byte, size)
	copy(v, tag[:])
	return v
}

func TestDiscriminator(t *testing.T) {
	require := require.New(t)
	a := Discriminator("OwnedCounter")
	require.Equal(a, Discriminator("OwnedCounter"))
	require.NotEqual(a, Discriminator("SharedCounter"))
}

func TestCreateLoadStore(t *testing.T) {
	var (
		require = require.New(t)
		ctx     = context.TODO()
		addr    = codec.CreateAddress(consts.DerivedID, ids.GenerateTestID())
		tag     = Discriminator("SharedCounter")
		mu      = newView(addr)
	)

	_, err := LoadAccount(ctx, mu, addr, tag, 25)
	require.ErrorIs(err, ErrAccountNotFound)
	require.ErrorIs(StoreAccount(ctx, mu, addr, record(tag, 25)), ErrAccountNotFound)

	require.NoError(CreateAccount(ctx, mu, addr, record(tag, 25)))
	require.ErrorIs(CreateAccount(ctx, mu, addr, record(tag, 25)), ErrAddressInUse)

	v, err := LoadAccount(ctx, mu, addr, tag, 25)
	require.NoError(err)
	require.Len(v, 25)

	_, err = LoadAccount(ctx, mu, addr, Discriminator("OwnedCounter"), 25)
	require.ErrorIs(err, ErrAccountTypeMismatch)
	_, err = LoadAccount(ctx, mu, addr, tag, 24)
	require.ErrorIs(err, ErrInvalidRecordSize)

	updated := record(tag, 25)
	updated[24] = 9
	require.NoError(StoreAccount(ctx, mu, addr, updated))
	require.ErrorIs(StoreAccount(ctx, mu, addr, record(tag, 24)), ErrInvalidRecordSize)
	v, err = LoadAccount(ctx, mu, addr, tag, 25)
	require.NoError(err)
	require.Equal(byte(9), v[24])
}

func TestRecordKey(t *testing.T) {
	require := require.New(t)
	addr := codec.CreateAddress(consts.DerivedID, ids.GenerateTestID())
	k := RecordKey(addr)
	parsed, ok := AddressFromRecordKey(k)
	require.True(ok)
	require.Equal(addr, parsed)

	_, ok = AddressFromRecordKey(TxKey(ids.GenerateTestID()))
	require.False(ok)
}

func TestTransactions(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()
	id := ids.GenerateTestID()

	found, _, err := GetTransaction(ctx, db, id)
	require.NoError(err)
	require.False(found)

	require.NoError(StoreTransaction(ctx, db, id, &TxResult{
		Timestamp: 10,
		Success:   false,
		Error:     "not owner",
	}))
	found, r, err := GetTransaction(ctx, db, id)
	require.NoError(err)
	require.True(found)
	require.Equal(int64(10), r.Timestamp)
	require.False(r.Success)
	require.Equal("not owner", r.Error)
	require.Empty(r.Output)

	has, err := HasTransaction(db, id)
	require.NoError(err)
	require.True(has)
}

func TestRegisteredIndexAndIteration(t *testing.T) {
	require := require.New(t)
	db := memdb.New()
	a1 := codec.CreateAddress(consts.RegisteredID, ids.GenerateTestID())
	a2 := codec.CreateAddress(consts.RegisteredID, ids.GenerateTestID())

	_, err := GetRegisteredID(db, 1)
	require.ErrorIs(err, ErrAccountNotFound)
	require.NoError(StoreRegisteredID(db, 1, a1))
	got, err := GetRegisteredID(db, 1)
	require.NoError(err)
	require.Equal(a1, got)

	require.NoError(db.Put(RecordKey(a1), []byte{1}))
	require.NoError(db.Put(RecordKey(a2), []byte{2}))
	var seen int
	require.NoError(IterateRecords(db, func(r Record) bool {
		seen++
		return true
	}))
	require.Equal(2, seen)

	seen = 0
	require.NoError(IterateRecords(db, func(Record) bool {
		seen++
		return false
	}))
	require.Equal(1, seen)
}
