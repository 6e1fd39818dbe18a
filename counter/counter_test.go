// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/derive"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/tstate"
)

var _ state.Mutable = (*memState)(nil)

type memState struct {
	db database.Database
}

func newMemState() *memState {
	return &memState{db: memdb.New()}
}

func (m *memState) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return m.db.Get(key)
}

func (m *memState) Insert(_ context.Context, key []byte, value []byte) error {
	return m.db.Put(key, value)
}

func (m *memState) Remove(_ context.Context, key []byte) error {
	return m.db.Delete(key)
}

func identity(b byte) codec.Address {
	return codec.CreateAddress(consts.ED25519ID, ids.ID{b})
}

func TestVariantCapabilities(t *testing.T) {
	require := require.New(t)

	require.Equal(58, Owned.Capabilities().Size)
	require.Equal(25, SharedDerived.Capabilities().Size)
	require.Equal(24, SharedRegistered.Capabilities().Size)
	require.Equal(17, RegistrySize)

	require.True(Owned.Capabilities().RequiresAuthorization)
	require.False(SharedDerived.Capabilities().RequiresAuthorization)
	require.False(SharedRegistered.Capabilities().RequiresAuthorization)

	for _, v := range Variants() {
		parsed, err := ParseVariant(v.String())
		require.NoError(err)
		require.Equal(v, parsed)
		found, ok := VariantOfTag(v.Capabilities().Tag)
		require.True(ok)
		require.Equal(v, found)
	}
	_, err := ParseVariant("bogus")
	require.ErrorIs(err, ErrUnknownVariant)
	require.False(Variant(9).Valid())
}

func TestRecordRoundTrip(t *testing.T) {
	tests := []*Counter{
		{Variant: Owned, Authority: identity(1), Value: 5, Seed: 9, Nonce: 254},
		{Variant: SharedDerived, Value: consts.MaxUint64, Seed: 1, Nonce: 255},
		{Variant: SharedRegistered, Value: 3, ID: 7},
	}
	for _, c := range tests {
		t.Run(c.Variant.String(), func(t *testing.T) {
			require := require.New(t)
			b, err := c.Marshal()
			require.NoError(err)
			require.Len(b, c.Variant.Capabilities().Size)
			decoded, err := UnmarshalCounter(b)
			require.NoError(err)
			require.Equal(c, decoded)
		})
	}
}

func TestCheckedArithmetic(t *testing.T) {
	require := require.New(t)

	v, err := CheckedIncrement(0)
	require.NoError(err)
	require.Equal(uint64(1), v)

	v, err = CheckedIncrement(consts.MaxUint64)
	require.ErrorIs(err, ErrOverflow)
	require.Equal(consts.MaxUint64, v)

	require.Zero(Assign(0))
	require.Equal(consts.MaxUint64, Assign(consts.MaxUint64))
}

func TestAuthorize(t *testing.T) {
	require := require.New(t)
	require.NoError(Authorize(identity(1), identity(1)))
	require.ErrorIs(Authorize(identity(1), identity(2)), ErrNotOwner)
}

func TestOwnedCounter(t *testing.T) {
	var (
		require = require.New(t)
		ctx     = context.TODO()
		mu      = newMemState()
		owner   = identity(1)
		other   = identity(2)
	)

	addr, c, err := Create(ctx, mu, Owned, owner, 42, ids.Empty)
	require.NoError(err)
	require.Zero(c.Value)
	require.Equal(owner, c.Authority)

	for i := uint64(1); i <= 3; i++ {
		v, err := Increment(ctx, mu, addr, Owned, owner)
		require.NoError(err)
		require.Equal(i, v)
	}

	// A different signer changes nothing
	_, err = Increment(ctx, mu, addr, Owned, other)
	require.ErrorIs(err, ErrNotOwner)
	require.ErrorIs(SetValue(ctx, mu, addr, Owned, other, 100), ErrNotOwner)
	got, err := Get(ctx, mu, addr, Owned)
	require.NoError(err)
	require.Equal(uint64(3), got.Value)

	// Overflow leaves the value unchanged
	require.NoError(SetValue(ctx, mu, addr, Owned, owner, consts.MaxUint64))
	_, err = Increment(ctx, mu, addr, Owned, owner)
	require.ErrorIs(err, ErrOverflow)
	got, err = Get(ctx, mu, addr, Owned)
	require.NoError(err)
	require.Equal(consts.MaxUint64, got.Value)

	require.NoError(SetValue(ctx, mu, addr, Owned, owner, 0))
	got, err = Lookup(ctx, mu, addr)
	require.NoError(err)
	require.Zero(got.Value)
	require.Equal(Owned, got.Variant)

	// Same (authority, seed) cannot be created twice
	_, _, err = Create(ctx, mu, Owned, owner, 42, ids.Empty)
	require.ErrorIs(err, ErrAddressInUse)

	// Loading with the wrong variant fails
	_, err = Get(ctx, mu, addr, SharedDerived)
	require.ErrorIs(err, ErrAccountTypeMismatch)
}

func TestSharedDerivedCounter(t *testing.T) {
	var (
		require = require.New(t)
		ctx     = context.TODO()
		mu      = newMemState()
		creator = identity(1)
	)

	addr, _, err := Create(ctx, mu, SharedDerived, creator, 7, ids.Empty)
	require.NoError(err)
	expected, _, err := DeriveAddress(SharedDerived, creator, 7)
	require.NoError(err)
	require.Equal(expected, addr)

	// Any caller may mutate
	for i := byte(1); i <= 5; i++ {
		v, err := Increment(ctx, mu, addr, SharedDerived, identity(i))
		require.NoError(err)
		require.Equal(uint64(i), v)
	}
	require.NoError(SetValue(ctx, mu, addr, SharedDerived, identity(9), 11))
	c, err := Get(ctx, mu, addr, SharedDerived)
	require.NoError(err)
	require.Equal(uint64(11), c.Value)
	require.Equal(uint64(7), c.Seed)

	// A different creator with the same seed gets a different counter
	other, _, err := Create(ctx, mu, SharedDerived, identity(2), 7, ids.Empty)
	require.NoError(err)
	require.NotEqual(addr, other)
}

func TestDeriveAddressFullCreator(t *testing.T) {
	creator := codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID())
	creatorID := creator.ID()

	for _, variant := range []Variant{Owned, SharedDerived} {
		t.Run(variant.String(), func(t *testing.T) {
			require := require.New(t)

			addr, nonce, err := DeriveAddress(variant, creator, 42)
			require.NoError(err)
			expected, expectedNonce, err := derive.FindAddress(
				variant.Capabilities().DomainTag,
				creatorID[:],
				derive.Uint64Seed(42),
			)
			require.NoError(err)
			require.Equal(expected, addr)
			require.Equal(expectedNonce, nonce)

			created, c, err := Create(context.TODO(), newMemState(), variant, creator, 42, ids.Empty)
			require.NoError(err)
			require.Equal(addr, created)
			require.Equal(nonce, c.Nonce)
		})
	}

	_, _, err := DeriveAddress(SharedRegistered, creator, 0)
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func TestRegistry(t *testing.T) {
	var (
		require = require.New(t)
		ctx     = context.TODO()
		mu      = newMemState()
	)

	_, _, err := Create(ctx, mu, SharedRegistered, identity(1), 0, ids.GenerateTestID())
	require.ErrorIs(err, ErrRegistryUninitialized)
	_, err = Allocate(ctx, mu)
	require.ErrorIs(err, ErrRegistryUninitialized)

	r, err := InitializeRegistry(ctx, mu)
	require.NoError(err)
	require.Equal(uint64(1), r.NextID)
	_, err = InitializeRegistry(ctx, mu)
	require.ErrorIs(err, ErrAddressInUse)

	var addrs []codec.Address
	for i := uint64(1); i <= 3; i++ {
		addr, c, err := Create(ctx, mu, SharedRegistered, identity(1), 0, ids.GenerateTestID())
		require.NoError(err)
		require.Equal(i, c.ID)
		require.Equal(consts.RegisteredID, addr.TypeID())
		addrs = append(addrs, addr)
	}
	r, err = GetRegistry(ctx, mu)
	require.NoError(err)
	require.Equal(uint64(4), r.NextID)

	v, err := Increment(ctx, mu, addrs[1], SharedRegistered, identity(5))
	require.NoError(err)
	require.Equal(uint64(1), v)

	require.ErrorIs(ValidateID(r, 0), ErrInvalidID)
	require.ErrorIs(ValidateID(r, 4), ErrInvalidID)
	require.NoError(ValidateID(r, 3))

	// Registered counters take no seed
	_, _, err = Create(ctx, mu, SharedRegistered, identity(1), 1, ids.GenerateTestID())
	require.ErrorIs(err, ErrSeedNotAllowed)
}

func TestRegistryAddress(t *testing.T) {
	var (
		require = require.New(t)
		ctx     = context.TODO()
		mu      = newMemState()
	)
	addr, nonce, err := RegistryAddress()
	require.NoError(err)
	expected, expectedNonce, err := derive.FindAddress(registryDomainTag)
	require.NoError(err)
	require.Equal(expected, addr)
	require.Equal(expectedNonce, nonce)
	require.Equal(consts.DerivedID, addr.TypeID())

	again, _, err := RegistryAddress()
	require.NoError(err)
	require.Equal(addr, again)

	// The registry record lives at that address and nowhere else
	_, err = InitializeRegistry(ctx, mu)
	require.NoError(err)
	c, err := storage.LoadAccount(ctx, mu, addr, RegistryTag, RegistrySize)
	require.NoError(err)
	require.NotEmpty(c)
}

func TestRegistryExhausted(t *testing.T) {
	var (
		require = require.New(t)
		ctx     = context.TODO()
		mu      = newMemState()
	)
	_, err := InitializeRegistry(ctx, mu)
	require.NoError(err)
	require.NoError(storeRegistry(ctx, mu, &Registry{NextID: consts.MaxUint64}))

	fresh := ids.GenerateTestID()
	_, _, err = Create(ctx, mu, SharedRegistered, identity(1), 0, fresh)
	require.ErrorIs(err, ErrOverflow)

	// No record was written
	_, err = Lookup(ctx, mu, RegisteredAddress(fresh))
	require.ErrorIs(err, ErrAccountNotFound)
}

func TestStateKeysCoverOperations(t *testing.T) {
	var (
		require = require.New(t)
		ctx     = context.TODO()
		ts      = tstate.New(memdb.New(), 8)
		creator = identity(1)
		fresh   = ids.GenerateTestID()
	)

	scope, err := InitializeRegistryStateKeys()
	require.NoError(err)
	view := ts.NewView(scope)
	_, err = InitializeRegistry(ctx, view)
	require.NoError(err)
	view.Commit()

	scope, err = CreateStateKeys(SharedRegistered, creator, 0, fresh)
	require.NoError(err)
	view = ts.NewView(scope)
	addr, _, err := Create(ctx, view, SharedRegistered, creator, 0, fresh)
	require.NoError(err)
	view.Commit()

	view = ts.NewView(MutateStateKeys(addr))
	_, err = Increment(ctx, view, addr, SharedRegistered, creator)
	require.NoError(err)
	view.Commit()

	scope, err = CreateStateKeys(Owned, creator, 1, ids.Empty)
	require.NoError(err)
	view = ts.NewView(scope)
	owned, _, err := Create(ctx, view, Owned, creator, 1, ids.Empty)
	require.NoError(err)

	// Touching an undeclared key is rejected
	view = ts.NewView(MutateStateKeys(addr))
	_, err = Increment(ctx, view, owned, Owned, creator)
	require.ErrorIs(err, tstate.ErrInvalidKeyOrPermission)

	_, err = ts.GetValue(ctx, storage.RecordKey(addr))
	require.NoError(err)
}
