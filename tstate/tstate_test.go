// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/keys"
	"github.com/ava-labs/countervm/state"
)

var (
	testKey = keys.EncodeChunks([]byte("key"), 1)
	testVal = []byte("value")

	key2    = keys.EncodeChunks([]byte("key2"), 2)
	key2str = string(key2)
)

func TestScope(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(memdb.New(), 10)

	// No Scope
	tsv := ts.NewView(state.Keys{})
	val, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, ErrInvalidKeyOrPermission)
	require.Nil(val)
	require.ErrorIs(tsv.Insert(ctx, testKey, testVal), ErrInvalidKeyOrPermission)
	require.ErrorIs(tsv.Remove(ctx, testKey), ErrInvalidKeyOrPermission)
}

func TestGetValueFromBase(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()
	require.NoError(db.Put(testKey, testVal))
	ts := New(db, 10)

	tsv := ts.NewView(state.Keys{string(testKey): state.Read})
	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, val)
}

func TestGetValueNoStorage(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(memdb.New(), 10)

	tsv := ts.NewView(state.Keys{string(testKey): state.Read})
	_, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestInsertRequiresAllocate(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(memdb.New(), 10)

	// Write alone cannot create a key
	tsv := ts.NewView(state.Keys{string(testKey): state.Write})
	require.ErrorIs(tsv.Insert(ctx, testKey, testVal), ErrInvalidKeyOrPermission)

	tsv = ts.NewView(state.Keys{string(testKey): state.Allocate})
	require.NoError(tsv.Insert(ctx, testKey, testVal))
	require.Equal(1, tsv.OpIndex())
	tsv.Commit()
	require.Equal(1, ts.OpIndex())

	// Allocate alone cannot update an existing key
	tsv = ts.NewView(state.Keys{string(testKey): state.Allocate})
	require.ErrorIs(tsv.Insert(ctx, testKey, []byte("other")), ErrInvalidKeyOrPermission)
}

func TestInsertInvalid(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(memdb.New(), 10)

	key := keys.EncodeChunks([]byte("hello"), 0)
	tsv := ts.NewView(state.Keys{string(key): state.All})
	require.ErrorIs(tsv.Insert(ctx, key, []byte("cool")), ErrInvalidKeyValue)

	_, err := tsv.GetValue(ctx, key)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestUncommittedViewInvisible(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(memdb.New(), 10)

	tsv := ts.NewView(state.Keys{string(testKey): state.All})
	require.NoError(tsv.Insert(ctx, testKey, testVal))

	other := ts.NewView(state.Keys{string(testKey): state.Read})
	_, err := other.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)

	tsv.Commit()
	val, err := other.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, val)
}

func TestDeleteCommitGet(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()
	require.NoError(db.Put(testKey, testVal))
	ts := New(db, 10)

	tsv := ts.NewView(state.Keys{string(testKey): state.Write})
	require.NoError(tsv.Remove(ctx, testKey))
	tsv.Commit()

	tsv = ts.NewView(state.Keys{string(testKey): state.Read})
	val, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
	require.Nil(val)
}

func TestInsertRemoveRollback(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(memdb.New(), 10)

	tsv := ts.NewView(state.Keys{key2str: state.All})
	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.NoError(tsv.Remove(ctx, key2))
	testVal2 := []byte("blah")
	require.NoError(tsv.Insert(ctx, key2, testVal2))
	require.Equal(3, tsv.OpIndex())

	tsv.Rollback(ctx, 2)
	_, err := tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)

	tsv.Rollback(ctx, 1)
	val, err := tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(testVal, val)

	tsv.Rollback(ctx, 0)
	require.Zero(tsv.OpIndex())
	require.Zero(tsv.PendingChanges())

	// Remove empty should do nothing
	require.NoError(tsv.Remove(ctx, key2))
	require.Zero(tsv.OpIndex())
}

func TestModifyRollbackRestoresBase(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()
	require.NoError(db.Put(key2, testVal))
	ts := New(db, 10)

	tsv := ts.NewView(state.Keys{key2str: state.Write})
	require.NoError(tsv.Insert(ctx, key2, []byte("blah")))
	tsv.Rollback(ctx, 0)

	val, err := tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(testVal, val)
}

func TestFlush(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()
	require.NoError(db.Put(key2, testVal))
	ts := New(db, 10)

	tsv := ts.NewView(state.Keys{string(testKey): state.All, key2str: state.Write})
	require.NoError(tsv.Insert(ctx, testKey, testVal))
	require.NoError(tsv.Remove(ctx, key2))
	tsv.Commit()
	require.Equal(2, ts.PendingChanges())

	// Nothing reaches the database before flush
	has, err := db.Has(testKey)
	require.NoError(err)
	require.False(has)

	require.NoError(ts.Flush(db.NewBatch()))
	v, err := db.Get(testKey)
	require.NoError(err)
	require.Equal(testVal, v)
	has, err = db.Has(key2)
	require.NoError(err)
	require.False(has)
}
