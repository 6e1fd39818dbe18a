// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"
)

func randBytes() []byte {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

func newTestDB(t *testing.T) database.Database {
	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, registry, err := New(t.TempDir(), cfg)
	require.NoError(t, err)
	require.NotNil(t, registry)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGetPutDelete(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)

	_, err := db.Get([]byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), v)
	has, err := db.Has([]byte("k"))
	require.NoError(err)
	require.True(has)

	require.NoError(db.Delete([]byte("k")))
	has, err = db.Has([]byte("k"))
	require.NoError(err)
	require.False(has)
}

func TestBatchAtomicWrite(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)
	require.NoError(db.Put([]byte("gone"), []byte{1}))

	b := db.NewBatch()
	require.NoError(b.Put([]byte("a"), []byte{1}))
	require.NoError(b.Put([]byte("b"), []byte{2}))
	require.NoError(b.Delete([]byte("gone")))
	require.Equal(2+2+4, b.Size())

	has, err := db.Has([]byte("a"))
	require.NoError(err)
	require.False(has)

	require.NoError(b.Write())
	v, err := db.Get([]byte("b"))
	require.NoError(err)
	require.Equal([]byte{2}, v)
	has, err = db.Has([]byte("gone"))
	require.NoError(err)
	require.False(has)

	// Replay into a second batch
	other := db.NewBatch()
	require.NoError(b.Replay(other))
	require.Equal(b.Size(), other.Size())
	b.Reset()
	require.Zero(b.Size())
}

func TestIteratorWithPrefix(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)
	for _, k := range []string{"a1", "b1", "b2", "b3", "c1"} {
		require.NoError(db.Put([]byte(k), []byte(k)))
	}

	it := db.NewIteratorWithPrefix([]byte("b"))
	defer it.Release()
	var got []string
	for it.Next() {
		got = append(got, string(it.Key()))
		require.Equal(it.Key(), it.Value())
	}
	require.NoError(it.Error())
	require.Equal([]string{"b1", "b2", "b3"}, got)

	it2 := db.NewIteratorWithStartAndPrefix([]byte("b2"), []byte("b"))
	defer it2.Release()
	got = got[:0]
	for it2.Next() {
		got = append(got, string(it2.Key()))
	}
	require.Equal([]string{"b2", "b3"}, got)
}

func TestPrefixUpperBound(t *testing.T) {
	require := require.New(t)
	require.Equal([]byte{0x1, 0x3}, prefixUpperBound([]byte{0x1, 0x2}))
	require.Equal([]byte{0x2}, prefixUpperBound([]byte{0x1, 0xff}))
	require.Nil(prefixUpperBound([]byte{0xff, 0xff}))
	require.Nil(prefixUpperBound(nil))
}

func TestClosed(t *testing.T) {
	require := require.New(t)
	cfg := NewDefaultConfig()
	db, _, err := New(t.TempDir(), cfg)
	require.NoError(err)
	require.NoError(db.Compact(nil, nil))
	require.NoError(db.Close())

	_, err = db.Get([]byte("k"))
	require.ErrorIs(err, database.ErrClosed)
	require.ErrorIs(db.Put([]byte("k"), nil), database.ErrClosed)
	require.ErrorIs(db.Close(), database.ErrClosed)
	_, err = db.HealthCheck(context.Background())
	require.ErrorIs(err, database.ErrClosed)
}

const batchSize = 100_000

func BenchmarkBatchInsertion(b *testing.B) {
	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, _, err := New(b.TempDir(), cfg)
			if err != nil {
				b.Fatal(err)
			}
			keys := make([][]byte, batchSize)
			for i := 0; i < batchSize; i++ {
				keys[i] = randBytes()
			}

			b.StartTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				batch := db.NewBatch()
				for j := 0; j < batchSize; j++ {
					if err := batch.Put(keys[j], randBytes()); err != nil {
						b.Fatal(err)
					}
				}
				if err := batch.Write(); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			if err := db.Close(); err != nil {
				b.Fatal(err)
			}
		})
	}
}
