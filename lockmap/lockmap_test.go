// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmap

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	require := require.New(t)
	l := New(4)

	l.Lock("a")
	l.RLock("b")
	require.Equal(2, l.Locks())
	l.Unlock("a")
	l.RUnlock("b")
	require.Zero(l.Locks())
}

func TestSharedReaders(t *testing.T) {
	require := require.New(t)
	l := New(4)

	l.RLock("a")
	done := make(chan struct{})
	go func() {
		l.RLock("a")
		l.RUnlock("a")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.FailNow("reader blocked by reader")
	}
	l.RUnlock("a")
	require.Zero(l.Locks())
}

func TestWriterExcludes(t *testing.T) {
	var (
		require = require.New(t)
		l       = New(4)
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Lock("counter")
			counter++
			l.Unlock("counter")
		}()
	}
	wg.Wait()
	require.Equal(100, counter)
	require.Zero(l.Locks())
}

func TestUnlockUnknownPanics(t *testing.T) {
	require.Panics(t, func() { New(1).Unlock("missing") })
}
