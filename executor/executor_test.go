// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"sync"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/state"
)

// Run several times to catch non-determinism
const numIterations = 10

// uniqueKeys returns [n] fresh keys that conflict with nothing else.
func uniqueKeys(n int, perm state.Permissions) state.Keys {
	s := make(state.Keys, n+1)
	for k := 0; k < n; k++ {
		s.Add(ids.GenerateTestID().String(), perm)
	}
	return s
}

type recorder struct {
	l         sync.Mutex
	completed []int
}

func (r *recorder) add(i int) int {
	r.l.Lock()
	defer r.l.Unlock()

	r.completed = append(r.completed, i)
	return len(r.completed)
}

type countingMetrics struct {
	blocked    int
	executable int
}

func (m *countingMetrics) RecordBlocked()    { m.blocked++ }
func (m *countingMetrics) RecordExecutable() { m.executable++ }

func TestExecutorNoConflicts(t *testing.T) {
	var (
		require = require.New(t)
		r       recorder
		m       = &countingMetrics{}
		e       = New(100, 4, m)
	)
	for i := 0; i < 100; i++ {
		ti := i
		e.Run(uniqueKeys(i+1, state.Write), func() error {
			r.add(ti)
			return nil
		})
	}
	require.NoError(e.Wait())
	require.Len(r.completed, 100)
	require.Equal(100, m.executable)
	require.Zero(m.blocked)
}

func TestExecutorNoConflictsSlow(t *testing.T) {
	for j := 0; j < numIterations; j++ {
		var (
			require = require.New(t)
			r       recorder
			e       = New(100, 4, nil)
			slow    = make(chan struct{})
		)
		for i := 0; i < 100; i++ {
			ti := i
			e.Run(uniqueKeys(i+1, state.Write), func() error {
				if ti == 0 {
					<-slow
				}
				if r.add(ti) == 99 {
					close(slow)
				}
				return nil
			})
		}
		require.NoError(e.Wait())
		require.Len(r.completed, 100)
		require.Equal(0, r.completed[99])
	}
}

func TestExecutorSimpleConflict(t *testing.T) {
	var (
		require     = require.New(t)
		conflictKey = ids.GenerateTestID().String()
		r           recorder
		e           = New(100, 4, nil)
		slow        = make(chan struct{})
	)
	for i := 0; i < 100; i++ {
		s := uniqueKeys(i+1, state.Write)
		if i%10 == 0 {
			s.Add(conflictKey, state.Write)
		}
		ti := i
		e.Run(s, func() error {
			if ti == 0 {
				<-slow
			}
			if r.add(ti) == 90 {
				close(slow)
			}
			return nil
		})
	}
	require.NoError(e.Wait())
	require.Equal([]int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}, r.completed[90:])
}

func TestEarlyExit(t *testing.T) {
	var (
		require = require.New(t)
		r       recorder
		e       = New(500, 4, nil)
		terr    = errors.New("uh oh")
	)
	for i := 0; i < 500; i++ {
		ti := i
		e.Run(uniqueKeys(i+1, state.Write), func() error {
			r.add(ti)
			if ti == 200 {
				return terr
			}
			return nil
		})
	}
	require.ErrorIs(e.Wait(), terr)
	require.Less(len(r.completed), 500)
}

func TestStop(t *testing.T) {
	var (
		require = require.New(t)
		r       recorder
		e       = New(500, 4, nil)
	)
	for i := 0; i < 500; i++ {
		ti := i
		e.Run(uniqueKeys(i+1, state.Write), func() error {
			r.add(ti)
			if ti == 200 {
				e.Stop()
			}
			return nil
		})
	}
	require.ErrorIs(e.Wait(), ErrStopped)
	require.Less(len(r.completed), 500)
}

func TestTooManyTasks(t *testing.T) {
	require := require.New(t)
	e := New(1, 1, nil)
	e.Run(uniqueKeys(1, state.Write), func() error { return nil })
	e.Run(uniqueKeys(1, state.Write), func() error { return nil })
	require.ErrorContains(e.Wait(), "too many transactions")
}

// W->W->W->...
func TestManyWrites(t *testing.T) {
	for j := 0; j < numIterations; j++ {
		var (
			require     = require.New(t)
			conflictKey = ids.GenerateTestID().String()
			r           recorder
			answer      = make([]int, 0, 100)
			e           = New(100, 4, nil)
			slow        = make(chan struct{})
		)
		for i := 0; i < 100; i++ {
			answer = append(answer, i)
			s := uniqueKeys(i+1, state.Write)
			s.Add(conflictKey, state.Write)
			ti := i
			e.Run(s, func() error {
				if ti == 0 {
					<-slow
				}
				r.add(ti)
				return nil
			})
		}
		close(slow)
		require.NoError(e.Wait())
		require.Equal(answer, r.completed)
	}
}

// R->R->R->...
func TestManyReads(t *testing.T) {
	for j := 0; j < numIterations; j++ {
		var (
			require     = require.New(t)
			conflictKey = ids.GenerateTestID().String()
			r           recorder
			e           = New(100, 4, nil)
			slow        = make(chan struct{})
		)
		for i := 0; i < 100; i++ {
			s := uniqueKeys(i+1, state.Read)
			s.Add(conflictKey, state.Read)
			ti := i
			e.Run(s, func() error {
				if ti < 10 && ti%2 == 0 {
					<-slow
				}
				r.add(ti)
				return nil
			})
		}
		for i := 0; i < 5; i++ {
			slow <- struct{}{}
		}
		close(slow)
		require.NoError(e.Wait())
		require.Len(r.completed, 100)
	}
}

// W->R->R->...
func TestWriteThenRead(t *testing.T) {
	for j := 0; j < numIterations; j++ {
		var (
			require     = require.New(t)
			conflictKey = ids.GenerateTestID().String()
			r           recorder
			e           = New(100, 4, nil)
			slow        = make(chan struct{})
		)
		for i := 0; i < 100; i++ {
			s := uniqueKeys(i+1, state.Write)
			if i == 0 {
				s.Add(conflictKey, state.Write)
			} else {
				s.Add(conflictKey, state.Read)
			}
			ti := i
			e.Run(s, func() error {
				if ti == 0 {
					<-slow
				}
				r.add(ti)
				return nil
			})
		}
		close(slow)
		require.NoError(e.Wait())
		require.Equal(0, r.completed[0])
		require.Len(r.completed, 100)
	}
}

// R->R->W->R->W->R->R...
func TestReadThenWriteRepeated(t *testing.T) {
	for j := 0; j < numIterations; j++ {
		var (
			require     = require.New(t)
			conflictKey = ids.GenerateTestID().String()
			r           recorder
			e           = New(100, 4, nil)
			slow        = make(chan struct{})
		)
		for i := 0; i < 100; i++ {
			s := uniqueKeys(i+1, state.Write)
			if i == 10 || i == 12 {
				s.Add(conflictKey, state.Write)
			} else {
				s.Add(conflictKey, state.Read)
			}
			ti := i
			e.Run(s, func() error {
				if ti == 10 {
					<-slow
				}
				r.add(ti)
				return nil
			})
		}
		close(slow)
		require.NoError(e.Wait())
		// 0..9 are ran in parallel, so non-deterministic
		require.Equal(10, r.completed[10])
		require.Equal(11, r.completed[11])
		require.Equal(12, r.completed[12])
		require.Len(r.completed, 100)
	}
}
