// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/countervm/keys"
	"github.com/ava-labs/countervm/state"
)

// TState buffers the changes of committed views on top of a persistent
// database until [Flush] writes them in a single batch.
type TState struct {
	base state.View

	l           sync.RWMutex
	changedKeys map[string]maybe.Maybe[[]byte]
	ops         int
}

// New returns a new instance of TState reading through to [base].
//
// [changedSize] is an estimate of the number of keys that will be changed.
func New(base state.View, changedSize int) *TState {
	return &TState{
		base:        base,
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
	}
}

// getValue returns the latest value of [key] and whether it exists.
func (ts *TState) getValue(key string) ([]byte, bool, error) {
	ts.l.RLock()
	v, ok := ts.changedKeys[key]
	ts.l.RUnlock()
	if ok {
		if v.IsNothing() {
			return nil, false, nil
		}
		return v.Value(), true, nil
	}
	if ts.base == nil {
		return nil, false, nil
	}
	raw, err := ts.base.Get([]byte(key))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// GetValue implements [state.Immutable] without any permission checks.
func (ts *TState) GetValue(_ context.Context, key []byte) ([]byte, error) {
	v, exists, err := ts.getValue(string(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

// Insert should only be called if you know what you are doing (updates
// here bypass the scope checks of [TStateView]).
func (ts *TState) Insert(_ context.Context, key, value []byte) error {
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	ts.l.Lock()
	defer ts.l.Unlock()

	ts.changedKeys[string(key)] = maybe.Some(value)
	ts.ops++
	return nil
}

// Remove deletes [key] without any permission checks.
func (ts *TState) Remove(_ context.Context, key []byte) error {
	ts.l.Lock()
	defer ts.l.Unlock()

	ts.changedKeys[string(key)] = maybe.Nothing[[]byte]()
	ts.ops++
	return nil
}

// OpIndex returns the number of operations committed to ts.
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// PendingChanges returns the number of keys waiting to be flushed.
func (ts *TState) PendingChanges() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return len(ts.changedKeys)
}

// Flush writes every change to [batch] and writes the batch. Either all
// changes reach the database or none do.
//
// Once [Flush] is called, [TState] should not be used again.
func (ts *TState) Flush(batch database.Batch) error {
	ts.l.Lock()
	defer ts.l.Unlock()

	for k, v := range ts.changedKeys {
		if v.IsNothing() {
			if err := batch.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put([]byte(k), v.Value()); err != nil {
			return err
		}
	}
	return batch.Write()
}
