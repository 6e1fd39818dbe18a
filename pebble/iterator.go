// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"bytes"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var _ database.Iterator = (*iterator)(nil)

type iterator struct {
	db      *Database
	iter    *pebble.Iterator
	started bool
	valid   bool
	err     error
	key     []byte
	value   []byte
}

func (db *Database) NewIterator() database.Iterator {
	return db.newIterator(nil, nil)
}

func (db *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return db.newIterator(start, nil)
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return db.newIterator(nil, prefix)
}

func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	return db.newIterator(start, prefix)
}

func (db *Database) newIterator(start, prefix []byte) database.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.isDone {
		return &database.IteratorError{Err: database.ErrClosed}
	}
	it, err := db.db.NewIter(keyRange(start, prefix))
	if err != nil {
		return &database.IteratorError{Err: err}
	}
	return &iterator{db: db, iter: it}
}

// keyRange bounds iteration to keys >= [start] that begin with [prefix].
func keyRange(start, prefix []byte) *pebble.IterOptions {
	opts := &pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	}
	if bytes.Compare(start, prefix) > 0 {
		opts.LowerBound = start
	}
	return opts
}

// prefixUpperBound returns the smallest key greater than every key with
// [prefix], or nil if no such key exists.
func prefixUpperBound(prefix []byte) []byte {
	upper := bytes.Clone(prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}
	return nil
}

func (it *iterator) Next() bool {
	if it.err != nil || it.iter == nil {
		return false
	}
	it.db.lock.RLock()
	closed := it.db.isDone
	it.db.lock.RUnlock()
	if closed {
		it.err = database.ErrClosed
		it.valid = false
		return false
	}
	if !it.started {
		it.started = true
		it.valid = it.iter.First()
	} else {
		it.valid = it.iter.Next()
	}
	if !it.valid {
		it.key, it.value = nil, nil
		return false
	}
	it.key = bytes.Clone(it.iter.Key())
	it.value = bytes.Clone(it.iter.Value())
	return true
}

func (it *iterator) Error() error {
	if it.err != nil || it.iter == nil {
		return it.err
	}
	return it.iter.Error()
}

func (it *iterator) Key() []byte {
	return it.key
}

func (it *iterator) Value() []byte {
	return it.value
}

func (it *iterator) Release() {
	if it.iter != nil {
		_ = it.iter.Close()
		it.iter = nil
	}
}
