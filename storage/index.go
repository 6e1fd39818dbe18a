// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

// [idIndexPrefix] + [id]
func IDKey(id uint64) []byte {
	k := make([]byte, 1+consts.Uint64Len)
	k[0] = idIndexPrefix
	binary.BigEndian.PutUint64(k[1:], id)
	return k
}

// StoreRegisteredID records that registered counter [id] lives at [addr].
func StoreRegisteredID(db database.KeyValueWriter, id uint64, addr codec.Address) error {
	return db.Put(IDKey(id), addr[:])
}

// GetRegisteredID returns the address of registered counter [id].
func GetRegisteredID(db database.KeyValueReader, id uint64) (codec.Address, error) {
	v, err := db.Get(IDKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, fmt.Errorf("%w: id %d", ErrAccountNotFound, id)
	}
	if err != nil {
		return codec.EmptyAddress, err
	}
	if len(v) != codec.AddressLen {
		return codec.EmptyAddress, ErrInvalidRecordSize
	}
	return codec.Address(v), nil
}

// Record is a raw record found while scanning the store.
type Record struct {
	Address codec.Address
	Value   []byte
}

// IterateRecords calls [f] for every record in [db] in key order until [f]
// returns false.
func IterateRecords(db database.Iteratee, f func(Record) bool) error {
	it := db.NewIteratorWithPrefix(RecordPrefix())
	defer it.Release()

	for it.Next() {
		addr, ok := AddressFromRecordKey(it.Key())
		if !ok {
			continue
		}
		if !f(Record{Address: addr, Value: it.Value()}) {
			break
		}
	}
	return it.Error()
}
