// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/keys"
	"github.com/ava-labs/countervm/state"
)

// State
// 0x0/ (records)
//   -> [address] => tag|fields
//
// Metadata
// 0x1/ (tx)
//   -> [txID] => timestamp|success|error|output
// 0x2/ (registered ids)
//   -> [id] => address

const (
	recordPrefix  = 0x0
	txPrefix      = 0x1
	idIndexPrefix = 0x2
)

const (
	TagLen = 8

	// Every record fits in a single chunk.
	RecordChunks uint16 = 1
)

// Tag is the 8 byte discriminator at the start of every record.
type Tag [TagLen]byte

// Discriminator returns the first 8 bytes of SHA-256("account:" + [name]).
func Discriminator(name string) Tag {
	h := hashing.ComputeHash256Array([]byte("account:" + name))
	var t Tag
	copy(t[:], h[:TagLen])
	return t
}

// [recordPrefix] + [address]
func RecordKey(addr codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen, 1+codec.AddressLen+consts.Uint16Len)
	k[0] = recordPrefix
	copy(k[1:], addr[:])
	return keys.EncodeChunks(k, RecordChunks)
}

// RecordPrefix is the prefix shared by every record key.
func RecordPrefix() []byte {
	return []byte{recordPrefix}
}

// AddressFromRecordKey returns the address encoded in a key built by
// [RecordKey].
func AddressFromRecordKey(k []byte) (codec.Address, bool) {
	if len(k) != 1+codec.AddressLen+consts.Uint16Len || k[0] != recordPrefix {
		return codec.EmptyAddress, false
	}
	return codec.Address(k[1 : 1+codec.AddressLen]), true
}

// CreateAccount allocates a new record at [addr]. The record must not
// already exist.
func CreateAccount(ctx context.Context, mu state.Mutable, addr codec.Address, record []byte) error {
	k := RecordKey(addr)
	_, err := mu.GetValue(ctx, k)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrAddressInUse, addr)
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	return mu.Insert(ctx, k, record)
}

// LoadAccount returns the record at [addr] after checking that it has the
// expected [tag] and [size].
func LoadAccount(ctx context.Context, im state.Immutable, addr codec.Address, tag Tag, size int) ([]byte, error) {
	v, err := im.GetValue(ctx, RecordKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if err != nil {
		return nil, err
	}
	return v, CheckRecord(v, tag, size)
}

// CheckRecord verifies that [v] is a record of [size] bytes starting with
// [tag].
func CheckRecord(v []byte, tag Tag, size int) error {
	if len(v) < TagLen {
		return ErrInvalidRecordSize
	}
	if Tag(v[:TagLen]) != tag {
		return ErrAccountTypeMismatch
	}
	if len(v) != size {
		return fmt.Errorf("%w: expected %d bytes, found %d", ErrInvalidRecordSize, size, len(v))
	}
	return nil
}

// StoreAccount overwrites the existing record at [addr]. The size of a
// record is fixed when it is created.
func StoreAccount(ctx context.Context, mu state.Mutable, addr codec.Address, record []byte) error {
	k := RecordKey(addr)
	v, err := mu.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if err != nil {
		return err
	}
	if len(v) != len(record) {
		return fmt.Errorf("%w: expected %d bytes, found %d", ErrInvalidRecordSize, len(v), len(record))
	}
	return mu.Insert(ctx, k, record)
}
