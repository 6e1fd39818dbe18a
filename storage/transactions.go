// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

const (
	failureByte = byte(0x0)
	successByte = byte(0x1)
)

// TxResult is what the node remembers about a processed transaction.
type TxResult struct {
	Timestamp int64
	Success   bool
	Error     string
	Output    []byte
}

// [txPrefix] + [txID]
func TxKey(id ids.ID) (k []byte) {
	k = make([]byte, 1+consts.IDLen)
	k[0] = txPrefix
	copy(k[1:], id[:])
	return
}

func StoreTransaction(
	_ context.Context,
	db database.KeyValueWriter,
	id ids.ID,
	result *TxResult,
) error {
	p := codec.NewWriter(consts.Int64Len+1, consts.NetworkSizeLimit)
	p.PackInt64(result.Timestamp)
	if result.Success {
		p.PackByte(successByte)
	} else {
		p.PackByte(failureByte)
	}
	p.PackString(result.Error)
	p.PackBytes(result.Output)
	if err := p.Err(); err != nil {
		return err
	}
	return db.Put(TxKey(id), p.Bytes())
}

func GetTransaction(
	_ context.Context,
	db database.KeyValueReader,
	id ids.ID,
) (bool, *TxResult, error) {
	v, err := db.Get(TxKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	p := codec.NewReader(v, consts.NetworkSizeLimit)
	r := &TxResult{
		Timestamp: p.UnpackInt64(false),
		Success:   p.UnpackByte() == successByte,
		Error:     p.UnpackString(false),
	}
	p.UnpackBytes(-1, false, &r.Output)
	if err := p.Err(); err != nil {
		return false, nil, err
	}
	return true, r, nil
}

// HasTransaction reports whether [id] has already been processed.
func HasTransaction(db database.KeyValueReader, id ids.ID) (bool, error) {
	return db.Has(TxKey(id))
}
