// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/utils"
)

// Transaction is a single signed [Action].
//
// Wire format: timestamp | actionTypeID | action | authTypeID | auth. The
// signed digest is everything before the auth and the ID is the hash of
// the full encoding.
type Transaction struct {
	Timestamp int64  `json:"timestamp"`
	Action    Action `json:"action"`
	Auth      Auth   `json:"auth"`

	digest    []byte
	bytes     []byte
	size      int
	id        ids.ID
	stateKeys state.Keys
}

func NewTx(timestamp int64, action Action) *Transaction {
	return &Transaction{
		Timestamp: timestamp,
		Action:    action,
	}
}

// Digest returns the bytes the [Auth] signs.
func (t *Transaction) Digest() ([]byte, error) {
	if len(t.digest) > 0 {
		return t.digest, nil
	}
	if t.Action == nil {
		return nil, ErrMissingAction
	}
	size := consts.Int64Len + consts.ByteLen + t.Action.Size()
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	p.PackInt64(t.Timestamp)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
	return p.Bytes(), p.Err()
}

// Sign signs the digest with [factory] and reloads the transaction from its
// encoding so every cached field is populated.
func (t *Transaction) Sign(factory AuthFactory, parser Parser) (*Transaction, error) {
	msg, err := t.Digest()
	if err != nil {
		return nil, err
	}
	auth, err := factory.Sign(msg)
	if err != nil {
		return nil, err
	}
	t.Auth = auth

	size := len(msg) + consts.ByteLen + auth.Size()
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	if err := t.Marshal(p); err != nil {
		return nil, err
	}
	return UnmarshalTx(codec.NewReader(p.Bytes(), consts.NetworkSizeLimit), parser)
}

func (t *Transaction) Bytes() []byte { return t.bytes }

func (t *Transaction) Size() int { return t.size }

func (t *Transaction) ID() ids.ID { return t.id }

// StateKeys returns every key the transaction may touch.
func (t *Transaction) StateKeys() state.Keys {
	if t.stateKeys != nil {
		return t.stateKeys
	}
	stateKeys := state.Keys{}
	stateKeys.Union(t.Action.StateKeys(t.Auth.Actor(), t.id))
	t.stateKeys = stateKeys
	return stateKeys
}

// SyntacticVerify checks everything that does not require state.
func (t *Transaction) SyntacticVerify() error {
	if t.Action == nil {
		return ErrMissingAction
	}
	if t.Auth == nil {
		return ErrMissingAuth
	}
	if t.Timestamp <= 0 {
		return ErrInvalidTimestamp
	}
	return nil
}

// Verify checks the signature over the digest.
func (t *Transaction) Verify(ctx context.Context) error {
	if err := t.SyntacticVerify(); err != nil {
		return err
	}
	msg, err := t.Digest()
	if err != nil {
		return err
	}
	if err := t.Auth.Verify(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	return nil
}

func (t *Transaction) Marshal(p *codec.Packer) error {
	if len(t.bytes) > 0 {
		p.PackFixedBytes(t.bytes)
		return p.Err()
	}
	if t.Action == nil {
		return ErrMissingAction
	}
	if t.Auth == nil {
		return ErrMissingAuth
	}
	p.PackInt64(t.Timestamp)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
	p.PackByte(t.Auth.GetTypeID())
	t.Auth.Marshal(p)
	return p.Err()
}

func UnmarshalTx(p *codec.Packer, parser Parser) (*Transaction, error) {
	start := p.Offset()
	timestamp := p.UnpackInt64(true)
	action, err := parser.ActionRegistry().Unmarshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal action", err)
	}
	digest := p.Offset()
	auth, err := parser.AuthRegistry().Unmarshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal auth", err)
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidObject, len(p.Bytes())-p.Offset())
	}

	tx := &Transaction{
		Timestamp: timestamp,
		Action:    action,
		Auth:      auth,
	}
	codecBytes := p.Bytes()
	tx.digest = codecBytes[start:digest]
	tx.bytes = codecBytes[start:p.Offset()]
	tx.size = len(tx.bytes)
	tx.id = utils.ToID(tx.bytes)
	return tx, nil
}
