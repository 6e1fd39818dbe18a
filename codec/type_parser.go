// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "github.com/ava-labs/countervm/consts"

// TypeParser maps a one byte type ID to the decoder of the type registered
// under it. Action and auth wire formats are resolved through it.
type TypeParser[T any] struct {
	decoders map[uint8]func(*Packer) (T, error)
}

func NewTypeParser[T any]() *TypeParser[T] {
	return &TypeParser[T]{
		decoders: map[uint8]func(*Packer) (T, error){},
	}
}

func (p *TypeParser[T]) Register(typeID uint8, f func(*Packer) (T, error)) error {
	if len(p.decoders) > int(consts.MaxUint8) {
		return ErrTooManyItems
	}
	if _, ok := p.decoders[typeID]; ok {
		return ErrDuplicateItem
	}
	p.decoders[typeID] = f
	return nil
}

func (p *TypeParser[T]) LookupIndex(typeID uint8) (func(*Packer) (T, error), bool) {
	f, ok := p.decoders[typeID]
	return f, ok
}

// Unmarshal reads a type ID from [pk] and decodes the value registered
// under it.
func (p *TypeParser[T]) Unmarshal(pk *Packer) (T, error) {
	var empty T
	typeID := pk.UnpackByte()
	if err := pk.Err(); err != nil {
		return empty, err
	}
	f, ok := p.decoders[typeID]
	if !ok {
		return empty, ErrUnknownType
	}
	return f(pk)
}
