// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/storage"
)

// Counter is the decoded form of every counter record. Fields that a
// variant does not store are left zero.
type Counter struct {
	Variant   Variant       `json:"variant"`
	Authority codec.Address `json:"authority"`
	Value     uint64        `json:"value"`
	Seed      uint64        `json:"seed"`
	Nonce     uint8         `json:"nonce"`
	ID        uint64        `json:"id"`
}

// Marshal encodes c as a fixed width record starting with its variant tag.
func (c *Counter) Marshal() ([]byte, error) {
	if !c.Variant.Valid() {
		return nil, ErrUnknownVariant
	}
	caps := c.Variant.Capabilities()
	p := codec.NewWriter(caps.Size, caps.Size)
	p.PackFixedBytes(caps.Tag[:])
	switch c.Variant {
	case Owned:
		p.PackAddress(c.Authority)
		p.PackUint64(c.Value)
		p.PackUint64(c.Seed)
		p.PackByte(c.Nonce)
	case SharedDerived:
		p.PackUint64(c.Value)
		p.PackUint64(c.Seed)
		p.PackByte(c.Nonce)
	case SharedRegistered:
		p.PackUint64(c.Value)
		p.PackUint64(c.ID)
	}
	return p.Bytes(), p.Err()
}

// UnmarshalCounter decodes a record of any variant.
func UnmarshalCounter(b []byte) (*Counter, error) {
	if len(b) < storage.TagLen {
		return nil, storage.ErrInvalidRecordSize
	}
	v, ok := VariantOfTag(storage.Tag(b[:storage.TagLen]))
	if !ok {
		return nil, ErrAccountTypeMismatch
	}
	return unmarshalVariant(v, b)
}

func unmarshalVariant(v Variant, b []byte) (*Counter, error) {
	caps := v.Capabilities()
	if err := storage.CheckRecord(b, caps.Tag, caps.Size); err != nil {
		return nil, err
	}
	p := codec.NewReader(b[storage.TagLen:], caps.Size)
	c := &Counter{Variant: v}
	switch v {
	case Owned:
		p.UnpackAddress(true, &c.Authority)
		c.Value = p.UnpackUint64(false)
		c.Seed = p.UnpackUint64(false)
		c.Nonce = p.UnpackByte()
	case SharedDerived:
		c.Value = p.UnpackUint64(false)
		c.Seed = p.UnpackUint64(false)
		c.Nonce = p.UnpackByte()
	case SharedRegistered:
		c.Value = p.UnpackUint64(false)
		c.ID = p.UnpackUint64(true)
	}
	return c, p.Err()
}

// Registry is the singleton record that hands out registered counter ids.
type Registry struct {
	NextID uint64 `json:"nextId"`
	Nonce  uint8  `json:"nonce"`
}

func (r *Registry) Marshal() ([]byte, error) {
	p := codec.NewWriter(RegistrySize, RegistrySize)
	p.PackFixedBytes(RegistryTag[:])
	p.PackUint64(r.NextID)
	p.PackByte(r.Nonce)
	return p.Bytes(), p.Err()
}

func UnmarshalRegistry(b []byte) (*Registry, error) {
	if err := storage.CheckRecord(b, RegistryTag, RegistrySize); err != nil {
		return nil, err
	}
	p := codec.NewReader(b[storage.TagLen:], RegistrySize)
	r := &Registry{
		NextID: p.UnpackUint64(true),
		Nonce:  p.UnpackByte(),
	}
	return r, p.Err()
}
