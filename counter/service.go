// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/derive"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
)

// DeriveAddress returns the address and nonce of the derived counter of
// [variant] created by [creator] with [seed].
func DeriveAddress(variant Variant, creator codec.Address, seed uint64) (codec.Address, uint8, error) {
	if !variant.Valid() {
		return codec.EmptyAddress, 0, ErrUnknownVariant
	}
	caps := variant.Capabilities()
	if caps.Addressing != Derived {
		return codec.EmptyAddress, 0, ErrUnknownVariant
	}
	// The creator is seeded by its 32 byte id. Signers are always ed25519
	// addresses, so the type byte carries nothing.
	creatorID := creator.ID()
	return derive.FindAddress(caps.DomainTag, creatorID[:], derive.Uint64Seed(seed))
}

// RegisteredAddress returns the address a registered counter created by
// transaction [txID] lives at.
func RegisteredAddress(txID ids.ID) codec.Address {
	return codec.CreateAddress(consts.RegisteredID, txID)
}

// CounterAddress returns where [Create] will place the new record.
func CounterAddress(variant Variant, creator codec.Address, seed uint64, fresh ids.ID) (codec.Address, uint8, error) {
	if !variant.Valid() {
		return codec.EmptyAddress, 0, ErrUnknownVariant
	}
	if variant.Capabilities().Addressing == Registered {
		return RegisteredAddress(fresh), 0, nil
	}
	return DeriveAddress(variant, creator, seed)
}

// Create allocates a counter of [variant] with a value of 0. [fresh] is the
// unique id the host supplies for registered counters and is ignored by
// derived variants.
func Create(
	ctx context.Context,
	mu state.Mutable,
	variant Variant,
	creator codec.Address,
	seed uint64,
	fresh ids.ID,
) (codec.Address, *Counter, error) {
	addr, nonce, err := CounterAddress(variant, creator, seed, fresh)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	c := &Counter{Variant: variant}
	switch variant.Capabilities().Addressing {
	case Derived:
		c.Seed = seed
		c.Nonce = nonce
		if variant.Capabilities().RequiresAuthorization {
			c.Authority = creator
		}
		b, err := c.Marshal()
		if err != nil {
			return codec.EmptyAddress, nil, err
		}
		if err := storage.CreateAccount(ctx, mu, addr, b); err != nil {
			return codec.EmptyAddress, nil, err
		}
	case Registered:
		if seed != 0 {
			return codec.EmptyAddress, nil, ErrSeedNotAllowed
		}
		r, err := GetRegistry(ctx, mu)
		if err != nil {
			return codec.EmptyAddress, nil, err
		}
		if _, err := CheckedIncrement(r.NextID); err != nil {
			return codec.EmptyAddress, nil, err
		}
		c.ID = r.NextID
		b, err := c.Marshal()
		if err != nil {
			return codec.EmptyAddress, nil, err
		}
		if err := storage.CreateAccount(ctx, mu, addr, b); err != nil {
			return codec.EmptyAddress, nil, err
		}
		if _, err := Allocate(ctx, mu); err != nil {
			return codec.EmptyAddress, nil, err
		}
	}
	return addr, c, nil
}

// Get loads the counter of [variant] at [addr].
func Get(ctx context.Context, im state.Immutable, addr codec.Address, variant Variant) (*Counter, error) {
	if !variant.Valid() {
		return nil, ErrUnknownVariant
	}
	caps := variant.Capabilities()
	b, err := storage.LoadAccount(ctx, im, addr, caps.Tag, caps.Size)
	if err != nil {
		return nil, err
	}
	return unmarshalVariant(variant, b)
}

// Lookup loads the counter at [addr] whatever its variant.
func Lookup(ctx context.Context, im state.Immutable, addr codec.Address) (*Counter, error) {
	b, err := im.GetValue(ctx, storage.RecordKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalCounter(b)
}

// mutate loads the counter, checks the caller and stores the result of [f].
// Nothing is written unless every check passes.
func mutate(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	variant Variant,
	caller codec.Address,
	f func(uint64) (uint64, error),
) (*Counter, error) {
	c, err := Get(ctx, mu, addr, variant)
	if err != nil {
		return nil, err
	}
	if variant.Capabilities().RequiresAuthorization {
		if err := Authorize(c.Authority, caller); err != nil {
			return nil, err
		}
	}
	v, err := f(c.Value)
	if err != nil {
		return nil, err
	}
	c.Value = v
	b, err := c.Marshal()
	if err != nil {
		return nil, err
	}
	if err := storage.StoreAccount(ctx, mu, addr, b); err != nil {
		return nil, err
	}
	return c, nil
}

// Increment adds one to the counter at [addr] and returns the new value.
func Increment(ctx context.Context, mu state.Mutable, addr codec.Address, variant Variant, caller codec.Address) (uint64, error) {
	c, err := mutate(ctx, mu, addr, variant, caller, CheckedIncrement)
	if err != nil {
		return 0, err
	}
	return c.Value, nil
}

// SetValue overwrites the value of the counter at [addr].
func SetValue(ctx context.Context, mu state.Mutable, addr codec.Address, variant Variant, caller codec.Address, value uint64) error {
	_, err := mutate(ctx, mu, addr, variant, caller, func(uint64) (uint64, error) {
		return Assign(value), nil
	})
	return err
}

// CreateStateKeys declares the keys [Create] touches.
func CreateStateKeys(variant Variant, creator codec.Address, seed uint64, fresh ids.ID) (state.Keys, error) {
	addr, _, err := CounterAddress(variant, creator, seed, fresh)
	if err != nil {
		return nil, err
	}
	k := state.Keys{}
	k.Add(string(storage.RecordKey(addr)), state.Allocate|state.Write)
	if variant.Capabilities().Addressing == Registered {
		raddr, _, err := RegistryAddress()
		if err != nil {
			return nil, err
		}
		k.Add(string(storage.RecordKey(raddr)), state.Write)
	}
	return k, nil
}

// MutateStateKeys declares the keys [Increment] and [SetValue] touch.
func MutateStateKeys(addr codec.Address) state.Keys {
	return state.Keys{string(storage.RecordKey(addr)): state.Write}
}

// InitializeRegistryStateKeys declares the keys [InitializeRegistry] touches.
func InitializeRegistryStateKeys() (state.Keys, error) {
	addr, _, err := RegistryAddress()
	if err != nil {
		return nil, err
	}
	return state.Keys{string(storage.RecordKey(addr)): state.Allocate | state.Write}, nil
}
