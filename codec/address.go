// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting/address"

	"github.com/ava-labs/countervm/consts"
)

const AddressLen = 33

// Address represents the 33 byte address of an account: a one byte type ID
// followed by a 32 byte identifier.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	var a Address
	a[0] = typeID
	copy(a[1:], id[:])
	return a
}

// TypeID returns the type byte of a.
func (a Address) TypeID() uint8 {
	return a[0]
}

// ID returns the 32 byte identifier of a (without the type byte).
func (a Address) ID() ids.ID {
	return ids.ID(a[1:])
}

// AddressBech32 returns a Bech32 address from [hrp] and [a].
func AddressBech32(hrp string, a Address) (string, error) {
	return address.FormatBech32(hrp, a[:])
}

// MustAddressBech32 returns a Bech32 address from [hrp] and [a] or panics.
func MustAddressBech32(hrp string, a Address) string {
	addr, err := AddressBech32(hrp, a)
	if err != nil {
		panic(err)
	}
	return addr
}

// ParseAddressBech32 parses a Bech32 encoded address string and extracts
// its [Address]. If there is an error reading the address or the hrp
// value is not valid, ParseAddressBech32 returns an error.
func ParseAddressBech32(hrp, saddr string) (Address, error) {
	phrp, p, err := address.ParseBech32(saddr)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, fmt.Errorf("%w: expected %s but got %s", ErrIncorrectHRP, hrp, phrp)
	}
	// Decoding 5 bit groups back to bytes leaves a zero pad byte after the
	// 264 bit payload.
	if len(p) == AddressLen+1 && p[AddressLen] == 0 {
		p = p[:AddressLen]
	}
	switch {
	case len(p) < AddressLen:
		return EmptyAddress, ErrInsufficientLength
	case len(p) > AddressLen:
		return EmptyAddress, fmt.Errorf("%w: %d bytes", ErrInvalidSize, len(p))
	}
	return Address(p), nil
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return MustAddressBech32(consts.HRP, a)
}

// MarshalText returns the Bech32 representation of a.
func (a Address) MarshalText() ([]byte, error) {
	s, err := AddressBech32(consts.HRP, a)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText parses a Bech32 encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddressBech32(consts.HRP, string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
