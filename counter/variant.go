// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"fmt"
	"strings"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/storage"
)

// Variant selects one of the counter access models.
type Variant uint8

const (
	Owned Variant = iota
	SharedDerived
	SharedRegistered
)

// Addressing is how a variant chooses the address of a new record.
type Addressing uint8

const (
	Derived Addressing = iota
	Registered
)

// Capabilities describes everything that differs between variants. All
// operations read this table instead of branching on the variant itself.
type Capabilities struct {
	Name                  string
	RequiresAuthorization bool
	Addressing            Addressing
	Tag                   storage.Tag
	Size                  int
	// Domain tag used as the first derivation seed.
	DomainTag string
}

const (
	OwnedSize      = storage.TagLen + codec.AddressLen + consts.Uint64Len + consts.Uint64Len + consts.Uint8Len
	SharedSize     = storage.TagLen + consts.Uint64Len + consts.Uint64Len + consts.Uint8Len
	RegisteredSize = storage.TagLen + consts.Uint64Len + consts.Uint64Len
	RegistrySize   = storage.TagLen + consts.Uint64Len + consts.Uint8Len
)

var (
	OwnedTag      = storage.Discriminator("OwnedCounter")
	SharedTag     = storage.Discriminator("SharedCounter")
	RegisteredTag = storage.Discriminator("RegisteredCounter")
	RegistryTag   = storage.Discriminator("SharedRegistry")
)

var capabilities = [...]Capabilities{
	Owned: {
		Name:                  "owned",
		RequiresAuthorization: true,
		Addressing:            Derived,
		Tag:                   OwnedTag,
		Size:                  OwnedSize,
		DomainTag:             "owned",
	},
	SharedDerived: {
		Name:       "shared",
		Addressing: Derived,
		Tag:        SharedTag,
		Size:       SharedSize,
		DomainTag:  "shared",
	},
	SharedRegistered: {
		Name:       "registered",
		Addressing: Registered,
		Tag:        RegisteredTag,
		Size:       RegisteredSize,
	},
}

// Variants lists every variant in declaration order.
func Variants() []Variant {
	return []Variant{Owned, SharedDerived, SharedRegistered}
}

func (v Variant) Valid() bool {
	return int(v) < len(capabilities)
}

// Capabilities returns the capability table entry for v. It panics on an
// invalid variant; callers decoding untrusted input check [Valid] first.
func (v Variant) Capabilities() Capabilities {
	return capabilities[v]
}

func (v Variant) String() string {
	if !v.Valid() {
		return fmt.Sprintf("unknown(%d)", uint8(v))
	}
	return capabilities[v].Name
}

// ParseVariant returns the variant named [s].
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants() {
		if strings.EqualFold(v.String(), s) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// VariantOfTag returns the variant whose records start with [tag].
func VariantOfTag(tag storage.Tag) (Variant, bool) {
	for _, v := range Variants() {
		if capabilities[v].Tag == tag {
			return v, true
		}
	}
	return 0, false
}

func (v Variant) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, ErrUnknownVariant
	}
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(b []byte) error {
	p, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = p
	return nil
}
