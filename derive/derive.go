// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package derive computes deterministic program-owned addresses. A derived
// address is never a valid ed25519 public key, so no private key can sign for
// it and only the program can act on the record stored there.
package derive

import (
	"encoding/binary"

	"filippo.io/edwards25519"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

const (
	MaxSeeds   = 16
	MaxSeedLen = 32

	addressMarker = "ProgramDerivedAddress"
)

// Uint64Seed encodes [v] as a little-endian seed.
func Uint64Seed(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}

func checkSeeds(tag string, seeds [][]byte) error {
	if len(seeds)+1 > MaxSeeds {
		return ErrMaxSeedLengthExceeded
	}
	if len(tag) > MaxSeedLen {
		return ErrMaxSeedLengthExceeded
	}
	for _, s := range seeds {
		if len(s) > MaxSeedLen {
			return ErrMaxSeedLengthExceeded
		}
	}
	return nil
}

func digest(programID ids.ID, tag string, seeds [][]byte, nonce uint8) [32]byte {
	size := len(tag) + 1 + ids.IDLen + len(addressMarker)
	for _, s := range seeds {
		size += len(s)
	}
	b := make([]byte, 0, size)
	b = append(b, tag...)
	for _, s := range seeds {
		b = append(b, s...)
	}
	b = append(b, nonce)
	b = append(b, programID[:]...)
	b = append(b, addressMarker...)
	return hashing.ComputeHash256Array(b)
}

// OnCurve reports whether [b] decodes to a valid compressed edwards25519
// point.
func OnCurve(b [32]byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b[:])
	return err == nil
}

// CreateAddress re-derives the address for a known [nonce].
func CreateAddress(tag string, seeds [][]byte, nonce uint8) (codec.Address, error) {
	if err := checkSeeds(tag, seeds); err != nil {
		return codec.EmptyAddress, err
	}
	d := digest(consts.ProgramID, tag, seeds, nonce)
	if OnCurve(d) {
		return codec.EmptyAddress, ErrInvalidDerivation
	}
	return codec.CreateAddress(consts.DerivedID, d), nil
}

// FindAddress searches nonces from 255 down to 0 and returns the first
// address that is off the curve along with its nonce.
func FindAddress(tag string, seeds ...[]byte) (codec.Address, uint8, error) {
	if err := checkSeeds(tag, seeds); err != nil {
		return codec.EmptyAddress, 0, err
	}
	for n := int(consts.MaxUint8); n >= 0; n-- {
		d := digest(consts.ProgramID, tag, seeds, uint8(n))
		if OnCurve(d) {
			continue
		}
		return codec.CreateAddress(consts.DerivedID, d), uint8(n), nil
	}
	return codec.EmptyAddress, 0, ErrDerivationExhausted
}
