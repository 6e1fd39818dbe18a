// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"encoding/binary"

	"github.com/ava-labs/countervm/consts"
)

// Every state key ends with a big-endian uint16 holding the maximum number of
// 64 byte chunks its value may ever occupy. Records are fixed size, so the
// bound is known when the key is built and is enforced on every write.
const chunkSize = 64 // bytes

func Valid(key []byte) bool {
	return len(key) >= consts.Uint16Len
}

// MaxChunks returns the chunk bound encoded in the suffix of [key].
func MaxChunks(key []byte) (uint16, bool) {
	l := len(key)
	if l < consts.Uint16Len {
		return 0, false
	}
	return binary.BigEndian.Uint16(key[l-consts.Uint16Len:]), true
}

// NumChunks returns the number of chunks [value] occupies.
func NumChunks(value []byte) (uint16, bool) {
	return numChunks(len(value))
}

func numChunks(valueLen int) (uint16, bool) {
	if valueLen == 0 {
		return 0, true
	}
	raw := (valueLen + chunkSize - 1) / chunkSize
	if raw > int(consts.MaxUint16) {
		return 0, false
	}
	return uint16(raw), true
}

// VerifyValue reports whether [value] fits under the chunk bound of [key].
func VerifyValue(key []byte, value []byte) bool {
	valueChunks, ok := NumChunks(value)
	if !ok {
		return false
	}
	keyChunks, ok := MaxChunks(key)
	if !ok {
		return false
	}
	return valueChunks <= keyChunks
}

// Encode appends the chunk bound required to hold [maxSize] bytes to [key].
func Encode(key []byte, maxSize int) ([]byte, bool) {
	n, ok := numChunks(maxSize)
	if !ok {
		return nil, false
	}
	return EncodeChunks(key, n), true
}

// EncodeChunks appends [maxChunks] to a copy of [key].
func EncodeChunks(key []byte, maxChunks uint16) []byte {
	k := make([]byte, len(key), len(key)+consts.Uint16Len)
	copy(k, key)
	return binary.BigEndian.AppendUint16(k, maxChunks)
}
