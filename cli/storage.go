// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/utils"
)

const (
	defaultPrefix  = 0x0
	keyPrefix      = 0x1
	endpointPrefix = 0x2

	defaultKeyKey      = "key"
	defaultEndpointKey = "endpoint"
)

// Key is a stored private key and the address it signs for.
type Key struct {
	Address codec.Address
	Private ed25519.PrivateKey
}

func (k *Key) Factory() *auth.ED25519Factory {
	return auth.NewED25519Factory(k.Private)
}

func (h *Handler) StoreDefault(key string, value []byte) error {
	k := make([]byte, 1+len(key))
	k[0] = defaultPrefix
	copy(k[1:], []byte(key))
	return h.db.Put(k, value)
}

func (h *Handler) GetDefault(key string) ([]byte, error) {
	k := make([]byte, 1+len(key))
	k[0] = defaultPrefix
	copy(k[1:], []byte(key))
	v, err := h.db.Get(k)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func keyKey(addr codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = keyPrefix
	copy(k[1:], addr[:])
	return k
}

// StoreKey saves [priv] under the address it signs for.
func (h *Handler) StoreKey(priv ed25519.PrivateKey) (codec.Address, error) {
	addr := auth.NewED25519Address(priv.PublicKey())
	k := keyKey(addr)
	has, err := h.db.Has(k)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if has {
		return codec.EmptyAddress, ErrDuplicate
	}
	return addr, h.db.Put(k, priv[:])
}

func (h *Handler) GetKey(addr codec.Address) (*Key, error) {
	v, err := h.db.Get(keyKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNoKeys
	}
	if err != nil {
		return nil, err
	}
	return &Key{Address: addr, Private: ed25519.PrivateKey(v)}, nil
}

// GetKeys returns every stored key in address order.
func (h *Handler) GetKeys() ([]*Key, error) {
	iter := h.db.NewIteratorWithPrefix([]byte{keyPrefix})
	defer iter.Release()

	keys := []*Key{}
	for iter.Next() {
		k, v := iter.Key(), iter.Value()
		if len(k) != 1+codec.AddressLen || len(v) != ed25519.PrivateKeyLen {
			continue
		}
		keys = append(keys, &Key{
			Address: codec.Address(k[1:]),
			Private: ed25519.PrivateKey(v),
		})
	}
	return keys, iter.Error()
}

func (h *Handler) StoreDefaultKey(addr codec.Address) error {
	return h.StoreDefault(defaultKeyKey, addr[:])
}

func (h *Handler) GetDefaultKey(log bool) (*Key, error) {
	v, err := h.GetDefault(defaultKeyKey)
	if err != nil {
		return nil, err
	}
	if len(v) != codec.AddressLen {
		return nil, ErrNoKeys
	}
	key, err := h.GetKey(codec.Address(v))
	if err != nil {
		return nil, err
	}
	if log {
		utils.Outf("{{yellow}}address:{{/}} %s\n", key.Address)
	}
	return key, nil
}

func endpointKey(uri string) []byte {
	id := utils.ToID([]byte(uri))
	k := make([]byte, 1+consts.IDLen)
	k[0] = endpointPrefix
	copy(k[1:], id[:])
	return k
}

func (h *Handler) StoreEndpoint(uri string) error {
	k := endpointKey(uri)
	has, err := h.db.Has(k)
	if err != nil {
		return err
	}
	if has {
		return ErrDuplicate
	}
	return h.db.Put(k, []byte(uri))
}

func (h *Handler) GetEndpoints() ([]string, error) {
	iter := h.db.NewIteratorWithPrefix([]byte{endpointPrefix})
	defer iter.Release()

	uris := []string{}
	for iter.Next() {
		uris = append(uris, string(iter.Value()))
	}
	return uris, iter.Error()
}

func (h *Handler) DeleteEndpoints() ([]string, error) {
	uris, err := h.GetEndpoints()
	if err != nil {
		return nil, err
	}
	for _, uri := range uris {
		if err := h.db.Delete(endpointKey(uri)); err != nil {
			return nil, err
		}
	}
	return uris, h.StoreDefault(defaultEndpointKey, nil)
}

func (h *Handler) StoreDefaultEndpoint(uri string) error {
	return h.StoreDefault(defaultEndpointKey, []byte(uri))
}

func (h *Handler) GetDefaultEndpoint(log bool) (string, error) {
	v, err := h.GetDefault(defaultEndpointKey)
	if err != nil {
		return "", err
	}
	if len(v) == 0 {
		return "", ErrNoEndpoints
	}
	if log {
		utils.Outf("{{yellow}}endpoint:{{/}} %s\n", string(v))
	}
	return string(v), nil
}

func (h *Handler) CloseDatabase() error {
	if h.db == nil {
		return nil
	}
	if err := h.db.Close(); err != nil {
		return fmt.Errorf("unable to close database: %w", err)
	}
	// Allow DB to be closed multiple times
	h.db = nil
	return nil
}
