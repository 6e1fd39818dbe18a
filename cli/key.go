// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/utils"
)

func (h *Handler) GenerateKey() error {
	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return err
	}
	return h.storeAndSetKey(priv, "created")
}

func (h *Handler) ImportKey(keyPath string) error {
	priv, err := ed25519.LoadKey(keyPath)
	if err != nil {
		return err
	}
	return h.storeAndSetKey(priv, "imported")
}

func (h *Handler) ExportKey(keyPath string) error {
	key, err := h.GetDefaultKey(true)
	if err != nil {
		return err
	}
	if err := key.Private.Save(keyPath); err != nil {
		return err
	}
	utils.Outf("{{green}}exported key to:{{/}} %s\n", keyPath)
	return nil
}

func (h *Handler) storeAndSetKey(priv ed25519.PrivateKey, verb string) error {
	addr, err := h.StoreKey(priv)
	if err != nil {
		return err
	}
	if err := h.StoreDefaultKey(addr); err != nil {
		return err
	}
	utils.Outf("{{green}}%s address:{{/}} %s\n", verb, addr)
	return nil
}

func (h *Handler) SetKey() error {
	keys, err := h.GetKeys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		utils.Outf("{{red}}no stored keys{{/}}\n")
		return nil
	}
	utils.Outf("{{cyan}}stored keys:{{/}} %d\n", len(keys))
	for i, key := range keys {
		utils.Outf("%d) {{cyan}}address:{{/}} %s\n", i, key.Address)
	}

	// Select key
	keyIndex, err := h.PromptChoice("set default key", len(keys))
	if err != nil {
		return err
	}
	return h.StoreDefaultKey(keys[keyIndex].Address)
}
