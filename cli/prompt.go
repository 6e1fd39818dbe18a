// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"strconv"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/manifoldco/promptui"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/utils"
)

func (*Handler) PromptAddress(label string) (codec.Address, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) == 0 {
				return ErrInputEmpty
			}
			_, err := codec.ParseAddressBech32(consts.HRP, strings.TrimSpace(input))
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return codec.EmptyAddress, err
	}
	return codec.ParseAddressBech32(consts.HRP, strings.TrimSpace(raw))
}

func (*Handler) PromptString(label string) (string, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(strings.TrimSpace(input)) == 0 {
				return ErrInputEmpty
			}
			return nil
		},
	}
	text, err := promptText.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), err
}

// PromptUint64 accepts any value in [0, MaxUint64].
func (*Handler) PromptUint64(label string) (uint64, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) == 0 {
				return ErrInputEmpty
			}
			_, err := strconv.ParseUint(strings.TrimSpace(input), 10, 64)
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
}

func (*Handler) PromptChoice(label string, max int) (int, error) {
	if max == 1 {
		return 0, nil
	}
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) == 0 {
				return ErrInputEmpty
			}
			index, err := strconv.Atoi(input)
			if err != nil {
				return err
			}
			if index >= max || index < 0 {
				return ErrIndexOutOfRange
			}
			return nil
		},
	}
	rawIndex, err := promptText.Run()
	if err != nil {
		return -1, err
	}
	return strconv.Atoi(rawIndex)
}

func (*Handler) PromptVariant(label string) (counter.Variant, error) {
	variants := counter.Variants()
	items := make([]string, len(variants))
	for i, v := range variants {
		items[i] = v.String()
	}
	promptSelect := promptui.Select{
		Label: label,
		Items: items,
	}
	index, _, err := promptSelect.Run()
	if err != nil {
		return 0, err
	}
	return variants[index], nil
}

func (*Handler) PromptContinue() (bool, error) {
	promptText := promptui.Prompt{
		Label:     "continue",
		IsConfirm: true,
	}
	if _, err := promptText.Run(); err != nil {
		if err == promptui.ErrAbort {
			utils.Outf("{{red}}exiting...{{/}}\n")
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (*Handler) PromptID(label string) (ids.ID, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) == 0 {
				return ErrInputEmpty
			}
			_, err := ids.FromString(strings.TrimSpace(input))
			return err
		},
	}
	rawID, err := promptText.Run()
	if err != nil {
		return ids.Empty, err
	}
	return ids.FromString(strings.TrimSpace(rawID))
}
