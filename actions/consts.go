// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "github.com/ava-labs/countervm/counter"

var ErrUnknownVariant = counter.ErrUnknownVariant
