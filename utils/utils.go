// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	formatter "github.com/onsi/ginkgo/v2/formatter"
)

// ToID is the sha256 of [bytes]. Transaction ids and endpoint keys are built
// with it.
func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

// Outf writes a formatter template to stdout.
//
// e.g.,
//
//	Outf("{{green}}created counter:{{/}} %s\n", addr)
//	Outf("{{red}}{{bold}}%s{{/}}\n", err)
//
// ref.
// https://github.com/onsi/ginkgo/blob/v2.0.0/formatter/formatter.go#L52-L73
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}
