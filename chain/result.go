// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/storage"
)

// Result is the outcome of executing a [Transaction]. A failed transaction
// leaves no state changes behind but is still recorded.
type Result struct {
	TxID    ids.ID `json:"txId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Output  []byte `json:"output,omitempty"`
}

func (r *Result) toStorage(timestamp int64) *storage.TxResult {
	return &storage.TxResult{
		Timestamp: timestamp,
		Success:   r.Success,
		Error:     r.Error,
		Output:    r.Output,
	}
}

// ResultFromStorage rebuilds a [Result] from what [storage] recorded.
func ResultFromStorage(id ids.ID, r *storage.TxResult) *Result {
	return &Result{
		TxID:    id,
		Success: r.Success,
		Error:   r.Error,
		Output:  r.Output,
	}
}
