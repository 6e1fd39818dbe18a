// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/countervm/crypto/ed25519"
)

// minBatchChunk is the smallest number of signatures worth handing to a
// separate goroutine.
const minBatchChunk = 16

// BatchVerifiable is implemented by auths whose signatures can be checked
// together in a single ed25519 batch.
type BatchVerifiable interface {
	Auth

	AddToBatch(b *ed25519.Batch, msg []byte)
}

// verifyAuths verifies every transaction, splitting [txs] into at most
// [parallelism] chunks that are checked concurrently.
func verifyAuths(ctx context.Context, txs []*Transaction, parallelism int) error {
	for _, tx := range txs {
		if err := tx.SyntacticVerify(); err != nil {
			return fmt.Errorf("%w: tx %s", err, tx.ID())
		}
	}

	if parallelism < 1 {
		parallelism = 1
	}
	chunk := (len(txs) + parallelism - 1) / parallelism
	if chunk < minBatchChunk {
		chunk = minBatchChunk
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for start := 0; start < len(txs); start += chunk {
		end := min(start+chunk, len(txs))
		part := txs[start:end]
		g.Go(func() error {
			return verifyChunk(gctx, part)
		})
	}
	return g.Wait()
}

// verifyChunk checks batchable signatures together and only re-checks them
// one by one if the batch fails.
func verifyChunk(ctx context.Context, txs []*Transaction) error {
	var (
		batch   = ed25519.NewBatch(len(txs))
		batched = make([]*Transaction, 0, len(txs))
	)
	for _, tx := range txs {
		if err := ctx.Err(); err != nil {
			return err
		}
		bv, ok := tx.Auth.(BatchVerifiable)
		if !ok {
			if err := tx.Verify(ctx); err != nil {
				return fmt.Errorf("%w: tx %s", err, tx.ID())
			}
			continue
		}
		msg, err := tx.Digest()
		if err != nil {
			return err
		}
		bv.AddToBatch(batch, msg)
		batched = append(batched, tx)
	}
	if len(batched) == 0 || batch.Verify() {
		return nil
	}
	for _, tx := range batched {
		if err := tx.Verify(ctx); err != nil {
			return fmt.Errorf("%w: tx %s", err, tx.ID())
		}
	}
	return nil
}
