// Package sink is the persistence boundary of the import pipeline. The
// backing store accepts fixed-size batches and treats the idempotency key
// as the unique identity for merge-on-conflict writes, so re-importing a
// byte-identical file is a no-op.
package sink

import (
	"context"
	"fmt"

	"github.com/mvfrancisco/extrato/pkg/models"
)

// DefaultChunkSize respects the backend's batch-write limit.
const DefaultChunkSize = 400

// Result reports how much work an upsert performed.
type Result struct {
	Written int `json:"written"`
	Batches int `json:"batches"`
}

// BatchWriter persists one batch of keyed candidates, merging on the
// idempotency key.
type BatchWriter interface {
	WriteBatch(ctx context.Context, batch []*models.Candidate) error
}

// Upsert writes candidates through w in chunks of chunkSize (the default
// when <= 0). Every candidate must already carry an idempotency key — an
// un-keyed record cannot be deduplicated and aborts the whole call before
// anything is written.
func Upsert(ctx context.Context, w BatchWriter, candidates []*models.Candidate, chunkSize int) (Result, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	for _, c := range candidates {
		if c.IdempotencyKey == "" {
			return Result{}, fmt.Errorf("candidate at row %d has no idempotency key", c.RowIndex)
		}
	}

	var res Result
	for start := 0; start < len(candidates); start += chunkSize {
		end := start + chunkSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]
		if err := w.WriteBatch(ctx, batch); err != nil {
			return res, fmt.Errorf("batch %d failed: %w", res.Batches+1, err)
		}
		res.Written += len(batch)
		res.Batches++
	}

	return res, nil
}
