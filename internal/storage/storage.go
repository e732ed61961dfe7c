// Package storage provides the key-addressed blob store the pipeline
// reads raw snapshots from and writes processed snapshots to. Keys form
// a virtual path hierarchy partitioned by stage, dataset, date, and
// (for prices) symbol.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// BlobStore is the key-addressed object store abstraction. Writes to an
// existing key overwrite it, which makes same-day reruns idempotent at
// the key level.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}
