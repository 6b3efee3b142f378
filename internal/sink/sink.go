// Package sink defines the narrow contract the writer worker uses to
// persist batches of parsed VCF records, decoupling the ingestion pipeline
// from any specific storage backend.
package sink

import (
	"context"

	"github.com/inodb/vibevcf/internal/vcfmodel"
)

// RecordSink is implemented by every storage backend the writer can flush
// batches to. Implementations must be safe to call from a single goroutine
// only; the pipeline guarantees InsertBatch is never called concurrently
// with itself.
type RecordSink interface {
	// EnsureReady is called once before the first batch. It must be
	// idempotent, since a caller may hold a long-lived sink across
	// multiple pipeline runs.
	EnsureReady(ctx context.Context) error

	// InsertBatch persists batch and returns how many records were
	// actually written. A non-nil error means the batch failed; inserted
	// may still be non-zero when some records were written before the
	// failure. inserted < len(batch) with a nil error indicates a partial
	// insert the caller should log but not retry.
	InsertBatch(ctx context.Context, batch []vcfmodel.VcfRecord) (inserted int, err error)
}
