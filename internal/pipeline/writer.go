package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/inodb/vibevcf/internal/sink"
	"github.com/inodb/vibevcf/internal/vcfmodel"
)

// WriterTally summarizes one writer run for the final log line and for
// tests asserting the line-accounting invariant.
type WriterTally struct {
	Processed int
	Skipped   int
	Flushed   int
}

// RunWriter accumulates parsed records from records into batches of
// batchSize and flushes each full batch to s. It returns once it has
// observed exactly sentinelCount end tokens (one per parser), flushing any
// partial final batch first.
//
// A batch flush failure is logged and tolerated: the pipeline keeps
// draining so upstream producers are never blocked forever by a stalled
// sink, per the "database errors are recorded but tolerated" policy.
func RunWriter(ctx context.Context, records *Queue[vcfmodel.ParsedRecord], batchSize, sentinelCount int, s sink.RecordSink, logger *zap.Logger) WriterTally {
	var tally WriterTally
	sentinelsSeen := 0
	batch := make([]vcfmodel.VcfRecord, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		inserted, err := s.InsertBatch(ctx, batch)
		if err != nil {
			logger.Error("writer: batch flush failed", zap.Error(err), zap.Int("batch_size", len(batch)))
		} else {
			if inserted < len(batch) {
				logger.Warn("writer: partial batch insert",
					zap.Int("inserted", inserted), zap.Int("batch_size", len(batch)))
			} else {
				logger.Debug("writer: batch flushed", zap.Int("batch_size", len(batch)))
			}
			tally.Flushed++
		}
		batch = batch[:0]
	}

	for {
		rec, ok := records.Receive()
		if !ok {
			flush()
			return tally
		}

		if rec.IsEnd {
			sentinelsSeen++
			logger.Debug("writer: sentinel received", zap.Int("seen", sentinelsSeen), zap.Int("expected", sentinelCount))
			if sentinelsSeen == sentinelCount {
				flush()
				logger.Info("writer: run complete",
					zap.Int("processed", tally.Processed),
					zap.Int("skipped", tally.Skipped),
					zap.Int("flushed", tally.Flushed))
				return tally
			}
			continue
		}

		if rec.VcfData.IsEmpty() {
			tally.Skipped++
			continue
		}

		tally.Processed++
		batch = append(batch, rec.VcfData)
		if len(batch) == batchSize {
			flush()
		}
	}
}
