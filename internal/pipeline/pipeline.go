package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/vibevcf/internal/sink"
	"github.com/inodb/vibevcf/internal/vcfline"
	"github.com/inodb/vibevcf/internal/vcfmodel"
)

// Run executes one complete ingestion of the file at path: it starts the
// reader, submits parser_count parser tasks to ctx's worker pool, starts the
// writer, and joins all of them.
//
// If any parser fails, its downstream end token is never emitted, which
// would otherwise leave the writer waiting forever for its Nth sentinel.
// Run compensates by injecting one synthetic end token into the record
// queue per failed parser, so the writer always terminates. The first
// parser error observed (if any) is returned to the caller once every
// worker has been joined.
func Run(ctx context.Context, pctx *Context, path string, s sink.RecordSink, logger *zap.Logger) error {
	if err := s.EnsureReady(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The reader and writer are joined through an errgroup even though
	// neither can fail on its own: it gives Run a single Wait() call
	// instead of a done-channel per goroutine.
	var eg errgroup.Group
	eg.Go(func() error {
		RunReader(runCtx, path, pctx.LineQueue(), pctx.ParserCount(), true, logger)
		return nil
	})

	futures := make([]*Future, 0, pctx.ParserCount())
	for i := 0; i < pctx.ParserCount(); i++ {
		f, err := pctx.Pool().Submit(func() error {
			return RunParserWorker(pctx.LineQueue(), pctx.RecordQueue(), vcfline.Parse)
		})
		if err != nil {
			return err
		}
		futures = append(futures, f)
	}

	var writerTally WriterTally
	eg.Go(func() error {
		writerTally = RunWriter(ctx, pctx.RecordQueue(), pctx.BatchSize(), pctx.ParserCount(), s, logger)
		return nil
	})

	var firstErr error
	var mu sync.Mutex
	failedParsers := 0
	for _, f := range futures {
		if err := f.Wait(); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			failedParsers++
			mu.Unlock()
		}
	}

	// Every parser has returned, so nothing drains the line queue any
	// more: unblock a reader that might still be waiting on it. Cancelling
	// earlier would let the reader drop end tokens a surviving parser
	// still needs.
	cancel()

	// Compensate for parsers that died without forwarding their sentinel,
	// so the writer's wait-for-N-sentinels loop always terminates.
	for i := 0; i < failedParsers; i++ {
		pctx.RecordQueue().Send(vcfmodel.ParsedRecord{IsEnd: true})
	}

	_ = eg.Wait() // reader and writer never return a non-nil error themselves

	logger.Info("pipeline: run complete",
		zap.Int("processed", writerTally.Processed),
		zap.Int("skipped", writerTally.Skipped),
		zap.Int("flushed", writerTally.Flushed),
	)

	return firstErr
}
