package pipeline

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/inodb/vibevcf/internal/vcfmodel"
)

// RunReader opens path and emits one RawLine per line into lines, followed
// by exactly sentinelCount end tokens. If the file cannot be opened, the
// error is logged and the sentinels are still emitted immediately so that
// downstream parsers never block forever on an empty queue — this holds
// even though emitSentinel is currently always true in the pipeline, kept
// as an explicit parameter so tests can exercise the no-sentinel path.
//
// ctx is checked between lines for cooperative cancellation: on
// cancellation the reader stops reading early and then emits its sentinels
// through the same ctx, so once ctx is done any end token that cannot be
// enqueued at once may be dropped (see emitSentinels).
func RunReader(ctx context.Context, path string, lines *Queue[vcfmodel.RawLine], sentinelCount int, emitSentinel bool, logger *zap.Logger) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("reader: failed to open file", zap.String("path", path), zap.Error(err))
		if emitSentinel {
			emitSentinels(ctx, lines, sentinelCount)
		}
		return
	}
	defer f.Close()

	reader, err := lineReader(f)
	if err != nil {
		logger.Warn("reader: failed to initialize decoder", zap.String("path", path), zap.Error(err))
		if emitSentinel {
			emitSentinels(ctx, lines, sentinelCount)
		}
		return
	}

	var lineNumber uint64
	for {
		select {
		case <-ctx.Done():
			logger.Info("reader: cancelled, draining with sentinels", zap.Uint64("lines_read", lineNumber))
			if emitSentinel {
				emitSentinels(ctx, lines, sentinelCount)
			}
			return
		default:
		}

		text, readErr := reader.ReadString('\n')
		if len(text) > 0 {
			text = trimNewline(text)
			lineNumber++
			if !lines.SendContext(ctx, vcfmodel.RawLine{LineNumber: lineNumber, Text: text}) {
				logger.Info("reader: cancelled while blocked on a full queue", zap.Uint64("lines_read", lineNumber))
				if emitSentinel {
					emitSentinels(ctx, lines, sentinelCount)
				}
				return
			}
		}
		if readErr != nil {
			// EOF, or any other read error: treated as end-of-file for
			// safety, matching the "per-line I/O errors are logged and
			// treated as end-of-file" policy.
			if !isEOF(readErr) {
				logger.Warn("reader: line read error, stopping early", zap.Error(readErr))
			}
			break
		}
	}

	logger.Debug("reader: emitting sentinels", zap.Int("count", sentinelCount))
	if emitSentinel {
		emitSentinels(ctx, lines, sentinelCount)
	}
}

// lineReader wraps f in a *bufio.Reader, transparently decompressing gzip
// input (detected by magic bytes), matching the teacher's vcf.NewParser
// auto-detection of .vcf.gz input.
func lineReader(f *os.File) (*bufio.Reader, error) {
	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err == nil && len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return bufio.NewReader(gz), nil
	}
	return br, nil
}

// emitSentinels sends count end tokens, using SendContext so that a queue
// nobody is draining anymore (every parser already failed and exited before
// the reader got here) does not block this goroutine forever: once ctx is
// done, the remaining sentinels are abandoned rather than sent.
func emitSentinels(ctx context.Context, lines *Queue[vcfmodel.RawLine], count int) {
	for i := 0; i < count; i++ {
		if !lines.SendContext(ctx, vcfmodel.RawLine{IsEnd: true}) {
			return
		}
	}
}

func trimNewline(s string) string {
	n := len(s)
	if n > 0 && s[n-1] == '\n' {
		n--
	}
	if n > 0 && s[n-1] == '\r' {
		n--
	}
	return s[:n]
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
