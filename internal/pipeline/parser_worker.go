package pipeline

import (
	"github.com/inodb/vibevcf/internal/vcfmodel"
)

// LineParser is the pure parsing strategy a parser worker applies to each
// RawLine. vcfline.Parse is the only production implementation; tests can
// inject a faulty one to exercise the orchestrator's error-handling path.
type LineParser func(vcfmodel.RawLine) (vcfmodel.ParsedRecord, error)

// RunParserWorker drains lines until it observes an end token, applies
// parse to every data line, and forwards each resulting record onto
// records. On observing the end token it forwards exactly one end token
// downstream and returns nil.
//
// If parse returns an error the worker returns that error immediately
// without forwarding a downstream end token — the caller (the pipeline
// orchestrator) is responsible for injecting a compensating sentinel so
// the writer does not block waiting for this worker's token.
func RunParserWorker(lines *Queue[vcfmodel.RawLine], records *Queue[vcfmodel.ParsedRecord], parse LineParser) error {
	for {
		raw, ok := lines.Receive()
		if !ok {
			return nil
		}

		if raw.IsEnd {
			records.Send(vcfmodel.ParsedRecord{IsEnd: true})
			return nil
		}

		rec, err := parse(raw)
		if err != nil {
			return err
		}
		records.Send(rec)
	}
}
