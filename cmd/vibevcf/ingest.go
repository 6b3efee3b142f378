package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibevcf/internal/apperr"
	"github.com/inodb/vibevcf/internal/config"
	"github.com/inodb/vibevcf/internal/logging"
	"github.com/inodb/vibevcf/internal/pipeline"
	"github.com/inodb/vibevcf/internal/sink"
	"github.com/inodb/vibevcf/internal/store/duckstore"
	"github.com/inodb/vibevcf/internal/store/mongostore"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <path>",
		Short: "Ingest a VCF (or gzip-compressed .vcf.gz) file into the configured sink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args[0])
		},
	}
}

func runIngest(cmd *cobra.Command, path string) error {
	cfg := config.FromViper(v)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := checkInputFile(path); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return apperr.Validation("log_level: %v", err)
	}
	defer logger.Sync()

	s, closeSink, err := buildSink(cfg, logger)
	if err != nil {
		return err
	}
	if closeSink != nil {
		defer closeSink()
	}

	pctx := pipeline.NewContext(pipeline.Config{
		ParserCount:         cfg.ParserCount,
		BatchSize:           cfg.BatchSize,
		LineQueueCapacity:   cfg.LineQueueCapacity,
		RecordQueueCapacity: cfg.RecordQueueCapacity,
	})
	defer pctx.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := pipeline.Run(ctx, pctx, path, s, logger); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "ingest complete")
	return nil
}

// checkInputFile raises before the pipeline ever starts if path does not
// name an existing, readable, regular file, so a missing or unreadable
// input exits with the file-not-found/i-o codes instead of the pipeline
// silently running to completion with zero records.
func checkInputFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return apperr.FileNotFound(path)
		}
		return apperr.IO("stat %s", path).Wrap(err)
	}
	if !info.Mode().IsRegular() {
		return apperr.IO("%s is not a regular file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return apperr.IO("%s is not readable", path).Wrap(err)
	}
	f.Close()

	return nil
}

// buildSink selects and constructs the configured record sink. The
// returned close func (may be nil) should be deferred by the caller.
func buildSink(cfg config.Config, logger *zap.Logger) (sink.RecordSink, func(), error) {
	switch cfg.SinkKind {
	case "duckdb":
		st := duckstore.New(cfg.DuckDBPath)
		return st, func() { st.Close() }, nil
	case "mongo":
		st := mongostore.New(mongostore.Config{
			URI:            cfg.MongoURI,
			DatabaseName:   cfg.MongoDB,
			CollectionName: cfg.MongoColl,
		}, logger)
		return st, func() { st.Close(context.Background()) }, nil
	default:
		return nil, nil, apperr.Validation("unknown sink %q", cfg.SinkKind)
	}
}
