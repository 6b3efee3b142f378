// Package duckstore implements the sink.RecordSink contract against an
// embedded DuckDB database, adapted from the teacher's own variant-result
// cache: same database/sql-over-go-duckdb driver for connection management
// and schema, and the same Appender-based batch write
// (`internal/duckdb.WriteVariantResults` in the teacher tree) for bulk
// inserts, repurposed to persist ingested VCF records instead of
// annotation results.
package duckstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibevcf/internal/apperr"
	"github.com/inodb/vibevcf/internal/vcfmodel"
)

const tableName = "vcf_records"

// Store is a sink.RecordSink backed by an embedded DuckDB file (or an
// in-memory database, when Path is empty).
type Store struct {
	Path string

	db *sql.DB
}

// New returns an unopened Store for the database at path. Use an empty
// path for an in-memory database.
func New(path string) *Store {
	return &Store{Path: path}
}

// EnsureReady opens the database (creating its parent directory if needed)
// and creates the record table if it does not already exist. Calling it
// again on an already opened Store does nothing.
func (s *Store) EnsureReady(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if s.Path != "" {
		if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
			return apperr.Database("create duckdb directory").Wrap(err)
		}
	}

	db, err := sql.Open("duckdb", s.Path)
	if err != nil {
		return apperr.Database("open duckdb").Wrap(err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return apperr.Database("ping duckdb").Wrap(err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return apperr.Database("ensure schema").Wrap(err)
	}

	s.db = db
	return nil
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS vcf_records (
	chromosome VARCHAR,
	position BIGINT,
	ref VARCHAR,
	alt VARCHAR,
	filter VARCHAR,
	qual DOUBLE,
	info VARCHAR,
	format VARCHAR
)`

// InsertBatch appends batch to the vcf_records table through DuckDB's
// Appender API, the same conn.Raw+NewAppenderFromConn+AppendRow+Flush
// sequence the teacher's own variant-result cache uses for bulk writes.
func (s *Store) InsertBatch(ctx context.Context, batch []vcfmodel.VcfRecord) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, apperr.Database("get connection").Wrap(err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", tableName)
		return err
	}); err != nil {
		return 0, apperr.Database("create appender").Wrap(err)
	}
	defer appender.Close()

	inserted := 0
	for _, rec := range batch {
		infoJSON, err := json.Marshal(rec.Data.Info)
		if err != nil {
			return inserted, apperr.Database("marshal info").Wrap(err)
		}
		formatJSON, err := json.Marshal(rec.Data.Format)
		if err != nil {
			return inserted, apperr.Database("marshal format").Wrap(err)
		}

		// The appender takes plain values, not pointers; nil stores NULL.
		var qual any
		if rec.Data.Qual != nil {
			qual = *rec.Data.Qual
		}

		if err := appender.AppendRow(
			rec.Chromosome, int64(rec.Position), rec.Ref, rec.Alt,
			rec.Data.Filter, qual, string(infoJSON), string(formatJSON),
		); err != nil {
			return inserted, apperr.Database("append row").Wrap(err)
		}
		inserted++
	}

	if err := appender.Flush(); err != nil {
		return 0, apperr.Database("flush appender").Wrap(err)
	}
	return inserted, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
