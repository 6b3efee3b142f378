// Package config loads and validates the ingestion pipeline's tunable
// parameters from CLI flags, environment variables, and an optional YAML
// config file, using the same Viper-backed layering the teacher CLI uses
// for its own configuration surface.
package config

import (
	"runtime"

	"github.com/spf13/viper"

	"github.com/inodb/vibevcf/internal/apperr"
)

// Defaults mirror the distilled spec's documented defaults.
const (
	DefaultBatchSize           = 1000
	DefaultLineQueueCapacity   = 20000
	DefaultRecordQueueCapacity = 10000
)

// Config is the validated, typed configuration for one pipeline run.
type Config struct {
	ParserCount         int
	BatchSize           int
	LineQueueCapacity   int
	RecordQueueCapacity int

	SinkKind   string // "mongo" or "duckdb"
	MongoURI   string
	MongoDB    string
	MongoColl  string
	DuckDBPath string
	LogLevel   string
}

// KeyKind identifies how a config key's raw string value should be
// interpreted before being stored in Viper.
type KeyKind int

const (
	KeyInt KeyKind = iota
	KeyString
)

// Keys is the single source of truth for which dotted keys the CLI's
// "config get/set" subcommands accept, and how to parse a value bound for
// each one. It mirrors the Config struct's field set field-for-field so the
// CLI can never accept a key that FromViper does not read.
var Keys = map[string]KeyKind{
	"parser_count":          KeyInt,
	"batch_size":            KeyInt,
	"line_queue_capacity":   KeyInt,
	"record_queue_capacity": KeyInt,
	"sink":                  KeyString,
	"mongo_uri":             KeyString,
	"mongo_db_name":         KeyString,
	"mongo_collection_name": KeyString,
	"duckdb_path":           KeyString,
	"log_level":             KeyString,
}

// BindFlags registers the ingestion command's configuration flags on v with
// their defaults, so Viper's flag > env > file > default precedence applies
// uniformly.
func BindFlags(v *viper.Viper) {
	v.SetDefault("parser_count", 0)
	v.SetDefault("batch_size", DefaultBatchSize)
	v.SetDefault("line_queue_capacity", DefaultLineQueueCapacity)
	v.SetDefault("record_queue_capacity", DefaultRecordQueueCapacity)
	v.SetDefault("sink", "mongo")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db_name", "vcf_db")
	v.SetDefault("mongo_collection_name", "vcf_records")
	v.SetDefault("duckdb_path", "")
	v.SetDefault("log_level", "info")
}

// FromViper reads the bound keys off v, resolves auto-detected values
// (parser_count == 0 means "hardware concurrency minus two, floor 1"), and
// returns a Config. Callers must still call Validate.
func FromViper(v *viper.Viper) Config {
	parserCount := v.GetInt("parser_count")
	if parserCount <= 0 {
		parserCount = autoParserCount()
	}

	return Config{
		ParserCount:         parserCount,
		BatchSize:           v.GetInt("batch_size"),
		LineQueueCapacity:   v.GetInt("line_queue_capacity"),
		RecordQueueCapacity: v.GetInt("record_queue_capacity"),
		SinkKind:            v.GetString("sink"),
		MongoURI:            v.GetString("mongo_uri"),
		MongoDB:             v.GetString("mongo_db_name"),
		MongoColl:           v.GetString("mongo_collection_name"),
		DuckDBPath:          v.GetString("duckdb_path"),
		LogLevel:            v.GetString("log_level"),
	}
}

// autoParserCount implements "0 means auto": hardware concurrency minus
// two, floor 1, grounded on the teacher's VcfToolBuilder::build()
// auto-detect logic.
func autoParserCount() int {
	n := runtime.NumCPU() - 2
	if n < 1 {
		n = 1
	}
	return n
}

// Validate enforces the invariants the distilled spec requires: batch_size
// must be positive, and both queue capacities must be at least batch_size
// to prevent every worker from deadlocking against its own batch.
func (c Config) Validate() error {
	if c.ParserCount < 1 {
		return apperr.Validation("parser_count must be >= 1, got %d", c.ParserCount)
	}
	if c.BatchSize < 1 {
		return apperr.Validation("batch_size must be >= 1, got %d", c.BatchSize)
	}
	if c.LineQueueCapacity < c.BatchSize {
		return apperr.Validation("line_queue_capacity (%d) must be >= batch_size (%d)", c.LineQueueCapacity, c.BatchSize)
	}
	if c.RecordQueueCapacity < c.BatchSize {
		return apperr.Validation("record_queue_capacity (%d) must be >= batch_size (%d)", c.RecordQueueCapacity, c.BatchSize)
	}
	switch c.SinkKind {
	case "mongo", "duckdb":
	default:
		return apperr.Validation("sink must be %q or %q, got %q", "mongo", "duckdb", c.SinkKind)
	}
	return nil
}
