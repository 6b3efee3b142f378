// Package vcfmodel holds the data types that flow through the ingestion
// pipeline: raw lines off disk, parsed records, and the VCF record shape
// persisted to the record sink.
package vcfmodel

// RawLine is one line read from the input file, or an end-of-stream
// sentinel. LineNumber is 1-based and monotonically increasing per file; it
// is 0 on sentinels.
type RawLine struct {
	LineNumber uint64
	Text       string
	IsEnd      bool
}

// VcfData is the free-form portion of a VCF record: the fields that vary in
// shape from line to line and are persisted as a nested document.
type VcfData struct {
	Filter string         `bson:"FILTER" json:"FILTER"`
	Qual   *float64       `bson:"QUAL" json:"QUAL"`
	Info   map[string]any `bson:"INFO" json:"INFO"`
	Format map[string]any `bson:"FORMAT" json:"FORMAT"`
}

// VcfRecord is the structured form of one data line, ready for persistence.
// A zero-value Chromosome marks a header/blank line that the writer should
// skip rather than persist.
type VcfRecord struct {
	Chromosome string  `bson:"chromosome" json:"chromosome"`
	Position   uint64  `bson:"position" json:"position"`
	Ref        string  `bson:"ref" json:"ref"`
	Alt        string  `bson:"alt" json:"alt"`
	Data       VcfData `bson:"data" json:"data"`
}

// IsEmpty reports whether this record carries no variant data, i.e. it came
// from a header or blank line and should be skipped rather than persisted.
func (r VcfRecord) IsEmpty() bool {
	return r.Chromosome == ""
}

// ParsedRecord is the output of the line parser: either a structured VCF
// record, an empty one representing a skipped header/blank line, or an
// end-of-stream sentinel echoing the reader's.
type ParsedRecord struct {
	LineNumber uint64
	RawText    string
	VcfData    VcfRecord
	IsEnd      bool
}
