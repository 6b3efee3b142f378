// Package vcfline implements the pure VCF line parser: a single function
// from a raw line to a structured record, with no I/O and no shared state,
// safe to call concurrently from any number of parser workers.
package vcfline

import (
	"strconv"
	"strings"

	"github.com/inodb/vibevcf/internal/apperr"
	"github.com/inodb/vibevcf/internal/vcfmodel"
)

// minDataFields is the minimum TAB-separated field count for a data line:
// CHROM, POS, ID, REF, ALT, QUAL, FILTER, INFO.
const minDataFields = 8

// minFormatFields is the field count at which FORMAT/SAMPLE columns become
// available (adds FORMAT and at least one sample column).
const minFormatFields = 10

// Parse converts one RawLine into a ParsedRecord.
//
// End tokens and empty lines pass through with an empty VcfData. Lines
// beginning with '#' are treated as headers/comments and also produce an
// empty VcfData, which signals the writer to skip them. Any other line is
// parsed as a VCF data record; a line with fewer than 8 TAB-separated
// fields, or a non-numeric POS column, returns a parsing error.
func Parse(raw vcfmodel.RawLine) (vcfmodel.ParsedRecord, error) {
	result := vcfmodel.ParsedRecord{
		LineNumber: raw.LineNumber,
		RawText:    raw.Text,
		IsEnd:      raw.IsEnd,
	}

	if raw.IsEnd || raw.Text == "" {
		return result, nil
	}

	if raw.Text[0] == '#' {
		return result, nil
	}

	fields := strings.Split(raw.Text, "\t")
	if len(fields) < minDataFields {
		return vcfmodel.ParsedRecord{}, apperr.Parsing(
			"line %d: expected at least %d TAB-separated fields, got %d",
			raw.LineNumber, minDataFields, len(fields))
	}

	pos, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return vcfmodel.ParsedRecord{}, apperr.Parsing(
			"line %d: invalid position %q", raw.LineNumber, fields[1])
	}

	data := vcfmodel.VcfData{
		Filter: fields[6],
		Qual:   parseQual(fields[5]),
		Info:   parseInfo(fields[7]),
		Format: map[string]any{},
	}
	if len(fields) >= minFormatFields {
		data.Format = parseFormat(fields[8], fields[9])
	}

	result.VcfData = vcfmodel.VcfRecord{
		Chromosome: fields[0],
		Position:   pos,
		Ref:        fields[3],
		Alt:        fields[4],
		Data:       data,
	}
	return result, nil
}

// parseQual parses the QUAL column. "." means null. A non-numeric,
// non-"." value falls back to 0.0 rather than failing the line; this
// preserves the documented fallback behavior of the source this pipeline
// was derived from (see DESIGN.md open question on QUAL).
func parseQual(field string) *float64 {
	if field == "." {
		return nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		v = 0.0
	}
	return &v
}

// parseInfo splits the INFO column on ';'. Each token is either KEY=VALUE
// (numeric VALUE parsed as a number when the whole token is numeric,
// otherwise kept as a string) or a bare FLAG (stored as boolean true).
func parseInfo(field string) map[string]any {
	info := make(map[string]any)
	if field == "" || field == "." {
		return info
	}

	for _, tok := range strings.Split(field, ";") {
		if tok == "" {
			continue
		}
		key, value, hasValue := strings.Cut(tok, "=")
		if !hasValue {
			info[key] = true
			continue
		}
		if num, ok := asNumber(value); ok {
			info[key] = num
		} else {
			info[key] = value
		}
	}
	return info
}

// parseFormat zips the FORMAT keys against the first sample's values, up to
// the shorter of the two. A "." value becomes nil (null); numeric values
// are parsed as numbers when the whole token is numeric.
func parseFormat(formatField, sampleField string) map[string]any {
	if formatField == "" || sampleField == "" {
		return map[string]any{}
	}

	keys := strings.Split(formatField, ":")
	values := strings.Split(sampleField, ":")

	n := len(keys)
	if len(values) < n {
		n = len(values)
	}

	result := make(map[string]any, n)
	for i := 0; i < n; i++ {
		if values[i] == "." {
			result[keys[i]] = nil
			continue
		}
		if num, ok := asNumber(values[i]); ok {
			result[keys[i]] = num
		} else {
			result[keys[i]] = values[i]
		}
	}
	return result
}

// asNumber reports whether the entire string is a valid floating-point
// number and, if so, returns its value.
func asNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
