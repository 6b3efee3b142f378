// Package main provides the vibevcf command-line tool: a concurrent VCF
// ingestion pipeline that reads a VCF file, parses it in parallel, and
// writes structured records to a configurable record sink.
package main

import "os"

func main() {
	os.Exit(Execute())
}
