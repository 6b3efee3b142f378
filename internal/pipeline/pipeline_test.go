package pipeline

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inodb/vibevcf/internal/vcfmodel"
)

type collectingSink struct {
	batches [][]vcfmodel.VcfRecord
}

func (s *collectingSink) EnsureReady(context.Context) error { return nil }

func (s *collectingSink) InsertBatch(_ context.Context, batch []vcfmodel.VcfRecord) (int, error) {
	cp := append([]vcfmodel.VcfRecord(nil), batch...)
	s.batches = append(s.batches, cp)
	return len(batch), nil
}

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.vcf")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// writeTempGzipFile gzip-compresses contents and writes it to a .vcf.gz
// file, exercising lineReader's magic-byte auto-detection instead of a
// filename-extension check.
func writeTempGzipFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.vcf.gz")

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// S1: headers-only file yields zero sink calls and a clean run.
func TestRun_HeadersOnly(t *testing.T) {
	path := writeTempFile(t, "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n")

	pctx := NewContext(Config{ParserCount: 2, BatchSize: 1000, LineQueueCapacity: 10, RecordQueueCapacity: 10})
	defer pctx.Close()

	s := &collectingSink{}
	err := Run(context.Background(), pctx, path, s, zap.NewNop())

	require.NoError(t, err)
	assert.Empty(t, s.batches)
}

// S2: a single data record produces one sink call with the expected shape.
func TestRun_SingleRecord(t *testing.T) {
	content := "##fileformat=VCFv4.2\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"chr1\t100\t.\tA\tG\t50.0\tPASS\tDP=30;AF=0.5\tGT:DP\t0/1:30\n"
	path := writeTempFile(t, content)

	pctx := NewContext(Config{ParserCount: 1, BatchSize: 1000, LineQueueCapacity: 10, RecordQueueCapacity: 10})
	defer pctx.Close()

	s := &collectingSink{}
	err := Run(context.Background(), pctx, path, s, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, s.batches, 1)
	require.Len(t, s.batches[0], 1)
	rec := s.batches[0][0]
	assert.Equal(t, "chr1", rec.Chromosome)
	assert.EqualValues(t, 100, rec.Position)
	assert.Equal(t, "A", rec.Ref)
	assert.Equal(t, "G", rec.Alt)
	assert.Equal(t, "PASS", rec.Data.Filter)
	require.NotNil(t, rec.Data.Qual)
	assert.InDelta(t, 50.0, *rec.Data.Qual, 1e-9)
	assert.Equal(t, 30.0, rec.Data.Info["DP"])
	assert.Equal(t, 0.5, rec.Data.Info["AF"])
	assert.Equal(t, "0/1", rec.Data.Format["GT"])
	assert.Equal(t, 30.0, rec.Data.Format["DP"])
}

// S8: a gzip-compressed input file is transparently decompressed and
// yields the same single sink call a plain-text equivalent would.
func TestRun_GzipInput(t *testing.T) {
	content := "##fileformat=VCFv4.2\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"chr1\t100\t.\tA\tG\t50.0\tPASS\tDP=30;AF=0.5\tGT:DP\t0/1:30\n"
	path := writeTempGzipFile(t, content)

	pctx := NewContext(Config{ParserCount: 1, BatchSize: 1000, LineQueueCapacity: 10, RecordQueueCapacity: 10})
	defer pctx.Close()

	s := &collectingSink{}
	err := Run(context.Background(), pctx, path, s, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, s.batches, 1)
	require.Len(t, s.batches[0], 1)
	rec := s.batches[0][0]
	assert.Equal(t, "chr1", rec.Chromosome)
	assert.EqualValues(t, 100, rec.Position)
	assert.Equal(t, "G", rec.Alt)
}

// S4: a malformed data line surfaces a parsing error from Run while every
// worker is still joined (Run returning at all demonstrates the join).
func TestRun_MalformedLineSurfacesParsingError(t *testing.T) {
	content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"chr1\t100\t.\tA\tG\n" // only 5 fields
	path := writeTempFile(t, content)

	pctx := NewContext(Config{ParserCount: 2, BatchSize: 1000, LineQueueCapacity: 10, RecordQueueCapacity: 10})
	defer pctx.Close()

	s := &collectingSink{}
	err := Run(context.Background(), pctx, path, s, zap.NewNop())
	require.Error(t, err)
}

// S6: a missing file still terminates cleanly with zero sink calls.
func TestRun_MissingFile(t *testing.T) {
	pctx := NewContext(Config{ParserCount: 2, BatchSize: 1000, LineQueueCapacity: 10, RecordQueueCapacity: 10})
	defer pctx.Close()

	s := &collectingSink{}
	err := Run(context.Background(), pctx, filepath.Join(t.TempDir(), "does-not-exist.vcf"), s, zap.NewNop())

	require.NoError(t, err)
	assert.Empty(t, s.batches)
}

// S7: QUAL "." is stored as a nil/null value.
func TestRun_QualNull(t *testing.T) {
	content := "chr1\t100\t.\tA\tG\t.\tPASS\t.\n"
	path := writeTempFile(t, content)

	pctx := NewContext(Config{ParserCount: 1, BatchSize: 1000, LineQueueCapacity: 10, RecordQueueCapacity: 10})
	defer pctx.Close()

	s := &collectingSink{}
	err := Run(context.Background(), pctx, path, s, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, s.batches, 1)
	require.Len(t, s.batches[0], 1)
	assert.Nil(t, s.batches[0][0].Data.Qual)
}

func TestRun_EnsureReadyFailureAbortsRun(t *testing.T) {
	pctx := NewContext(Config{ParserCount: 1, BatchSize: 10, LineQueueCapacity: 10, RecordQueueCapacity: 10})
	defer pctx.Close()

	boom := errors.New("cannot connect")
	err := Run(context.Background(), pctx, "irrelevant", failingReadySink{err: boom}, zap.NewNop())
	assert.ErrorIs(t, err, boom)
}

type failingReadySink struct{ err error }

func (f failingReadySink) EnsureReady(context.Context) error { return f.err }
func (f failingReadySink) InsertBatch(context.Context, []vcfmodel.VcfRecord) (int, error) {
	return 0, nil
}
