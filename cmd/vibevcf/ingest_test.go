package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibevcf/internal/apperr"
)

func TestCheckInputFile_MissingFileReturnsFileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.vcf")

	err := checkInputFile(path)
	require.Error(t, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.CodeFileNotFound, appErr.Code)
	assert.Equal(t, 4, apperr.ExitCodeFor(err))
}

func TestCheckInputFile_DirectoryReturnsIOError(t *testing.T) {
	dir := t.TempDir()

	err := checkInputFile(dir)
	require.Error(t, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.CodeIO, appErr.Code)
	assert.Equal(t, 5, apperr.ExitCodeFor(err))
}

func TestCheckInputFile_ExistingRegularFilePasses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.vcf")
	require.NoError(t, os.WriteFile(path, []byte("#CHROM\n"), 0o644))

	assert.NoError(t, checkInputFile(path))
}
