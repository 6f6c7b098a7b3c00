package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFloatFromFile(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "value")
	err := os.WriteFile(filePath, []byte(" 42.5\n"), 0644)
	require.NoError(t, err)

	// WHEN
	result, err := ReadFloatFromFile(filePath)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 42.5, result)
}

func TestReadFloatFromFile_Empty(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "value")
	err := os.WriteFile(filePath, []byte(""), 0644)
	require.NoError(t, err)

	// WHEN
	_, err = ReadFloatFromFile(filePath)

	// THEN
	assert.Error(t, err)
}

func TestReadFloatFromFile_Missing(t *testing.T) {
	// WHEN
	_, err := ReadFloatFromFile(filepath.Join(t.TempDir(), "missing"))

	// THEN
	assert.Error(t, err)
}

func TestWriteFloatToFileAtomic(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "output")

	// WHEN
	err := WriteFloatToFileAtomic(-1.25, filePath)

	// THEN
	assert.NoError(t, err)
	data, err := os.ReadFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, "-1.25", string(data))

	value, err := ReadFloatFromFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, -1.25, value)
}

func TestWriteFileAtomic_Overwrites(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(filePath, []byte("old content"), 0644))

	// WHEN
	err := WriteFileAtomic(filePath, []byte("new"))

	// THEN
	assert.NoError(t, err)
	data, _ := os.ReadFile(filePath)
	assert.Equal(t, "new", string(data))
}

func TestCheckFilePermissionsForExecution_Missing(t *testing.T) {
	// WHEN
	result, err := CheckFilePermissionsForExecution(filepath.Join(t.TempDir(), "missing"))

	// THEN
	assert.False(t, result)
	assert.Error(t, err)
}

func TestCheckFilePermissionsForExecution_OthersCanWrite(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "script")
	require.NoError(t, os.WriteFile(filePath, []byte("#!/bin/sh\n"), 0o777))
	require.NoError(t, os.Chmod(filePath, 0o777))

	// WHEN
	result, err := CheckFilePermissionsForExecution(filePath)

	// THEN
	assert.False(t, result)
	assert.Error(t, err)
}
