package rfd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "temp_2_a.xlsx")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))
	gone := filepath.Join(dir, "temp_3_gone.xlsx")

	left := Cleanup(discardLogger(), []string{a, gone}, 3, 0)
	assert.Empty(t, left)

	_, err := os.Stat(a)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanupReportsLeftovers(t *testing.T) {
	dir := t.TempDir()
	busy := filepath.Join(dir, "busy")
	require.NoError(t, os.MkdirAll(filepath.Join(busy, "child"), 0o755))

	left := Cleanup(discardLogger(), []string{busy}, 2, 0)
	assert.Equal(t, []string{busy}, left)
}
