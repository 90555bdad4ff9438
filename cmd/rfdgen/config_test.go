package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/rfdgen/internal/logging"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
)

func TestWriteConfigFile(t *testing.T) {
	l, err := logging.New(&bytes.Buffer{}, "info", "text")
	require.NoError(t, err)
	logger = l

	path := filepath.Join(t.TempDir(), "rfdgen.yaml")
	cfg := config.Default()
	cfg.Output.Dir = "out"

	require.NoError(t, writeConfigFile(path, cfg, false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dir: out")

	err = writeConfigFile(path, cfg, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.NoError(t, writeConfigFile(path, config.Default(), true))
}
