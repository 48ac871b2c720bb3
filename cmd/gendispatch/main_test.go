package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ProducesValidGoListingBothBackends(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "zz_backends_generated.go")
	require.NoError(t, generate(outPath))

	bs, err := os.ReadFile(outPath)
	require.NoError(t, err)
	content := string(bs)
	assert.Contains(t, content, "package topology")
	assert.Contains(t, content, `Name: "goroutine-pool"`)
	assert.Contains(t, content, `Name: "scalar"`)
	assert.Contains(t, content, "Code generated by cmd/gendispatch")
}
