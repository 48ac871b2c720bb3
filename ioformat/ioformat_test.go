package ioformat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjsanger/coclust"
)

func TestWriteReadMatrix_RoundTrip(t *testing.T) {
	m, err := coclust.NewMatrix([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "matrix.bin")
	require.NoError(t, WriteMatrix(path, m))

	got, err := ReadMatrix(path, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, m.NumRows(), got.NumRows())
	assert.Equal(t, m.NumCols(), got.NumCols())
	for i := 0; i < 2; i++ {
		assert.Equal(t, m.Row(i), got.Row(i))
	}
}

func TestReadMatrix_WrongSizeFails(t *testing.T) {
	m, err := coclust.NewMatrix([]float32{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "matrix.bin")
	require.NoError(t, WriteMatrix(path, m))

	_, err = ReadMatrix(path, 3, 3)
	assert.Error(t, err)
}

func TestWriteLabels_OnePerLine(t *testing.T) {
	lbl, err := coclust.NewLabels([]int32{0, 1, 0, 1}, []int32{1, 0}, 2, 2)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, WriteLabels(path, lbl))

	content, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	assert.Equal(t, "0\n1\n0\n1\n1\n0\n", string(content))
}

func TestReadLabels_ParsesThreeLineFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	content := "4 3\n2 2\n0 1 0 1 1 0 1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	numRows, numCols, lbl, err := ReadLabels(path)
	require.NoError(t, err)
	assert.Equal(t, 4, numRows)
	assert.Equal(t, 3, numCols)
	assert.Equal(t, 2, lbl.R)
	assert.Equal(t, 2, lbl.C)
	assert.Equal(t, []int32{0, 1, 0, 1}, lbl.Row)
	assert.Equal(t, []int32{1, 0, 1}, lbl.Col)
}

func TestReadLabels_TruncatedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("4 3\n2 2\n0 1\n"), 0o644))

	_, _, _, err := ReadLabels(path)
	assert.Error(t, err)
}

func TestReadLabels_OutOfRangeLabelFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	// R=2 but a row label of 5 is out of bounds.
	require.NoError(t, os.WriteFile(path, []byte("2 2\n2 2\n5 0 0 1\n"), 0o644))

	_, _, _, err := ReadLabels(path)
	assert.Error(t, err)
}
