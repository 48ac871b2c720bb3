package coclust

import "fmt"

// Matrix is an immutable, row-major, C-contiguous dense matrix of 32-bit
// floats. It is built once by the loader and never mutated by Cluster.
type Matrix struct {
	data []float32
	rows int
	cols int
}

// NewMatrix wraps data as a rows×cols row-major matrix. data is not copied;
// the caller must not mutate it for the lifetime of the Matrix.
func NewMatrix(data []float32, rows, cols int) (Matrix, error) {
	if rows < 0 || cols < 0 {
		return Matrix{}, fmt.Errorf("coclust: negative dimension (rows=%d, cols=%d)", rows, cols)
	}
	if len(data) != rows*cols {
		return Matrix{}, fmt.Errorf("coclust: data has %d elements, want %d (rows=%d * cols=%d)", len(data), rows*cols, rows, cols)
	}
	return Matrix{data: data, rows: rows, cols: cols}, nil
}

// NumRows returns the number of rows.
func (m Matrix) NumRows() int { return m.rows }

// NumCols returns the number of columns.
func (m Matrix) NumCols() int { return m.cols }

// At returns M[i,j].
func (m Matrix) At(i, j int) float32 {
	return m.data[i*m.cols+j]
}

// Row returns the underlying slice for row i. The slice aliases the
// matrix's backing array and must not be mutated.
func (m Matrix) Row(i int) []float32 {
	return m.data[i*m.cols : (i+1)*m.cols]
}
