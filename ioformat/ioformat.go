// Copyright 2025 coclust Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ioformat reads and writes the on-disk formats coclust's CLI
// consumes and produces: a dense C-contiguous float32 matrix, a plain-text
// label file, and the plain-text label output.
package ioformat

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/kjsanger/coclust"
)

// ReadMatrix reads a dense, C-contiguous, little-endian 32-bit float matrix
// of numRows*numCols elements from path.
func ReadMatrix(path string, numRows, numCols int) (coclust.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return coclust.Matrix{}, fmt.Errorf("ioformat: open matrix: %w", err)
	}
	defer f.Close()

	want := numRows * numCols
	data := make([]float32, want)
	if err := binary.Read(bufio.NewReader(f), binary.LittleEndian, data); err != nil {
		return coclust.Matrix{}, fmt.Errorf("ioformat: read matrix (want %d elements): %w", want, err)
	}

	m, err := coclust.NewMatrix(data, numRows, numCols)
	if err != nil {
		return coclust.Matrix{}, fmt.Errorf("ioformat: %w", err)
	}
	return m, nil
}

// WriteMatrix writes m in the same dense, C-contiguous, little-endian
// float32 layout ReadMatrix expects. Used by tests to produce fixtures; the
// CLI itself is read-only on matrices.
func WriteMatrix(path string, m coclust.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ioformat: create matrix: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := 0; i < m.NumRows(); i++ {
		if err := binary.Write(w, binary.LittleEndian, m.Row(i)); err != nil {
			return fmt.Errorf("ioformat: write matrix: %w", err)
		}
	}
	return w.Flush()
}

// ReadLabels reads the three-line label file format: "numRows numCols",
// "R C", then numRows+numCols whitespace-separated integers giving the
// initial row labels followed by the initial column labels.
func ReadLabels(path string) (numRows, numCols int, lbl *coclust.Labels, err error) {
	f, ferr := os.Open(path)
	if ferr != nil {
		return 0, 0, nil, fmt.Errorf("ioformat: open labels: %w", ferr)
	}
	defer f.Close()

	var r, c int
	if _, err := fmt.Fscan(f, &numRows, &numCols); err != nil {
		return 0, 0, nil, fmt.Errorf("ioformat: read dimensions line: %w", err)
	}
	if _, err := fmt.Fscan(f, &r, &c); err != nil {
		return 0, 0, nil, fmt.Errorf("ioformat: read R C line: %w", err)
	}

	row := make([]int32, numRows)
	col := make([]int32, numCols)
	for i := range row {
		if _, err := fmt.Fscan(f, &row[i]); err != nil {
			return 0, 0, nil, fmt.Errorf("ioformat: read row label %d: %w", i, err)
		}
	}
	for j := range col {
		if _, err := fmt.Fscan(f, &col[j]); err != nil {
			return 0, 0, nil, fmt.Errorf("ioformat: read column label %d: %w", j, err)
		}
	}

	lbl, err = coclust.NewLabels(row, col, r, c)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("ioformat: %w", err)
	}
	return numRows, numCols, lbl, nil
}

// WriteLabels writes numRows row labels followed by numCols column labels,
// one per line, the format the rank-0 worker alone produces.
func WriteLabels(path string, lbl *coclust.Labels) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ioformat: create output: %w", err)
	}
	defer f.Close()

	return EncodeLabels(f, lbl)
}

// EncodeLabels writes lbl to w in the same format WriteLabels uses, for
// callers that want the labels on stdout rather than a file.
func EncodeLabels(w io.Writer, lbl *coclust.Labels) error {
	bw := bufio.NewWriter(w)
	if err := writeLines(bw, lbl.Row); err != nil {
		return err
	}
	if err := writeLines(bw, lbl.Col); err != nil {
		return err
	}
	return bw.Flush()
}

func writeLines(w io.Writer, labels []int32) error {
	for _, v := range labels {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return fmt.Errorf("ioformat: write output: %w", err)
		}
	}
	return nil
}
