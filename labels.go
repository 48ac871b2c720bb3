package coclust

import "fmt"

// Labels holds the mutable row- and column-cluster assignments. Row is
// length numRows with values in [0, R); Col is length numCols with values
// in [0, C). Both are fully replicated across simulated ranks between
// phases; Cluster keeps them synchronized.
type Labels struct {
	Row []int32
	Col []int32
	R   int
	C   int
}

// NewLabels copies row and col into a Labels with the given cluster counts.
func NewLabels(row, col []int32, r, c int) (*Labels, error) {
	lbl := &Labels{
		Row: append([]int32(nil), row...),
		Col: append([]int32(nil), col...),
		R:   r,
		C:   c,
	}
	if err := lbl.Validate(); err != nil {
		return nil, err
	}
	return lbl, nil
}

// Validate checks the bounds invariant: 0 <= Row[i] < R and 0 <= Col[j] < C.
func (l *Labels) Validate() error {
	if l.R <= 0 || l.C <= 0 {
		return fmt.Errorf("coclust: R and C must be positive, got R=%d C=%d", l.R, l.C)
	}
	for i, v := range l.Row {
		if v < 0 || int(v) >= l.R {
			return fmt.Errorf("coclust: row label[%d] = %d out of range [0,%d)", i, v, l.R)
		}
	}
	for j, v := range l.Col {
		if v < 0 || int(v) >= l.C {
			return fmt.Errorf("coclust: col label[%d] = %d out of range [0,%d)", j, v, l.C)
		}
	}
	return nil
}

// Clone returns a deep copy, useful for idempotence/round-trip tests that
// need to compare a labeling before and after an extra iteration.
func (l *Labels) Clone() *Labels {
	return &Labels{
		Row: append([]int32(nil), l.Row...),
		Col: append([]int32(nil), l.Col...),
		R:   l.R,
		C:   l.C,
	}
}
