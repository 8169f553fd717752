package domain

import "fmt"

// Unreachable is the cost recorded for an ordered pair the routing service could not price.
const Unreachable int64 = 1_000_000_000

// DurationMatrix maps (from, to) point indices to travel seconds. Index 0 is the origin.
// Roads are directed, so m[i][j] and m[j][i] may differ.
type DurationMatrix [][]int64

// NewDurationMatrix returns an n×n matrix with zero diagonal and every other cell Unreachable.
func NewDurationMatrix(n int) DurationMatrix {
	m := make(DurationMatrix, n)
	for i := range m {
		m[i] = make([]int64, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = Unreachable
			}
		}
	}
	return m
}

// Size returns the number of points covered by the matrix.
func (m DurationMatrix) Size() int { return len(m) }

// Validate checks that the matrix is square and has no negative cells.
func (m DurationMatrix) Validate() error {
	n := len(m)
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("duration matrix: row %d has %d cells, want %d", i, len(row), n)
		}
		for j, v := range row {
			if v < 0 {
				return fmt.Errorf("duration matrix: negative cell [%d][%d]=%d", i, j, v)
			}
		}
	}
	return nil
}

// PathCost sums consecutive legs of path, which lists point indices.
func (m DurationMatrix) PathCost(path []int) int64 {
	var total int64
	for i := 0; i+1 < len(path); i++ {
		total += m[path[i]][path[i+1]]
	}
	return total
}
