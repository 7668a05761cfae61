// core/matrix/matrix.go
package matrix

import "fmt"

// Dense is a row-major 2-D grid. It is a value type: the header is
// copied freely while the backing cells are shared, which matches how
// the DP routines hand matrices around.
type Dense[T any] struct {
	cells []T
	rows  int
	cols  int
}

// New allocates a rows x cols grid with every cell set to the zero
// value of T.
func New[T any](rows, cols int) Dense[T] {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("matrix: bad shape %dx%d", rows, cols))
	}
	return Dense[T]{
		cells: make([]T, rows*cols),
		rows:  rows,
		cols:  cols,
	}
}

func (m Dense[T]) Rows() int { return m.rows }
func (m Dense[T]) Cols() int { return m.cols }

// At returns the cell at (row, col).
func (m Dense[T]) At(row, col int) T {
	return m.cells[row*m.cols+col]
}

// Set writes the cell at (row, col).
func (m Dense[T]) Set(row, col int, v T) {
	m.cells[row*m.cols+col] = v
}

// Fill sets every cell to v.
func (m Dense[T]) Fill(v T) {
	for i := range m.cells {
		m.cells[i] = v
	}
}
