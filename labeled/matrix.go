// SPDX-License-Identifier: MIT

package labeled

import (
	"fmt"

	"github.com/katalvlaran/agora/matrix"
)

// cell is one storage slot; ok distinguishes "unset" from a zero value.
type cell[V any] struct {
	v  V
	ok bool
}

// Matrix is a growable matrix of V indexed by row ids R and column ids C.
//
// Invariants:
//   - len(rowIDs) == len(rowIndex) == len(cells).
//   - len(colIDs) == len(colIndex).
//   - len(cells[i]) <= len(colIDs); rows are padded lazily on write, and a
//     missing tail reads as unset.
type Matrix[R comparable, C comparable, V any] struct {
	rowIndex map[R]int
	colIndex map[C]int
	rowIDs   []R
	colIDs   []C
	cells    [][]cell[V]
	set      int // number of set cells
}

// New returns an empty Matrix.
// Complexity: O(1).
func New[R comparable, C comparable, V any]() *Matrix[R, C, V] {
	return &Matrix[R, C, V]{
		rowIndex: make(map[R]int),
		colIndex: make(map[C]int),
	}
}

// RowIndex returns the index of row id, allocating a new row on first use.
// Complexity: O(1) amortized.
func (m *Matrix[R, C, V]) RowIndex(id R) int {
	if i, ok := m.rowIndex[id]; ok {
		return i
	}
	i := len(m.rowIDs)
	m.rowIndex[id] = i
	m.rowIDs = append(m.rowIDs, id)
	m.cells = append(m.cells, nil)

	return i
}

// ColIndex returns the index of column id, allocating a new column on first use.
// Complexity: O(1) amortized.
func (m *Matrix[R, C, V]) ColIndex(id C) int {
	if j, ok := m.colIndex[id]; ok {
		return j
	}
	j := len(m.colIDs)
	m.colIndex[id] = j
	m.colIDs = append(m.colIDs, id)

	return j
}

// AddRow registers a row without setting any cell and reports whether it was new.
func (m *Matrix[R, C, V]) AddRow(id R) bool {
	if _, ok := m.rowIndex[id]; ok {
		return false
	}
	m.RowIndex(id)

	return true
}

// LookupRow returns the index of row id without allocating.
func (m *Matrix[R, C, V]) LookupRow(id R) (int, bool) {
	i, ok := m.rowIndex[id]
	return i, ok
}

// LookupCol returns the index of column id without allocating.
func (m *Matrix[R, C, V]) LookupCol(id C) (int, bool) {
	j, ok := m.colIndex[id]
	return j, ok
}

// Get returns the value stored at (r, c). Unknown ids and unset cells yield
// the zero value and false.
// Complexity: O(1).
func (m *Matrix[R, C, V]) Get(r R, c C) (V, bool) {
	i, ok := m.rowIndex[r]
	if !ok {
		var zero V
		return zero, false
	}
	j, ok := m.colIndex[c]
	if !ok {
		var zero V
		return zero, false
	}

	return m.At(i, j)
}

// At returns the value stored at index (i, j). Out-of-range indices read as unset.
// Complexity: O(1).
func (m *Matrix[R, C, V]) At(i, j int) (V, bool) {
	var zero V
	if i < 0 || i >= len(m.cells) || j < 0 {
		return zero, false
	}
	row := m.cells[i]
	if j >= len(row) || !row[j].ok {
		return zero, false
	}

	return row[j].v, true
}

// Set stores v at (r, c), allocating the row and column as needed.
// Complexity: O(1) amortized; a lazily padded row grows to the column count.
func (m *Matrix[R, C, V]) Set(r R, c C, v V) {
	i := m.RowIndex(r)
	j := m.ColIndex(c)
	row := m.cells[i]
	if j >= len(row) {
		grown := make([]cell[V], len(m.colIDs))
		copy(grown, row)
		row = grown
		m.cells[i] = row
	}
	if !row[j].ok {
		m.set++
	}
	row[j] = cell[V]{v: v, ok: true}
}

// Rows returns the number of allocated rows.
func (m *Matrix[R, C, V]) Rows() int { return len(m.rowIDs) }

// Cols returns the number of allocated columns.
func (m *Matrix[R, C, V]) Cols() int { return len(m.colIDs) }

// Len returns the number of set cells.
func (m *Matrix[R, C, V]) Len() int { return m.set }

// RowID returns the id at row index i.
func (m *Matrix[R, C, V]) RowID(i int) R { return m.rowIDs[i] }

// ColID returns the id at column index j.
func (m *Matrix[R, C, V]) ColID(j int) C { return m.colIDs[j] }

// RowIDs returns a copy of the row ids in index order.
func (m *Matrix[R, C, V]) RowIDs() []R {
	out := make([]R, len(m.rowIDs))
	copy(out, m.rowIDs)

	return out
}

// ColIDs returns a copy of the column ids in index order.
func (m *Matrix[R, C, V]) ColIDs() []C {
	out := make([]C, len(m.colIDs))
	copy(out, m.colIDs)

	return out
}

// Each calls fn for every set cell in row-major index order.
// Iteration stops early when fn returns false.
func (m *Matrix[R, C, V]) Each(fn func(i, j int, v V) bool) {
	for i, row := range m.cells {
		for j, c := range row {
			if !c.ok {
				continue
			}
			if !fn(i, j, c.v) {
				return
			}
		}
	}
}

// EachInRow calls fn for every set cell of row index i in column order.
func (m *Matrix[R, C, V]) EachInRow(i int, fn func(j int, v V)) {
	if i < 0 || i >= len(m.cells) {
		return
	}
	for j, c := range m.cells[i] {
		if c.ok {
			fn(j, c.v)
		}
	}
}

// Clone returns a deep copy whose later mutations are independent.
// Complexity: O(rows + cols + set cells).
func (m *Matrix[R, C, V]) Clone() *Matrix[R, C, V] {
	out := &Matrix[R, C, V]{
		rowIndex: make(map[R]int, len(m.rowIndex)),
		colIndex: make(map[C]int, len(m.colIndex)),
		rowIDs:   make([]R, len(m.rowIDs)),
		colIDs:   make([]C, len(m.colIDs)),
		cells:    make([][]cell[V], len(m.cells)),
		set:      m.set,
	}
	for k, v := range m.rowIndex {
		out.rowIndex[k] = v
	}
	for k, v := range m.colIndex {
		out.colIndex[k] = v
	}
	copy(out.rowIDs, m.rowIDs)
	copy(out.colIDs, m.colIDs)
	for i, row := range m.cells {
		if row == nil {
			continue
		}
		out.cells[i] = make([]cell[V], len(row))
		copy(out.cells[i], row)
	}

	return out
}

// Dense materializes the matrix as a row-major *matrix.Dense using fn to map
// stored values, together with the observation mask (true where a cell is set).
// Unset cells are 0 in the dense copy.
//
// Errors:
//   - matrix.ErrNaNInf (wrapped) if fn produces a non-finite value.
//
// Complexity: O(rows*cols).
func (m *Matrix[R, C, V]) Dense(fn func(V) float64) (*matrix.Dense, []bool, error) {
	r, c := m.Rows(), m.Cols()
	d, err := matrix.NewDense(r, c)
	if err != nil {
		return nil, nil, fmt.Errorf("labeled: dense: %w", err)
	}
	mask := make([]bool, r*c)
	for i, row := range m.cells {
		for j, cl := range row {
			if !cl.ok {
				continue
			}
			if err = d.Set(i, j, fn(cl.v)); err != nil {
				return nil, nil, fmt.Errorf("labeled: dense: %w", err)
			}
			mask[i*c+j] = true
		}
	}

	return d, mask, nil
}
