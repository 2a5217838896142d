package domain

import "sort"

// Cell addresses one entry of the count matrix.
type Cell struct {
	Bucket   TimeBucket
	Category string
}

// MatrixRow is the flat tabular form of one cell, for persistence.
type MatrixRow struct {
	Bucket   TimeBucket
	Category string
	Count    int64
}

// CountMatrix accumulates accepted records per (month, category) cell.
// Memory grows with the number of distinct cells, never with stream length.
// Accumulation is commutative, so matrices built from disjoint shards of the
// same stream merge into the same result as a single pass.
type CountMatrix struct {
	cells map[Cell]int64
}

func NewCountMatrix() *CountMatrix {
	return &CountMatrix{cells: make(map[Cell]int64)}
}

func (m *CountMatrix) Add(bucket TimeBucket, category string, n int64) {
	m.cells[Cell{Bucket: bucket, Category: category}] += n
}

func (m *CountMatrix) Count(bucket TimeBucket, category string) int64 {
	return m.cells[Cell{Bucket: bucket, Category: category}]
}

// Merge folds other into m cell-wise.
func (m *CountMatrix) Merge(other *CountMatrix) {
	for cell, n := range other.cells {
		m.cells[cell] += n
	}
}

func (m *CountMatrix) Cells() int {
	return len(m.cells)
}

// Total is the sum over all cells, which equals the accepted record count.
func (m *CountMatrix) Total() int64 {
	var total int64
	for _, n := range m.cells {
		total += n
	}
	return total
}

// Rows returns the matrix in flat form, sorted by bucket then category so
// repeated runs over the same stream serialize identically.
func (m *CountMatrix) Rows() []MatrixRow {
	rows := make([]MatrixRow, 0, len(m.cells))
	for cell, n := range m.cells {
		rows = append(rows, MatrixRow{Bucket: cell.Bucket, Category: cell.Category, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Bucket != rows[j].Bucket {
			return rows[i].Bucket.Before(rows[j].Bucket)
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}
