package domain

import (
	"errors"
	"sort"
)

var ErrEmptyMatrix = errors.New("count matrix has no cells")

// MatrixCell is one flat row of the persisted matrix.
type MatrixCell struct {
	Period   Period
	Category string
	Count    int64
}

// CountMatrix is the analysis-side view of the aggregate: a dense month axis
// from the earliest to the latest observed period, with every category series
// zero-filled over months it did not appear in. Read-only once built.
type CountMatrix struct {
	periods    []Period
	categories []string
	series     map[string][]int64
	totals     []int64
}

// NewCountMatrix builds the dense matrix from flat cells, in any order.
func NewCountMatrix(cells []MatrixCell) (*CountMatrix, error) {
	if len(cells) == 0 {
		return nil, ErrEmptyMatrix
	}

	minP, maxP := cells[0].Period, cells[0].Period
	catSet := make(map[string]struct{})
	for _, c := range cells {
		if c.Period.Before(minP) {
			minP = c.Period
		}
		if maxP.Before(c.Period) {
			maxP = c.Period
		}
		catSet[c.Category] = struct{}{}
	}

	n := MonthsBetween(minP, maxP) + 1
	periods := make([]Period, 0, n)
	for p := minP; !maxP.Before(p); p = p.Next() {
		periods = append(periods, p)
	}

	categories := make([]string, 0, len(catSet))
	for cat := range catSet {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	series := make(map[string][]int64, len(categories))
	for _, cat := range categories {
		series[cat] = make([]int64, n)
	}
	totals := make([]int64, n)
	for _, c := range cells {
		i := MonthsBetween(minP, c.Period)
		series[c.Category][i] += c.Count
		totals[i] += c.Count
	}

	return &CountMatrix{
		periods:    periods,
		categories: categories,
		series:     series,
		totals:     totals,
	}, nil
}

// Len is the number of periods on the dense axis.
func (m *CountMatrix) Len() int {
	return len(m.periods)
}

func (m *CountMatrix) Periods() []Period {
	return m.periods
}

func (m *CountMatrix) LatestPeriod() Period {
	return m.periods[len(m.periods)-1]
}

// Categories returns the category keys in lexical order.
func (m *CountMatrix) Categories() []string {
	return m.categories
}

// Totals is the per-period sum across categories, the primary time series.
func (m *CountMatrix) Totals() []int64 {
	return m.totals
}

// Series is one category's per-period counts, aligned with Periods.
func (m *CountMatrix) Series(category string) []int64 {
	return m.series[category]
}
