package domain_test

import (
	"errors"
	"testing"
	"time"

	"paper-trends-service/internal/trends/core/domain"
)

func TestNewCountMatrix_DenseRangeZeroFilled(t *testing.T) {
	cells := []domain.MatrixCell{
		{Period: domain.Period{Year: 2020, Month: time.March}, Category: "cs.AI", Count: 3},
		{Period: domain.Period{Year: 2020, Month: time.January}, Category: "cs.AI", Count: 1},
		{Period: domain.Period{Year: 2020, Month: time.January}, Category: "math.NT", Count: 2},
	}
	m, err := domain.NewCountMatrix(cells)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// February was never observed but sits on the dense axis.
	if m.Len() != 3 {
		t.Fatalf("expected 3 periods, got %d", m.Len())
	}
	wantTotals := []int64{3, 0, 3}
	for i, total := range m.Totals() {
		if total != wantTotals[i] {
			t.Fatalf("totals[%d]: expected %d, got %d", i, wantTotals[i], total)
		}
	}

	ai := m.Series("cs.AI")
	if ai[0] != 1 || ai[1] != 0 || ai[2] != 3 {
		t.Fatalf("cs.AI series wrong: %v", ai)
	}

	cats := m.Categories()
	if len(cats) != 2 || cats[0] != "cs.AI" || cats[1] != "math.NT" {
		t.Fatalf("categories not lexical: %v", cats)
	}
	if m.LatestPeriod() != (domain.Period{Year: 2020, Month: time.March}) {
		t.Fatalf("latest period wrong: %s", m.LatestPeriod())
	}
}

func TestNewCountMatrix_DuplicateCellsSum(t *testing.T) {
	cells := []domain.MatrixCell{
		{Period: domain.Period{Year: 2020, Month: time.January}, Category: "cs.AI", Count: 2},
		{Period: domain.Period{Year: 2020, Month: time.January}, Category: "cs.AI", Count: 3},
	}
	m, err := domain.NewCountMatrix(cells)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Totals()[0] != 5 {
		t.Fatalf("duplicate cells must sum, got %d", m.Totals()[0])
	}
}

func TestNewCountMatrix_Empty(t *testing.T) {
	if _, err := domain.NewCountMatrix(nil); !errors.Is(err, domain.ErrEmptyMatrix) {
		t.Fatalf("expected ErrEmptyMatrix, got %v", err)
	}
}
