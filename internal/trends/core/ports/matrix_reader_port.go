package ports

import (
	"context"

	"paper-trends-service/internal/trends/core/domain"
)

type MatrixFilter struct {
	Since          *domain.Period // optional lower bound
	CategoryPrefix string         // optional, case-insensitive
}

// MatrixReaderPort loads the persisted flat matrix for analysis.
type MatrixReaderPort interface {
	LoadCells(ctx context.Context, f MatrixFilter) ([]domain.MatrixCell, error)
}
