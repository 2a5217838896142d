package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"paper-trends-service/internal/trends/core/domain"
	"paper-trends-service/internal/trends/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// MatrixRepository reads the flat monthly_counts table back into cells.
type MatrixRepository struct {
	db DB
}

func NewMatrixRepository(db DB) *MatrixRepository {
	return &MatrixRepository{db: db}
}

var _ ports.MatrixReaderPort = (*MatrixRepository)(nil)

func (r *MatrixRepository) LoadCells(ctx context.Context, f ports.MatrixFilter) ([]domain.MatrixCell, error) {
	query := `
SELECT
    time_bucket,
    category,
    count
FROM monthly_counts`

	var conds []string
	var args []any
	if f.Since != nil {
		args = append(args, f.Since.Time())
		conds = append(conds, fmt.Sprintf("time_bucket >= $%d", len(args)))
	}
	if f.CategoryPrefix != "" {
		args = append(args, strings.ToLower(f.CategoryPrefix)+"%")
		conds = append(conds, fmt.Sprintf("lower(category) LIKE $%d", len(args)))
	}
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}
	query += "\nORDER BY time_bucket, category"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []domain.MatrixCell
	for rows.Next() {
		var ts time.Time
		var category string
		var count int64
		if err := rows.Scan(&ts, &category, &count); err != nil {
			return nil, err
		}
		cells = append(cells, domain.MatrixCell{
			Period:   domain.PeriodOf(ts.UTC()),
			Category: category,
			Count:    count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cells, nil
}
