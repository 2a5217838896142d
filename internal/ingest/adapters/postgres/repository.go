package postgres

import (
	"context"

	"paper-trends-service/internal/ingest/core/domain"
	"paper-trends-service/internal/ingest/core/ports"
)

// MatrixRepository persists matrix rows into the monthly_counts table.
type MatrixRepository struct {
	db DB
}

func NewMatrixRepository(db DB) *MatrixRepository {
	return &MatrixRepository{db: db}
}

var _ ports.MatrixStorePort = (*MatrixRepository)(nil)

// Conflicting cells sum instead of overwrite, so a second run over another
// shard of the same stream merges into the stored matrix.
const upsertCellSQL = `
INSERT INTO monthly_counts (
    time_bucket,
    category,
    count
) VALUES (
    $1, $2, $3
)
ON CONFLICT (time_bucket, category)
DO UPDATE SET count = monthly_counts.count + EXCLUDED.count;
`

func (r *MatrixRepository) StoreRows(ctx context.Context, rows []domain.MatrixRow) error {
	for _, row := range rows {
		_, err := r.db.ExecContext(ctx, upsertCellSQL,
			row.Bucket.Time(),
			row.Category,
			row.Count,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
