package ports

import (
	"context"

	"paper-trends-service/internal/ingest/core/domain"
)

// MatrixStorePort persists the flat form of a count matrix. Stores must add
// incoming counts into existing cells rather than overwrite them, so that
// repeated or sharded runs merge cell-wise.
type MatrixStorePort interface {
	StoreRows(ctx context.Context, rows []domain.MatrixRow) error
}
