package csvfile

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"paper-trends-service/internal/ingest/core/domain"
	"paper-trends-service/internal/ingest/core/ports"
)

// Writer stores the matrix as a flat CSV: time_bucket,category,count.
// This is the hand-off format for external presentation collaborators.
type Writer struct {
	path string
}

func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

var _ ports.MatrixStorePort = (*Writer)(nil)

func (w *Writer) StoreRows(ctx context.Context, rows []domain.MatrixRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(w.path)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	write := func() error {
		if err := cw.Write([]string{"time_bucket", "category", "count"}); err != nil {
			return err
		}
		for _, row := range rows {
			record := []string{row.Bucket.String(), row.Category, strconv.FormatInt(row.Count, 10)}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}

	if err := write(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
