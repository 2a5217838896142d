package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"paper-trends-service/internal/trends/core/domain"
	"paper-trends-service/internal/trends/core/ports"
)

// Reader loads the flat matrix CSV (time_bucket,category,count) produced by
// the aggregate command.
type Reader struct {
	path string
}

func NewReader(path string) *Reader {
	return &Reader{path: path}
}

var _ ports.MatrixReaderPort = (*Reader)(nil)

func (r *Reader) LoadCells(ctx context.Context, f ports.MatrixFilter) ([]domain.MatrixCell, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cr := csv.NewReader(file)
	cr.FieldsPerRecord = 3

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	prefix := strings.ToLower(f.CategoryPrefix)

	var cells []domain.MatrixCell
	for i, rec := range records {
		if i == 0 && rec[0] == "time_bucket" {
			continue
		}

		period, err := domain.ParsePeriod(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		count, err := strconv.ParseInt(rec[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid count %q", i+1, rec[2])
		}

		if f.Since != nil && period.Before(*f.Since) {
			continue
		}
		if prefix != "" && !strings.HasPrefix(strings.ToLower(rec[1]), prefix) {
			continue
		}

		cells = append(cells, domain.MatrixCell{Period: period, Category: rec[1], Count: count})
	}
	return cells, nil
}
