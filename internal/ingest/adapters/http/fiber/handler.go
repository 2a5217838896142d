package fiber

import (
	"context"
	"io"
	"net/http"

	"paper-trends-service/internal/ingest/core/domain"
	"paper-trends-service/internal/ingest/core/ports"
	"paper-trends-service/internal/ingest/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type AggregateStreamUseCase interface {
	Execute(ctx context.Context, source ports.RecordSourcePort) (*domain.CountMatrix, usecase.Diagnostics, error)
}

type RecordHandler struct {
	aggregateUC AggregateStreamUseCase
	store       ports.MatrixStorePort
}

func NewRecordHandler(aggregateUC AggregateStreamUseCase, store ports.MatrixStorePort) *RecordHandler {
	return &RecordHandler{aggregateUC: aggregateUC, store: store}
}

// IngestRecords godoc
// @Summary Bulk ingest bibliographic records
// @Description Classifies a batch of records and folds the accepted ones into the stored count matrix
// @Tags Records
// @Accept json
// @Produce json
// @Param request body IngestRecordsRequest true "Record batch"
// @Success 200 {object} IngestRecordsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /records [post]
func (h *RecordHandler) IngestRecords(c *fiber.Ctx) error {
	var req IngestRecordsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if len(req.Records) == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "records_list_required",
		})
	}

	source := newSliceSource(req.Records)
	matrix, diag, err := h.aggregateUC.Execute(c.UserContext(), source)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	if err := h.store.StoreRows(c.UserContext(), matrix.Rows()); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	resp := IngestRecordsResponse{
		RunID:       diag.RunID,
		Accepted:    diag.Accepted,
		FilteredOut: diag.FilteredOut,
		Rejections:  make(map[string]int64, len(diag.Rejections)),
		Cells:       matrix.Cells(),
	}
	for reason, n := range diag.Rejections {
		resp.Rejections[string(reason)] = n
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// sliceSource adapts an already-decoded batch to the forward-only source port.
type sliceSource struct {
	records []domain.RawRecord
	i       int
}

func newSliceSource(items []rawRecordItem) *sliceSource {
	records := make([]domain.RawRecord, len(items))
	for i, item := range items {
		rec := domain.RawRecord{
			ID:         item.ID,
			UpdateDate: item.UpdateDate,
			Categories: item.Categories,
		}
		for _, v := range item.Versions {
			rec.Versions = append(rec.Versions, domain.Version{Version: v.Version, Created: v.Created})
		}
		records[i] = rec
	}
	return &sliceSource{records: records}
}

func (s *sliceSource) Next(ctx context.Context) (*domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.i >= len(s.records) {
		return nil, io.EOF
	}
	rec := &s.records[s.i]
	s.i++
	return rec, nil
}

func (s *sliceSource) Close() error { return nil }
