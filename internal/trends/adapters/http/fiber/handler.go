package fiber

import (
	"context"
	"errors"
	"net/http"

	"paper-trends-service/internal/trends/core/domain"
	"paper-trends-service/internal/trends/core/ports"
	"paper-trends-service/internal/trends/core/report"
	"paper-trends-service/internal/trends/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type AnalyzeTrendsUseCase interface {
	Execute(ctx context.Context, cfg usecase.AnalyzeConfig) (*domain.TrendReport, error)
}

type TrendsHandler struct {
	analyzeUC AnalyzeTrendsUseCase
	reader    ports.MatrixReaderPort
}

func NewTrendsHandler(analyzeUC AnalyzeTrendsUseCase, reader ports.MatrixReaderPort) *TrendsHandler {
	return &TrendsHandler{analyzeUC: analyzeUC, reader: reader}
}

// GetSummary godoc
// @Summary Trend summary over the stored count matrix
// @Description Derives totals, rolling averages, growth, volatility, YoY, CAGR and seasonality from the persisted matrix
// @Tags Trends
// @Accept json
// @Produce json
// @Param window query int false "Recent window in periods (default 12)"
// @Param w1 query int false "First rolling-mean window (default 6)"
// @Param w2 query int false "Second rolling-mean window (default 12)"
// @Param slope_window query int false "Trend slope window (default 36)"
// @Param years query int false "Compound growth span in years (default 5)"
// @Param top_n query int false "Ranked list length (default 5)"
// @Param min_volume query int false "Minimum recent+prior volume per category"
// @Param prefix query string false "Category prefix filter"
// @Param since query string false "Earliest period, YYYY-MM"
// @Success 200 {object} report.Summary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No aggregated data"
// @Failure 500 {object} ErrorResponse
// @Router /summary [get]
func (h *TrendsHandler) GetSummary(c *fiber.Ctx) error {
	cfg := usecase.DefaultAnalyzeConfig()
	cfg.RecentWindow = c.QueryInt("window", cfg.RecentWindow)
	cfg.RollingW1 = c.QueryInt("w1", cfg.RollingW1)
	cfg.RollingW2 = c.QueryInt("w2", cfg.RollingW2)
	cfg.SlopeWindow = c.QueryInt("slope_window", cfg.SlopeWindow)
	cfg.CAGRYears = c.QueryInt("years", cfg.CAGRYears)
	cfg.TopN = c.QueryInt("top_n", cfg.TopN)
	cfg.MinVolume = int64(c.QueryInt("min_volume", 0))

	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_filter",
			Message: err.Error(),
		})
	}
	cfg.Filter = filter

	result, err := h.analyzeUC.Execute(c.UserContext(), cfg)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidWindow),
			errors.Is(err, usecase.ErrInvalidTopN),
			errors.Is(err, usecase.ErrInvalidYears),
			errors.Is(err, usecase.ErrInvalidMinVolume):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_config",
				Message: err.Error(),
			})
		case errors.Is(err, domain.ErrEmptyMatrix):
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Error:   "no_data",
				Message: "no aggregated cells match the filter",
			})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	return c.Status(http.StatusOK).JSON(report.Assemble(result))
}

// GetMatrix godoc
// @Summary Flat count matrix
// @Description Returns the persisted (time_bucket, category, count) rows
// @Tags Trends
// @Accept json
// @Produce json
// @Param prefix query string false "Category prefix filter"
// @Param since query string false "Earliest period, YYYY-MM"
// @Success 200 {array} MatrixRowResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matrix [get]
func (h *TrendsHandler) GetMatrix(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_filter",
			Message: err.Error(),
		})
	}

	cells, err := h.reader.LoadCells(c.UserContext(), filter)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	rows := make([]MatrixRowResponse, 0, len(cells))
	for _, cell := range cells {
		rows = append(rows, MatrixRowResponse{
			TimeBucket: cell.Period.String(),
			Category:   cell.Category,
			Count:      cell.Count,
		})
	}
	return c.Status(http.StatusOK).JSON(rows)
}

func parseFilter(c *fiber.Ctx) (ports.MatrixFilter, error) {
	filter := ports.MatrixFilter{
		CategoryPrefix: c.Query("prefix", ""),
	}
	if since := c.Query("since", ""); since != "" {
		period, err := domain.ParsePeriod(since)
		if err != nil {
			return ports.MatrixFilter{}, err
		}
		filter.Since = &period
	}
	return filter, nil
}
