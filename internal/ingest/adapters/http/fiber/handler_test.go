package fiber_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "paper-trends-service/internal/ingest/adapters/http/fiber"
	"paper-trends-service/internal/ingest/core/domain"
	"paper-trends-service/internal/ingest/core/ports"
	"paper-trends-service/internal/ingest/core/usecase"

	"github.com/gofiber/fiber/v2"
)

// fakeStore implements MatrixStorePort and captures the stored rows.
type fakeStore struct {
	StoreFn func(ctx context.Context, rows []domain.MatrixRow) error
	rows    []domain.MatrixRow
	called  bool
}

func (f *fakeStore) StoreRows(ctx context.Context, rows []domain.MatrixRow) error {
	f.called = true
	f.rows = rows
	if f.StoreFn != nil {
		return f.StoreFn(ctx, rows)
	}
	return nil
}

func setupApp(t *testing.T, store ports.MatrixStorePort) *fiber.App {
	t.Helper()
	uc := usecase.NewAggregateStreamUseCase(usecase.NewClassifier(usecase.Filters{}))
	app := fiber.New()
	h := httpadapter.NewRecordHandler(uc, store)
	app.Post("/records", h.IngestRecords)
	return app
}

func postRecords(t *testing.T, app *fiber.App, payload string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/records", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	return resp
}

// ------------------------------------------------------------
// SUCCESS
// ------------------------------------------------------------

func TestIngestRecords_Success(t *testing.T) {
	store := &fakeStore{}
	app := setupApp(t, store)

	payload := `{"records":[
		{"id":"1","update_date":"2020-01-05","categories":"cs.AI"},
		{"id":"2","update_date":"2020-01-09","categories":"cs.AI"},
		{"id":"3","update_date":"2020-02-01","categories":"math.NT"},
		{"id":"4","categories":"cs.AI"}
	]}`

	resp := postRecords(t, app, payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		RunID       string           `json:"run_id"`
		Accepted    int64            `json:"accepted"`
		FilteredOut int64            `json:"filtered_out"`
		Rejections  map[string]int64 `json:"rejections"`
		Cells       int              `json:"cells"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if body.Accepted != 3 {
		t.Fatalf("expected 3 accepted, got %d", body.Accepted)
	}
	if body.Rejections["missing_or_invalid_date"] != 1 {
		t.Fatalf("expected 1 date rejection, got %v", body.Rejections)
	}
	if body.Cells != 2 {
		t.Fatalf("expected 2 cells, got %d", body.Cells)
	}
	if body.RunID == "" {
		t.Fatalf("expected a run id")
	}

	if !store.called {
		t.Fatalf("expected store to be called")
	}
	if len(store.rows) != 2 {
		t.Fatalf("expected 2 stored rows, got %d", len(store.rows))
	}
}

// ------------------------------------------------------------
// BAD REQUESTS
// ------------------------------------------------------------

func TestIngestRecords_InvalidJSON(t *testing.T) {
	app := setupApp(t, &fakeStore{})

	resp := postRecords(t, app, `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestIngestRecords_EmptyList(t *testing.T) {
	store := &fakeStore{}
	app := setupApp(t, store)

	resp := postRecords(t, app, `{"records":[]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	if store.called {
		t.Fatalf("store must not be called for an empty batch")
	}
}

// ------------------------------------------------------------
// STORE FAILURE
// ------------------------------------------------------------

func TestIngestRecords_StoreError(t *testing.T) {
	store := &fakeStore{
		StoreFn: func(ctx context.Context, rows []domain.MatrixRow) error {
			return context.DeadlineExceeded
		},
	}
	app := setupApp(t, store)

	resp := postRecords(t, app, `{"records":[{"id":"1","update_date":"2020-01-05","categories":"cs.AI"}]}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}
}
