package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"paper-trends-service/internal/trends/core/domain"
	"paper-trends-service/internal/trends/core/ports"
)

// fakeRowScanner implements RowScanner for tests.
type fakeRowScanner struct {
	rows []fakeRow
	i    int
	err  error
}

type fakeRow struct {
	values []any
}

func (f *fakeRowScanner) Next() bool {
	return f.i < len(f.rows)
}

func (f *fakeRowScanner) Scan(dest ...any) error {
	if f.i >= len(f.rows) {
		return errors.New("no more rows")
	}
	row := f.rows[f.i]
	if len(dest) != len(row.values) {
		return errors.New("dest length mismatch")
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *int64:
			v, ok := row.values[i].(int64)
			if !ok {
				return errors.New("type assertion to int64 failed")
			}
			*d = v
		case *string:
			v, ok := row.values[i].(string)
			if !ok {
				return errors.New("type assertion to string failed")
			}
			*d = v
		case *time.Time:
			v, ok := row.values[i].(time.Time)
			if !ok {
				return errors.New("type assertion to time.Time failed")
			}
			*d = v
		default:
			return errors.New("unsupported dest type")
		}
	}
	f.i++
	return nil
}

func (f *fakeRowScanner) Err() error {
	return f.err
}

func (f *fakeRowScanner) Close() error {
	return nil
}

// fakeDB implements DB interface.
type fakeDB struct {
	QueryFn   func(ctx context.Context, query string, args ...any) (RowScanner, error)
	lastQuery string
	lastArgs  []any
	called    bool
}

func (f *fakeDB) QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error) {
	f.called = true
	f.lastQuery = query
	f.lastArgs = args
	if f.QueryFn != nil {
		return f.QueryFn(ctx, query, args...)
	}
	return nil, nil
}

// ------------------------------------------------------------
// NO FILTER
// ------------------------------------------------------------

func TestMatrixRepository_NoFilter(t *testing.T) {
	jan := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)

	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			if !strings.Contains(query, "FROM monthly_counts") {
				t.Fatalf("unexpected query: %s", query)
			}
			if strings.Contains(query, "WHERE") {
				t.Fatalf("expected no WHERE clause, got: %s", query)
			}
			return &fakeRowScanner{
				rows: []fakeRow{
					{values: []any{jan, "cs.AI", int64(4)}},
					{values: []any{feb, "math.NT", int64(2)}},
				},
			}, nil
		},
	}

	repo := NewMatrixRepository(db)

	cells, err := repo.LoadCells(context.Background(), ports.MatrixFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.called {
		t.Fatalf("expected QueryContext to be called")
	}
	if len(db.lastArgs) != 0 {
		t.Fatalf("expected no args, got %v", db.lastArgs)
	}
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}

	want := domain.MatrixCell{
		Period:   domain.Period{Year: 2020, Month: time.January},
		Category: "cs.AI",
		Count:    4,
	}
	if cells[0] != want {
		t.Fatalf("unexpected first cell: %+v", cells[0])
	}
}

// ------------------------------------------------------------
// SINCE AND PREFIX FILTERS
// ------------------------------------------------------------

func TestMatrixRepository_Filters(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			return &fakeRowScanner{}, nil
		},
	}

	repo := NewMatrixRepository(db)

	since := domain.Period{Year: 2019, Month: time.June}
	filter := ports.MatrixFilter{
		Since:          &since,
		CategoryPrefix: "CS.",
	}

	if _, err := repo.LoadCells(context.Background(), filter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(db.lastQuery, "time_bucket >= $1") {
		t.Fatalf("expected since condition, got: %s", db.lastQuery)
	}
	if !strings.Contains(db.lastQuery, "lower(category) LIKE $2") {
		t.Fatalf("expected prefix condition, got: %s", db.lastQuery)
	}
	if len(db.lastArgs) != 2 {
		t.Fatalf("expected 2 args, got %v", db.lastArgs)
	}
	if ts, ok := db.lastArgs[0].(time.Time); !ok || !ts.Equal(since.Time()) {
		t.Fatalf("unexpected since arg: %v", db.lastArgs[0])
	}
	// Prefix comparisons are case-insensitive: the pattern is lowercased.
	if db.lastArgs[1] != "cs.%" {
		t.Fatalf("unexpected prefix arg: %v", db.lastArgs[1])
	}
}

// ------------------------------------------------------------
// ERRORS
// ------------------------------------------------------------

func TestMatrixRepository_DBError(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			return nil, errors.New("db failure")
		},
	}

	repo := NewMatrixRepository(db)

	cells, err := repo.LoadCells(context.Background(), ports.MatrixFilter{})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if err.Error() != "db failure" {
		t.Fatalf("expected db failure, got %v", err)
	}
	if cells != nil {
		t.Fatalf("expected nil cells on error")
	}
}

func TestMatrixRepository_RowsErr(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			return &fakeRowScanner{err: errors.New("cursor broke")}, nil
		},
	}

	repo := NewMatrixRepository(db)

	_, err := repo.LoadCells(context.Background(), ports.MatrixFilter{})
	if err == nil || err.Error() != "cursor broke" {
		t.Fatalf("expected cursor error, got %v", err)
	}
}
