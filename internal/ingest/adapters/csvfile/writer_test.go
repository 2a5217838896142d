package csvfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"paper-trends-service/internal/ingest/adapters/csvfile"
	"paper-trends-service/internal/ingest/core/domain"
)

func TestWriter_FlatFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "monthly.csv")
	w := csvfile.NewWriter(path)

	rows := []domain.MatrixRow{
		{Bucket: domain.TimeBucket{Year: 2020, Month: time.January}, Category: "cs.AI", Count: 4},
		{Bucket: domain.TimeBucket{Year: 2020, Month: time.February}, Category: "math.NT", Count: 2},
	}
	if err := w.StoreRows(context.Background(), rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "time_bucket,category,count\n2020-01,cs.AI,4\n2020-02,math.NT,2\n"
	if string(got) != want {
		t.Fatalf("unexpected CSV:\n%s", got)
	}
}

func TestWriter_CancelledContext(t *testing.T) {
	w := csvfile.NewWriter(filepath.Join(t.TempDir(), "monthly.csv"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.StoreRows(ctx, nil); err == nil {
		t.Fatalf("expected context error")
	}
}
