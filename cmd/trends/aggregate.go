package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"paper-trends-service/internal/ingest/adapters/csvfile"
	"paper-trends-service/internal/ingest/adapters/jsonl"
	ingestPg "paper-trends-service/internal/ingest/adapters/postgres"
	"paper-trends-service/internal/ingest/core/domain"
	"paper-trends-service/internal/ingest/core/ports"
	"paper-trends-service/internal/ingest/core/usecase"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var aggregateFlags struct {
	data     string
	out      string
	dsn      string
	prefix   string
	since    string
	progress int64
	workers  int
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Stream a metadata snapshot into the monthly/category count matrix",
	Long: `aggregate reads a JSON-lines snapshot (optionally gzipped) one record at a
time, classifies each record into a (month, category) cell and writes the
resulting matrix to a CSV file and/or a Postgres table. Memory stays
proportional to the number of distinct cells, not to the stream length.

Interrupting the run keeps the matrix aggregated so far; it is stored before
exit and remains valid.`,
	RunE: runAggregate,
}

func init() {
	f := aggregateCmd.Flags()
	f.StringVar(&aggregateFlags.data, "data", "", "path to the JSON-lines metadata snapshot (required)")
	f.StringVar(&aggregateFlags.out, "out", "", "CSV file for the flat matrix")
	f.StringVar(&aggregateFlags.dsn, "dsn", "", "Postgres DSN for the monthly_counts table (default: $POSTGRES_DSN)")
	f.StringVar(&aggregateFlags.prefix, "prefix", "", "keep only categories with this prefix (e.g. 'cs.')")
	f.StringVar(&aggregateFlags.since, "since", "", "keep only records from this month onwards, YYYY-MM")
	f.Int64Var(&aggregateFlags.progress, "progress", 200_000, "log a progress line every N records (0 disables)")
	f.IntVar(&aggregateFlags.workers, "workers", 1, "parallel aggregation workers")
	_ = aggregateCmd.MarkFlagRequired("data")

	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	stores, cleanup, err := buildStores()
	if err != nil {
		return err
	}
	defer cleanup()

	filters := usecase.Filters{CategoryPrefix: aggregateFlags.prefix}
	if aggregateFlags.since != "" {
		bucket, err := domain.ParseBucket(aggregateFlags.since)
		if err != nil {
			return err
		}
		filters.Since = &bucket
	}

	source, err := jsonl.Open(aggregateFlags.data)
	if err != nil {
		return err
	}
	defer source.Close()

	uc := usecase.NewAggregateStreamUseCase(usecase.NewClassifier(filters))
	if aggregateFlags.progress > 0 {
		uc.ProgressEvery = aggregateFlags.progress
		uc.Progress = func(seen int64) {
			log.Printf("%d records processed...", seen)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		matrix *domain.CountMatrix
		diag   usecase.Diagnostics
		runErr error
	)
	if aggregateFlags.workers > 1 {
		matrix, diag, runErr = uc.ExecuteSharded(ctx, source, aggregateFlags.workers)
	} else {
		matrix, diag, runErr = uc.Execute(ctx, source)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if runErr != nil {
		log.Printf("interrupted; storing the partial matrix (%d records in)", diag.Seen())
	}

	if matrix.Cells() == 0 {
		return errors.New("no rows were aggregated; adjust the filters and retry")
	}

	rows := matrix.Rows()
	for _, store := range stores {
		if err := store.StoreRows(context.Background(), rows); err != nil {
			return err
		}
	}

	log.Printf("run %s: accepted=%d filtered_out=%d cells=%d elapsed=%s",
		diag.RunID, diag.Accepted, diag.FilteredOut, matrix.Cells(), diag.Elapsed.Round(0))
	for reason, n := range diag.Rejections {
		log.Printf("rejected %s: %d", reason, n)
	}
	return nil
}

// buildStores resolves the matrix destinations from flags; at least one of
// --out / --dsn (or POSTGRES_DSN) must be usable.
func buildStores() ([]ports.MatrixStorePort, func(), error) {
	var stores []ports.MatrixStorePort
	cleanup := func() {}

	if aggregateFlags.out != "" {
		stores = append(stores, csvfile.NewWriter(aggregateFlags.out))
	}

	dsn := aggregateFlags.dsn
	if dsn == "" {
		dsn = os.Getenv("POSTGRES_DSN")
	}
	if dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, cleanup, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, cleanup, fmt.Errorf("failed to ping postgres: %w", err)
		}
		cleanup = func() { db.Close() }
		stores = append(stores, ingestPg.NewMatrixRepository(ingestPg.NewSQLDB(db)))
	}

	if len(stores) == 0 {
		return nil, cleanup, errors.New("no destination: pass --out and/or --dsn (or set POSTGRES_DSN)")
	}
	return stores, cleanup, nil
}
