package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"paper-trends-service/internal/trends/adapters/csvfile"
	trendsPg "paper-trends-service/internal/trends/adapters/postgres"
	"paper-trends-service/internal/trends/core/domain"
	"paper-trends-service/internal/trends/core/ports"
	"paper-trends-service/internal/trends/core/report"
	"paper-trends-service/internal/trends/core/usecase"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var reportFlags struct {
	in        string
	dsn       string
	out       string
	prefix    string
	since     string
	window    int
	w1        int
	w2        int
	slopeWin  int
	years     int
	topN      int
	minVolume int64
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Derive trend statistics from an aggregated matrix",
	Long: `report loads the flat count matrix (from the CSV written by aggregate, or
from the monthly_counts table) and writes the summary JSON: totals, rolling
averages, growth and volatility rankings, year-over-year change, compound
growth and seasonal peaks.`,
	RunE: runReport,
}

func init() {
	defaults := usecase.DefaultAnalyzeConfig()

	f := reportCmd.Flags()
	f.StringVar(&reportFlags.in, "in", "", "CSV matrix produced by aggregate")
	f.StringVar(&reportFlags.dsn, "dsn", "", "Postgres DSN for the monthly_counts table (default: $POSTGRES_DSN)")
	f.StringVar(&reportFlags.out, "out", "data/summary.json", "where to write the summary JSON")
	f.StringVar(&reportFlags.prefix, "prefix", "", "keep only categories with this prefix")
	f.StringVar(&reportFlags.since, "since", "", "keep only periods from this month onwards, YYYY-MM")
	f.IntVar(&reportFlags.window, "window", defaults.RecentWindow, "recent window in periods")
	f.IntVar(&reportFlags.w1, "w1", defaults.RollingW1, "first rolling-mean window")
	f.IntVar(&reportFlags.w2, "w2", defaults.RollingW2, "second rolling-mean window")
	f.IntVar(&reportFlags.slopeWin, "slope-window", defaults.SlopeWindow, "trend slope window in periods")
	f.IntVar(&reportFlags.years, "years", defaults.CAGRYears, "compound growth span in years")
	f.IntVar(&reportFlags.topN, "top-n", defaults.TopN, "length of each ranked list")
	f.Int64Var(&reportFlags.minVolume, "min-volume", 0, "minimum recent+prior volume per category")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	reader, cleanup, err := buildReader()
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := usecase.AnalyzeConfig{
		RecentWindow: reportFlags.window,
		RollingW1:    reportFlags.w1,
		RollingW2:    reportFlags.w2,
		SlopeWindow:  reportFlags.slopeWin,
		CAGRYears:    reportFlags.years,
		TopN:         reportFlags.topN,
		MinVolume:    reportFlags.minVolume,
		Filter:       ports.MatrixFilter{CategoryPrefix: reportFlags.prefix},
	}
	if reportFlags.since != "" {
		period, err := domain.ParsePeriod(reportFlags.since)
		if err != nil {
			return err
		}
		cfg.Filter.Since = &period
	}

	uc := usecase.NewAnalyzeTrendsUseCase(reader)
	result, err := uc.Execute(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	summary := report.Assemble(result)
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(reportFlags.out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(reportFlags.out, payload, 0o644); err != nil {
		return err
	}

	log.Printf("summary for %s written to %s (%d categories)",
		summary.LatestPeriod, reportFlags.out, len(result.Categories))
	return nil
}

func buildReader() (ports.MatrixReaderPort, func(), error) {
	cleanup := func() {}

	if reportFlags.in != "" {
		return csvfile.NewReader(reportFlags.in), cleanup, nil
	}

	dsn := reportFlags.dsn
	if dsn == "" {
		dsn = os.Getenv("POSTGRES_DSN")
	}
	if dsn == "" {
		return nil, cleanup, errors.New("no source: pass --in or --dsn (or set POSTGRES_DSN)")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, cleanup, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, cleanup, fmt.Errorf("failed to ping postgres: %w", err)
	}
	cleanup = func() { db.Close() }
	return trendsPg.NewMatrixRepository(trendsPg.NewSQLDB(db)), cleanup, nil
}
