package report_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"paper-trends-service/internal/trends/core/domain"
	"paper-trends-service/internal/trends/core/report"
)

func assemble(t *testing.T, r *domain.TrendReport) map[string]json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(report.Assemble(r))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return payload
}

func TestAssemble_NotAvailableIsNull(t *testing.T) {
	r := &domain.TrendReport{
		Summary: domain.SummaryMetrics{
			LatestPeriod:  domain.Period{Year: 2020, Month: time.June},
			TrailingTotal: 42,
			RollingAvgW1:  domain.SomeMetric(7),
			// Everything else undefined.
		},
	}

	payload := assemble(t, r)

	for _, field := range []string{
		"yoy_change_abs", "yoy_change_pct", "rolling_avg_w2",
		"trend_slope_abs", "trend_slope_pct", "cagr", "season_strength_pct",
	} {
		if string(payload[field]) != "null" {
			t.Fatalf("expected %s to be null, got %s", field, payload[field])
		}
	}
	if string(payload["rolling_avg_w1"]) != "7" {
		t.Fatalf("unexpected rolling_avg_w1: %s", payload["rolling_avg_w1"])
	}
	if string(payload["latest_period"]) != `"2020-06"` {
		t.Fatalf("unexpected latest_period: %s", payload["latest_period"])
	}
	if string(payload["trailing_total"]) != "42" {
		t.Fatalf("unexpected trailing_total: %s", payload["trailing_total"])
	}
}

func TestAssemble_ZeroIsNotNull(t *testing.T) {
	// A defined metric of exactly zero must survive as 0, not null.
	r := &domain.TrendReport{
		Summary: domain.SummaryMetrics{
			YoYChangeAbs:  domain.SomeMetric(0),
			TrendSlopeAbs: domain.SomeMetric(0),
		},
	}

	payload := assemble(t, r)
	if string(payload["yoy_change_abs"]) != "0" {
		t.Fatalf("expected 0, got %s", payload["yoy_change_abs"])
	}
	if string(payload["trend_slope_abs"]) != "0" {
		t.Fatalf("expected 0, got %s", payload["trend_slope_abs"])
	}
}

func TestAssemble_Rounding(t *testing.T) {
	r := &domain.TrendReport{
		Summary: domain.SummaryMetrics{
			YoYChangePct: domain.SomeMetric(86.66666),
			CAGR:         domain.SomeMetric(0.148698),
		},
	}

	payload := assemble(t, r)
	if string(payload["yoy_change_pct"]) != "86.67" {
		t.Fatalf("expected 86.67, got %s", payload["yoy_change_pct"])
	}
	// Ratios keep four decimals.
	if string(payload["cagr"]) != "0.1487" {
		t.Fatalf("expected 0.1487, got %s", payload["cagr"])
	}
}

func TestCategories_GrowthStates(t *testing.T) {
	entries := report.Categories([]domain.CategoryStats{
		{
			Category: "cs.AI",
			Growth:   domain.Growth{State: domain.GrowthKnown, PctChange: 100, AbsChange: 120},
		},
		{
			Category: "stat.ML",
			Growth:   domain.Growth{State: domain.GrowthNew, AbsChange: 36},
		},
		{
			Category: "q-bio.NC",
			Growth:   domain.Growth{State: domain.GrowthInsufficient, AbsChange: 4},
		},
	})

	known, fresh := entries[0], entries[1]
	if known.GrowthState != "known" || known.GrowthPct == nil || *known.GrowthPct != 100 {
		t.Fatalf("unexpected known entry: %+v", known)
	}
	if fresh.GrowthState != "new" {
		t.Fatalf("unexpected growth state: %s", fresh.GrowthState)
	}
	// New categories have no growth rate, only the absolute change.
	if fresh.GrowthPct != nil {
		t.Fatalf("new category must not carry a growth rate")
	}
	if fresh.ChangeAbs != 36 {
		t.Fatalf("unexpected change_abs: %d", fresh.ChangeAbs)
	}

	short := entries[2]
	if short.GrowthState != "insufficient_history" || short.GrowthPct != nil {
		t.Fatalf("unexpected short-history entry: %+v", short)
	}

	raw, err := json.Marshal(entries[1])
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(raw), `"growth_pct":null`) {
		t.Fatalf("expected null growth_pct in %s", raw)
	}
}

func TestAssemble_SeasonMonths(t *testing.T) {
	r := &domain.TrendReport{
		Summary: domain.SummaryMetrics{
			Season: domain.Seasonality{
				PeakMonth:   time.October,
				TroughMonth: time.February,
				StrengthPct: domain.SomeMetric(12.5),
			},
		},
	}

	payload := assemble(t, r)
	if string(payload["season_peak_month"]) != "10" {
		t.Fatalf("unexpected peak month: %s", payload["season_peak_month"])
	}
	if string(payload["season_trough_month"]) != "2" {
		t.Fatalf("unexpected trough month: %s", payload["season_trough_month"])
	}
	if string(payload["season_strength_pct"]) != "12.5" {
		t.Fatalf("unexpected strength: %s", payload["season_strength_pct"])
	}
}
