// Package report assembles one analysis run into the serializable summary
// handed to presentation collaborators. Field names are stable; values are
// rounded for display here and nowhere else.
package report

import (
	"math"

	"paper-trends-service/internal/trends/core/domain"
)

// CategoryEntry is one category's trend figures. Undefined metrics serialize
// as null, never as zero. growth_pct is null unless growth_state is "known":
// "new" has no prior-window volume to grow from, "insufficient_history" has
// only a clipped prior window.
type CategoryEntry struct {
	Category    string   `json:"category"`
	Total       int64    `json:"total"`
	RecentTotal int64    `json:"recent_total"`
	PriorTotal  int64    `json:"prior_total"`
	GrowthState string   `json:"growth_state" example:"known"`
	GrowthPct   *float64 `json:"growth_pct"`
	ChangeAbs   int64    `json:"change_abs"`
	SharePct    *float64 `json:"share_pct"`
	RecentAvg   float64  `json:"recent_avg"`
	Volatility  *float64 `json:"volatility"`
	Momentum    *float64 `json:"momentum"`
}

// Summary is the fixed-name summary record of one analysis run.
type Summary struct {
	LatestPeriod      string   `json:"latest_period" example:"2024-06"`
	TrailingTotal     int64    `json:"trailing_total"`
	YoYChangeAbs      *float64 `json:"yoy_change_abs"`
	YoYChangePct      *float64 `json:"yoy_change_pct"`
	RollingAvgW1      *float64 `json:"rolling_avg_w1"`
	RollingAvgW2      *float64 `json:"rolling_avg_w2"`
	TrendSlopeAbs     *float64 `json:"trend_slope_abs"`
	TrendSlopePct     *float64 `json:"trend_slope_pct"`
	CAGR              *float64 `json:"cagr"`
	SeasonPeakMonth   int      `json:"season_peak_month"`
	SeasonTroughMonth int      `json:"season_trough_month"`
	SeasonStrengthPct *float64 `json:"season_strength_pct"`

	TopGrowth     []CategoryEntry `json:"top_growth"`
	TopDecline    []CategoryEntry `json:"top_decline"`
	TopVolume     []CategoryEntry `json:"top_volume"`
	TopVolatility []CategoryEntry `json:"top_volatility"`
	TopMomentum   []CategoryEntry `json:"top_momentum"`
}

// Assemble shapes an already-computed report; no new statistics here.
func Assemble(r *domain.TrendReport) Summary {
	s := r.Summary
	return Summary{
		LatestPeriod:      s.LatestPeriod.String(),
		TrailingTotal:     s.TrailingTotal,
		YoYChangeAbs:      metricPtr(s.YoYChangeAbs, round2),
		YoYChangePct:      metricPtr(s.YoYChangePct, round2),
		RollingAvgW1:      metricPtr(s.RollingAvgW1, round2),
		RollingAvgW2:      metricPtr(s.RollingAvgW2, round2),
		TrendSlopeAbs:     metricPtr(s.TrendSlopeAbs, round2),
		TrendSlopePct:     metricPtr(s.TrendSlopePct, round2),
		CAGR:              metricPtr(s.CAGR, round4),
		SeasonPeakMonth:   int(s.Season.PeakMonth),
		SeasonTroughMonth: int(s.Season.TroughMonth),
		SeasonStrengthPct: metricPtr(s.Season.StrengthPct, round2),

		TopGrowth:     Categories(r.TopGrowth),
		TopDecline:    Categories(r.TopDecline),
		TopVolume:     Categories(r.TopVolume),
		TopVolatility: Categories(r.TopVolatility),
		TopMomentum:   Categories(r.TopMomentum),
	}
}

// Categories shapes a ranked (or full) category list.
func Categories(stats []domain.CategoryStats) []CategoryEntry {
	out := make([]CategoryEntry, 0, len(stats))
	for _, cs := range stats {
		out = append(out, categoryEntry(cs))
	}
	return out
}

func categoryEntry(cs domain.CategoryStats) CategoryEntry {
	entry := CategoryEntry{
		Category:    cs.Category,
		Total:       cs.Total,
		RecentTotal: cs.RecentTotal,
		PriorTotal:  cs.PriorTotal,
		ChangeAbs:   cs.Growth.AbsChange,
		SharePct:    metricPtr(cs.SharePct, round2),
		RecentAvg:   round2(cs.RecentAvg),
		Volatility:  metricPtr(cs.Volatility, round4),
		Momentum:    metricPtr(cs.Momentum, round2),
	}
	switch cs.Growth.State {
	case domain.GrowthNew:
		entry.GrowthState = "new"
	case domain.GrowthInsufficient:
		entry.GrowthState = "insufficient_history"
	default:
		entry.GrowthState = "known"
		pct := round2(cs.Growth.PctChange)
		entry.GrowthPct = &pct
	}
	return entry
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func metricPtr(m domain.Metric, round func(float64) float64) *float64 {
	if !m.Valid {
		return nil
	}
	v := round(m.Value)
	return &v
}
