package domain

import "time"

// Metric is a statistic that may be mathematically undefined for the data at
// hand (division by zero, not enough history). An invalid Metric is "not
// available", never a stand-in number.
type Metric struct {
	Value float64
	Valid bool
}

func SomeMetric(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

func NoMetric() Metric {
	return Metric{}
}

// GrowthState tags a recent-vs-prior comparison.
type GrowthState int

const (
	// GrowthKnown: PctChange holds the relative change of the recent window
	// against the fully observed prior one.
	GrowthKnown GrowthState = iota
	// GrowthNew: the category had no prior-window volume; there is no base to
	// grow from, so no rate exists.
	GrowthNew
	// GrowthInsufficient: the observed range is shorter than two full
	// windows, so the prior sum is clipped and a rate against it would
	// overstate growth.
	GrowthInsufficient
)

// Growth is the recent-window change of one series.
type Growth struct {
	State     GrowthState
	PctChange float64 // valid only for GrowthKnown
	AbsChange int64
}

// CategoryStats are the per-category trend figures for one analysis run.
type CategoryStats struct {
	Category    string
	Total       int64 // full observed range
	RecentTotal int64 // most recent window
	PriorTotal  int64 // window preceding the recent one
	Growth      Growth
	SharePct    Metric // of recent-window volume across all categories
	RecentAvg   float64
	Volatility  Metric // coefficient of variation over the full range
	Momentum    Metric // least-squares slope over the trailing slope window
}

// Seasonality locates the calendar months with the historically highest and
// lowest average totals.
type Seasonality struct {
	PeakMonth   time.Month
	TroughMonth time.Month
	StrengthPct Metric // coefficient of variation of the month averages
}

// SummaryMetrics is the global snapshot of one analysis run.
type SummaryMetrics struct {
	LatestPeriod  Period
	TrailingTotal int64
	YoYChangeAbs  Metric
	YoYChangePct  Metric
	RollingAvgW1  Metric
	RollingAvgW2  Metric
	TrendSlopeAbs Metric
	TrendSlopePct Metric
	CAGR          Metric
	Season        Seasonality
}

// TrendReport packages one run's summary with the ranked category lists, in
// the shape the presentation collaborators consume.
type TrendReport struct {
	Summary    SummaryMetrics
	Categories []CategoryStats // lexical by category key

	TopGrowth     []CategoryStats
	TopDecline    []CategoryStats
	TopVolume     []CategoryStats
	TopVolatility []CategoryStats
	TopMomentum   []CategoryStats
}
