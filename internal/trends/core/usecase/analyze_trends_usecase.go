package usecase

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"paper-trends-service/internal/trends/core/domain"
	"paper-trends-service/internal/trends/core/ports"
)

var (
	ErrInvalidWindow    = errors.New("window sizes must be positive")
	ErrInvalidTopN      = errors.New("top-n limit must be positive")
	ErrInvalidYears     = errors.New("compound growth span must be positive")
	ErrInvalidMinVolume = errors.New("minimum volume must not be negative")
)

const monthsInYear = 12

// AnalyzeConfig is the full tuning surface of one analysis run. Invalid
// values are fatal before any data is read.
type AnalyzeConfig struct {
	RecentWindow int   // periods compared for growth/share, default 12
	RollingW1    int   // first rolling-mean window, default 6
	RollingW2    int   // second rolling-mean window, default 12
	SlopeWindow  int   // trailing periods for the trend slope, default 36
	CAGRYears    int   // compound growth span in years, default 5
	TopN         int   // length of each ranked list, default 5
	MinVolume    int64 // categories below this recent+prior volume are dropped

	Filter ports.MatrixFilter
}

func DefaultAnalyzeConfig() AnalyzeConfig {
	return AnalyzeConfig{
		RecentWindow: 12,
		RollingW1:    6,
		RollingW2:    12,
		SlopeWindow:  36,
		CAGRYears:    5,
		TopN:         5,
	}
}

func (c AnalyzeConfig) validate() error {
	if c.RecentWindow < 1 || c.RollingW1 < 1 || c.RollingW2 < 1 || c.SlopeWindow < 1 {
		return ErrInvalidWindow
	}
	if c.TopN < 1 {
		return ErrInvalidTopN
	}
	if c.CAGRYears < 1 {
		return ErrInvalidYears
	}
	if c.MinVolume < 0 {
		return ErrInvalidMinVolume
	}
	return nil
}

// AnalyzeTrendsUseCase derives the trend report from one matrix snapshot.
type AnalyzeTrendsUseCase struct {
	reader ports.MatrixReaderPort
}

func NewAnalyzeTrendsUseCase(reader ports.MatrixReaderPort) *AnalyzeTrendsUseCase {
	return &AnalyzeTrendsUseCase{reader: reader}
}

func (uc *AnalyzeTrendsUseCase) Execute(ctx context.Context, cfg AnalyzeConfig) (*domain.TrendReport, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cells, err := uc.reader.LoadCells(ctx, cfg.Filter)
	if err != nil {
		return nil, err
	}
	matrix, err := domain.NewCountMatrix(cells)
	if err != nil {
		return nil, err
	}
	return Analyze(matrix, cfg), nil
}

// Analyze computes the full report from an already-built matrix. Pure: the
// matrix is read-only and two calls over the same snapshot agree.
func Analyze(m *domain.CountMatrix, cfg AnalyzeConfig) *domain.TrendReport {
	stats := categoryStatistics(m, cfg)
	report := &domain.TrendReport{
		Summary:    summarize(m, cfg),
		Categories: stats,
	}

	growthKey := func(cs domain.CategoryStats) (float64, bool) {
		return cs.Growth.PctChange, cs.Growth.State == domain.GrowthKnown
	}
	report.TopGrowth = rankTop(stats, cfg.TopN, false, growthKey)
	report.TopDecline = rankTop(stats, cfg.TopN, true, growthKey)
	report.TopVolume = rankTop(stats, cfg.TopN, false, func(cs domain.CategoryStats) (float64, bool) {
		return float64(cs.RecentTotal), true
	})
	report.TopVolatility = rankTop(stats, cfg.TopN, false, func(cs domain.CategoryStats) (float64, bool) {
		return cs.Volatility.Value, cs.Volatility.Valid
	})
	report.TopMomentum = rankTop(stats, cfg.TopN, false, func(cs domain.CategoryStats) (float64, bool) {
		return cs.Momentum.Value, cs.Momentum.Valid
	})
	return report
}

func categoryStatistics(m *domain.CountMatrix, cfg AnalyzeConfig) []domain.CategoryStats {
	recentTotalAll, _ := domain.WindowSums(m.Totals(), cfg.RecentWindow)

	var stats []domain.CategoryStats
	for _, cat := range m.Categories() {
		series := m.Series(cat)
		recent, prior := domain.WindowSums(series, cfg.RecentWindow)
		if recent+prior < cfg.MinVolume {
			continue
		}

		cs := domain.CategoryStats{
			Category:    cat,
			Total:       domain.Sum(series),
			RecentTotal: recent,
			PriorTotal:  prior,
			Growth:      domain.GrowthOver(series, cfg.RecentWindow),
			RecentAvg:   domain.Mean(tail(series, cfg.RecentWindow)),
			Volatility:  domain.CoefficientOfVariation(series),
			Momentum:    domain.OLSSlope(tail(series, cfg.SlopeWindow)),
		}
		if recentTotalAll > 0 {
			cs.SharePct = domain.SomeMetric(float64(recent) / float64(recentTotalAll) * 100)
		}
		stats = append(stats, cs)
	}
	return stats
}

func summarize(m *domain.CountMatrix, cfg AnalyzeConfig) domain.SummaryMetrics {
	totals := m.Totals()

	s := domain.SummaryMetrics{
		LatestPeriod: m.LatestPeriod(),
		Season:       seasonality(m),
	}

	trailing, _ := domain.WindowSums(totals, cfg.RecentWindow)
	s.TrailingTotal = trailing

	// Year over year needs two full 12-period windows.
	if len(totals) >= 2*monthsInYear {
		recent, prior := domain.WindowSums(totals, monthsInYear)
		s.YoYChangeAbs = domain.SomeMetric(float64(recent - prior))
		if prior > 0 {
			s.YoYChangePct = domain.SomeMetric(float64(recent-prior) / float64(prior) * 100)
		}
	}

	s.RollingAvgW1 = lastMetric(domain.RollingMean(totals, cfg.RollingW1))
	s.RollingAvgW2 = lastMetric(domain.RollingMean(totals, cfg.RollingW2))

	window := tail(totals, cfg.SlopeWindow)
	s.TrendSlopeAbs = domain.OLSSlope(window)
	if s.TrendSlopeAbs.Valid {
		if mean := domain.Mean(window); mean != 0 {
			s.TrendSlopePct = domain.SomeMetric(s.TrendSlopeAbs.Value / mean * 100)
		}
	}

	s.CAGR = compoundGrowth(totals, cfg.CAGRYears)
	return s
}

// compoundGrowth compares the latest 12-period total against the 12-period
// total ending years*12 periods earlier. It needs years+1 full years of
// history; anything shorter is not available.
func compoundGrowth(totals []int64, years int) domain.Metric {
	span := (years + 1) * monthsInYear
	if len(totals) < span {
		return domain.NoMetric()
	}
	n := len(totals)
	end := domain.Sum(totals[n-monthsInYear:])
	start := domain.Sum(totals[n-span : n-span+monthsInYear])
	return domain.CompoundGrowthRate(float64(start), float64(end), years)
}

// seasonality averages the totals of all observed periods sharing a calendar
// month and picks the strongest and weakest month.
func seasonality(m *domain.CountMatrix) domain.Seasonality {
	var sums [13]int64
	var counts [13]int64
	totals := m.Totals()
	for i, p := range m.Periods() {
		sums[p.Month] += totals[i]
		counts[p.Month]++
	}

	var means []float64
	peak, trough := 0, 0
	peakMean, troughMean := math.Inf(-1), math.Inf(1)
	for month := 1; month <= 12; month++ {
		if counts[month] == 0 {
			continue
		}
		mean := float64(sums[month]) / float64(counts[month])
		means = append(means, mean)
		if mean > peakMean {
			peak, peakMean = month, mean
		}
		if mean < troughMean {
			trough, troughMean = month, mean
		}
	}

	season := domain.Seasonality{
		PeakMonth:   time.Month(peak),
		TroughMonth: time.Month(trough),
	}
	if cv := floatCV(means); cv.Valid {
		season.StrengthPct = domain.SomeMetric(cv.Value * 100)
	}
	return season
}

// floatCV is the population coefficient of variation of float samples.
func floatCV(values []float64) domain.Metric {
	if len(values) == 0 {
		return domain.NoMetric()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return domain.NoMetric()
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return domain.SomeMetric(math.Sqrt(ss/float64(len(values))) / mean)
}

func tail(values []int64, n int) []int64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func lastMetric(series []domain.Metric) domain.Metric {
	if len(series) == 0 {
		return domain.NoMetric()
	}
	return series[len(series)-1]
}

// rankKey extracts the ranking value for one category; ok=false excludes the
// category from that ranking (undefined metrics never rank).
type rankKey func(cs domain.CategoryStats) (value float64, ok bool)

// rankTop orders eligible categories by key (descending unless asc), breaks
// ties on the category key for determinism, and truncates to n.
func rankTop(stats []domain.CategoryStats, n int, asc bool, key rankKey) []domain.CategoryStats {
	type ranked struct {
		cs    domain.CategoryStats
		value float64
	}
	eligible := make([]ranked, 0, len(stats))
	for _, cs := range stats {
		if v, ok := key(cs); ok {
			eligible = append(eligible, ranked{cs: cs, value: v})
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.value != b.value {
			if asc {
				return a.value < b.value
			}
			return a.value > b.value
		}
		return a.cs.Category < b.cs.Category
	})

	if len(eligible) > n {
		eligible = eligible[:n]
	}
	out := make([]domain.CategoryStats, len(eligible))
	for i, r := range eligible {
		out[i] = r.cs
	}
	return out
}
