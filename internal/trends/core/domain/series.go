package domain

import "math"

// Series statistics over per-period counts. All functions treat their input
// as read-only and report undefined results as invalid Metrics.

func Sum(values []int64) int64 {
	var s int64
	for _, v := range values {
		s += v
	}
	return s
}

func Mean(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(Sum(values)) / float64(len(values))
}

// StdDev is the population standard deviation.
func StdDev(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := float64(v) - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// RollingMean is the simple moving average at window w, aligned with the
// input: the first w-1 positions are undefined, not zero.
func RollingMean(values []int64, w int) []Metric {
	out := make([]Metric, len(values))
	if w <= 0 || w > len(values) {
		return out
	}
	var window int64
	for i, v := range values {
		window += v
		if i >= w {
			window -= values[i-w]
		}
		if i >= w-1 {
			out[i] = SomeMetric(float64(window) / float64(w))
		}
	}
	return out
}

// CoefficientOfVariation is stddev/mean; undefined when the mean is zero.
func CoefficientOfVariation(values []int64) Metric {
	mean := Mean(values)
	if mean == 0 {
		return NoMetric()
	}
	return SomeMetric(StdDev(values) / mean)
}

// OLSSlope fits values against their index by ordinary least squares and
// returns the slope in units per period. Undefined for fewer than two points.
func OLSSlope(values []int64) Metric {
	n := len(values)
	if n < 2 {
		return NoMetric()
	}
	// x is 0..n-1, so the x statistics are closed-form.
	xMean := float64(n-1) / 2
	yMean := Mean(values)

	var num, den float64
	for i, v := range values {
		dx := float64(i) - xMean
		num += dx * (float64(v) - yMean)
		den += dx * dx
	}
	return SomeMetric(num / den)
}

// CompoundGrowthRate is (end/start)^(1/years) - 1; undefined when the start
// volume is zero (or negative, which a count series never is).
func CompoundGrowthRate(start, end float64, years int) Metric {
	if start <= 0 || years <= 0 {
		return NoMetric()
	}
	return SomeMetric(math.Pow(end/start, 1/float64(years)) - 1)
}

// GrowthOver compares the trailing window of the series against the window
// preceding it. A zero prior window marks the series as new; a prior window
// only partially covered by the observed range yields no rate at all, the
// same way year-over-year change demands two full years.
func GrowthOver(values []int64, window int) Growth {
	recent, prior := WindowSums(values, window)
	g := Growth{AbsChange: recent - prior}
	switch {
	case prior == 0:
		g.State = GrowthNew
	case len(values) < 2*window:
		g.State = GrowthInsufficient
	default:
		g.State = GrowthKnown
		g.PctChange = float64(recent-prior) / float64(prior) * 100
	}
	return g
}

// WindowSums returns the sums of the trailing window and of the window before
// it. Windows are clipped to the available history; a fully absent prior
// window sums to zero.
func WindowSums(values []int64, window int) (recent, prior int64) {
	n := len(values)
	lo := n - window
	if lo < 0 {
		lo = 0
	}
	recent = Sum(values[lo:n])

	plo := n - 2*window
	if plo < 0 {
		plo = 0
	}
	prior = Sum(values[plo:lo])
	return recent, prior
}
