// sim/metrics_utils.go
package sim

import (
	"math"
	"sort"
)

// ServiceLevelThreshold is the inspection wait (minutes) below which a
// job counts as served on time.
const ServiceLevelThreshold = 5.0

// ciZ is the two-sided 95% normal quantile.
const ciZ = 1.96

// CalculateMean returns the arithmetic mean, or 0 for an empty slice.
func CalculateMean(numbers []float64) float64 {
	if len(numbers) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, number := range numbers {
		sum += number
	}
	return sum / float64(len(numbers))
}

// NearestRankPercentile returns sorted[floor(n*p)] for p in [0,1], without
// interpolation. The index is clamped to the last element.
// Input must be sorted ascending; empty input returns 0.
func NearestRankPercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Floor(float64(n) * p))
	return sorted[min(max(idx, 0), n-1)]
}

// safeDivide returns num/den, or 0 when den is 0.
func safeDivide(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// NewWaitStats summarises a wait-time sample. The input is not modified.
// An empty sample yields all-zero stats.
func NewWaitStats(samples []float64) WaitStats {
	if len(samples) == 0 {
		return WaitStats{}
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	return WaitStats{
		Avg: CalculateMean(sorted),
		P90: NearestRankPercentile(sorted, 0.9),
		Max: sorted[len(sorted)-1],
	}
}

// NewConfidenceInterval computes a 95% normal-approximation interval for
// the mean of samples. Variance uses Bessel's correction; a single sample
// divides by 1 and so yields a zero-width interval.
func NewConfidenceInterval(samples []float64) ConfidenceInterval {
	n := len(samples)
	if n == 0 {
		return ConfidenceInterval{}
	}
	mean := CalculateMean(samples)
	sq := 0.0
	for _, v := range samples {
		sq += (v - mean) * (v - mean)
	}
	variance := sq / float64(max(n-1, 1))
	margin := ciZ * math.Sqrt(variance) / math.Sqrt(float64(n))
	return ConfidenceInterval{Mean: mean, Lower: mean - margin, Upper: mean + margin}
}

// PointEstimate returns the degenerate interval {v, v, v}.
func PointEstimate(v float64) ConfidenceInterval {
	return ConfidenceInterval{Mean: v, Lower: v, Upper: v}
}
