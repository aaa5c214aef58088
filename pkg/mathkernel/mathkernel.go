// Package mathkernel holds the small set of scalar helpers the move kernel
// and zone assigner build on: the crowding-driven move-weight curve, the
// neighbor-imbalance ratio, and simple descriptive statistics over a region
// or node weight sample.
package mathkernel

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// moveWeightCoeff is the tuning constant from the original rat simulator's
// move-weight curve.
const moveWeightCoeff = 0.4

// MoveWeight scores how attractive a node is to move into given its current
// crowding val and an ideal crowding level opt. Callers always pass val >= 0;
// 1 + moveWeightCoeff*(val-opt) is assumed positive by contract and is not
// validated here.
func MoveWeight(val, opt float64) float64 {
	arg := 1.0 + moveWeightCoeff*(val-opt)
	lg := math.Log2(arg)
	return 1.0 / (1.0 + lg*lg)
}

// Imbalance measures the relative skew between a left and right neighbor
// count. It returns 0 when both are 0 (no neighbors to compare).
func Imbalance(l, r float64) float64 {
	if l == 0 && r == 0 {
		return 0
	}
	sl, sr := math.Sqrt(l), math.Sqrt(r)
	return (sr - sl) / (sr + sl)
}

// Max returns the largest value in data, or 0 for an empty slice.
// gonum's floats.Max panics on an empty input, so the empty case is guarded
// here rather than pushed onto callers.
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Max(data)
}

// Sum returns the sum of data. floats.Sum already returns 0 for an empty
// slice, matching the spec's contract without a separate guard.
func Sum(data []float64) float64 {
	return floats.Sum(data)
}

// Mean returns the arithmetic mean of data, or 0 for an empty slice.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev returns the population standard deviation of data
// (sqrt(sum((x-mean)^2)/n)), or 0 for an empty or single-element slice.
//
// gonum's stat.MeanVariance applies Bessel's correction (divides by n-1);
// the sample variance it returns is rescaled back to a population variance
// before taking the square root, since the spec calls for the biased
// (population) estimator, not the unbiased sample one.
func StdDev(data []float64) float64 {
	n := len(data)
	if n <= 1 {
		return 0
	}
	_, sampleVariance := stat.MeanVariance(data, nil)
	popVariance := sampleVariance * float64(n-1) / float64(n)
	return math.Sqrt(popVariance)
}
