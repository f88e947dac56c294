// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package analysis derives the metrics that the charts show: speedup,
// parallel efficiency, LLC miss rate, communication volume ratios and memory
// footprint.
package analysis

import "math"

// Speedup returns t1/tp, or NaN when either time is not positive.
func Speedup(t1, tp float64) float64 {
	if !(t1 > 0) || !(tp > 0) {
		return math.NaN()
	}
	return t1 / tp
}

// Efficiency returns speedup/p, or NaN when p is not positive.
func Efficiency(speedup float64, p int) float64 {
	if p <= 0 {
		return math.NaN()
	}
	return speedup / float64(p)
}

// MissRate returns misses as a percentage of loads, or 0 when there were no
// loads.
func MissRate(misses, loads float64) float64 {
	if !(loads > 0) {
		return 0
	}
	return misses / loads * 100
}

// Ratio returns num/den, or 0 when den is zero.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
