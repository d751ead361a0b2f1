package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Preemphasis computes y[0] = x[0], y[n] = x[n] - coeff*x[n-1].
func Preemphasis(x []float64, coeff float64) []float64 {
	y := make([]float64, len(x))
	if len(x) == 0 {
		return y
	}

	y[0] = x[0]
	for n := 1; n < len(x); n++ {
		y[n] = x[n] - coeff*x[n-1]
	}
	return y
}

// Deemphasis inverts Preemphasis.
func Deemphasis(y []float64, coeff float64) []float64 {
	x := make([]float64, len(y))
	if len(y) == 0 {
		return x
	}

	x[0] = y[0]
	for n := 1; n < len(y); n++ {
		x[n] = y[n] + coeff*x[n-1]
	}
	return x
}

// PeakNormalize scales x so that max|x| == 1. Silent input is returned as a copy.
func PeakNormalize(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)

	peak := 0.0
	for _, v := range x {
		peak = math.Max(peak, math.Abs(v))
	}

	if peak == 0 {
		return out
	}

	floats.Scale(1/peak, out)
	return out
}

// FitLength truncates or zero-pads x to n samples.
func FitLength(x []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, x)
	return out
}
