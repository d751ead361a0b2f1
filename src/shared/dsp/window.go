package dsp

import "math"

// HannSymmetric matches numpy.hanning: zero at both ends.
func HannSymmetric(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}

	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// HannPeriodic is the DFT-even Hann window. Squared copies at half overlap sum to one.
func HannPeriodic(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

func SqrtHann(n int) []float64 {
	w := HannPeriodic(n)
	for i := range w {
		w[i] = math.Sqrt(w[i])
	}
	return w
}

func Rectangular(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}
