package dsp

// TimeDiff returns x[t+1] - x[t] for a [time][feature] matrix.
func TimeDiff(x [][]float64) [][]float64 {
	if len(x) < 2 {
		return [][]float64{}
	}

	out := make([][]float64, len(x)-1)
	for t := range out {
		row := make([]float64, len(x[t]))
		for f := range row {
			row[f] = x[t+1][f] - x[t][f]
		}
		out[t] = row
	}
	return out
}

// WithDeltas concatenates x[:-2], diff1[:-1] and diff2 along the feature axis,
// leaving len(x)-2 frames of 3x the features.
func WithDeltas(x [][]float64) [][]float64 {
	diff1 := TimeDiff(x)
	diff2 := TimeDiff(diff1)

	out := make([][]float64, len(diff2))
	for t := range out {
		row := make([]float64, 0, 3*len(x[t]))
		row = append(row, x[t]...)
		row = append(row, diff1[t]...)
		row = append(row, diff2[t]...)
		out[t] = row
	}
	return out
}
