// Package features generates training examples for the separation model:
// random mixtures of source WAVs, their log mel or STFT features, and batches
// of those features.
//
// Everything here is single-consumer. Iterators are infinite unless their
// source runs dry, and exhaustion is reported as io.EOF.
package features
