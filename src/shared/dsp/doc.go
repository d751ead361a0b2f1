// Package dsp holds the numeric transforms shared by the separation server and
// the training-data tooling: windows, pre-emphasis, STFT and its inverse,
// python_speech_features compatible log mel filterbanks and time differences.
//
// Spectrograms produced here are indexed [frequency-bin][time-frame]; feature
// matrices are indexed [time-frame][feature-bin].
package dsp
