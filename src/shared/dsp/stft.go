package dsp

import (
	"math"
	"math/cmplx"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrogram is a one-sided complex STFT indexed [frequency-bin][time-frame].
type Spectrogram [][]complex128

func NewSpectrogram(bins int, frames int) Spectrogram {
	s := make(Spectrogram, bins)
	for f := range s {
		s[f] = make([]complex128, frames)
	}
	return s
}

func (s Spectrogram) Bins() int {
	return len(s)
}

func (s Spectrogram) Frames() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Magnitude returns |s| transposed to [time-frame][frequency-bin], the layout
// the separation model consumes.
func (s Spectrogram) Magnitude() [][]float64 {
	out := make([][]float64, s.Frames())
	for t := range out {
		out[t] = make([]float64, s.Bins())
		for f := range s {
			out[t][f] = cmplx.Abs(s[f][t])
		}
	}
	return out
}

// STFTConfig describes framing in samples.
type STFTConfig struct {
	FrameLength int
	HopSize     int
	Window      []float64
}

func (c STFTConfig) validate() error {
	if c.FrameLength <= 0 || c.HopSize <= 0 {
		return errors.Wrapf(ErrBadParameter, "frame length %d and hop %d must be positive", c.FrameLength, c.HopSize)
	}

	if len(c.Window) != c.FrameLength {
		return errors.Wrapf(ErrShapeMismatch, "window has %d taps, frame length is %d", len(c.Window), c.FrameLength)
	}

	return nil
}

// NumFrames is the number of frames needed to cover n samples, the last frame zero padded.
func (c STFTConfig) NumFrames(n int) int {
	if n <= c.FrameLength {
		return 1
	}
	return 1 + int(math.Ceil(float64(n-c.FrameLength)/float64(c.HopSize)))
}

// STFT frames x at 0, hop, 2*hop, ... and returns FrameLength/2+1 bins per frame.
func STFT(x []float64, cfg STFTConfig) (Spectrogram, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	numFrames := cfg.NumFrames(len(x))
	bins := cfg.FrameLength/2 + 1
	spec := NewSpectrogram(bins, numFrames)

	fft := fourier.NewFFT(cfg.FrameLength)
	frame := make([]float64, cfg.FrameLength)
	coeffs := make([]complex128, bins)

	for t := 0; t < numFrames; t++ {
		start := t * cfg.HopSize
		for i := range frame {
			frame[i] = 0
			if start+i < len(x) {
				frame[i] = x[start+i] * cfg.Window[i]
			}
		}

		coeffs = fft.Coefficients(coeffs, frame)
		for f := 0; f < bins; f++ {
			spec[f][t] = coeffs[f]
		}
	}

	return spec, nil
}

// ISTFT inverts STFT by weighted overlap-add and returns exactly length samples.
func ISTFT(spec Spectrogram, cfg STFTConfig, length int) ([]float64, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	bins := cfg.FrameLength/2 + 1
	if spec.Bins() != bins {
		return nil, errors.Wrapf(ErrShapeMismatch, "spectrogram has %d bins, frame length %d needs %d", spec.Bins(), cfg.FrameLength, bins)
	}

	numFrames := spec.Frames()
	total := (numFrames-1)*cfg.HopSize + cfg.FrameLength
	if numFrames == 0 {
		total = 0
	}

	out := make([]float64, total)
	norm := make([]float64, total)

	fft := fourier.NewFFT(cfg.FrameLength)
	coeffs := make([]complex128, bins)
	frame := make([]float64, cfg.FrameLength)
	scale := 1 / float64(cfg.FrameLength)

	for t := 0; t < numFrames; t++ {
		for f := 0; f < bins; f++ {
			coeffs[f] = spec[f][t]
		}

		frame = fft.Sequence(frame, coeffs)
		start := t * cfg.HopSize
		for i, v := range frame {
			w := cfg.Window[i]
			out[start+i] += v * scale * w
			norm[start+i] += w * w
		}
	}

	for i := range out {
		if norm[i] > 1e-10 {
			out[i] /= norm[i]
		}
	}

	return FitLength(out, length), nil
}

// MagnitudeFrames is the classic "hann, step through, fft" spectrogram used for
// training features: frames start at 0, hop, ... while start < len(x)-frameLen,
// returning |X| as [time-frame][frequency-bin].
func MagnitudeFrames(x []float64, frameLen int, hop int) ([][]float64, error) {
	if frameLen <= 0 || hop <= 0 {
		return nil, errors.Wrapf(ErrBadParameter, "frame length %d and hop %d must be positive", frameLen, hop)
	}

	window := HannSymmetric(frameLen)
	fft := fourier.NewFFT(frameLen)
	frame := make([]float64, frameLen)
	coeffs := make([]complex128, frameLen/2+1)

	out := [][]float64{}
	for start := 0; start < len(x)-frameLen; start += hop {
		for i := range frame {
			frame[i] = x[start+i] * window[i]
		}

		coeffs = fft.Coefficients(coeffs, frame)
		mags := make([]float64, len(coeffs))
		for f, c := range coeffs {
			mags[f] = cmplx.Abs(c)
		}
		out = append(out, mags)
	}

	return out, nil
}
