package dsp

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// FBankConfig mirrors python_speech_features.logfbank. WinLen and WinStep are
// in seconds; with SampleRate 1 they are sample counts.
type FBankConfig struct {
	SampleRate float64
	WinLen     float64
	WinStep    float64
	NFilt      int
	NFFT       int
	LowFreq    float64
	HighFreq   float64 // 0 means SampleRate/2
	PreEmph    float64
}

func DefaultFBankConfig() FBankConfig {
	return FBankConfig{
		SampleRate: 16000,
		WinLen:     0.025,
		WinStep:    0.01,
		NFilt:      26,
		NFFT:       512,
		PreEmph:    0.97,
	}
}

// the float64 machine epsilon numpy substitutes for zero energies
const eps = 2.220446049250313e-16

func HzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func MelToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// FrameSignal splits x into frames of frameLen samples every frameStep samples,
// zero padding the tail so that every sample lands in a frame.
func FrameSignal(x []float64, frameLen int, frameStep int, window []float64) [][]float64 {
	numFrames := 1
	if len(x) > frameLen {
		numFrames = 1 + int(math.Ceil(float64(len(x)-frameLen)/float64(frameStep)))
	}

	frames := make([][]float64, numFrames)
	for t := range frames {
		frame := make([]float64, frameLen)
		start := t * frameStep
		for i := range frame {
			if start+i < len(x) {
				frame[i] = x[start+i] * window[i]
			}
		}
		frames[t] = frame
	}
	return frames
}

// PowerSpectrum computes |rfft(frame, nfft)|^2 / nfft per frame. Frames longer
// than nfft are truncated and shorter ones zero padded, as numpy does.
func PowerSpectrum(frames [][]float64, nfft int) [][]float64 {
	fft := fourier.NewFFT(nfft)
	buf := make([]float64, nfft)
	coeffs := make([]complex128, nfft/2+1)

	out := make([][]float64, len(frames))
	for t, frame := range frames {
		for i := range buf {
			buf[i] = 0
		}
		copy(buf, frame)

		coeffs = fft.Coefficients(coeffs, buf)
		pow := make([]float64, len(coeffs))
		for f, c := range coeffs {
			pow[f] = (real(c)*real(c) + imag(c)*imag(c)) / float64(nfft)
		}
		out[t] = pow
	}
	return out
}

// MelFilterBank returns nfilt triangular filters over nfft/2+1 bins.
func MelFilterBank(nfilt int, nfft int, sampleRate float64, lowFreq float64, highFreq float64) [][]float64 {
	if highFreq == 0 {
		highFreq = sampleRate / 2
	}

	melPoints := make([]float64, nfilt+2)
	floats.Span(melPoints, HzToMel(lowFreq), HzToMel(highFreq))

	bins := make([]float64, len(melPoints))
	for i, m := range melPoints {
		bins[i] = math.Floor(float64(nfft+1) * MelToHz(m) / sampleRate)
	}

	bank := make([][]float64, nfilt)
	for j := range bank {
		filter := make([]float64, nfft/2+1)
		for i := int(bins[j]); i < int(bins[j+1]); i++ {
			filter[i] = (float64(i) - bins[j]) / (bins[j+1] - bins[j])
		}
		for i := int(bins[j+1]); i < int(bins[j+2]); i++ {
			filter[i] = (bins[j+2] - float64(i)) / (bins[j+2] - bins[j+1])
		}
		bank[j] = filter
	}
	return bank
}

// LogFBank returns log mel filterbank energies as [time-frame][filter].
func LogFBank(x []float64, cfg FBankConfig) ([][]float64, error) {
	if cfg.SampleRate <= 0 || cfg.NFilt <= 0 || cfg.NFFT <= 0 {
		return nil, errors.Wrapf(ErrBadParameter, "logfbank config %+v", cfg)
	}

	frameLen := roundHalfUp(cfg.WinLen * cfg.SampleRate)
	frameStep := roundHalfUp(cfg.WinStep * cfg.SampleRate)
	if frameLen <= 0 || frameStep <= 0 {
		return nil, errors.Wrapf(ErrBadParameter, "frame length %d and step %d must be positive", frameLen, frameStep)
	}

	emphasized := Preemphasis(x, cfg.PreEmph)
	frames := FrameSignal(emphasized, frameLen, frameStep, Rectangular(frameLen))
	pspec := PowerSpectrum(frames, cfg.NFFT)
	bank := MelFilterBank(cfg.NFilt, cfg.NFFT, cfg.SampleRate, cfg.LowFreq, cfg.HighFreq)

	feat := make([][]float64, len(pspec))
	for t, pow := range pspec {
		row := make([]float64, len(bank))
		for j, filter := range bank {
			energy := floats.Dot(pow, filter)
			if energy == 0 {
				energy = eps
			}
			row[j] = math.Log(energy)
		}
		feat[t] = row
	}
	return feat, nil
}
