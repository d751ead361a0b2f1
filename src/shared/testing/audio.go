package testing

import (
	"context"
	"math"
	"path/filepath"

	. "github.com/onsi/gomega"

	"github.com/veedubyou/separation-be/src/shared/audio"
	"github.com/veedubyou/separation-be/src/shared/separation/chimera"
	"github.com/veedubyou/separation-be/src/shared/separation/chimera/chimerafakes"
)

// ToneWAV is n samples of a quiet 330Hz sine, encoded as 16-bit WAV.
func ToneWAV(sampleRate int, n int) []byte {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.25 * math.Sin(2*math.Pi*330*float64(i)/float64(sampleRate))
	}

	return ExpectSuccess(audio.EncodeWAV(audio.Waveform{Samples: samples, SampleRate: sampleRate}))
}

// KeepFirstSource answers every inference with masks that give the whole
// mixture to source 0 of 2.
func KeepFirstSource(_ context.Context, magnitudes [][]float64) (chimera.Inference, error) {
	masks := make([][][]float64, len(magnitudes))
	for t := range masks {
		masks[t] = make([][]float64, len(magnitudes[t]))
		for f := range masks[t] {
			masks[t][f] = []float64{1, 0}
		}
	}

	return chimera.Inference{Masks: masks}, nil
}

func MakeFakeModel() *chimerafakes.FakeModel {
	model := &chimerafakes.FakeModel{}
	model.InferCalls(KeepFirstSource)
	return model
}

// WriteSourceWAV writes integer samples as a 16-bit WAV with the given number
// of interleaved channels and returns its path.
func WriteSourceWAV(dir string, name string, sampleRate int, numChannels int, data []int) string {
	path := filepath.Join(dir, name)
	err := audio.WritePCMFile(path, audio.PCM{
		Data:        data,
		NumChannels: numChannels,
		SampleRate:  sampleRate,
		BitDepth:    16,
	})
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return path
}

func Ramp(n int) []int {
	data := make([]int, n)
	for i := range data {
		data[i] = i
	}
	return data
}

func Constant(n int, value int) []int {
	data := make([]int, n)
	for i := range data {
		data[i] = value
	}
	return data
}
