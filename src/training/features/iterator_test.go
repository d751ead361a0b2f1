package features_test

import (
	"io"
	"math/rand"

	"github.com/cockroachdb/errors/markers"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/separation-be/src/shared/dsp"
	. "github.com/veedubyou/separation-be/src/shared/testing"
	"github.com/veedubyou/separation-be/src/training/features"
)

type fixedMixtures struct {
	mixture   features.Mixture
	remaining int
}

func (f *fixedMixtures) Next() (features.Mixture, error) {
	if f.remaining == 0 {
		return features.Mixture{}, io.EOF
	}
	f.remaining--
	return f.mixture, nil
}

func randomMixture(seed int64, numSources int, n int) features.Mixture {
	rng := rand.New(rand.NewSource(seed))
	mixture := features.Mixture{
		Mixed:      make([]float64, n),
		SampleRate: 8000,
	}

	for s := 0; s < numSources; s++ {
		source := make([]float64, n)
		for i := range source {
			source[i] = float64(rng.Intn(2000) - 1000)
		}
		mixture.Sources = append(mixture.Sources, source)
		mixture.Weights = append(mixture.Weights, 1)
		for i := range source {
			mixture.Mixed[i] += source[i]
		}
	}

	return mixture
}

var _ = Describe("Feature iterators", func() {
	var (
		wavs *fixedMixtures
	)

	BeforeEach(func() {
		wavs = &fixedMixtures{
			mixture:   randomMixture(7, 2, 20*64+1),
			remaining: 3,
		}
	})

	Describe("LMFIterator", func() {
		var options features.LMFOptions

		BeforeEach(func() {
			options = features.DefaultLMFOptions()
			options.STFTLen = 128
			options.STFTStep = 64
			options.NFFT = 128
			options.NFilters = 10
		})

		It("stacks time differences onto the features", func() {
			truth, mixed := ExpectPair(features.NewLMFIterator(wavs, options).Next())

			// 20 frames cover 1281 samples, two are lost to differencing
			Expect(truth).To(HaveLen(2))
			Expect(mixed).To(HaveLen(18))
			for _, source := range truth {
				Expect(source).To(HaveLen(len(mixed)))
				Expect(source[0]).To(HaveLen(30))
			}
			Expect(mixed[0]).To(HaveLen(30))
		})

		It("matches the filterbank of each signal without differences", func() {
			options.UseDiffs = false
			truth, mixed := ExpectPair(features.NewLMFIterator(wavs, options).Next())

			expected := ExpectSuccess(dsp.LogFBank(wavs.mixture.Mixed, dsp.FBankConfig{
				SampleRate: 1,
				WinLen:     128,
				WinStep:    64,
				NFilt:      10,
				NFFT:       128,
				PreEmph:    0.97,
			}))
			Expect([][]float64(mixed)).To(Equal(expected))
			Expect(truth[1]).To(HaveLen(len(expected)))
		})

		It("ends when its source ends", func() {
			iterator := features.NewLMFIterator(wavs, options)
			for i := 0; i < 3; i++ {
				_, _, err := iterator.Next()
				Expect(err).NotTo(HaveOccurred())
			}

			_, _, err := iterator.Next()
			Expect(err).To(MatchError(io.EOF))
		})

		It("needs three frames to take differences", func() {
			wavs.mixture = randomMixture(1, 2, 100)
			_, _, err := features.NewLMFIterator(wavs, options).Next()
			Expect(markers.Is(err, dsp.ErrShapeMismatch)).To(BeTrue())
		})
	})

	Describe("STFTIterator", func() {
		var options features.STFTOptions

		BeforeEach(func() {
			options = features.DefaultSTFTOptions()
			options.STFTLen = 128
			options.STFTStep = 64
		})

		It("returns one-sided magnitudes per frame", func() {
			truth, mixed := ExpectPair(features.NewSTFTIterator(wavs, options).Next())

			// starts 0, 64, ..., 1152
			Expect(mixed).To(HaveLen(19))
			Expect(mixed[0]).To(HaveLen(65))
			Expect(truth).To(HaveLen(2))
			Expect(truth[0]).To(HaveLen(19))

			for _, frame := range mixed {
				for _, magnitude := range frame {
					Expect(magnitude).To(BeNumerically(">=", 0))
				}
			}
		})

		It("can add time differences", func() {
			options.UseDiffs = true
			truth, mixed := ExpectPair(features.NewSTFTIterator(wavs, options).Next())

			Expect(mixed).To(HaveLen(17))
			Expect(mixed[0]).To(HaveLen(195))
			Expect(truth[1]).To(HaveLen(17))
		})

		It("scales frame lengths by the sample rate", func() {
			options.Fs = 0.5
			_, mixed := ExpectPair(features.NewSTFTIterator(wavs, options).Next())
			Expect(mixed[0]).To(HaveLen(33))
		})

		It("truncates fractional frame lengths to whole samples", func() {
			options.Fs = 0.5
			options.STFTLen = 131

			// 65.5 samples frame as 65, giving 33 bins rather than 34
			_, mixed := ExpectPair(features.NewSTFTIterator(wavs, options).Next())
			Expect(mixed[0]).To(HaveLen(33))
		})

		It("rejects a zero frame length", func() {
			options.STFTLen = 0
			_, _, err := features.NewSTFTIterator(wavs, options).Next()
			Expect(markers.Is(err, dsp.ErrBadParameter)).To(BeTrue())
		})
	})
})
