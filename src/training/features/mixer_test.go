package features_test

import (
	"math/rand"

	"github.com/cockroachdb/errors/markers"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/veedubyou/separation-be/src/shared/testing"
	"github.com/veedubyou/separation-be/src/training/features"
)

var _ = Describe("WavMixer", func() {
	var (
		dir     string
		options features.MixerOptions
	)

	BeforeEach(func() {
		dir = TempDir()
		options = features.MixerOptions{
			NumToMix:  2,
			SigLength: 200,
			Mask:      "_src.wav",
		}
	})

	newMixer := func(seed int64) *features.WavMixer {
		return ExpectSuccess(features.NewWavMixer(dir, options, rand.New(rand.NewSource(seed))))
	}

	Describe("with a few constant sources", func() {
		BeforeEach(func() {
			WriteSourceWAV(dir, "a_src.wav", 8000, 1, Constant(300, 100))
			WriteSourceWAV(dir, "b_src.wav", 8000, 1, Constant(400, 200))
			WriteSourceWAV(dir, "c_src.wav", 8000, 1, Constant(500, 400))
			WriteSourceWAV(dir, "mix.wav", 8000, 1, Constant(500, 1))
		})

		It("only considers files matching the mask", func() {
			Expect(newMixer(1).Candidates()).To(Equal([]string{"a_src.wav", "b_src.wav", "c_src.wav"}))
		})

		It("returns NumToMix sources of SigLength samples", func() {
			mixture := ExpectSuccess(newMixer(1).Mix())

			Expect(mixture.SampleRate).To(Equal(8000))
			Expect(mixture.Sources).To(HaveLen(2))
			for _, source := range mixture.Sources {
				Expect(source).To(HaveLen(200))
			}
			Expect(mixture.Mixed).To(HaveLen(200))
		})

		It("mixes distinct files", func() {
			for seed := int64(0); seed < 20; seed++ {
				mixture := ExpectSuccess(newMixer(seed).Mix())
				Expect(mixture.Sources[0][0]).NotTo(Equal(mixture.Sources[1][0]))
			}
		})

		It("sums the sources with unit weights", func() {
			mixture := ExpectSuccess(newMixer(3).Mix())

			Expect(mixture.Weights).To(Equal([]float64{1, 1}))
			for i := range mixture.Mixed {
				Expect(mixture.Mixed[i]).To(Equal(mixture.Sources[0][i] + mixture.Sources[1][i]))
			}
		})

		It("draws random weights when asked", func() {
			options.MixRandom = true
			mixture := ExpectSuccess(newMixer(4).Mix())

			for i, weight := range mixture.Weights {
				Expect(weight).To(BeNumerically(">=", 0))
				Expect(weight).To(BeNumerically("<", 1))
				Expect(mixture.Sources[i]).NotTo(BeEmpty())
			}

			for i := range mixture.Mixed {
				expected := mixture.Weights[0]*mixture.Sources[0][i] + mixture.Weights[1]*mixture.Sources[1][i]
				Expect(mixture.Mixed[i]).To(BeNumerically("~", expected, 1e-9))
			}
		})

		It("is reproducible for a fixed seed", func() {
			options.MixRandom = true
			first := ExpectSuccess(newMixer(42).Mix())
			second := ExpectSuccess(newMixer(42).Mix())
			Expect(second).To(Equal(first))
		})

		It("fails when there are fewer candidates than sources to mix", func() {
			options.NumToMix = 4
			_, err := features.NewWavMixer(dir, options, rand.New(rand.NewSource(1)))
			Expect(markers.Is(err, features.ErrNotEnoughCandidates)).To(BeTrue())
		})

		It("keeps mixing from the iterator", func() {
			iterator := features.NewWavIterator(newMixer(5))
			for i := 0; i < 3; i++ {
				mixture := ExpectSuccess(iterator.Next())
				Expect(mixture.Sources).To(HaveLen(2))
			}
		})
	})

	It("slices contiguous samples from anywhere in the file", func() {
		WriteSourceWAV(dir, "ramp_src.wav", 8000, 1, Ramp(1000))
		WriteSourceWAV(dir, "other_src.wav", 8000, 1, Ramp(1000))

		starts := map[float64]bool{}
		for seed := int64(0); seed < 30; seed++ {
			mixture := ExpectSuccess(newMixer(seed).Mix())
			for _, source := range mixture.Sources {
				Expect(source[0]).To(BeNumerically(">=", 0))
				Expect(source[0]).To(BeNumerically("<=", 800))
				for i := 1; i < len(source); i++ {
					Expect(source[i] - source[i-1]).To(Equal(1.0))
				}
				starts[source[0]] = true
			}
		}

		Expect(len(starts)).To(BeNumerically(">", 1))
	})

	It("averages multi-channel files to mono", func() {
		stereo := make([]int, 0, 600)
		for i := 0; i < 300; i++ {
			stereo = append(stereo, 100, 300)
		}
		WriteSourceWAV(dir, "left_src.wav", 8000, 2, stereo)
		WriteSourceWAV(dir, "right_src.wav", 8000, 2, stereo)

		mixture := ExpectSuccess(newMixer(1).Mix())
		Expect(mixture.Sources[0]).To(HaveEach(Equal(200.0)))
	})

	It("rejects files shorter than the signal length", func() {
		WriteSourceWAV(dir, "long_src.wav", 8000, 1, Constant(300, 1))
		WriteSourceWAV(dir, "short_src.wav", 8000, 1, Constant(150, 1))

		_, err := newMixer(1).Mix()
		Expect(markers.Is(err, features.ErrSignalTooShort)).To(BeTrue())
	})

	It("rejects sources recorded at different rates", func() {
		WriteSourceWAV(dir, "a_src.wav", 8000, 1, Constant(300, 1))
		WriteSourceWAV(dir, "b_src.wav", 16000, 1, Constant(300, 1))

		_, err := newMixer(1).Mix()
		Expect(markers.Is(err, features.ErrSampleRateMismatch)).To(BeTrue())
	})

	It("uses exactly SigLength samples from a file of that length", func() {
		WriteSourceWAV(dir, "a_src.wav", 8000, 1, Ramp(200))
		WriteSourceWAV(dir, "b_src.wav", 8000, 1, Ramp(200))

		mixture := ExpectSuccess(newMixer(1).Mix())
		Expect(mixture.Sources[0][0]).To(Equal(0.0))
	})
})
