package audio_test

import (
	"math"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/separation-be/src/shared/audio"
	. "github.com/veedubyou/separation-be/src/shared/testing"
)

func sine(n int, sampleRate int, hz float64) audio.Waveform {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*hz*float64(i)/float64(sampleRate))
	}
	return audio.Waveform{Samples: samples, SampleRate: sampleRate}
}

var _ = Describe("FormatOf", func() {
	DescribeTable("extension allow-list",
		func(filename string, expected audio.Format, ok bool) {
			format, allowed := audio.FormatOf(filename)
			Expect(allowed).To(Equal(ok))
			Expect(format).To(Equal(expected))
		},
		Entry("wav", "song.wav", audio.WAV, true),
		Entry("upper case mp3", "SONG.MP3", audio.MP3, true),
		Entry("last extension wins", "archive.wav.zip", audio.Format(""), false),
		Entry("no extension", "song", audio.Format(""), false),
		Entry("flac", "song.flac", audio.Format(""), false),
	)
})

var _ = Describe("WAV", func() {
	It("round trips a waveform through 16-bit PCM", func() {
		original := sine(1000, 10000, 440)

		encoded, err := audio.EncodeWAV(original)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := audio.Decode(audio.WAV, encoded)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.SampleRate).To(Equal(10000))
		Expect(decoded.Samples).To(HaveLen(1000))

		for i := range original.Samples {
			Expect(decoded.Samples[i]).To(BeNumerically("~", original.Samples[i], 1e-4))
		}
	})

	It("averages channels and keeps the integer scale for raw values", func() {
		pcm := audio.PCM{
			Data:        []int{100, 300, -50, 50},
			NumChannels: 2,
			SampleRate:  8000,
			BitDepth:    16,
		}

		Expect(pcm.Frames()).To(Equal(2))
		Expect(pcm.MonoValues()).To(Equal([]float64{200, 0}))
	})

	It("reads back a file written to disk", func() {
		path := filepath.Join(TempDir(), "clip_src.wav")
		pcm := audio.PCM{
			Data:        []int{1, 2, 3, 4, 5},
			NumChannels: 1,
			SampleRate:  16000,
			BitDepth:    16,
		}
		Expect(audio.WritePCMFile(path, pcm)).To(Succeed())

		read, err := audio.ReadPCMFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(read.Data).To(Equal(pcm.Data))
		Expect(read.SampleRate).To(Equal(16000))

		_, err = os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
	})

	It("flags garbage as undecodable", func() {
		_, err := audio.Decode(audio.WAV, []byte("definitely not a riff header"))
		Expect(errors.Is(err, audio.ErrUndecodable)).To(BeTrue())
	})
})

var _ = Describe("MP3", func() {
	It("flags garbage as undecodable", func() {
		_, err := audio.Decode(audio.MP3, []byte{0, 1, 2, 3})
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, audio.ErrUndecodable)).To(BeTrue())
	})
})

var _ = Describe("Resample", func() {
	It("produces the proportional number of samples", func() {
		resampled, err := audio.Resample(sine(20000, 20000, 100), 10000)
		Expect(err).NotTo(HaveOccurred())
		Expect(resampled.SampleRate).To(Equal(10000))
		Expect(resampled.Samples).To(HaveLen(10000))
	})

	It("passes through when the rate already matches", func() {
		original := sine(100, 10000, 100)
		resampled, err := audio.Resample(original, 10000)
		Expect(err).NotTo(HaveOccurred())
		Expect(resampled.Samples).To(Equal(original.Samples))
	})

	It("rejects a zero rate", func() {
		_, err := audio.Resample(sine(10, 10000, 100), 0)
		Expect(err).To(HaveOccurred())
	})
})
