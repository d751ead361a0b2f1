package features_test

import (
	"io"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/veedubyou/separation-be/src/shared/testing"
	"github.com/veedubyou/separation-be/src/training/features"
)

type failingPairs struct {
	calls int
}

func (f *failingPairs) Next() (int, int, error) {
	f.calls++
	if f.calls > 1 {
		return 0, 0, errors.New("disk on fire")
	}
	return 1, 1, nil
}

var _ = Describe("Batcher", func() {
	It("groups pairs into batches", func() {
		pairs := &features.SlicePairs[int, int]{
			Truth: []int{2, 5, 8, 2},
			Mixed: []int{0, 3, 10, -4},
		}
		batcher := ExpectSuccess(features.NewBatcher[int, int](pairs, 2))

		first := ExpectSuccess(batcher.Next())
		Expect(first.Truth).To(Equal([]int{2, 5}))
		Expect(first.Mixed).To(Equal([]int{0, 3}))

		second := ExpectSuccess(batcher.Next())
		Expect(second.Truth).To(Equal([]int{8, 2}))
		Expect(second.Mixed).To(Equal([]int{10, -4}))

		_, err := batcher.Next()
		Expect(err).To(MatchError(io.EOF))
	})

	It("returns the trailing partial batch before EOF", func() {
		pairs := &features.SlicePairs[int, int]{
			Truth: []int{1, 2, 3},
			Mixed: []int{4, 5, 6},
		}
		batcher := ExpectSuccess(features.NewBatcher[int, int](pairs, 2))

		_ = ExpectSuccess(batcher.Next())

		partial := ExpectSuccess(batcher.Next())
		Expect(partial.Len()).To(Equal(1))
		Expect(partial.Truth).To(Equal([]int{3}))
		Expect(partial.Mixed).To(Equal([]int{6}))

		for i := 0; i < 2; i++ {
			_, err := batcher.Next()
			Expect(err).To(MatchError(io.EOF))
		}
	})

	It("reports EOF straight away for an empty source", func() {
		batcher := ExpectSuccess(features.NewBatcher[int, int](&features.SlicePairs[int, int]{}, 4))
		_, err := batcher.Next()
		Expect(err).To(MatchError(io.EOF))
	})

	It("passes on source errors", func() {
		batcher := ExpectSuccess(features.NewBatcher[int, int](&failingPairs{}, 4))
		_, err := batcher.Next()
		Expect(err).To(MatchError(ContainSubstring("disk on fire")))
	})

	It("rejects a non-positive batch size", func() {
		_, err := features.NewBatcher[int, int](&features.SlicePairs[int, int]{}, 0)
		Expect(err).To(HaveOccurred())
	})

	It("batches feature iterators", func() {
		wavs := &fixedMixtures{
			mixture:   randomMixture(3, 2, 10*64+1),
			remaining: 5,
		}

		options := features.DefaultSTFTOptions()
		options.STFTLen = 128
		options.STFTStep = 64

		batcher := ExpectSuccess(features.NewBatcher[features.Tensor3, features.Tensor2](
			features.NewSTFTIterator(wavs, options), 2))

		sizes := []int{}
		for {
			batch, err := batcher.Next()
			if err == io.EOF {
				break
			}
			Expect(err).NotTo(HaveOccurred())
			sizes = append(sizes, batch.Len())
		}

		Expect(sizes).To(Equal([]int{2, 2, 1}))
	})
})
