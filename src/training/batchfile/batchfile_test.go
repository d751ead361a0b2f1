package batchfile_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/veedubyou/separation-be/src/shared/testing"
	"github.com/veedubyou/separation-be/src/training/batchfile"
	"github.com/veedubyou/separation-be/src/training/features"
)

var _ = Describe("Batch files", func() {
	var (
		dir   string
		batch features.Batch[features.Tensor3, features.Tensor2]
	)

	BeforeEach(func() {
		dir = TempDir()
		batch = features.Batch[features.Tensor3, features.Tensor2]{
			Truth: []features.Tensor3{
				{{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}}},
			},
			Mixed: []features.Tensor2{
				{{6, 8}, {10, 12}},
			},
		}
	})

	It("names batches by their index", func() {
		Expect(batchfile.Name(0)).To(Equal("batch-00000.msgpack"))
		Expect(batchfile.Name(123)).To(Equal("batch-00123.msgpack"))
	})

	It("reads back what was written", func() {
		path := filepath.Join(dir, "nested", batchfile.Name(0))
		Expect(batchfile.Write(path, batchfile.FromBatch(batch))).To(Succeed())

		file := ExpectSuccess(batchfile.Read(path))
		Expect(file.Truth).To(Equal([][][][]float64{
			{{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}}},
		}))
		Expect(file.Mixed).To(Equal([][][]float64{
			{{6, 8}, {10, 12}},
		}))
	})

	It("refuses batches with mismatched halves", func() {
		file := batchfile.FromBatch(batch)
		file.Mixed = append(file.Mixed, file.Mixed[0])

		path := filepath.Join(dir, batchfile.Name(1))
		Expect(batchfile.Write(path, file)).NotTo(Succeed())
		Expect(path).NotTo(BeAnExistingFile())
	})

	It("fails to read something that is not msgpack", func() {
		path := filepath.Join(dir, "garbage.msgpack")
		Expect(os.WriteFile(path, []byte{0xc1, 0xc1, 0xc1}, 0o644)).To(Succeed())

		_, err := batchfile.Read(path)
		Expect(err).To(HaveOccurred())
	})
})
