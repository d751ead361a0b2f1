package cerr_test

import (
	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
)

var _ = Describe("Cerr", func() {
	root := errors.New("disk on fire")

	It("wraps the cause with the message", func() {
		err := cerr.Field("key", "uploads/a.wav").Wrap(root).Error("Failed to read upload")

		Expect(err.Error()).To(Equal("Failed to read upload: disk on fire"))
		Expect(errors.Is(err, root)).To(BeTrue())
	})

	It("makes plain errors without a cause", func() {
		err := cerr.Error("Nothing to do")
		Expect(err.Error()).To(Equal("Nothing to do"))
		Expect(cerr.CollectFields(err)).To(BeEmpty())
	})

	It("does not share fields between derived contexts", func() {
		base := cerr.Field("job_id", "1")
		first := base.Field("step", "start").Error("first")
		second := base.Field("step", "complete").Error("second")

		Expect(cerr.CollectFields(first)).To(HaveKeyWithValue("step", "start"))
		Expect(cerr.CollectFields(second)).To(HaveKeyWithValue("step", "complete"))
	})

	Describe("CollectFields", func() {
		It("gathers fields through the whole chain", func() {
			inner := cerr.Field("key", "a.wav").Wrap(root).Error("read")
			middle := errors.Wrap(inner, "plain wrap")
			outer := cerr.Fields(cerr.F{"job_id": "1"}).Wrap(middle).Error("job failed")

			Expect(cerr.CollectFields(outer)).To(Equal(cerr.F{
				"key":    "a.wav",
				"job_id": "1",
			}))
		})

		It("prefers outer fields", func() {
			inner := cerr.Field("stage", "decode").Error("inner")
			outer := cerr.Field("stage", "convert").Wrap(inner).Error("outer")

			Expect(cerr.CollectFields(outer)).To(HaveKeyWithValue("stage", "convert"))
		})
	})

	Describe("Log", func() {
		var handler *memory.Handler

		BeforeEach(func() {
			logger := log.Log.(*log.Logger)
			previous := logger.Handler
			handler = memory.New()
			logger.Handler = handler
			DeferCleanup(func() {
				logger.Handler = previous
			})
		})

		It("logs the error with its fields", func() {
			cerr.Log(cerr.Field("job_id", "1").Wrap(root).Error("job failed"))

			Expect(handler.Entries).To(HaveLen(1))
			entry := handler.Entries[0]
			Expect(entry.Level).To(Equal(log.ErrorLevel))
			Expect(entry.Message).To(Equal("job failed: disk on fire"))
			Expect(entry.Fields).To(HaveKeyWithValue("job_id", "1"))
			Expect(entry.Fields).To(HaveKey("error"))
		})

		It("ignores nil", func() {
			cerr.Log(nil)
			Expect(handler.Entries).To(BeEmpty())
		})
	})
})
