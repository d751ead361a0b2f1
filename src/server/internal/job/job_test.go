package job_test

import (
	"bytes"
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/separation-be/src/server/application"
	"github.com/veedubyou/separation-be/src/shared/job/entity"
	"github.com/veedubyou/separation-be/src/shared/job/message"
	"github.com/veedubyou/separation-be/src/shared/lib/rabbitmq/rabbitmqfakes"
	"github.com/veedubyou/separation-be/src/shared/separation/chimera/chimerafakes"
	. "github.com/veedubyou/separation-be/src/shared/testing"
	"github.com/veedubyou/separation-be/src/shared/testing/dummy"
)

var _ = Describe("Jobs", func() {
	var (
		app           application.App
		jobStore      *dummy.JobStore
		uploads       *dummy.FileStore
		fakePublisher *rabbitmqfakes.FakePublisher
	)

	BeforeEach(func() {
		jobStore = dummy.NewDummyJobStore()
		uploads = dummy.NewDummyFileStore()
		fakePublisher = &rabbitmqfakes.FakePublisher{}
		fakePublisher.PublishReturns(nil)
	})

	JustBeforeEach(func() {
		app = application.NewAppWithDependencies(ServerConfig(), application.Dependencies{
			Model:     &chimerafakes.FakeModel{},
			JobStore:  jobStore,
			Uploads:   uploads,
			Converted: dummy.NewDummyFileStore(),
			Publisher: fakePublisher,
		})
	})

	createJob := func(upload *FileUpload) RequestFactory {
		return RequestFactory{
			Method: http.MethodPost,
			Target: "/api/v1/jobs",
			Upload: upload,
		}
	}

	mixture := &FileUpload{
		Filename: "mixture.mp3",
		Contents: []byte("ID3 pretend mp3 contents"),
	}

	Describe("POST /api/v1/jobs", func() {
		Describe("happy path", func() {
			var job jobentity.Job

			JustBeforeEach(func() {
				recorder := createJob(mixture).Serve(app.Handler())
				Expect(recorder.Code).To(Equal(http.StatusAccepted))
				job = DecodeJSON[jobentity.Job](recorder.Body)
			})

			It("returns a queued job", func() {
				Expect(job.ID).NotTo(BeEmpty())
				Expect(job.Status).To(Equal(jobentity.StatusQueued))
				Expect(job.OriginalFilename).To(Equal("mixture.mp3"))
				Expect(job.ResultURL).To(BeEmpty())
			})

			It("stores the job and its upload", func() {
				stored := ExpectSuccess(jobStore.GetJob(context.Background(), job.ID))
				Expect(stored.Status).To(Equal(jobentity.StatusQueued))
				Expect(uploads.Files[stored.UploadKey]).To(Equal(mixture.Contents))
			})

			It("publishes a separate job message", func() {
				Expect(fakePublisher.PublishCallCount()).To(Equal(1))

				msg := fakePublisher.PublishArgsForCall(0)
				Expect(msg.Type).To(Equal(message.SeparateJobType))

				body := ExpectSuccess(message.ParseSeparateJob(msg.Body))
				Expect(body.JobID).To(Equal(job.ID))
			})
		})

		It("rejects uploads that are not audio", func() {
			recorder := createJob(&FileUpload{Filename: "notes.txt", Contents: []byte("hi")}).Serve(app.Handler())
			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(DecodeJSONError(recorder.Body).Code).To(Equal("invalid_file_type"))
			Expect(jobStore.State).To(BeEmpty())
			Expect(fakePublisher.PublishCallCount()).To(BeZero())
		})

		Describe("when the queue is down", func() {
			BeforeEach(func() {
				fakePublisher.PublishReturns(errors.New("connection refused"))
			})

			It("fails the request and marks the job as errored", func() {
				recorder := createJob(mixture).Serve(app.Handler())
				Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
				Expect(DecodeJSONError(recorder.Body).Code).To(Equal("unknown_error"))

				Expect(jobStore.State).To(HaveLen(1))
				for _, job := range jobStore.State {
					Expect(job.Status).To(Equal(jobentity.StatusError))
					Expect(job.ErrorMessage).NotTo(BeEmpty())
				}
			})
		})

		Describe("when the job store is down", func() {
			BeforeEach(func() {
				jobStore.Unavailable = true
			})

			It("does not publish anything", func() {
				recorder := createJob(mixture).Serve(app.Handler())
				Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
				Expect(fakePublisher.PublishCallCount()).To(BeZero())
			})
		})
	})

	Describe("GET /api/v1/jobs/:id", func() {
		getJob := func(id string) RequestFactory {
			return RequestFactory{
				Method: http.MethodGet,
				Target: "/api/v1/jobs/" + id,
			}
		}

		It("returns a stored job", func() {
			created := DecodeJSON[jobentity.Job](createJob(mixture).Serve(app.Handler()).Body)

			recorder := getJob(created.ID).Serve(app.Handler())
			Expect(recorder.Code).To(Equal(http.StatusOK))

			fetched := DecodeJSON[jobentity.Job](bytes.NewReader(recorder.Body.Bytes()))
			Expect(fetched.ID).To(Equal(created.ID))
			Expect(fetched.Status).To(Equal(jobentity.StatusQueued))
		})

		It("responds job_not_found for unknown IDs", func() {
			recorder := getJob("5d0c8a52-0000-4000-8000-000000000000").Serve(app.Handler())
			Expect(recorder.Code).To(Equal(http.StatusNotFound))
			Expect(DecodeJSONError(recorder.Body).Code).To(Equal("job_not_found"))
		})
	})
})
