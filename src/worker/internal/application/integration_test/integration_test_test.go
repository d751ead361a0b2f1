package integration_test_test

import (
	"context"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	server_app "github.com/veedubyou/separation-be/src/server/application"
	"github.com/veedubyou/separation-be/src/shared/audio"
	"github.com/veedubyou/separation-be/src/shared/conversion"
	"github.com/veedubyou/separation-be/src/shared/job/entity"
	"github.com/veedubyou/separation-be/src/shared/separation/chimera"
	"github.com/veedubyou/separation-be/src/shared/separation/chimera/chimerafakes"
	. "github.com/veedubyou/separation-be/src/shared/testing"
	"github.com/veedubyou/separation-be/src/shared/testing/dummy"
	worker_app "github.com/veedubyou/separation-be/src/worker/application"
)

var _ = Describe("IntegrationTest", func() {
	var (
		rabbitMQ  *dummy.RabbitMQ
		jobStore  *dummy.JobStore
		uploads   *dummy.FileStore
		converted *dummy.FileStore
		fakeModel *chimerafakes.FakeModel

		server    server_app.App
		workerApp worker_app.App
		stopped   chan struct{}

		run func() jobentity.Job
	)

	BeforeEach(func() {
		By("Instantiating all dummies", func() {
			rabbitMQ = dummy.NewRabbitMQ()
			jobStore = dummy.NewDummyJobStore()
			uploads = dummy.NewDummyFileStore()
			converted = dummy.NewDummyFileStore()
			fakeModel = MakeFakeModel()
		})

		By("Setting up the run routine", func() {
			run = func() jobentity.Job {
				server = server_app.NewAppWithDependencies(ServerConfig(), server_app.Dependencies{
					Model:     fakeModel,
					JobStore:  jobStore,
					Uploads:   uploads,
					Converted: converted,
					Publisher: rabbitMQ,
				})

				workerApp = worker_app.NewAppWithDependencies(worker_app.Config{
					RabbitMQQueueName: "test-queue",
					Conversion:        conversion.DefaultConfig(),
				}, worker_app.Dependencies{
					Model:     fakeModel,
					JobStore:  jobStore,
					Uploads:   uploads,
					Converted: converted,
					Channel:   rabbitMQ,
				})

				stopped = make(chan struct{})
				go func() {
					defer GinkgoRecover()
					defer close(stopped)
					Expect(workerApp.Start()).To(Succeed())
				}()
				Eventually(rabbitMQ.Consuming).Should(BeTrue())

				recorder := RequestFactory{
					Method: http.MethodPost,
					Target: "/api/v1/jobs",
					Upload: &FileUpload{
						Filename: "mixture.wav",
						Contents: ToneWAV(conversion.SampleRate, 3000),
					},
				}.Serve(server.Handler())
				Expect(recorder.Code).To(Equal(http.StatusAccepted))

				return DecodeJSON[jobentity.Job](recorder.Body)
			}
		})
	})

	AfterEach(func() {
		workerApp.Stop()
		Eventually(stopped).Should(BeClosed())
	})

	pollJob := func(jobID string) func() jobentity.Status {
		return func() jobentity.Status {
			recorder := RequestFactory{
				Method: http.MethodGet,
				Target: "/api/v1/jobs/" + jobID,
			}.Serve(server.Handler())
			if recorder.Code != http.StatusOK {
				return ""
			}

			return DecodeJSON[jobentity.Job](recorder.Body).Status
		}
	}

	Describe("All jobs run successfully", func() {
		It("gets 1 ack", func() {
			run()

			Eventually(rabbitMQ.AckCount).Should(Equal(1))
			Consistently(rabbitMQ.NackCount).Should(BeZero())
		})

		It("finishes the job and serves the result", func() {
			job := run()
			Eventually(pollJob(job.ID)).Should(Equal(jobentity.StatusDone))

			stored := ExpectSuccess(jobStore.GetJob(context.Background(), job.ID))
			Expect(stored.ResultURL).To(HavePrefix(conversion.ConvertedRoute))

			recorder := RequestFactory{
				Method: http.MethodGet,
				Target: stored.ResultURL,
			}.Serve(server.Handler())
			Expect(recorder.Code).To(Equal(http.StatusOK))

			waveform := ExpectSuccess(audio.Decode(audio.WAV, recorder.Body.Bytes()))
			Expect(waveform.Samples).To(HaveLen(3000))
		})

		It("cleans up the upload", func() {
			job := run()
			Eventually(pollJob(job.ID)).Should(Equal(jobentity.StatusDone))

			Expect(uploads.Files).To(BeEmpty())
			Expect(strings.HasSuffix(job.UploadKey, ".wav")).To(BeTrue())
		})
	})

	Describe("The model is down", func() {
		BeforeEach(func() {
			fakeModel.InferReturns(chimera.Inference{}, chimera.ErrModelUnavailable)
		})

		It("gets 1 nack", func() {
			run()

			Eventually(rabbitMQ.NackCount).Should(Equal(1))
			Consistently(rabbitMQ.AckCount).Should(BeZero())
		})

		It("reports the error status", func() {
			job := run()
			Eventually(pollJob(job.ID)).Should(Equal(jobentity.StatusError))
		})
	})
})
