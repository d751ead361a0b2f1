package worker_test

import (
	"sync"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/separation-be/src/shared/testing/dummy"
	"github.com/veedubyou/separation-be/src/worker/internal/application/jobs/router"
	"github.com/veedubyou/separation-be/src/worker/internal/application/worker"
)

type recordingHandler struct {
	mutex    sync.Mutex
	received []string
}

func (r *recordingHandler) handle(body []byte) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.received = append(r.received, string(body))
	if string(body) == "poison" {
		return errors.New("can't digest this")
	}
	return nil
}

func (r *recordingHandler) count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.received)
}

var _ = Describe("QueueWorker", func() {
	var (
		rabbitMQ    *dummy.RabbitMQ
		handler     *recordingHandler
		queueWorker *worker.QueueWorker
		done        chan error
	)

	BeforeEach(func() {
		rabbitMQ = dummy.NewRabbitMQ()
		handler = &recordingHandler{}

		router := jobrouter.NewJobRouter()
		router.Handle("test_job", handler.handle)

		queueWorker = worker.NewQueueWorker(rabbitMQ, "test-queue", router)

		done = make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			done <- queueWorker.Start()
		}()

		Eventually(rabbitMQ.Consuming).Should(BeTrue())
	})

	AfterEach(func() {
		queueWorker.Stop()
		Eventually(done).Should(Receive(BeNil()))
	})

	publish := func(msgType string, body string) {
		err := rabbitMQ.Publish(amqp091.Publishing{Type: msgType, Body: []byte(body)})
		Expect(err).NotTo(HaveOccurred())
	}

	It("acks messages that were handled", func() {
		publish("test_job", "one")
		publish("test_job", "two")

		Eventually(rabbitMQ.AckCount).Should(Equal(2))
		Consistently(rabbitMQ.NackCount).Should(BeZero())
		Expect(handler.count()).To(Equal(2))
	})

	It("nacks messages whose handler failed", func() {
		publish("test_job", "poison")

		Eventually(rabbitMQ.NackCount).Should(Equal(1))
		Expect(rabbitMQ.AckCount()).To(BeZero())
	})

	It("nacks messages of an unknown type", func() {
		publish("mystery_job", "one")

		Eventually(rabbitMQ.NackCount).Should(Equal(1))
		Expect(handler.count()).To(BeZero())
	})

	It("keeps going after a failure", func() {
		publish("test_job", "poison")
		publish("test_job", "fine")

		Eventually(rabbitMQ.AckCount).Should(Equal(1))
		Expect(rabbitMQ.NackCount()).To(Equal(1))
	})

	It("refuses to start again once stopped", func() {
		queueWorker.Stop()
		Eventually(done).Should(Receive(BeNil()))

		Expect(queueWorker.Start()).NotTo(Succeed())
		done <- nil
	})
})

var _ = Describe("QueueWorker stopped before starting", func() {
	It("does not consume", func() {
		rabbitMQ := dummy.NewRabbitMQ()
		queueWorker := worker.NewQueueWorker(rabbitMQ, "test-queue", jobrouter.NewJobRouter())

		queueWorker.Stop()
		Expect(queueWorker.Start()).NotTo(Succeed())
		Expect(rabbitMQ.Consuming()).To(BeFalse())
	})
})

var _ = Describe("JobRouter", func() {
	It("panics when a job type is registered twice", func() {
		router := jobrouter.NewJobRouter()
		router.Handle("test_job", func([]byte) error { return nil })

		Expect(func() {
			router.Handle("test_job", func([]byte) error { return nil })
		}).To(Panic())
	})
})
