package testing

import (
	"encoding/json"

	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/separation-be/src/shared/lib/rabbitmq"
)

func MakeRabbitMQConnection() *amqp091.Connection {
	return ExpectSuccess(amqp091.Dial(RabbitMQHost))
}

func ResetRabbitMQ(conn *amqp091.Connection) {
	channel := ExpectSuccess(conn.Channel())
	defer channel.Close()
	ExpectSuccess(channel.QueuePurge(RabbitMQQueueName, false))
}

func AfterSuiteRabbitMQ(conn *amqp091.Connection) {
	channel := ExpectSuccess(conn.Channel())
	defer channel.Close()
	ExpectSuccess(channel.QueueDelete(RabbitMQQueueName, false, false, false))
}

func MakeRabbitMQPublisher() *rabbitmq.QueuePublisher {
	return ExpectSuccess(rabbitmq.NewQueuePublisher(RabbitMQHost, RabbitMQQueueName))
}

type ReceivedMessage struct {
	Type    string
	Message map[string]interface{}
}

// DrainQueue pulls every message currently waiting in the test queue.
func DrainQueue(conn *amqp091.Connection) []ReceivedMessage {
	channel := ExpectSuccess(conn.Channel())
	defer channel.Close()

	received := []ReceivedMessage{}
	for {
		delivery, ok, err := channel.Get(RabbitMQQueueName, true)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		if !ok {
			return received
		}

		body := map[string]interface{}{}
		ExpectWithOffset(1, json.Unmarshal(delivery.Body, &body)).To(Succeed())

		received = append(received, ReceivedMessage{
			Type:    delivery.Type,
			Message: body,
		})
	}
}
