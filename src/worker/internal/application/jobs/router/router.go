package jobrouter

import (
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
)

type HandlerFunc func(body []byte) error

// JobRouter dispatches deliveries by their AMQP type.
type JobRouter struct {
	handlers map[string]HandlerFunc
}

func NewJobRouter() JobRouter {
	return JobRouter{
		handlers: map[string]HandlerFunc{},
	}
}

func (j JobRouter) Handle(jobType string, handler HandlerFunc) {
	if _, exists := j.handlers[jobType]; exists {
		panic("handler registered twice for job type " + jobType)
	}

	j.handlers[jobType] = handler
}

func (j JobRouter) HandleMessage(message amqp091.Delivery) error {
	handler, ok := j.handlers[message.Type]
	if !ok {
		return cerr.Field("message_type", message.Type).Error("No handler for message type")
	}

	return handler(message.Body)
}
