package message

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/separation-be/src/shared/lib/rabbitmq"
)

const SeparateJobType = "separate_job"

type SeparateJob struct {
	JobID string `json:"job_id"`
}

func NewSeparateJob(jobID string) (amqp091.Publishing, error) {
	return rabbitmq.JSONMessage(SeparateJobType, SeparateJob{JobID: jobID})
}

func ParseSeparateJob(body []byte) (SeparateJob, error) {
	msg := SeparateJob{}
	if err := json.Unmarshal(body, &msg); err != nil {
		return SeparateJob{}, errors.Wrap(err, "Failed to unmarshal separate job message")
	}

	if msg.JobID == "" {
		return SeparateJob{}, errors.New("Separate job message has no job ID")
	}

	return msg, nil
}
