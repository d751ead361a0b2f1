package jobentity

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid job status transition")

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Job tracks one asynchronous separation from upload to result.
type Job struct {
	ID               string    `json:"id" dynamo:"id,hash"`
	Status           Status    `json:"status" dynamo:"status"`
	OriginalFilename string    `json:"original_filename" dynamo:"original_filename"`
	UploadKey        string    `json:"upload_key" dynamo:"upload_key"`
	ResultURL        string    `json:"result_url,omitempty" dynamo:"result_url,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty" dynamo:"error_message,omitempty"`
	CreatedAt        time.Time `json:"created_at" dynamo:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" dynamo:"updated_at"`
}

func NewJob(originalFilename string, uploadKey string, now time.Time) Job {
	return Job{
		ID:               uuid.New().String(),
		Status:           StatusQueued,
		OriginalFilename: originalFilename,
		UploadKey:        uploadKey,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

var transitions = map[Status][]Status{
	StatusQueued:     {StatusProcessing, StatusError},
	StatusProcessing: {StatusDone, StatusError},
}

func (j Job) Finished() bool {
	return j.Status == StatusDone || j.Status == StatusError
}

func (j Job) transition(to Status, now time.Time) (Job, error) {
	for _, allowed := range transitions[j.Status] {
		if allowed == to {
			j.Status = to
			j.UpdatedAt = now
			return j, nil
		}
	}

	return Job{}, errors.Wrapf(ErrInvalidTransition, "%s -> %s", j.Status, to)
}

func (j Job) Start(now time.Time) (Job, error) {
	return j.transition(StatusProcessing, now)
}

func (j Job) Complete(resultURL string, now time.Time) (Job, error) {
	job, err := j.transition(StatusDone, now)
	if err != nil {
		return Job{}, err
	}

	job.ResultURL = resultURL
	return job, nil
}

func (j Job) Fail(message string, now time.Time) (Job, error) {
	job, err := j.transition(StatusError, now)
	if err != nil {
		return Job{}, err
	}

	job.ErrorMessage = message
	return job, nil
}
