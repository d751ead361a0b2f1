package jobentity

import (
	"context"
)

type JobUpdater func(job Job) (Job, error)

type Store interface {
	CreateJob(ctx context.Context, job Job) error
	GetJob(ctx context.Context, jobID string) (Job, error)
	UpdateJob(ctx context.Context, jobID string, updater JobUpdater) error
}
