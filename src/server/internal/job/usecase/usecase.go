package jobusecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/veedubyou/separation-be/src/server/internal/errors/api"
	"github.com/veedubyou/separation-be/src/server/internal/job/errors"
	"github.com/veedubyou/separation-be/src/shared/conversion"
	"github.com/veedubyou/separation-be/src/shared/filestore"
	"github.com/veedubyou/separation-be/src/shared/job/entity"
	"github.com/veedubyou/separation-be/src/shared/job/message"
	"github.com/veedubyou/separation-be/src/shared/job/storage"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
	"github.com/veedubyou/separation-be/src/shared/lib/rabbitmq"
)

type Usecase struct {
	db        jobentity.Store
	uploads   filestore.FileStore
	publisher rabbitmq.Publisher
	now       func() time.Time
}

func NewUsecase(db jobentity.Store, uploads filestore.FileStore, publisher rabbitmq.Publisher) Usecase {
	return Usecase{
		db:        db,
		uploads:   uploads,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateJob stores the upload, records a queued job and asks a worker to
// process it.
func (u Usecase) CreateJob(ctx context.Context, filename string, data []byte) (jobentity.Job, *api.Error) {
	uploadKey, err := conversion.SaveUpload(ctx, u.uploads, filename, data)
	if err != nil {
		return jobentity.Job{}, api.CommitError(errors.Wrap(err, "Failed to save upload"),
			api.DefaultErrorCode,
			"Unknown Error: failed to save the upload")
	}

	job := jobentity.NewJob(filename, uploadKey, u.now())
	if err := u.db.CreateJob(ctx, job); err != nil {
		return jobentity.Job{}, api.CommitError(errors.Wrap(err, "Failed to create job"),
			api.DefaultErrorCode,
			"Unknown Error: failed to create the job")
	}

	if err := u.publishJob(job); err != nil {
		failedJob := u.failJob(ctx, job, "Job could not be queued")
		return failedJob, api.CommitError(err,
			api.DefaultErrorCode,
			"Unknown Error: failed to queue the job")
	}

	return job, nil
}

func (u Usecase) publishJob(job jobentity.Job) error {
	msg, err := message.NewSeparateJob(job.ID)
	if err != nil {
		return cerr.Field("job_id", job.ID).Wrap(err).Error("Failed to create job message")
	}

	if err := u.publisher.Publish(msg); err != nil {
		return cerr.Field("job_id", job.ID).Wrap(err).Error("Failed to publish job message")
	}

	return nil
}

func (u Usecase) failJob(ctx context.Context, job jobentity.Job, reason string) jobentity.Job {
	failedJob := job
	err := u.db.UpdateJob(ctx, job.ID, func(stored jobentity.Job) (jobentity.Job, error) {
		updated, err := stored.Fail(reason, u.now())
		if err != nil {
			return jobentity.Job{}, err
		}
		failedJob = updated
		return updated, nil
	})

	if err != nil {
		cerr.Log(cerr.Field("job_id", job.ID).Wrap(err).Error("Failed to mark job as errored"))
	}

	return failedJob
}

func (u Usecase) GetJob(ctx context.Context, jobID string) (jobentity.Job, *api.Error) {
	job, err := u.db.GetJob(ctx, jobID)
	if err != nil {
		err = errors.Wrap(err, "Failed to get job from DB")
		switch {
		case markers.Is(err, jobstorage.JobNotFound):
			return jobentity.Job{}, api.CommitError(err,
				joberrors.JobNotFoundCode,
				"The job does not exist")
		default:
			return jobentity.Job{}, api.CommitError(err,
				api.DefaultErrorCode,
				"Unknown Error: failed to fetch the job")
		}
	}

	return job, nil
}
