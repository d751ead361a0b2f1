package jobstorage

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/guregu/dynamo"
	"github.com/veedubyou/separation-be/src/shared/job/entity"
	"github.com/veedubyou/separation-be/src/shared/lib/dynamo"
	"github.com/veedubyou/separation-be/src/shared/lib/errors/mark"
)

const (
	JobsTable = "SeparationJobs"
	idKey     = "id"
)

var _ jobentity.Store = DB{}

type DB struct {
	dynamoDB dynamolib.DynamoDBWrapper
}

func NewDB(dynamoDB dynamolib.DynamoDBWrapper) DB {
	return DB{
		dynamoDB: dynamoDB,
	}
}

func (d DB) EnsureTable(ctx context.Context) error {
	return d.dynamoDB.EnsureTable(ctx, JobsTable, jobentity.Job{})
}

func (d DB) CreateJob(ctx context.Context, job jobentity.Job) error {
	if job.ID == "" {
		return mark.Message(IDEmptyMark, "Job ID is not defined")
	}

	err := d.dynamoDB.Table(JobsTable).
		Put(job).
		If("attribute_not_exists($)", idKey).
		RunWithContext(ctx)

	if err != nil {
		if dynamolib.ConditionalCheckFailed(err) {
			return mark.Wrap(err, JobAlreadyExists, "A job with this ID already exists")
		}
		return mark.Wrap(err, DefaultErrorMark, "Failed to put the job in the DB")
	}

	return nil
}

func (d DB) GetJob(ctx context.Context, jobID string) (jobentity.Job, error) {
	if jobID == "" {
		return jobentity.Job{}, mark.Message(JobNotFound, "No job ID was provided")
	}

	job := jobentity.Job{}
	err := d.dynamoDB.Table(JobsTable).
		Get(idKey, jobID).
		OneWithContext(ctx, &job)

	if err != nil {
		switch {
		case errors.Is(err, dynamo.ErrNotFound):
			return jobentity.Job{}, mark.Wrap(err, JobNotFound, "Job is not found")
		default:
			return jobentity.Job{}, mark.Wrap(err, DefaultErrorMark, "Failed to fetch job")
		}
	}

	return job, nil
}

// UpdateJob applies updater to the stored job and writes the result back
// only if nobody else changed the job in the meantime.
func (d DB) UpdateJob(ctx context.Context, jobID string, updater jobentity.JobUpdater) error {
	job, err := d.GetJob(ctx, jobID)
	if err != nil {
		return errors.Wrap(err, "Can't find the job")
	}

	updatedJob, err := updater(job)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "The updater failed to make changes to the job")
	}

	if updatedJob.ID != job.ID {
		return mark.Message(DefaultErrorMark, "The updater changed the job ID")
	}

	err = d.dynamoDB.Table(JobsTable).
		Put(updatedJob).
		If("$ = ?", "updated_at", job.UpdatedAt).
		RunWithContext(ctx)

	if err != nil {
		if dynamolib.ConditionalCheckFailed(err) {
			return mark.Wrap(err, JobConflict, "Job changed while it was being updated")
		}
		return mark.Wrap(err, DefaultErrorMark, "Failed to write the updated job")
	}

	return nil
}

func IsNotFound(err error) bool {
	return markers.Is(err, JobNotFound)
}
