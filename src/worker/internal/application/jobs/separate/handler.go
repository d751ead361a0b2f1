package separate

import (
	"context"
	"time"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/veedubyou/separation-be/src/shared/audio"
	"github.com/veedubyou/separation-be/src/shared/conversion"
	"github.com/veedubyou/separation-be/src/shared/filestore"
	"github.com/veedubyou/separation-be/src/shared/job/entity"
	"github.com/veedubyou/separation-be/src/shared/job/message"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
)

const JobType = message.SeparateJobType

const (
	UndecodableMessage = "The uploaded file could not be decoded as audio"
	ErrorMessage       = "Failed to separate the uploaded audio"
)

func NewJobHandler(jobStore jobentity.Store, uploads filestore.FileStore, converter conversion.Converter) JobHandler {
	return JobHandler{
		jobStore:  jobStore,
		uploads:   uploads,
		converter: converter,
		now:       time.Now,
	}
}

type JobHandler struct {
	jobStore  jobentity.Store
	uploads   filestore.FileStore
	converter conversion.Converter
	now       func() time.Time
}

// HandleSeparateJob takes a queued job through processing to done or error.
// Jobs that already finished are acknowledged without doing any work, and a
// job left in processing by an interrupted delivery is picked up again.
func (h JobHandler) HandleSeparateJob(body []byte) error {
	ctx := context.Background()

	params, err := message.ParseSeparateJob(body)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to parse message")
	}

	errCtx := cerr.Field("job_id", params.JobID)
	logger := log.WithField("job_id", params.JobID)

	job, err := h.jobStore.GetJob(ctx, params.JobID)
	if err != nil {
		return errCtx.Wrap(err).Error("Failed to get job")
	}

	if job.Finished() {
		logger.WithField("status", job.Status).Info("Job already finished, skipping")
		return nil
	}

	if job.Status == jobentity.StatusProcessing {
		logger.Info("Job was interrupted while processing, resuming")
	} else {
		err = h.jobStore.UpdateJob(ctx, job.ID, func(stored jobentity.Job) (jobentity.Job, error) {
			return stored.Start(h.now())
		})
		if err != nil {
			h.fail(ctx, job, ErrorMessage)
			return errCtx.Wrap(err).Error("Failed to start job")
		}
	}

	resultURL, err := h.separate(ctx, job)
	if err != nil {
		h.fail(ctx, job, userMessage(err))
		return errCtx.Wrap(err).Error("Failed to separate job")
	}

	err = h.jobStore.UpdateJob(ctx, job.ID, func(stored jobentity.Job) (jobentity.Job, error) {
		return stored.Complete(resultURL, h.now())
	})
	if err != nil {
		h.fail(ctx, job, ErrorMessage)
		return errCtx.Wrap(err).Error("Failed to complete job")
	}

	logger.WithField("result_url", resultURL).Info("Job done")
	return nil
}

func (h JobHandler) separate(ctx context.Context, job jobentity.Job) (string, error) {
	data, err := h.uploads.GetFile(ctx, job.UploadKey)
	if err != nil {
		return "", errors.Wrap(err, "Failed to read upload")
	}

	resultURL, err := h.converter.Convert(ctx, job.UploadKey, data)
	if err != nil {
		return "", err
	}

	if err := h.uploads.DeleteFile(ctx, job.UploadKey); err != nil {
		log.WithField("key", job.UploadKey).WithError(err).Warn("Failed to remove processed upload")
	}

	return resultURL, nil
}

func (h JobHandler) fail(ctx context.Context, job jobentity.Job, reason string) {
	err := h.jobStore.UpdateJob(ctx, job.ID, func(stored jobentity.Job) (jobentity.Job, error) {
		return stored.Fail(reason, h.now())
	})

	if err != nil {
		cerr.Log(cerr.Field("job_id", job.ID).Wrap(err).Error("Failed to mark job as errored"))
	}
}

func userMessage(err error) string {
	if markers.Is(err, audio.ErrUndecodable) || markers.Is(err, audio.ErrUnsupportedFormat) {
		return UndecodableMessage
	}

	return ErrorMessage
}
