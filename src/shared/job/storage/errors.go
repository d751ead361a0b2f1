package jobstorage

import "github.com/cockroachdb/errors"

var (
	JobNotFound      = errors.New("job not found")
	JobAlreadyExists = errors.New("job already exists")
	JobConflict      = errors.New("job was modified concurrently")
	IDEmptyMark      = errors.New("job ID is empty")
	DefaultErrorMark = errors.New("job storage failed")
)
