package joberrors

import (
	"github.com/veedubyou/separation-be/src/server/internal/errors/api"
)

const (
	JobNotFoundCode = api.ErrorCode("job_not_found")
)
