package envvar

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	PORT                             = "PORT"
	ALLOWED_FE_ORIGINS               = "ALLOWED_FE_ORIGINS"
	PUBLIC_BASE_URL                  = "PUBLIC_BASE_URL"
	UPLOAD_DIR                       = "UPLOAD_DIR"
	CONVERTED_DIR                    = "CONVERTED_DIR"
	MODEL_DIR                        = "MODEL_DIR"
	MODEL_SERVICE_URL                = "MODEL_SERVICE_URL"
	SEPARATION_METHOD                = "SEPARATION_METHOD"
	SOURCE_INDEX                     = "SOURCE_INDEX"
	FILE_TTL                         = "FILE_TTL"
	JANITOR_INTERVAL                 = "JANITOR_INTERVAL"
	AWS_ACCESS_KEY_ID                = "AWS_ACCESS_KEY_ID"
	AWS_SECRET_ACCESS_KEY            = "AWS_SECRET_ACCESS_KEY"
	DYNAMODB_REGION                  = "DYNAMODB_REGION"
	RABBITMQ_URL                     = "RABBITMQ_URL"
	RABBITMQ_QUEUE_NAME              = "RABBITMQ_QUEUE_NAME"
	GOOGLE_CLOUD_KEY                 = "GOOGLE_CLOUD_KEY"
	GOOGLE_CLOUD_STORAGE_BUCKET_NAME = "GOOGLE_CLOUD_STORAGE_BUCKET_NAME"
)

func MustGet(key string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet {
		panic(fmt.Sprintf("No env variable found for key %s", key))
	}

	if val == "" {
		panic(fmt.Sprintf("Env variable is empty for key %s", key))
	}

	return val
}

func Get(key string, fallback string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet || val == "" {
		return fallback
	}

	return val
}

func GetInt(key string, fallback int) int {
	val := Get(key, "")
	if val == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		panic(fmt.Sprintf("Env variable %s is not an integer: %s", key, val))
	}

	return parsed
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	val := Get(key, "")
	if val == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(val)
	if err != nil {
		panic(fmt.Sprintf("Env variable %s is not a duration: %s", key, val))
	}

	return parsed
}
