package dev

import (
	"github.com/veedubyou/separation-be/src/shared/config"
	"github.com/veedubyou/separation-be/src/shared/config/local"
)

// DynamoDB
const (
	DynamoAccessKeyID     = "local"
	DynamoSecretAccessKey = "local"
	DynamoDBHost          = "http://localhost:8000"
	DynamoDBRegion        = "localhost"
)

var DynamoConfig = config.LocalDynamo{
	AccessKeyID:     DynamoAccessKeyID,
	SecretAccessKey: DynamoSecretAccessKey,
	Region:          DynamoDBRegion,
	Host:            DynamoDBHost,
}

// RabbitMQ
const (
	RabbitMQHost      = "amqp://localhost:5672"
	RabbitMQQueueName = "separation-jobs-dev"
)

// Model runtime
const (
	ModelServiceURL = "http://localhost:8501"
)

func FileStorage() config.LocalFileStorage {
	return config.LocalFileStorage{
		UploadDir:    local.Path("uploads"),
		ConvertedDir: local.Path("converted"),
	}
}

func ModelDir() string {
	return local.Path("model")
}
