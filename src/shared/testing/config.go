package testing

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	server_app "github.com/veedubyou/separation-be/src/server/application"
	"github.com/veedubyou/separation-be/src/shared/config"
	"github.com/veedubyou/separation-be/src/shared/config/dev"
	"github.com/veedubyou/separation-be/src/shared/conversion"
	"github.com/veedubyou/separation-be/src/shared/lib/env"
	worker_app "github.com/veedubyou/separation-be/src/worker/application"
)

const integrationEnvVar = "INTEGRATION_TESTS"

// UseTestEnvironment sets ENVIRONMENT=test for the rest of the suite.
func UseTestEnvironment() {
	previous, wasSet := os.LookupEnv("ENVIRONMENT")
	_ = os.Setenv("ENVIRONMENT", string(env.Test))

	DeferCleanup(func() {
		if wasSet {
			_ = os.Setenv("ENVIRONMENT", previous)
		} else {
			_ = os.Unsetenv("ENVIRONMENT")
		}
	})
}

// RequireIntegration skips unless local DynamoDB and RabbitMQ are up and
// INTEGRATION_TESTS is set.
func RequireIntegration() {
	if os.Getenv(integrationEnvVar) == "" {
		Skip("set " + integrationEnvVar + " to run against local DynamoDB and RabbitMQ")
	}
}

func ServerConfig() server_app.Config {
	return server_app.Config{
		DynamoConfig:       DynamoConfig(),
		RabbitMQURL:        RabbitMQHost,
		RabbitMQQueueName:  RabbitMQQueueName,
		CORSAllowedOrigins: []string{"*"},
		Conversion:         conversion.DefaultConfig(),
		Port:               ServerPort,
		Log:                false,
	}
}

func WorkerConfig() worker_app.Config {
	return worker_app.Config{
		DynamoConfig:      DynamoConfig(),
		RabbitMQURL:       RabbitMQHost,
		RabbitMQQueueName: RabbitMQQueueName,
		Conversion:        conversion.DefaultConfig(),
	}
}

// DynamoDB
const (
	DynamoAccessKeyID     = dev.DynamoAccessKeyID
	DynamoSecretAccessKey = dev.DynamoSecretAccessKey
	DynamoDBHost          = dev.DynamoDBHost
	DynamoDBRegion        = "separation_test"
)

func DynamoConfig() config.LocalDynamo {
	return config.LocalDynamo{
		AccessKeyID:     DynamoAccessKeyID,
		SecretAccessKey: DynamoSecretAccessKey,
		Region:          DynamoDBRegion,
		Host:            DynamoDBHost,
	}
}

// RabbitMQ
const (
	RabbitMQHost      = dev.RabbitMQHost
	RabbitMQQueueName = "separation-jobs-test"
)

// Server
const (
	ServerPort = ":5010"
)

func ServerEndpoint(path string) string {
	return "http://localhost" + ServerPort + path
}
