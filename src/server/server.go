package main

import (
	"strings"
	"time"

	"github.com/veedubyou/separation-be/src/server/application"
	"github.com/veedubyou/separation-be/src/shared/config"
	"github.com/veedubyou/separation-be/src/shared/config/dev"
	"github.com/veedubyou/separation-be/src/shared/config/envvar"
	"github.com/veedubyou/separation-be/src/shared/config/local"
	"github.com/veedubyou/separation-be/src/shared/conversion"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
	"github.com/veedubyou/separation-be/src/shared/lib/env"
	"github.com/veedubyou/separation-be/src/shared/lib/logging"
)

const (
	defaultFileTTL         = time.Hour
	defaultJanitorInterval = 10 * time.Minute
)

func main() {
	environment := env.Get()
	logging.Setup(environment)

	if environment == env.Development {
		if err := env.LoadDotEnv(local.Path(".env")); err != nil {
			panic(err)
		}
	}

	conversionConfig, err := conversion.ConfigFromEnv()
	if err != nil {
		panic(err)
	}

	var appConfig application.Config

	switch environment {
	case env.Production:
		commaSeparatedOrigins := envvar.MustGet(envvar.ALLOWED_FE_ORIGINS)
		allowedOrigins := strings.Split(commaSeparatedOrigins, ",")

		appConfig = application.Config{
			DynamoConfig: config.ProdDynamo{
				AccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
				SecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
				Region:          envvar.MustGet(envvar.DYNAMODB_REGION),
			},
			FileStorage: config.GoogleFileStorage{
				SecretKey:       envvar.MustGet(envvar.GOOGLE_CLOUD_KEY),
				BucketName:      envvar.MustGet(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME),
				UploadPrefix:    "uploads/",
				ConvertedPrefix: "converted/",
			},
			RabbitMQURL:        envvar.MustGet(envvar.RABBITMQ_URL),
			RabbitMQQueueName:  envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME),
			CORSAllowedOrigins: allowedOrigins,
			PublicBaseURL:      envvar.Get(envvar.PUBLIC_BASE_URL, ""),
			ModelDir:           envvar.MustGet(envvar.MODEL_DIR),
			ModelServiceURL:    envvar.Get(envvar.MODEL_SERVICE_URL, ""),
			Conversion:         conversionConfig,
			Port:               ":" + envvar.Get(envvar.PORT, "5000"),
			Log:                true,
		}

	case env.Development:
		fileStorage := dev.FileStorage()
		fileStorage.UploadDir = envvar.Get(envvar.UPLOAD_DIR, fileStorage.UploadDir)
		fileStorage.ConvertedDir = envvar.Get(envvar.CONVERTED_DIR, fileStorage.ConvertedDir)

		appConfig = application.Config{
			DynamoConfig:       dev.DynamoConfig,
			FileStorage:        fileStorage,
			RabbitMQURL:        dev.RabbitMQHost,
			RabbitMQQueueName:  dev.RabbitMQQueueName,
			CORSAllowedOrigins: []string{"*"},
			PublicBaseURL:      envvar.Get(envvar.PUBLIC_BASE_URL, ""),
			ModelDir:           envvar.Get(envvar.MODEL_DIR, dev.ModelDir()),
			ModelServiceURL:    envvar.Get(envvar.MODEL_SERVICE_URL, dev.ModelServiceURL),
			Conversion:         conversionConfig,
			Port:               ":" + envvar.Get(envvar.PORT, "5000"),
			Log:                true,
			CreateTables:       true,
		}

	default:
		panic("Unexpected environment")
	}

	appConfig.FileTTL = envvar.GetDuration(envvar.FILE_TTL, defaultFileTTL)
	appConfig.JanitorInterval = envvar.GetDuration(envvar.JANITOR_INTERVAL, defaultJanitorInterval)

	app := application.NewApp(appConfig)
	if err := app.Start(); err != nil {
		cerr.Log(err)
		panic(err)
	}
}
