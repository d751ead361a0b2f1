package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/veedubyou/separation-be/src/shared/config"
	"github.com/veedubyou/separation-be/src/shared/config/dev"
	"github.com/veedubyou/separation-be/src/shared/config/envvar"
	"github.com/veedubyou/separation-be/src/shared/config/local"
	"github.com/veedubyou/separation-be/src/shared/conversion"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
	"github.com/veedubyou/separation-be/src/shared/lib/env"
	"github.com/veedubyou/separation-be/src/shared/lib/logging"
	"github.com/veedubyou/separation-be/src/worker/application"
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
			RabbitMQURL:       envvar.MustGet(envvar.RABBITMQ_URL),
			RabbitMQQueueName: envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME),
			PublicBaseURL:     envvar.Get(envvar.PUBLIC_BASE_URL, ""),
			ModelDir:          envvar.MustGet(envvar.MODEL_DIR),
			ModelServiceURL:   envvar.Get(envvar.MODEL_SERVICE_URL, ""),
			Conversion:        conversionConfig,
		}

	case env.Development:
		fileStorage := dev.FileStorage()
		fileStorage.UploadDir = envvar.Get(envvar.UPLOAD_DIR, fileStorage.UploadDir)
		fileStorage.ConvertedDir = envvar.Get(envvar.CONVERTED_DIR, fileStorage.ConvertedDir)

		appConfig = application.Config{
			DynamoConfig:      dev.DynamoConfig,
			FileStorage:       fileStorage,
			RabbitMQURL:       dev.RabbitMQHost,
			RabbitMQQueueName: dev.RabbitMQQueueName,
			PublicBaseURL:     envvar.Get(envvar.PUBLIC_BASE_URL, ""),
			ModelDir:          envvar.Get(envvar.MODEL_DIR, dev.ModelDir()),
			ModelServiceURL:   envvar.Get(envvar.MODEL_SERVICE_URL, dev.ModelServiceURL),
			Conversion:        conversionConfig,
			CreateTables:      true,
		}

	default:
		panic("Unexpected environment")
	}

	app := application.NewApp(appConfig)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		log.WithField("signal", sig.String()).Info("Stopping worker")
		app.Stop()
	}()

	if err := app.Start(); err != nil {
		cerr.Log(err)
		panic(err)
	}
}
