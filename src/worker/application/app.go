package application

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/separation-be/src/shared/config"
	"github.com/veedubyou/separation-be/src/shared/conversion"
	"github.com/veedubyou/separation-be/src/shared/filestore"
	"github.com/veedubyou/separation-be/src/shared/job/entity"
	"github.com/veedubyou/separation-be/src/shared/job/storage"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
	"github.com/veedubyou/separation-be/src/shared/lib/dynamo"
	"github.com/veedubyou/separation-be/src/shared/separation/chimera"
	"github.com/veedubyou/separation-be/src/worker/internal/application/jobs/router"
	"github.com/veedubyou/separation-be/src/worker/internal/application/jobs/separate"
	"github.com/veedubyou/separation-be/src/worker/internal/application/worker"
)

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}

type App struct {
	worker *worker.QueueWorker
}

type Config struct {
	RabbitMQURL       string
	RabbitMQQueueName string
	DynamoConfig      config.Dynamo
	FileStorage       config.FileStorage
	PublicBaseURL     string
	ModelDir          string
	ModelServiceURL   string
	Conversion        conversion.Config
	CreateTables      bool
}

type Dependencies struct {
	Model     chimera.Model
	JobStore  jobentity.Store
	Uploads   filestore.FileStore
	Converted filestore.FileStore
	Channel   worker.MessageChannel
}

func NewApp(config Config) App {
	model := must(conversion.LoadModel(config.ModelDir, config.ModelServiceURL, config.Conversion))
	config.Conversion.NumSources = model.NumSources()

	uploads, converted, err := filestore.FromConfig(config.FileStorage)
	if err != nil {
		panic(err)
	}

	jobDB := jobstorage.NewDB(dynamolib.Connect(config.DynamoConfig))
	if config.CreateTables {
		if err := jobDB.EnsureTable(context.Background()); err != nil {
			panic(err)
		}
	}

	consumerConn := must(amqp091.Dial(config.RabbitMQURL))
	router := newJobRouter(config, jobDB, uploads, converted, model)
	queueWorker := must(worker.NewQueueWorkerFromConnection(consumerConn, config.RabbitMQQueueName, router))

	return App{
		worker: queueWorker,
	}
}

func NewAppWithDependencies(config Config, deps Dependencies) App {
	router := newJobRouter(config, deps.JobStore, deps.Uploads, deps.Converted, deps.Model)

	return App{
		worker: worker.NewQueueWorker(deps.Channel, config.RabbitMQQueueName, router),
	}
}

func (a *App) Start() error {
	err := a.worker.Start()
	if err != nil {
		return cerr.Wrap(err).Error("Failed to start worker")
	}

	return nil
}

func (a *App) Stop() {
	a.worker.Stop()
}

func newJobRouter(config Config, jobStore jobentity.Store, uploads filestore.FileStore, converted filestore.FileStore, model chimera.Model) jobrouter.JobRouter {
	pipeline := must(conversion.NewPipeline(model, config.Conversion))
	converter := conversion.NewConverter(pipeline, converted, conversion.URLBuilder{BaseURL: config.PublicBaseURL})

	separateHandler := separate.NewJobHandler(jobStore, uploads, converter)

	router := jobrouter.NewJobRouter()
	router.Handle(separate.JobType, separateHandler.HandleSeparateJob)
	return router
}
