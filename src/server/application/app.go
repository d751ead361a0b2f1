package application

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/veedubyou/separation-be/src/server/internal/convert/gateway"
	"github.com/veedubyou/separation-be/src/server/internal/convert/usecase"
	"github.com/veedubyou/separation-be/src/server/internal/job/gateway"
	"github.com/veedubyou/separation-be/src/server/internal/job/usecase"
	"github.com/veedubyou/separation-be/src/shared/config"
	"github.com/veedubyou/separation-be/src/shared/conversion"
	"github.com/veedubyou/separation-be/src/shared/filestore"
	"github.com/veedubyou/separation-be/src/shared/janitor"
	"github.com/veedubyou/separation-be/src/shared/job/entity"
	"github.com/veedubyou/separation-be/src/shared/job/storage"
	"github.com/veedubyou/separation-be/src/shared/lib/dynamo"
	"github.com/veedubyou/separation-be/src/shared/lib/rabbitmq"
	"github.com/veedubyou/separation-be/src/shared/separation/chimera"
)

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	DELETE HTTPMethod = "DELETE"
)

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}

type App struct {
	echo          *echo.Echo
	port          string
	janitor       janitor.Janitor
	stopJanitor   context.CancelFunc
	janitorCtx    context.Context
	janitorActive bool
}

type Config struct {
	DynamoConfig       config.Dynamo
	FileStorage        config.FileStorage
	RabbitMQURL        string
	RabbitMQQueueName  string
	CORSAllowedOrigins []string
	PublicBaseURL      string
	ModelDir           string
	ModelServiceURL    string
	Conversion         conversion.Config
	FileTTL            time.Duration
	JanitorInterval    time.Duration
	Port               string
	Log                bool
	CreateTables       bool
}

// Dependencies are the collaborators the routes are built on. NewApp
// connects to the real ones; tests pass in dummies.
type Dependencies struct {
	Model     chimera.Model
	JobStore  jobentity.Store
	Uploads   filestore.FileStore
	Converted filestore.FileStore
	Publisher rabbitmq.Publisher
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

	publisher := must(rabbitmq.NewQueuePublisher(config.RabbitMQURL, config.RabbitMQQueueName))

	return NewAppWithDependencies(config, Dependencies{
		Model:     model,
		JobStore:  jobDB,
		Uploads:   uploads,
		Converted: converted,
		Publisher: publisher,
	})
}

func NewAppWithDependencies(config Config, deps Dependencies) App {
	e := echo.New()
	e.HideBanner = true

	if config.Log {
		e.Use(middleware.Logger())
	}

	corsMiddleware := makeCorsMiddleware(config)

	handleRoute := func(method HTTPMethod, path string, handlerFunc echo.HandlerFunc) {
		params := func() (string, echo.HandlerFunc, echo.MiddlewareFunc) {
			return path, handlerFunc, corsMiddleware
		}

		e.OPTIONS(params())

		switch method {
		case GET:
			e.GET(params())
		case POST:
			e.POST(params())
		case PUT:
			e.PUT(params())
		case DELETE:
			e.DELETE(params())
		default:
			panic("unhandled http method!")
		}
	}

	pipeline := must(conversion.NewPipeline(deps.Model, config.Conversion))
	converter := conversion.NewConverter(pipeline, deps.Converted, conversion.URLBuilder{BaseURL: config.PublicBaseURL})

	convertGateway := makeConvertGateway(converter, deps)
	jobGateway := makeJobGateway(deps)

	// health check
	handleRoute(GET, "/health-check", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// conversion routes
	handleRoute(POST, "/api/v1/convert", convertGateway.Convert)
	handleRoute(GET, "/api/v1/converted/:filename", func(c echo.Context) error {
		filename, err := url.PathUnescape(c.Param("filename"))
		if err != nil {
			filename = c.Param("filename")
		}
		return convertGateway.GetConverted(c, filename)
	})

	// job routes
	handleRoute(POST, "/api/v1/jobs", jobGateway.CreateJob)
	handleRoute(GET, "/api/v1/jobs/:id", func(c echo.Context) error {
		jobID := c.Param("id")
		return jobGateway.GetJob(c, jobID)
	})

	janitorCtx, stopJanitor := context.WithCancel(context.Background())

	return App{
		echo:          e,
		port:          config.Port,
		janitor:       janitor.NewJanitor(config.FileTTL, config.JanitorInterval, deps.Uploads, deps.Converted),
		janitorCtx:    janitorCtx,
		stopJanitor:   stopJanitor,
		janitorActive: config.FileTTL > 0 && config.JanitorInterval > 0,
	}
}

func (a *App) Handler() http.Handler {
	return a.echo
}

func (a *App) Start() error {
	if a.janitorActive {
		go a.janitor.Run(a.janitorCtx)
	}

	err := a.echo.Start(a.port)
	if err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "Couldn't start echo server")
	}

	return nil
}

func (a *App) Stop() error {
	a.stopJanitor()

	err := a.echo.Close()
	if err != nil {
		return errors.Wrap(err, "Failed to stop echo server")
	}

	return nil
}

func makeConvertGateway(converter conversion.Converter, deps Dependencies) convertgateway.Gateway {
	convertUsecase := convertusecase.NewUsecase(converter, deps.Uploads, deps.Converted)
	return convertgateway.NewGateway(convertUsecase)
}

func makeJobGateway(deps Dependencies) jobgateway.Gateway {
	jobUsecase := jobusecase.NewUsecase(deps.JobStore, deps.Uploads, deps.Publisher)
	return jobgateway.NewGateway(jobUsecase)
}

func makeCorsMiddleware(config Config) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: config.CORSAllowedOrigins,
		AllowHeaders: []string{echo.HeaderContentType},
	})
}
