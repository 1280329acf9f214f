// Package server initializes and runs the filevault server. It wires the
// database, token store, blob storage and job queue together, starts the
// HTTP endpoint and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/api"
	"github.com/dmitrijs2005/filevault/internal/server/blob"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/queue"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/services"
	"github.com/dmitrijs2005/filevault/internal/server/tokenstore"
)

type App struct {
	config *config.Config
	logger logging.Logger
}

func NewApp(c *config.Config) (*App, error) {
	return &App{config: c, logger: logging.NewDefault()}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) newBlobStorage(ctx context.Context) (blob.Storage, error) {
	switch app.config.BlobBackend {
	case config.BlobBackendS3:
		return blob.NewS3Storage(ctx, blob.S3Config{
			RootUser:     app.config.S3RootUser,
			RootPassword: app.config.S3RootPassword,
			Bucket:       app.config.S3Bucket,
			Region:       app.config.S3Region,
			BaseEndpoint: app.config.S3BaseEndpoint,
		})
	default:
		return blob.NewDiskStorage(app.config.FolderPath), nil
	}
}

// newQueuePublisher connects to NATS when a URL is configured. The queue is
// best-effort, so an unreachable broker only disables background jobs.
func (app *App) newQueuePublisher(ctx context.Context) queue.Publisher {
	if app.config.NatsURL == "" {
		return queue.NopPublisher{}
	}

	p, err := queue.NewNatsPublisher(ctx, app.config.NatsURL)
	if err != nil {
		app.logger.Warn(ctx, "queue unavailable, background jobs disabled", "err", err.Error())
		return queue.NopPublisher{}
	}
	return p
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	db, err := sql.Open("pgx", app.config.DatabaseDSN)
	if err != nil {
		app.logger.Error(ctx, "db init error", "err", err.Error())
		return
	}
	defer db.Close()

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		app.logger.Error(ctx, "migration error", "err", err.Error())
		return
	}

	redisClient := redis.NewClient(&redis.Options{Addr: app.config.RedisAddr})
	defer redisClient.Close()
	tokens := tokenstore.NewRedisStore(redisClient)

	q := app.newQueuePublisher(ctx)
	defer q.Close()

	blobs, err := app.newBlobStorage(ctx)
	if err != nil {
		app.logger.Error(ctx, "blob storage init error", "err", err.Error())
		return
	}

	sessionService := services.NewSessionService(db, repos, tokens, q, app.logger, app.config.TokenValidityDuration)
	fileService := services.NewFileService(db, repos, blobs, q, app.logger)
	appService := services.NewAppService(db, repos, tokens)

	srv := api.NewHTTPServer(app.config.EndpointAddr, app.logger, sessionService, fileService, appService)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
