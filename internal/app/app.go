package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/catalog-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/catalog-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/catalog-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/catalog-backend/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/catalog-backend/internal/repository/minio"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/catalog-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/catalog-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/closer"
	"github.com/DRSN-tech/catalog-backend/pkg/clients"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/postgres"
	"github.com/DRSN-tech/catalog-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	startupTimeout    = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	healthCheckPeriod = 10 * time.Second
	kafkaTopicTimeout = 10 * time.Second
)

// App — собранное приложение: серверы, фоновые воркеры и их порядок остановки.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	db           *postgres.PgDatabase
	httpSrv      *v1Http.Server
	grpcSrv      *v1Grpc.GRPCServer
	outboxWorker *kafka.OutboxWorker

	// bgCtx живёт до начала остановки: фоновые очистки MinIO, outbox и health-монитор.
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// NewApp подключается к внешним сервисам и собирает зависимости.
// Ресурсы регистрируются в closer по мере создания, поэтому при ошибке уже открытое закрывается.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}
	a.bgCtx, a.bgCancel = context.WithCancel(context.Background())

	if err := a.init(); err != nil {
		a.bgCancel()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if closeErr := a.closer.Close(ctx); closeErr != nil {
			log.Warnf("%v", closeErr)
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := initPGDB(ctx, a.logger, a.cfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.db = db
	a.closer.AddFunc("postgres", db.Close)

	txManager := tr.NewManager(db.Pool)

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverterImpl{})
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.CategoryConverterImpl{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverterImpl{})

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Minio)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Minio, a.logger, a.bgCtx)
	a.closer.Add("minio cleanup", imagesInfra.WaitForCleanup)

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })
	if err := redisClient.Ping(ctx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	// Общий для всех use case, которые инвалидируют кэш продуктов
	cacheRepo := usecase.NewCacheFence(
		redis.NewCacheRepo(redisClient, redisConv.ProductConverterImpl{}, a.cfg.Redis, a.logger),
	)

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })
	topicCtx, topicCancel := context.WithTimeout(context.Background(), kafkaTopicTimeout)
	defer topicCancel()
	if err := producer.EnsureTopic(topicCtx); err != nil {
		// Топик может создаваться брокером автоматически, поэтому не фатально.
		a.logger.Warnf("failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}

	a.outboxWorker = kafka.NewOutboxWorker(
		outboxRepo,
		a.logger,
		producer,
		db.Dsn,
		a.cfg.Kafka.OutboxBatchSize,
		a.cfg.Kafka.OutboxPollPeriod,
		a.cfg.Kafka.OutboxClaimTimeout,
	)

	opts := usecase.CatalogOptions{
		EnforcePriceRange:  a.cfg.Catalog.EnforcePriceRange,
		DefaultMaxProducts: a.cfg.Catalog.DefaultMaxProducts,
		MaxImportRows:      a.cfg.Catalog.MaxImportRows,
	}

	productUC := usecase.NewProductUC(
		productRepo,
		categoryRepo,
		outboxRepo,
		cacheRepo,
		imagesInfra,
		txManager,
		a.logger,
		opts,
	)
	categoryUC := usecase.NewCategoryUC(categoryRepo, productRepo, txManager, a.logger)
	generatorUC := usecase.NewGeneratorUC(
		domain.NewGenerator(nil),
		productRepo,
		categoryRepo,
		outboxRepo,
		cacheRepo,
		txManager,
		a.logger,
		a.cfg.Catalog.DefaultMaxProducts,
	)

	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)
	a.grpcSrv.RegisterServices(productUC)

	router := v1Http.NewRouter(chi.NewRouter(), a.logger)
	handler := router.Init(v1Http.Deps{
		ProductUC:   productUC,
		CategoryUC:  categoryUC,
		GeneratorUC: generatorUC,
		DB:          db,
		Limits: v1Http.UploadLimits{
			MaxImportSize: a.cfg.Catalog.MaxImportSize,
			MaxImageSize:  a.cfg.Minio.MaxImageSize,
		},
		CORSOrigins: a.cfg.Http.CORSOrigins,
	})
	a.httpSrv = v1Http.NewServer(handler, a.cfg.Http)

	return nil
}

// Run запускает серверы и воркеры и блокируется до сигнала остановки или фатальной ошибки сервера.
func (a *App) Run() error {
	a.outboxWorker.Start(a.bgCtx)
	a.closer.Add("outbox worker", a.outboxWorker.Stop)

	go a.grpcSrv.WatchDatabase(a.bgCtx, a.db, healthCheckPeriod)

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			grpcErrCh <- err
		}
	}()
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()
	a.closer.Add("http server", a.httpSrv.Stop)

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case sig := <-shutdown:
		a.logger.Infof("Received %s, stopping gracefully...", sig)
	}

	// === Graceful shutdown ===
	// Серверы останавливаются первыми (LIFO), затем воркеры, затем клиенты хранилищ.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("%v", err)
	}
	a.bgCancel()

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger, postgres.DefaultMigrationsURL); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
