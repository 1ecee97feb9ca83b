package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/config"
	pagerepo "github.com/Ramsey-B/fern/internal/repositories/page"
	pageservice "github.com/Ramsey-B/fern/internal/services/page"
	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/blocks"
	"github.com/Ramsey-B/fern/pkg/connections"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/loader"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/operators/builtin"
	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/requests"
	"github.com/Ramsey-B/fern/pkg/routes"
	"github.com/Ramsey-B/fern/pkg/snapshot"
	"github.com/Ramsey-B/fern/pkg/startup"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/tracing/exporters"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the app's pages over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg)
		},
	}
}

// backends are the optional infrastructure clients, set by the startup dependencies that are enabled.
type backends struct {
	db       database.DB
	redis    *redis.Client
	producer *events.Producer
	// publisher receives action events when no producer started
	publisher events.Publisher
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger, flush, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer flush()

	if cfg.TracingEnabled {
		exporter, err := exporters.New(ctx, exporters.Config{
			Kind:     cfg.TracingExporter,
			Endpoint: cfg.TracingEndpoint,
			Insecure: cfg.TracingInsecure,
			Headers:  exporters.ParseHeaders(cfg.TracingHeaders),
			Timeout:  cfg.TracingTimeout,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to create span exporter: %w", err)
		}
		provider := tracing.Setup(cfg.AppName, exporter)
		defer func() { _ = provider.Shutdown(context.Background()) }()
	}

	app, err := loadApp(cfg.AppFile)
	if err != nil {
		return err
	}

	deps := &backends{}
	starter := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	for _, dependency := range dependencies(cfg, logger, deps) {
		starter.AddDependency(dependency)
	}
	if err := starter.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = starter.Stop(context.Background()) }()

	service, pool, err := newService(cfg, logger, app, deps)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        newServer(cfg, logger, service),
		ReadTimeout:    time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:    time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	errs := make(chan error, 1)
	go func() {
		logger.WithFields(map[string]any{"port": cfg.Port, "pages": len(app.Pages)}).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// dependencies returns the startup dependencies of the enabled backends. Each one fills its field of deps.
func dependencies(cfg config.Config, logger ectologger.Logger, deps *backends) []startup.StartupDependency {
	var list []startup.StartupDependency

	if cfg.DatabaseEnabled {
		dbConfig := database.Config{
			Host:            cfg.DatabaseHost,
			Port:            cfg.DatabasePort,
			User:            cfg.DatabaseUserName,
			Password:        cfg.DatabasePassword,
			Name:            cfg.DatabaseName,
			SSLMode:         cfg.DatabaseSSLMode,
			MaxOpenConns:    cfg.DatabaseMaxOpenConns,
			MaxIdleConns:    cfg.DatabaseMaxIdleConns,
			ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
		}
		migrations := database.NewMigrationService(logger, database.MigrationConfig{
			MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
			Version:             uint(cfg.DatabaseMigrationVersion),
			Force:               cfg.DatabaseMigrationForce,
			AutoRollback:        cfg.DatabaseMigrationAutoRollback,
		})

		list = append(list, startup.Dependency{
			Name: "postgres",
			OnStart: func(ctx context.Context) error {
				db, err := database.Open(ctx, dbConfig.DSN(), dbConfig, logger)
				if err != nil {
					return err
				}
				if err := migrations.MigratePostgres(db); err != nil {
					_ = db.Close()
					return err
				}
				deps.db = db
				return nil
			},
			OnStop: func(context.Context) error {
				return deps.db.Close()
			},
		})
	}

	if cfg.RedisEnabled {
		list = append(list, startup.Dependency{
			Name: "redis",
			OnStart: func(ctx context.Context) error {
				client, err := redis.NewClient(ctx, redis.Config{
					Host:     cfg.RedisHost,
					Port:     cfg.RedisPort,
					Password: cfg.RedisPassword,
					DB:       cfg.RedisDB,
				}, logger)
				if err != nil {
					return err
				}
				deps.redis = client
				return nil
			},
			OnStop: func(context.Context) error {
				return deps.redis.Close()
			},
		})
	}

	if cfg.KafkaEnabled {
		list = append(list, startup.Dependency{
			Name: "kafka",
			OnStart: func(ctx context.Context) error {
				producerConfig := events.DefaultProducerConfig()
				producerConfig.Brokers = cfg.KafkaBrokers
				producerConfig.Topic = cfg.KafkaEventsTopic
				producerConfig.BatchSize = cfg.KafkaBatchSize
				producerConfig.BatchTimeout = time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond
				producerConfig.RequiredAcks = cfg.KafkaRequiredAcks
				producerConfig.Compression = cfg.KafkaCompression

				producer, err := events.NewProducer(producerConfig, logger)
				if err != nil {
					return err
				}
				deps.producer = producer
				return nil
			},
			OnStop: func(context.Context) error {
				return deps.producer.Close()
			},
		})
	}

	return list
}

// newService builds the engine over whatever backends started. Missing backends fall back to memory.
func newService(cfg config.Config, logger ectologger.Logger, app models.AppDefinition, deps *backends) (*pageservice.Service, *connections.Pool, error) {
	operatorRegistry := builtin.NewRegistry()

	var producer events.RawPublisher
	var publisher events.Publisher = events.NoopPublisher{}
	if deps.publisher != nil {
		publisher = deps.publisher
	}
	if deps.producer != nil {
		producer = deps.producer
		publisher = events.NewKafkaPublisher(deps.producer, cfg.KafkaEventsTopic, logger)
	}
	actionRegistry := actions.DefaultRegistry(producer)

	if err := loader.Check(app, operatorRegistry, actionRegistry); err != nil {
		return nil, nil, err
	}

	pool := connections.NewPool(app.Connections, connections.NetworkDialer{Logger: logger}, logger)

	var repo pagerepo.PageRepository
	if deps.db != nil {
		repo = pagerepo.NewRepository(deps.db, logger)
	}

	var store snapshot.Store = snapshot.NewMemoryStore()
	if deps.redis != nil {
		store = snapshot.NewRedisStore(deps.redis, time.Duration(cfg.SnapshotTTLSeconds)*time.Second, logger)
	}

	service := pageservice.NewService(logger, repo, app, pageservice.Engine{
		Operators: operatorRegistry,
		Actions:   actionRegistry,
		Requests:  requests.NewRunner(operatorRegistry, connections.DefaultRegistry(), pool, logger),
		Global:    blocks.NewGlobal(app.Global),
		Publisher: publisher,
	}, store)

	return service, pool, nil
}

func newServer(cfg config.Config, logger ectologger.Logger, service *pageservice.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomiddleware.Recover())
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	routes.Register(e, service)
	return e
}
