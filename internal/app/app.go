// Package app wires configuration into the store's usecases and transports.
// Every binary under cmd/ builds its dependencies through New.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-community-store/config"
	"github.com/fekuna/omnipos-community-store/internal/branch"
	branchH "github.com/fekuna/omnipos-community-store/internal/branch/handler"
	branchRepo "github.com/fekuna/omnipos-community-store/internal/branch/repository"
	branchUC "github.com/fekuna/omnipos-community-store/internal/branch/usecase"
	"github.com/fekuna/omnipos-community-store/internal/catalog"
	catalogH "github.com/fekuna/omnipos-community-store/internal/catalog/handler"
	catalogRepo "github.com/fekuna/omnipos-community-store/internal/catalog/repository"
	catalogUC "github.com/fekuna/omnipos-community-store/internal/catalog/usecase"
	"github.com/fekuna/omnipos-community-store/internal/credit"
	creditH "github.com/fekuna/omnipos-community-store/internal/credit/handler"
	creditRepo "github.com/fekuna/omnipos-community-store/internal/credit/repository"
	creditUC "github.com/fekuna/omnipos-community-store/internal/credit/usecase"
	"github.com/fekuna/omnipos-community-store/internal/httpapi"
	"github.com/fekuna/omnipos-community-store/internal/locker"
	"github.com/fekuna/omnipos-community-store/internal/member"
	memberH "github.com/fekuna/omnipos-community-store/internal/member/handler"
	memberRepo "github.com/fekuna/omnipos-community-store/internal/member/repository"
	memberUC "github.com/fekuna/omnipos-community-store/internal/member/usecase"
	"github.com/fekuna/omnipos-community-store/internal/metrics"
	"github.com/fekuna/omnipos-community-store/internal/ration"
	rationH "github.com/fekuna/omnipos-community-store/internal/ration/handler"
	rationRepo "github.com/fekuna/omnipos-community-store/internal/ration/repository"
	rationUC "github.com/fekuna/omnipos-community-store/internal/ration/usecase"
	"github.com/fekuna/omnipos-community-store/internal/rpc"
	"github.com/fekuna/omnipos-community-store/internal/schema"
	"github.com/fekuna/omnipos-community-store/internal/transaction"
	txH "github.com/fekuna/omnipos-community-store/internal/transaction/handler"
	txListener "github.com/fekuna/omnipos-community-store/internal/transaction/listener"
	txPublisher "github.com/fekuna/omnipos-community-store/internal/transaction/publisher"
	txRepo "github.com/fekuna/omnipos-community-store/internal/transaction/repository"
	txUC "github.com/fekuna/omnipos-community-store/internal/transaction/usecase"
	"github.com/fekuna/omnipos-community-store/internal/txmanager"
	"github.com/fekuna/omnipos-community-store/pkg/broker"
	"github.com/fekuna/omnipos-community-store/pkg/cache"
	"github.com/fekuna/omnipos-community-store/pkg/database/postgres"
	"github.com/fekuna/omnipos-community-store/pkg/database/sqlite"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	Logger logger.ZapLogger
	DB     *sqlx.DB

	Members      member.UseCase
	Items        catalog.UseCase
	Branches     branch.UseCase
	Rations      ration.UseCase
	Credits      credit.UseCase
	Transactions transaction.UseCase

	registry *prometheus.Registry
	closers  []func() error
}

// NewLogger builds the zap logger from config. Development environments get
// console output at debug level regardless of the LOGGER_* settings.
func NewLogger(cfg *config.Config) logger.ZapLogger {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	return logger.NewZapLogger(logConfig)
}

// New opens the database, migrates it, and builds every usecase. Optional
// infrastructure (Redis, Kafka) is connected only when enabled. Close releases
// whatever was opened, including on a partial failure.
func New(ctx context.Context, cfg *config.Config, log logger.ZapLogger) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   log,
		registry: prometheus.NewRegistry(),
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)
	log.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if err := schema.Migrate(ctx, db); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, redisClient.Close)
		log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	var lock locker.Locker
	switch cfg.Lock.Backend {
	case "redis":
		wait := cfg.Lock.Timeout / time.Duration(max(cfg.Lock.Retries, 1))
		lock = locker.NewRedisLocker(redisClient, cfg.Lock.TTL, cfg.Lock.Retries, wait, log)
	default:
		lock = locker.NewLocalLocker(cfg.Lock.Timeout)
	}

	var publisher transaction.EventPublisher = txPublisher.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.OutboundTopic,
		})
		a.closers = append(a.closers, producer.Close)
		publisher = txPublisher.NewKafkaPublisher(producer)
		log.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.OutboundTopic))
	}

	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(a.registry)

	a.Members = memberUC.NewMemberUseCase(memberRepo.NewSQLRepository(db), log)
	a.Items = catalogUC.NewCatalogUseCase(catalogRepo.NewSQLRepository(db), redisClient, log)
	a.Branches = branchUC.NewBranchUseCase(branchRepo.NewSQLRepository(db), log)
	a.Rations = rationUC.NewRationUseCase(rationRepo.NewSQLRepository(db), a.Members, a.Items, cfg.Rules.DefaultAllowance, log)
	a.Credits = creditUC.NewCreditUseCase(creditRepo.NewSQLRepository(db), a.Members, cfg.Rules.CreditCeiling, log)
	a.Transactions = txUC.NewTransactionUseCase(txUC.Deps{
		Repo:      txRepo.NewSQLRepository(db),
		Tx:        txmanager.New(db),
		Members:   a.Members,
		Items:     a.Items,
		Rations:   a.Rations,
		Credits:   a.Credits,
		Locker:    lock,
		Publisher: publisher,
		Metrics:   m,
	}, txUC.Rules{
		PerPersonRation: cfg.Rules.PerPersonRation,
		MinSaleFraction: cfg.Rules.MinSaleFraction,
		MaxRetries:      cfg.Engine.MaxRetries,
	}, log)

	return a, nil
}

func openDB(cfg *config.Config) (*sqlx.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		pg := cfg.Database.Postgres
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            pg.Host,
			Port:            pg.Port,
			User:            pg.User,
			Password:        pg.Password,
			DBName:          pg.DBName,
			SSLMode:         pg.SSLMode,
			MaxOpenConns:    pg.MaxOpenConns,
			MaxIdleConns:    pg.MaxIdleConns,
			ConnMaxLifetime: time.Duration(pg.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(pg.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return db, nil
	default:
		db, err := sqlite.NewSQLite(&sqlite.Config{Path: cfg.Database.SQLitePath})
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	}
}

// GRPCServices returns every gRPC service the store exposes.
func (a *App) GRPCServices() []rpc.Service {
	return []rpc.Service{
		txH.NewTransactionHandler(a.Transactions, a.Logger),
		rationH.NewRationHandler(a.Rations, a.Logger),
		creditH.NewCreditHandler(a.Credits, a.Logger),
		memberH.NewMemberHandler(a.Members, a.Logger),
		catalogH.NewCatalogHandler(a.Items, a.Logger),
		branchH.NewBranchHandler(a.Branches, a.Logger),
	}
}

// HTTPHandler returns the chi router, with /metrics served from the app's
// registry.
func (a *App) HTTPHandler() http.Handler {
	h := httpapi.NewHandler(httpapi.UseCases{
		Transactions: a.Transactions,
		Rations:      a.Rations,
		Credits:      a.Credits,
		Members:      a.Members,
		Items:        a.Items,
		Branches:     a.Branches,
	}, a.Logger)

	return httpapi.NewRouter(h, httpapi.RouterOptions{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		Gatherer:       a.registry,
	}, a.Logger)
}

// StartBranchListener consumes branch POS events until ctx is cancelled. It
// is a no-op when Kafka is disabled.
func (a *App) StartBranchListener(ctx context.Context) {
	if !a.Config.Kafka.Enabled {
		return
	}

	consumer := broker.NewConsumer(&broker.Config{
		Brokers: a.Config.Kafka.Brokers,
		Topic:   a.Config.Kafka.InboundTopic,
		GroupID: a.Config.Kafka.GroupID,
	})
	a.closers = append(a.closers, consumer.Close)
	a.Logger.Info("Connected to Kafka Consumer", zap.Strings("brokers", a.Config.Kafka.Brokers), zap.String("topic", a.Config.Kafka.InboundTopic))

	go txListener.NewBranchListener(consumer, a.Transactions, a.Logger).Start(ctx)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
