package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/config"
	"github.com/arez-sajeel/Project-Green/internal/db"
	httpserver "github.com/arez-sajeel/Project-Green/internal/http"
	"github.com/arez-sajeel/Project-Green/internal/http/handlers"
	"github.com/arez-sajeel/Project-Green/internal/http/middleware"
	"github.com/arez-sajeel/Project-Green/internal/ingest"
	"github.com/arez-sajeel/Project-Green/internal/password"
	redisstore "github.com/arez-sajeel/Project-Green/internal/redis"
	"github.com/arez-sajeel/Project-Green/internal/repository"
	"github.com/arez-sajeel/Project-Green/internal/service"
	"github.com/arez-sajeel/Project-Green/internal/ws"
	libredis "github.com/arez-sajeel/Project-Green/libs/redis"
)

const streamWriteTimeout = 10 * time.Second

// App wires the energy API's dependencies.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	broker      *ingest.Broker
	subscriber  *ingest.Subscriber
	logger      *zap.Logger
}

// New constructs the application graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	var (
		redisClient    *redis.Client
		analyticsCache *redisstore.AnalyticsCache
		lastReadings   *redisstore.LastReadingStore
	)
	if cfg.Redis.Enabled {
		redisClient, err = libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		analyticsCache = redisstore.NewAnalyticsCache(redisClient, cfg.AnalyticsTTL())
		lastReadings = redisstore.NewLastReadingStore(redisClient, cfg.LastReadingTTL())
	}

	userRepo := repository.NewUserRepository(sqlDB)
	portfolioRepo := repository.NewPortfolioRepository(sqlDB)
	propertyRepo := repository.NewPropertyRepository(sqlDB)
	deviceRepo := repository.NewDeviceRepository(sqlDB)
	tariffRepo := repository.NewTariffRepository(sqlDB)
	usageRepo := repository.NewUsageRepository(sqlDB)
	scenarioRepo := repository.NewScenarioRepository(sqlDB)

	hasher := password.NewBcryptHasher(0)
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())

	hub := ws.NewHub(logger)
	stream := ws.NewStream(hub, streamWriteTimeout, logger)

	authService := service.NewAuthService(userRepo, portfolioRepo, hasher, tokens, logger)
	propertyService := service.NewPropertyService(userRepo, propertyRepo, deviceRepo, tariffRepo, logger)
	tariffService := service.NewTariffService(userRepo, propertyRepo, tariffRepo, logger)
	usageService := service.NewUsageService(userRepo, propertyRepo, tariffRepo, usageRepo, hub, lastReadings, logger)
	analyticsService := service.NewAnalyticsService(userRepo, propertyRepo, deviceRepo, usageRepo, analyticsCache, logger)
	scenarioService := service.NewScenarioService(userRepo, propertyRepo, deviceRepo, tariffRepo, usageRepo, scenarioRepo, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:      handlers.NewAuthHandlers(authService, logger),
		PropertyHandlers:  handlers.NewPropertyHandlers(propertyService, logger),
		TariffHandlers:    handlers.NewTariffHandlers(tariffService, logger),
		UsageHandlers:     handlers.NewUsageHandlers(usageService, propertyService, stream, logger),
		AnalyticsHandlers: handlers.NewAnalyticsHandlers(analyticsService, logger),
		ScenarioHandlers:  handlers.NewScenarioHandlers(scenarioService, logger),
		HealthHandler:     handlers.NewHealthHandler(),
	}, middleware.AuthMiddleware(cfg.JWT.Secret))

	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(logger),
	)

	app := &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}

	if cfg.MQTT.Enabled {
		if cfg.MQTT.Embedded {
			broker, err := ingest.NewBroker(cfg.MQTT.EmbeddedAddr, logger)
			if err != nil {
				app.Close()
				return nil, err
			}
			app.broker = broker
		}
		app.subscriber = ingest.NewSubscriber(
			cfg.BrokerAddress(),
			cfg.MQTT.ClientID,
			cfg.MQTT.Username,
			cfg.MQTT.Password,
			usageService,
			logger,
		)
	}

	return app, nil
}

// Run starts the ingest pipeline and the HTTP server, blocking until ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.broker != nil {
		a.broker.Start()
	}
	if a.subscriber != nil {
		if err := a.subscriber.Start(); err != nil {
			return err
		}
	}
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.subscriber != nil {
		a.subscriber.Close()
	}
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			a.logger.Warn("failed to close embedded broker", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
