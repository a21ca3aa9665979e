package app

import (
	"fmt"
	"log/slog"
	"time"

	"agromonitor.app/internal/adapters/database"
	"agromonitor.app/internal/adapters/external"
	"agromonitor.app/internal/adapters/infrastructure"
	"agromonitor.app/internal/config"
	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type DependencyContainer struct {
	config          *config.Config
	db              *gorm.DB
	cacheProvider   external.CacheProvider
	telemetry       *external.RedisTelemetrySource
	telemetryClient *redis.Client
	predictor       *external.MLPredictorAdapter
	fileLogger      *infrastructure.FileLoggerAdapter
	metrics         *infrastructure.PrometheusMetricsCollector
	registry        *prometheus.Registry
	ports           *ports.ApplicationPorts
}

// DependencyOptions lets callers supply pre-built infrastructure. Nil fields
// are built from configuration.
type DependencyOptions struct {
	DB              *gorm.DB
	TelemetryClient *redis.Client
	Registry        *prometheus.Registry
	Logger          *slog.Logger
}

func NewDependencyContainer(cfg *config.Config, opts DependencyOptions) (*DependencyContainer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	container := &DependencyContainer{
		config:          cfg,
		db:              opts.DB,
		telemetryClient: opts.TelemetryClient,
		registry:        opts.Registry,
	}
	if container.registry == nil {
		container.registry = prometheus.NewRegistry()
	}

	if err := container.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if err := container.initializePorts(opts.Logger); err != nil {
		_ = container.Cleanup()
		return nil, fmt.Errorf("initialize ports: %w", err)
	}

	return container, nil
}

func (c *DependencyContainer) initializeDatabase() error {
	if c.db == nil {
		slog.Info("Initializing database connection...", "driver", c.config.Database.Driver)

		db, err := database.Open(c.config.Database)
		if err != nil {
			return err
		}
		c.db = db
	}

	slog.Info("Running database migrations...")
	if err := database.Migrate(c.db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("Database connection established successfully")
	return nil
}

func (c *DependencyContainer) initializeLogger(base *slog.Logger) ports.Logger {
	if base == nil {
		base = logger.NewWithLevel(logger.ParseLevel(c.config.Log.Level)).Logger
	}
	var appLogger ports.Logger = infrastructure.NewSlogLoggerAdapter(base)

	if c.config.Log.FilePath == "" {
		return appLogger
	}

	fileLogger, err := infrastructure.NewFileLoggerAdapter(c.config.Log.FilePath, logger.ParseLevel(c.config.Log.Level))
	if err != nil {
		slog.Warn("Failed to create file logger, logging to stdout only", "error", err)
		return appLogger
	}

	c.fileLogger = fileLogger
	slog.Info("File logging enabled", "path", c.config.Log.FilePath)
	return infrastructure.MultiLogger{appLogger, fileLogger}
}

func (c *DependencyContainer) initializePorts(base *slog.Logger) error {
	slog.Info("Initializing ports...")

	appLogger := c.initializeLogger(base)
	c.metrics = infrastructure.NewPrometheusMetricsCollector(c.registry)
	callTimeout := time.Duration(c.config.ExternalCallTimeout) * time.Second

	var weatherProvider ports.WeatherProvider = external.NewOpenWeatherMapProviderAdapter(external.OpenWeatherMapProviderParams{
		APIKey:  c.config.Weather.OpenWeatherMapKey,
		BaseURL: c.config.Weather.OpenWeatherMapBaseURL,
		Timeout: callTimeout,
		Logger:  appLogger,
		Metrics: c.metrics,
	})
	if c.config.Weather.EnableLogging {
		weatherProvider = external.NewWeatherProviderLoggingDecorator(weatherProvider, appLogger)
		slog.Info("Weather provider logging enabled")
	}

	cacheProvider, err := external.NewCacheProviderFactory().CreateCacheProvider(&c.config.Cache)
	if err != nil {
		return fmt.Errorf("create cache provider: %w", err)
	}
	c.cacheProvider = cacheProvider
	c.metrics.RegisterCacheMetrics(c.config.Cache.Type.String(), cacheProvider)
	slog.Info("Cache provider initialized", "type", c.config.Cache.Type.String())

	if c.telemetryClient == nil {
		client, err := external.NewRedisClient(c.config.Telemetry.RedisConfig())
		if err != nil {
			return fmt.Errorf("connect telemetry store: %w", err)
		}
		c.telemetryClient = client
	}
	c.telemetry = external.NewRedisTelemetrySource(c.telemetryClient, c.config.Telemetry.KeyPrefix, callTimeout)

	c.predictor = external.NewMLPredictorAdapter(external.MLPredictorParams{
		BaseURL: c.config.Prediction.BaseURL,
		Timeout: callTimeout,
		Logger:  appLogger,
		Metrics: c.metrics,
	})

	pushProvider := external.NewPushGatewayAdapter(external.PushGatewayParams{
		URL:       c.config.Notification.PushGatewayURL,
		ServerKey: c.config.Notification.PushServerKey,
		Timeout:   callTimeout,
		Logger:    appLogger,
		Metrics:   c.metrics,
	})

	c.ports = &ports.ApplicationPorts{
		WeatherProvider: weatherProvider,
		WeatherCache:    external.NewWeatherCacheAdapter(cacheProvider),

		IrrigationPredictor: c.predictor,

		ScheduleRepository:     database.NewScheduleRepositoryAdapter(c.db),
		LocationRepository:     database.NewLocationRepositoryAdapter(c.db),
		DeviceRepository:       database.NewDeviceRepositoryAdapter(c.db),
		DeviceTokenRepository:  database.NewDeviceTokenRepositoryAdapter(c.db),
		NotificationRepository: database.NewNotificationRepositoryAdapter(c.db),

		TelemetrySource: c.telemetry,
		PushProvider:    pushProvider,

		CacheMetrics: cacheProvider,

		ConfigProvider: infrastructure.NewConfigProviderAdapter(c.config),
		Logger:         appLogger,
		Metrics:        c.metrics,
		Database:       c.db,
	}

	slog.Info("Ports initialized successfully")
	return nil
}

// HealthCheckers returns one checker per backing service
func (c *DependencyContainer) HealthCheckers() map[string]ports.HealthChecker {
	checkers := map[string]ports.HealthChecker{
		"database":  infrastructure.NewDatabaseHealthChecker(c.db),
		"telemetry": infrastructure.NewPingHealthChecker("telemetry", c.telemetry),
		"mlService": infrastructure.NewHTTPServiceHealthChecker("mlService", c.predictor.URL()),
	}
	if pinger, ok := c.cacheProvider.(infrastructure.Pinger); ok {
		checkers["cache"] = infrastructure.NewPingHealthChecker("cache", pinger)
	}
	return checkers
}

func (c *DependencyContainer) ApplicationPorts() *ports.ApplicationPorts {
	return c.ports
}

func (c *DependencyContainer) Database() *gorm.DB {
	return c.db
}

// Registry returns the Prometheus registry backing /metrics
func (c *DependencyContainer) Registry() *prometheus.Registry {
	return c.registry
}

// Cleanup releases connections and open files
func (c *DependencyContainer) Cleanup() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if closer, ok := c.cacheProvider.(interface{ Close() error }); ok {
		keep(closer.Close())
	}
	if c.telemetryClient != nil {
		keep(c.telemetryClient.Close())
	}
	if c.fileLogger != nil {
		keep(c.fileLogger.Close())
	}
	if c.db != nil {
		keep(database.Close(c.db))
	}
	return firstErr
}
