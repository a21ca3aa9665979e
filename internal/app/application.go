package app

import (
	"context"
	"fmt"
	"log/slog"

	"agromonitor.app/internal/adapters/api"
	"agromonitor.app/internal/adapters/infrastructure"
	"agromonitor.app/internal/config"
	"agromonitor.app/internal/core/monitoring"
	"agromonitor.app/internal/core/notification"
	"agromonitor.app/internal/core/watering"
	"agromonitor.app/internal/core/weather"
	"agromonitor.app/internal/ports"
	"agromonitor.app/internal/scheduler"
	"github.com/gin-gonic/gin"
)

type Application struct {
	config *config.Config
	deps   *DependencyContainer

	// Use Cases
	weatherUseCase      *weather.UseCase
	wateringUseCase     *watering.UseCase
	notificationUseCase *notification.UseCase
	monitoringUseCase   *monitoring.UseCase

	// Adapters
	httpAdapter *api.HTTPServerAdapter
	scheduler   *scheduler.Scheduler

	ports *ports.ApplicationPorts
}

func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	deps, err := NewDependencyContainer(cfg, DependencyOptions{})
	if err != nil {
		return nil, fmt.Errorf("create dependency container: %w", err)
	}

	app, err := NewApplicationWithDependencies(cfg, deps)
	if err != nil {
		_ = deps.Cleanup()
		return nil, err
	}
	return app, nil
}

// NewApplicationWithDependencies builds the application on an existing container
func NewApplicationWithDependencies(cfg *config.Config, deps *DependencyContainer) (*Application, error) {
	app := &Application{
		config: cfg,
		deps:   deps,
		ports:  deps.ApplicationPorts(),
	}

	if err := app.initializeUseCases(); err != nil {
		return nil, fmt.Errorf("initialize use cases: %w", err)
	}

	if err := app.initializeAdapters(); err != nil {
		return nil, fmt.Errorf("initialize adapters: %w", err)
	}

	return app, nil
}

func (a *Application) initializeUseCases() error {
	slog.Info("Initializing use cases...")

	weatherUseCase, err := weather.NewUseCase(weather.UseCaseDependencies{
		WeatherProvider: a.ports.WeatherProvider,
		Cache:           a.ports.WeatherCache,
		Config:          a.ports.ConfigProvider,
		Logger:          a.ports.Logger,
	})
	if err != nil {
		return fmt.Errorf("create weather use case: %w", err)
	}
	a.weatherUseCase = weatherUseCase

	wateringUseCase, err := watering.NewUseCase(watering.UseCaseDependencies{
		ScheduleRepo:   a.ports.ScheduleRepository,
		LocationRepo:   a.ports.LocationRepository,
		WeatherUseCase: a.weatherUseCase,
		Predictor:      a.ports.IrrigationPredictor,
		Telemetry:      a.ports.TelemetrySource,
		Config:         a.ports.ConfigProvider,
		Logger:         a.ports.Logger,
		Metrics:        a.ports.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create watering use case: %w", err)
	}
	a.wateringUseCase = wateringUseCase

	notificationUseCase, err := notification.NewUseCase(notification.UseCaseDependencies{
		DeviceRepo:       a.ports.DeviceRepository,
		LocationRepo:     a.ports.LocationRepository,
		ScheduleRepo:     a.ports.ScheduleRepository,
		TokenRepo:        a.ports.DeviceTokenRepository,
		NotificationRepo: a.ports.NotificationRepository,
		PushProvider:     a.ports.PushProvider,
		Logger:           a.ports.Logger,
		Metrics:          a.ports.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create notification use case: %w", err)
	}
	a.notificationUseCase = notificationUseCase

	monitoringUseCase, err := monitoring.NewUseCase(monitoring.UseCaseDependencies{
		DeviceRepo:   a.ports.DeviceRepository,
		LocationRepo: a.ports.LocationRepository,
		Telemetry:    a.ports.TelemetrySource,
		Notifier:     a.notificationUseCase,
		Config:       a.ports.ConfigProvider,
		Logger:       a.ports.Logger,
		Metrics:      a.ports.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create monitoring use case: %w", err)
	}
	a.monitoringUseCase = monitoringUseCase

	slog.Info("Use cases initialized successfully")
	return nil
}

func (a *Application) initializeAdapters() error {
	slog.Info("Initializing adapters...")

	systemHealthChecker := infrastructure.NewSystemHealthChecker(infrastructure.SystemHealthCheckerConfig{
		Checkers:       a.deps.HealthCheckers(),
		ConfigProvider: a.ports.ConfigProvider,
	})

	httpAdapter, err := api.NewHTTPServerAdapter(api.ServerOptions{
		Config: api.ServerConfig{
			Port: a.config.Server.Port,
		},
		WateringUseCase:     a.wateringUseCase,
		NotificationUseCase: a.notificationUseCase,
		HealthChecker:       systemHealthChecker,
		Gatherer:            a.deps.Registry(),
	})
	if err != nil {
		return fmt.Errorf("create HTTP adapter: %w", err)
	}
	a.httpAdapter = httpAdapter

	jobScheduler, err := scheduler.NewScheduler(a.ports.Logger, nil)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	if err := jobScheduler.RegisterBatches(a.ports.ConfigProvider.GetSchedulerConfig(), a.Batches()); err != nil {
		return fmt.Errorf("register batch jobs: %w", err)
	}
	a.scheduler = jobScheduler

	slog.Info("Adapters initialized successfully")
	return nil
}

// Batches exposes the periodic jobs so they can also be run on demand
func (a *Application) Batches() scheduler.Batches {
	return scheduler.Batches{
		DailySchedules:    a.wateringUseCase.CreateDailySchedules,
		MoistureCheck:     a.monitoringUseCase.CheckMoistureLevels,
		BatteryUpdate:     a.monitoringUseCase.UpdateBatteryLevels,
		WateringReminders: a.notificationUseCase.SendWateringReminders,
	}
}

// Start runs the scheduler and serves HTTP until ctx is cancelled
func (a *Application) Start(ctx context.Context) error {
	slog.Info("Starting application...")

	if a.config.Scheduler.Enabled {
		a.scheduler.Start()
	} else {
		slog.Info("Scheduler disabled")
	}

	if err := a.httpAdapter.Start(ctx); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown stops background jobs and releases resources
func (a *Application) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	if a.config.Scheduler.Enabled {
		a.scheduler.Stop(ctx)
	}

	if err := a.deps.Cleanup(); err != nil {
		slog.Warn("Error releasing resources", "error", err)
		return fmt.Errorf("cleanup: %w", err)
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (a *Application) Config() *config.Config {
	return a.config
}

// GetRouter returns the Gin router for testing
func (a *Application) GetRouter() *gin.Engine {
	return a.httpAdapter.GetRouter()
}

// GetWateringUseCase returns the watering use case for testing
func (a *Application) GetWateringUseCase() *watering.UseCase {
	return a.wateringUseCase
}

// GetMonitoringUseCase returns the monitoring use case for testing
func (a *Application) GetMonitoringUseCase() *monitoring.UseCase {
	return a.monitoringUseCase
}

// GetNotificationUseCase returns the notification use case for testing
func (a *Application) GetNotificationUseCase() *notification.UseCase {
	return a.notificationUseCase
}
