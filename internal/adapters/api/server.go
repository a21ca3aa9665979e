// Package api provides HTTP adapters for the hexagonal architecture
// These adapters handle incoming HTTP requests and translate them to use cases
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"agromonitor.app/internal/core/notification"
	"agromonitor.app/internal/core/watering"
	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port int
}

// HTTPServerAdapter implements HTTP server using Gin framework
type HTTPServerAdapter struct {
	router              *gin.Engine
	server              *http.Server
	config              ServerConfig
	wateringUseCase     WateringUseCase
	notificationUseCase NotificationUseCase
	healthChecker       ports.SystemHealthChecker
	gatherer            prometheus.Gatherer
}

// Use case interfaces that the HTTP adapter depends on
type WateringUseCase interface {
	CreateSchedule(ctx context.Context, params watering.CreateScheduleParams) (*watering.Schedule, error)
	GetScheduleHistory(ctx context.Context, params watering.HistoryParams) ([]*watering.Schedule, error)
	GetTodaySchedules(ctx context.Context, ownerID string) ([]*watering.Schedule, error)
	GetScheduleByID(ctx context.Context, id, ownerID string) (*watering.Schedule, error)
	UpdateScheduleStatus(ctx context.Context, params watering.UpdateStatusParams) (*watering.Schedule, error)
	DeleteSchedule(ctx context.Context, id, ownerID string) error
}

type NotificationUseCase interface {
	GetNotifications(ctx context.Context, ownerID string, limit int) ([]*notification.Notification, error)
}

// ServerOptions represents options for creating the HTTP server
type ServerOptions struct {
	Config              ServerConfig
	WateringUseCase     WateringUseCase
	NotificationUseCase NotificationUseCase
	HealthChecker       ports.SystemHealthChecker
	// Gatherer backs /metrics; prometheus.DefaultGatherer when nil
	Gatherer prometheus.Gatherer
}

// NewHTTPServerAdapter creates a new HTTP server adapter
func NewHTTPServerAdapter(opts ServerOptions) (*HTTPServerAdapter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server options: %w", err)
	}

	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	server := &HTTPServerAdapter{
		router:              router,
		config:              opts.Config,
		wateringUseCase:     opts.WateringUseCase,
		notificationUseCase: opts.NotificationUseCase,
		healthChecker:       opts.HealthChecker,
		gatherer:            gatherer,
	}

	server.setupRoutes()
	return server, nil
}

// Validate checks if all required dependencies are provided
func (opts *ServerOptions) Validate() error {
	if opts.WateringUseCase == nil {
		return errors.NewValidationError("watering use case is required")
	}
	if opts.NotificationUseCase == nil {
		return errors.NewValidationError("notification use case is required")
	}
	if opts.HealthChecker == nil {
		return errors.NewValidationError("health checker is required")
	}
	return nil
}

// setupRoutes configures all HTTP routes
func (s *HTTPServerAdapter) setupRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.getHealth)

	wateringRoutes := api.Group("/watering", requireOwner())
	{
		wateringRoutes.POST("/schedule/:locationId", s.createSchedule)
		wateringRoutes.GET("/history", s.getScheduleHistory)
		wateringRoutes.GET("/today", s.getTodaySchedules)
		wateringRoutes.GET("/location/:locationId", s.getLocationSchedules)
		wateringRoutes.GET("/schedule/:id", s.getScheduleByID)
		wateringRoutes.PUT("/schedule/:id/status", s.updateScheduleStatus)
		wateringRoutes.DELETE("/schedule/:id", s.deleteSchedule)
	}

	api.GET("/notifications", requireOwner(), s.getNotifications)

	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *HTTPServerAdapter) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", s.config.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// GetRouter returns the router for testing purposes
func (s *HTTPServerAdapter) GetRouter() *gin.Engine {
	return s.router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}
