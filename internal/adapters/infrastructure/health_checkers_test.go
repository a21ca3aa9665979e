package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"agromonitor.app/internal/config"
	"agromonitor.app/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestDatabaseHealthChecker(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	status := NewDatabaseHealthChecker(db).Check(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "sqlite", status.Details["dialect"])

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	status = NewDatabaseHealthChecker(db).Check(context.Background())
	assert.Equal(t, "unhealthy", status.Status)
	assert.NotEmpty(t, status.Error)

	assert.Equal(t, "unhealthy", NewDatabaseHealthChecker(nil).Check(context.Background()).Status)
}

func TestPingHealthChecker(t *testing.T) {
	ok := NewPingHealthChecker("telemetry", pingFunc(func(ctx context.Context) error { return nil }))
	assert.Equal(t, "healthy", ok.Check(context.Background()).Status)

	down := NewPingHealthChecker("telemetry", pingFunc(func(ctx context.Context) error { return errors.New("connection refused") }))
	status := down.Check(context.Background())
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "connection refused", status.Error)

	assert.Equal(t, "unhealthy", NewPingHealthChecker("cache", nil).Check(context.Background()).Status)
}

func TestHTTPServiceHealthChecker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	status := NewHTTPServiceHealthChecker("mlService", server.URL).Check(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, http.StatusNotFound, status.Details["statusCode"])

	server.Close()
	status = NewHTTPServiceHealthChecker("mlService", server.URL).Check(context.Background())
	assert.Equal(t, "unhealthy", status.Status)
}

func TestSystemHealthChecker_CheckAll(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scheduler.Enabled = true
	cfg.Monitoring.MoistureThreshold = 30
	cfg.Monitoring.BatteryThreshold = 20

	checker := NewSystemHealthChecker(SystemHealthCheckerConfig{
		Checkers: map[string]ports.HealthChecker{
			"telemetry": NewPingHealthChecker("telemetry", pingFunc(func(ctx context.Context) error { return nil })),
			"unused":    nil,
		},
		ConfigProvider: NewConfigProviderAdapter(cfg),
	})

	results := checker.CheckAll(context.Background())

	require.Len(t, results, 2)
	assert.Equal(t, "healthy", results["telemetry"].Status)
	assert.Equal(t, true, results["config"].Details["schedulerEnabled"])
	assert.Equal(t, 30.0, results["config"].Details["moistureThreshold"])
}
