package app

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agromonitor.app/internal/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:     config.ServerConfig{Port: 8080},
		Database:   config.DatabaseConfig{Driver: config.DriverSQLite},
		Weather:    config.WeatherConfig{OpenWeatherMapKey: "test-key", OpenWeatherMapBaseURL: "http://127.0.0.1:1", EnableCache: true, CacheTTLMinutes: 10},
		Prediction: config.PredictionConfig{BaseURL: "http://127.0.0.1:1"},
		Telemetry:  config.TelemetryConfig{KeyPrefix: "devices"},
		Notification: config.NotificationConfig{
			PushGatewayURL: "http://127.0.0.1:1/send",
			PushServerKey:  "server-key",
			CooldownHours:  24,
		},
		Monitoring: config.MonitoringConfig{MoistureThreshold: 30, BatteryThreshold: 20, SoilSensorTypes: []string{"soil_moisture"}},
		Watering:   config.WateringConfig{FixedMoisture10cm: 45.5, FixedMoisture20cm: 50.2, FixedMoisture30cm: 55.8},
		Scheduler: config.SchedulerConfig{
			DailySchedules:    "0 6 * * *",
			MoistureCheck:     "0 */4 * * *",
			BatteryUpdate:     "* * * * *",
			WateringReminders: "0 * * * *",
		},
		Cache:               config.CacheConfig{Type: config.CacheTypeMemory},
		Log:                 config.LogConfig{Level: "info"},
		ExternalCallTimeout: 1,
	}
}

func setupTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	deps, err := NewDependencyContainer(cfg, DependencyOptions{
		DB:              db,
		TelemetryClient: client,
		Logger:          slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)),
	})
	require.NoError(t, err)

	application, err := NewApplicationWithDependencies(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Cleanup() })
	return application
}

func TestNewApplication_MissingConfig(t *testing.T) {
	t.Setenv("OPENWEATHERMAP_API_KEY", "")

	application, err := NewApplication()

	assert.Error(t, err)
	assert.Nil(t, application)
}

func TestNewDependencyContainer_RequiresConfig(t *testing.T) {
	_, err := NewDependencyContainer(nil, DependencyOptions{})
	assert.Error(t, err)
}

func TestApplication_Wiring(t *testing.T) {
	application := setupTestApplication(t, testConfig())

	assert.NotNil(t, application.GetWateringUseCase())
	assert.NotNil(t, application.GetMonitoringUseCase())
	assert.NotNil(t, application.GetNotificationUseCase())
	assert.Len(t, application.Batches().ByName(), 4)
	assert.Len(t, application.scheduler.Jobs(), 4)

	checkers := application.deps.HealthCheckers()
	assert.Contains(t, checkers, "database")
	assert.Contains(t, checkers, "telemetry")
	assert.Contains(t, checkers, "mlService")
	assert.NotContains(t, checkers, "cache")
}

func TestApplication_Routes(t *testing.T) {
	application := setupTestApplication(t, testConfig())
	router := application.GetRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/watering/today", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/watering/today", nil)
	req.Header.Set("X-Owner-ID", "owner-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","data":{"schedules":[]}}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "agromonitor_weather_cache_hit_ratio")
}

func TestApplication_BatchesRunAgainstEmptyStore(t *testing.T) {
	application := setupTestApplication(t, testConfig())
	ctx := context.Background()

	for name, run := range application.Batches().ByName() {
		result := run(ctx)
		assert.Equal(t, name, result.Job)
		assert.Zero(t, result.Total, name)
		assert.Zero(t, result.Failed, name)
	}
}

func TestApplication_StartAndShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Port = 18931
	cfg.Scheduler.Enabled = true
	application := setupTestApplication(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- application.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not stop")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	assert.NoError(t, application.Shutdown(shutdownCtx))
}

func TestLogConfig_MasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.Database.Password = "supersecretpassword"

	LogConfig(slog.New(slog.NewJSONHandler(&buf, nil)), cfg)

	output := buf.String()
	assert.NotContains(t, output, "supersecretpassword")
	assert.NotContains(t, output, "server-key")
	assert.Contains(t, output, `"moistureThreshold":30`)
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "****", maskString(""))
	assert.Equal(t, "****", maskString("abcd"))
	assert.Equal(t, "very************", maskString("verylongpassword"))
}
