package config

import (
	"os"
	"testing"

	"agromonitor.app/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("MissingWeatherKey", func(t *testing.T) {
		os.Clearenv()

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
		assert.True(t, errors.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "OPENWEATHERMAP_API_KEY")
	})

	t.Run("DefaultValues", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("OPENWEATHERMAP_API_KEY", "test-api-key"))

		config, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, 8080, config.Server.Port)
		assert.Equal(t, DriverPostgres, config.Database.Driver)
		assert.Equal(t, "agromonitor", config.Database.Name)
		assert.Equal(t, "http://127.0.0.1:5000", config.Prediction.BaseURL)
		assert.Equal(t, 30.0, config.Monitoring.MoistureThreshold)
		assert.Equal(t, 20.0, config.Monitoring.BatteryThreshold)
		assert.Equal(t, []string{"soil_moisture"}, config.Monitoring.SoilSensorTypes)
		assert.False(t, config.Watering.UseLiveTelemetryForSoilData)
		assert.Equal(t, 45.5, config.Watering.FixedMoisture10cm)
		assert.Equal(t, 50.2, config.Watering.FixedMoisture20cm)
		assert.Equal(t, 55.8, config.Watering.FixedMoisture30cm)
		assert.Equal(t, "0 6 * * *", config.Scheduler.DailySchedules)
		assert.Equal(t, "0 */4 * * *", config.Scheduler.MoistureCheck)
		assert.Equal(t, "* * * * *", config.Scheduler.BatteryUpdate)
		assert.Equal(t, "0 * * * *", config.Scheduler.WateringReminders)
		assert.Equal(t, CacheTypeMemory, config.Cache.Type)
		assert.Equal(t, 24, config.Notification.CooldownHours)
		assert.Equal(t, 5, config.ExternalCallTimeout)
		assert.Equal(t, "info", config.Log.Level)
	})

	t.Run("CustomValues", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("OPENWEATHERMAP_API_KEY", "custom-key"))
		require.NoError(t, os.Setenv("SERVER_PORT", "9090"))
		require.NoError(t, os.Setenv("DB_DRIVER", "sqlite"))
		require.NoError(t, os.Setenv("DB_SQLITE_PATH", "/tmp/agro.db"))
		require.NoError(t, os.Setenv("USE_LIVE_TELEMETRY_FOR_SOIL_DATA", "true"))
		require.NoError(t, os.Setenv("MOISTURE_ALERT_THRESHOLD", "25"))
		require.NoError(t, os.Setenv("SOIL_SENSOR_TYPES", "soil_moisture,multi_sensor"))
		require.NoError(t, os.Setenv("CRON_MOISTURE_CHECK", "*/15 * * * *"))
		require.NoError(t, os.Setenv("CACHE_TYPE", "redis"))
		require.NoError(t, os.Setenv("REDIS_ADDR", "redis:6379"))
		require.NoError(t, os.Setenv("EXTERNAL_CALL_TIMEOUT", "3"))

		config, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, 9090, config.Server.Port)
		assert.Equal(t, DriverSQLite, config.Database.Driver)
		assert.Equal(t, "/tmp/agro.db", config.Database.GetDSN())
		assert.True(t, config.Watering.UseLiveTelemetryForSoilData)
		assert.Equal(t, 25.0, config.Monitoring.MoistureThreshold)
		assert.Equal(t, []string{"soil_moisture", "multi_sensor"}, config.Monitoring.SoilSensorTypes)
		assert.Equal(t, "*/15 * * * *", config.Scheduler.MoistureCheck)
		assert.Equal(t, CacheTypeRedis, config.Cache.Type)
		assert.Equal(t, "redis:6379", config.Cache.Redis.Addr)
		assert.Equal(t, 3, config.ExternalCallTimeout)
	})

	t.Run("InvalidCronExpression", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("OPENWEATHERMAP_API_KEY", "key"))
		require.NoError(t, os.Setenv("CRON_DAILY_SCHEDULES", "every morning"))

		config, err := LoadConfig()

		assert.Nil(t, config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CRON_DAILY_SCHEDULES")
	})
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	base := DatabaseConfig{
		Host:     "test-host",
		Port:     5432,
		User:     "test-user",
		Password: "test-password",
		Name:     "test-db",
		SSLMode:  "disable",
	}

	t.Run("Postgres", func(t *testing.T) {
		cfg := base
		cfg.Driver = DriverPostgres
		assert.Equal(t, "host=test-host port=5432 user=test-user password=test-password dbname=test-db sslmode=disable", cfg.GetDSN())
	})

	t.Run("MySQL", func(t *testing.T) {
		cfg := base
		cfg.Driver = DriverMySQL
		cfg.Port = 3306
		assert.Equal(t, "test-user:test-password@tcp(test-host:3306)/test-db?charset=utf8mb4&parseTime=True&loc=UTC", cfg.GetDSN())
	})
}

func TestDatabaseConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     DatabaseConfig
		wantErr string
	}{
		{"unknown driver", DatabaseConfig{Driver: "oracle"}, "DB_DRIVER"},
		{"sqlite without path", DatabaseConfig{Driver: DriverSQLite}, "DB_SQLITE_PATH"},
		{"postgres bad ssl", DatabaseConfig{Driver: DriverPostgres, Host: "h", Port: 5432, User: "u", Name: "n", SSLMode: "prefer"}, "DB_SSL_MODE"},
		{"mysql no ssl check", DatabaseConfig{Driver: DriverMySQL, Host: "h", Port: 3306, User: "u", Name: "n", SSLMode: "prefer"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMonitoringConfig_Validate(t *testing.T) {
	cfg := MonitoringConfig{MoistureThreshold: 30, BatteryThreshold: 20, SoilSensorTypes: []string{"soil_moisture"}}
	assert.NoError(t, cfg.Validate())

	cfg.MoistureThreshold = 0
	assert.Error(t, cfg.Validate())

	cfg.MoistureThreshold = 30
	cfg.SoilSensorTypes = nil
	assert.Error(t, cfg.Validate())
}

func TestCacheType(t *testing.T) {
	assert.Equal(t, CacheTypeRedis, CacheTypeFromString("redis"))
	assert.Equal(t, CacheTypeUnknown, CacheTypeFromString("memcached"))
	assert.False(t, CacheTypeUnknown.IsValid())
	assert.Equal(t, "memory", CacheTypeMemory.String())

	cfg := CacheConfig{Type: CacheTypeUnknown}
	assert.Error(t, cfg.Validate())
}

func TestTelemetryConfig_RedisConfig(t *testing.T) {
	telemetry := TelemetryConfig{Addr: "redis:6379", Password: "secret", DB: 1, KeyPrefix: "devices"}

	redisCfg := telemetry.RedisConfig()

	assert.Equal(t, "redis:6379", redisCfg.Addr)
	assert.Equal(t, "secret", redisCfg.Password)
	assert.Equal(t, 1, redisCfg.DB)
	require.NoError(t, redisCfg.Validate())
}
