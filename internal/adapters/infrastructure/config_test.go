package infrastructure

import (
	"testing"
	"time"

	"agromonitor.app/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestConfigProviderAdapter(t *testing.T) {
	cfg := &config.Config{
		Server:       config.ServerConfig{Port: 9090},
		Weather:      config.WeatherConfig{EnableCache: true, CacheTTLMinutes: 15},
		Notification: config.NotificationConfig{CooldownHours: 12},
		Monitoring: config.MonitoringConfig{
			MoistureThreshold: 30,
			BatteryThreshold:  20,
			SoilSensorTypes:   []string{"soil_moisture", "multi_depth"},
		},
		Watering: config.WateringConfig{
			UseLiveTelemetryForSoilData: true,
			FixedMoisture10cm:           45.5,
			FixedMoisture20cm:           50.2,
			FixedMoisture30cm:           55.8,
		},
		Scheduler: config.SchedulerConfig{Enabled: true, DailySchedules: "0 6 * * *", MoistureCheck: "0 */4 * * *"},
	}
	provider := NewConfigProviderAdapter(cfg)

	assert.Equal(t, 9090, provider.GetServerConfig().Port)
	assert.Equal(t, 15*time.Minute, provider.GetWeatherConfig().CacheTTL)

	monitoring := provider.GetMonitoringConfig()
	assert.Equal(t, 12*time.Hour, monitoring.AlertCooldown)
	assert.Equal(t, []string{"soil_moisture", "multi_depth"}, monitoring.SoilSensorTypes)
	monitoring.SoilSensorTypes[0] = "mutated"
	assert.Equal(t, "soil_moisture", cfg.Monitoring.SoilSensorTypes[0])

	wateringCfg := provider.GetWateringConfig()
	assert.True(t, wateringCfg.UseLiveTelemetryForSoilData)
	assert.Equal(t, 55.8, wateringCfg.FixedSoilReading.Moisture30cm)

	assert.Equal(t, "0 */4 * * *", provider.GetSchedulerConfig().MoistureCheck)
}
