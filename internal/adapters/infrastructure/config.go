package infrastructure

import (
	"time"

	"agromonitor.app/internal/config"
	"agromonitor.app/internal/ports"
)

// ConfigProviderAdapter implements the ConfigProvider port
type ConfigProviderAdapter struct {
	config *config.Config
}

// NewConfigProviderAdapter creates a new config provider adapter
func NewConfigProviderAdapter(cfg *config.Config) *ConfigProviderAdapter {
	return &ConfigProviderAdapter{
		config: cfg,
	}
}

// GetServerConfig returns server configuration
func (c *ConfigProviderAdapter) GetServerConfig() ports.ServerConfig {
	return ports.ServerConfig{
		Port: c.config.Server.Port,
	}
}

// GetWeatherConfig returns weather configuration
func (c *ConfigProviderAdapter) GetWeatherConfig() ports.WeatherConfig {
	return ports.WeatherConfig{
		EnableCache: c.config.Weather.EnableCache,
		CacheTTL:    time.Duration(c.config.Weather.CacheTTLMinutes) * time.Minute,
	}
}

// GetMonitoringConfig returns the device alert thresholds
func (c *ConfigProviderAdapter) GetMonitoringConfig() ports.MonitoringConfig {
	sensorTypes := make([]string, len(c.config.Monitoring.SoilSensorTypes))
	copy(sensorTypes, c.config.Monitoring.SoilSensorTypes)

	return ports.MonitoringConfig{
		MoistureThreshold: c.config.Monitoring.MoistureThreshold,
		BatteryThreshold:  c.config.Monitoring.BatteryThreshold,
		SoilSensorTypes:   sensorTypes,
		AlertCooldown:     time.Duration(c.config.Notification.CooldownHours) * time.Hour,
	}
}

// GetWateringConfig returns the soil data source settings
func (c *ConfigProviderAdapter) GetWateringConfig() ports.WateringConfig {
	return ports.WateringConfig{
		UseLiveTelemetryForSoilData: c.config.Watering.UseLiveTelemetryForSoilData,
		FixedSoilReading: ports.DeviceReading{
			Moisture10cm: c.config.Watering.FixedMoisture10cm,
			Moisture20cm: c.config.Watering.FixedMoisture20cm,
			Moisture30cm: c.config.Watering.FixedMoisture30cm,
		},
	}
}

// GetSchedulerConfig returns scheduler configuration
func (c *ConfigProviderAdapter) GetSchedulerConfig() ports.SchedulerConfig {
	return ports.SchedulerConfig{
		Enabled:           c.config.Scheduler.Enabled,
		DailySchedules:    c.config.Scheduler.DailySchedules,
		MoistureCheck:     c.config.Scheduler.MoistureCheck,
		BatteryUpdate:     c.config.Scheduler.BatteryUpdate,
		WateringReminders: c.config.Scheduler.WateringReminders,
	}
}
