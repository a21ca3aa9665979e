package app

import (
	"log/slog"
	"strings"

	"agromonitor.app/internal/config"
)

// LogConfig writes the effective configuration with secrets masked
func LogConfig(logger *slog.Logger, cfg *config.Config) {
	logger.Info("Application configuration",
		slog.Group("server", "port", cfg.Server.Port),
		slog.Group("database",
			"driver", cfg.Database.Driver,
			"host", cfg.Database.Host,
			"name", cfg.Database.Name,
			"user", cfg.Database.User,
			"password", maskString(cfg.Database.Password)),
		slog.Group("weather",
			"baseURL", cfg.Weather.OpenWeatherMapBaseURL,
			"apiKey", maskString(cfg.Weather.OpenWeatherMapKey),
			"cache", cfg.Weather.EnableCache,
			"cacheTTLMinutes", cfg.Weather.CacheTTLMinutes),
		slog.Group("prediction", "baseURL", cfg.Prediction.BaseURL),
		slog.Group("telemetry", "addr", cfg.Telemetry.Addr, "keyPrefix", cfg.Telemetry.KeyPrefix),
		slog.Group("notification",
			"gateway", cfg.Notification.PushGatewayURL,
			"serverKey", maskString(cfg.Notification.PushServerKey),
			"cooldownHours", cfg.Notification.CooldownHours),
		slog.Group("monitoring",
			"moistureThreshold", cfg.Monitoring.MoistureThreshold,
			"batteryThreshold", cfg.Monitoring.BatteryThreshold,
			"sensorTypes", strings.Join(cfg.Monitoring.SoilSensorTypes, ",")),
		slog.Group("watering", "liveSoilData", cfg.Watering.UseLiveTelemetryForSoilData),
		slog.Group("scheduler",
			"enabled", cfg.Scheduler.Enabled,
			"dailySchedules", cfg.Scheduler.DailySchedules,
			"moistureCheck", cfg.Scheduler.MoistureCheck,
			"batteryUpdate", cfg.Scheduler.BatteryUpdate,
			"wateringReminders", cfg.Scheduler.WateringReminders),
		slog.Group("cache", "type", cfg.Cache.Type.String()),
	)
}

// maskString keeps the first quarter of s visible
func maskString(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	visible := len(s) / 4
	return s[:visible] + strings.Repeat("*", len(s)-visible)
}
