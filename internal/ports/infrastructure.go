package ports

import (
	"time"
)

// WeatherConfig represents weather service configuration
type WeatherConfig struct {
	EnableCache bool
	CacheTTL    time.Duration
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port int
}

// MonitoringConfig holds the device alert thresholds
type MonitoringConfig struct {
	MoistureThreshold float64
	BatteryThreshold  float64
	SoilSensorTypes   []string
	AlertCooldown     time.Duration
}

// WateringConfig controls where schedule creation takes its soil readings from
type WateringConfig struct {
	UseLiveTelemetryForSoilData bool
	FixedSoilReading            DeviceReading
}

// SchedulerConfig holds one cron expression per batch job
type SchedulerConfig struct {
	Enabled           bool
	DailySchedules    string
	MoistureCheck     string
	BatteryUpdate     string
	WateringReminders string
}

// ConfigProvider defines the contract for configuration management
type ConfigProvider interface {
	GetWeatherConfig() WeatherConfig
	GetServerConfig() ServerConfig
	GetMonitoringConfig() MonitoringConfig
	GetWateringConfig() WateringConfig
	GetSchedulerConfig() SchedulerConfig
}

// Logger defines the contract for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// BatchResult summarises one run of a batch job
type BatchResult struct {
	Job       string        `json:"job"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Notified  int           `json:"notified"`
	Duration  time.Duration `json:"duration"`
}

// MetricsCollector defines the contract for metrics collection
type MetricsCollector interface {
	RecordBatch(result BatchResult)
	RecordExternalCall(service string, success bool, duration time.Duration)
	RecordNotification(notificationType string, delivered bool)
}
