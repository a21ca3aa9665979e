package config

import (
	"fmt"
	"strings"

	"agromonitor.app/pkg/errors"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

const (
	maxRedisDB         = 15
	maxCacheTTLMinutes = 1440
	maxPortNumber      = 65535
	maxCallTimeout     = 120
)

// Config represents the application configuration structure
type Config struct {
	Server       ServerConfig       `split_words:"true"`
	Database     DatabaseConfig     `split_words:"true"`
	Weather      WeatherConfig      `split_words:"true"`
	Prediction   PredictionConfig   `split_words:"true"`
	Telemetry    TelemetryConfig    `split_words:"true"`
	Notification NotificationConfig `split_words:"true"`
	Monitoring   MonitoringConfig   `split_words:"true"`
	Watering     WateringConfig     `split_words:"true"`
	Scheduler    SchedulerConfig    `split_words:"true"`
	Cache        CacheConfig        `split_words:"true"`
	Log          LogConfig          `split_words:"true"`

	// ExternalCallTimeout bounds every outbound HTTP call, in seconds
	ExternalCallTimeout int `envconfig:"EXTERNAL_CALL_TIMEOUT" default:"5"`
}

type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseDriver selects the gorm dialector
type DatabaseDriver string

const (
	DriverPostgres DatabaseDriver = "postgres"
	DriverMySQL    DatabaseDriver = "mysql"
	DriverSQLite   DatabaseDriver = "sqlite"
)

type DatabaseConfig struct {
	Driver          DatabaseDriver `envconfig:"DB_DRIVER" default:"postgres"`
	Host            string         `envconfig:"DB_HOST" default:"localhost"`
	Port            int            `envconfig:"DB_PORT" default:"5432"`
	User            string         `envconfig:"DB_USER" default:"postgres"`
	Password        string         `envconfig:"DB_PASSWORD" default:"postgres"`
	Name            string         `envconfig:"DB_NAME" default:"agromonitor"`
	SSLMode         string         `envconfig:"DB_SSL_MODE" default:"disable"`
	SQLitePath      string         `envconfig:"DB_SQLITE_PATH" default:"agromonitor.db"`
	MaxIdleConns    int            `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	MaxOpenConns    int            `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	ConnMaxLifetime int            `envconfig:"DB_CONN_MAX_LIFETIME" default:"300"`
}

// GetDSN builds the connection string for the configured driver
func (c DatabaseConfig) GetDSN() string {
	switch c.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.Name)
	case DriverSQLite:
		return c.SQLitePath
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
}

type WeatherConfig struct {
	OpenWeatherMapKey     string `envconfig:"OPENWEATHERMAP_API_KEY"`
	OpenWeatherMapBaseURL string `envconfig:"OPENWEATHERMAP_API_BASE_URL" default:"https://api.openweathermap.org/data/2.5"`
	EnableCache           bool   `envconfig:"WEATHER_ENABLE_CACHE" default:"true"`
	EnableLogging         bool   `envconfig:"WEATHER_ENABLE_LOGGING" default:"true"`
	CacheTTLMinutes       int    `envconfig:"WEATHER_CACHE_TTL_MINUTES" default:"10"`
}

type PredictionConfig struct {
	BaseURL string `envconfig:"ML_SERVICE_URL" default:"http://127.0.0.1:5000"`
}

type TelemetryConfig struct {
	Addr      string `envconfig:"TELEMETRY_REDIS_ADDR" default:"localhost:6379"`
	Password  string `envconfig:"TELEMETRY_REDIS_PASSWORD" default:""`
	DB        int    `envconfig:"TELEMETRY_REDIS_DB" default:"1"`
	KeyPrefix string `envconfig:"TELEMETRY_KEY_PREFIX" default:"devices"`
}

// RedisConfig returns connection settings for the telemetry store
func (t TelemetryConfig) RedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         t.Addr,
		Password:     t.Password,
		DB:           t.DB,
		DialTimeout:  5,
		ReadTimeout:  3,
		WriteTimeout: 3,
	}
}

type NotificationConfig struct {
	PushGatewayURL string `envconfig:"PUSH_GATEWAY_URL" default:"https://fcm.googleapis.com/fcm/send"`
	PushServerKey  string `envconfig:"PUSH_SERVER_KEY"`
	CooldownHours  int    `envconfig:"ALERT_COOLDOWN_HOURS" default:"24"`
}

type MonitoringConfig struct {
	MoistureThreshold float64  `envconfig:"MOISTURE_ALERT_THRESHOLD" default:"30"`
	BatteryThreshold  float64  `envconfig:"BATTERY_ALERT_THRESHOLD" default:"20"`
	SoilSensorTypes   []string `envconfig:"SOIL_SENSOR_TYPES" default:"soil_moisture"`
}

type WateringConfig struct {
	UseLiveTelemetryForSoilData bool    `envconfig:"USE_LIVE_TELEMETRY_FOR_SOIL_DATA" default:"false"`
	FixedMoisture10cm           float64 `envconfig:"FIXED_SOIL_MOISTURE_10CM" default:"45.5"`
	FixedMoisture20cm           float64 `envconfig:"FIXED_SOIL_MOISTURE_20CM" default:"50.2"`
	FixedMoisture30cm           float64 `envconfig:"FIXED_SOIL_MOISTURE_30CM" default:"55.8"`
}

type SchedulerConfig struct {
	Enabled           bool   `envconfig:"SCHEDULER_ENABLED" default:"true"`
	DailySchedules    string `envconfig:"CRON_DAILY_SCHEDULES" default:"0 6 * * *"`
	MoistureCheck     string `envconfig:"CRON_MOISTURE_CHECK" default:"0 */4 * * *"`
	BatteryUpdate     string `envconfig:"CRON_BATTERY_UPDATE" default:"* * * * *"`
	WateringReminders string `envconfig:"CRON_WATERING_REMINDERS" default:"0 * * * *"`
}

// CacheType represents the type of cache to use
type CacheType int

const (
	CacheTypeUnknown CacheType = iota
	CacheTypeMemory
	CacheTypeRedis
)

// String returns the string representation of cache type
func (c CacheType) String() string {
	switch c {
	case CacheTypeMemory:
		return "memory"
	case CacheTypeRedis:
		return "redis"
	default:
		return "unknown"
	}
}

// IsValid checks if the cache type is valid
func (c CacheType) IsValid() bool {
	return c == CacheTypeMemory || c == CacheTypeRedis
}

// CacheTypeFromString converts string to CacheType enum
func CacheTypeFromString(s string) CacheType {
	switch s {
	case "memory":
		return CacheTypeMemory
	case "redis":
		return CacheTypeRedis
	default:
		return CacheTypeUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (c *CacheType) UnmarshalText(text []byte) error {
	*c = CacheTypeFromString(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler for envconfig
func (c CacheType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type CacheConfig struct {
	Type  CacheType   `envconfig:"CACHE_TYPE" default:"memory"`
	Redis RedisConfig `split_words:"true"`
}

type RedisConfig struct {
	Addr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string `envconfig:"REDIS_PASSWORD" default:""`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
}

type LogConfig struct {
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	FilePath string `envconfig:"LOG_FILE_PATH" default:""`
}

func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	validators := []func() error{
		c.Server.Validate,
		c.Database.Validate,
		c.Weather.Validate,
		c.Prediction.Validate,
		c.Telemetry.Validate,
		c.Notification.Validate,
		c.Monitoring.Validate,
		c.Scheduler.Validate,
		c.Cache.Validate,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}

	if c.ExternalCallTimeout < 1 || c.ExternalCallTimeout > maxCallTimeout {
		return errors.NewConfigurationError("EXTERNAL_CALL_TIMEOUT must be between 1 and 120 seconds", nil)
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

func (d *DatabaseConfig) Validate() error {
	switch d.Driver {
	case DriverSQLite:
		if d.SQLitePath == "" {
			return errors.NewConfigurationError("DB_SQLITE_PATH cannot be empty when DB_DRIVER=sqlite", nil)
		}
		return nil
	case DriverPostgres, DriverMySQL:
	default:
		return errors.NewConfigurationError("DB_DRIVER must be one of: postgres, mysql, sqlite", nil)
	}

	if d.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if d.Port < 1 || d.Port > maxPortNumber {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if d.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if d.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	if d.Driver == DriverPostgres {
		return d.ValidateSSLMode()
	}
	return nil
}

func (d *DatabaseConfig) ValidateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

func (w *WeatherConfig) Validate() error {
	if w.OpenWeatherMapKey == "" {
		return errors.NewConfigurationError("OPENWEATHERMAP_API_KEY must be configured", nil)
	}
	if !isHTTPURL(w.OpenWeatherMapBaseURL) {
		return errors.NewConfigurationError("OPENWEATHERMAP_API_BASE_URL must start with http:// or https://", nil)
	}
	if w.CacheTTLMinutes < 1 || w.CacheTTLMinutes > maxCacheTTLMinutes {
		return errors.NewConfigurationError("WEATHER_CACHE_TTL_MINUTES must be between 1 and 1440 minutes", nil)
	}
	return nil
}

func (p *PredictionConfig) Validate() error {
	if !isHTTPURL(p.BaseURL) {
		return errors.NewConfigurationError("ML_SERVICE_URL must start with http:// or https://", nil)
	}
	return nil
}

func (t *TelemetryConfig) Validate() error {
	if t.Addr == "" {
		return errors.NewConfigurationError("TELEMETRY_REDIS_ADDR cannot be empty", nil)
	}
	if t.DB < 0 || t.DB > maxRedisDB {
		return errors.NewConfigurationError("TELEMETRY_REDIS_DB must be between 0 and 15", nil)
	}
	if t.KeyPrefix == "" {
		return errors.NewConfigurationError("TELEMETRY_KEY_PREFIX cannot be empty", nil)
	}
	return nil
}

func (n *NotificationConfig) Validate() error {
	if !isHTTPURL(n.PushGatewayURL) {
		return errors.NewConfigurationError("PUSH_GATEWAY_URL must start with http:// or https://", nil)
	}
	if n.CooldownHours < 1 {
		return errors.NewConfigurationError("ALERT_COOLDOWN_HOURS must be at least 1", nil)
	}
	return nil
}

func (m *MonitoringConfig) Validate() error {
	if m.MoistureThreshold <= 0 || m.MoistureThreshold > 100 {
		return errors.NewConfigurationError("MOISTURE_ALERT_THRESHOLD must be in (0, 100]", nil)
	}
	if m.BatteryThreshold <= 0 || m.BatteryThreshold > 100 {
		return errors.NewConfigurationError("BATTERY_ALERT_THRESHOLD must be in (0, 100]", nil)
	}
	if len(m.SoilSensorTypes) == 0 {
		return errors.NewConfigurationError("SOIL_SENSOR_TYPES cannot be empty", nil)
	}
	return nil
}

func (s *SchedulerConfig) Validate() error {
	specs := map[string]string{
		"CRON_DAILY_SCHEDULES":    s.DailySchedules,
		"CRON_MOISTURE_CHECK":     s.MoistureCheck,
		"CRON_BATTERY_UPDATE":     s.BatteryUpdate,
		"CRON_WATERING_REMINDERS": s.WateringReminders,
	}
	for name, spec := range specs {
		// An empty expression disables the job
		if spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return errors.NewConfigurationError(fmt.Sprintf("%s is not a valid cron expression", name), err)
		}
	}
	return nil
}

func (c *CacheConfig) Validate() error {
	if !c.Type.IsValid() {
		return errors.NewConfigurationError("CACHE_TYPE must be one of: memory, redis", nil)
	}

	if c.Type == CacheTypeRedis {
		return c.Redis.Validate()
	}

	return nil
}

func (r *RedisConfig) Validate() error {
	if r.Addr == "" {
		return errors.NewConfigurationError("REDIS_ADDR cannot be empty when using Redis cache", nil)
	}
	if r.DB < 0 || r.DB > maxRedisDB {
		return errors.NewConfigurationError("REDIS_DB must be between 0 and 15", nil)
	}
	if r.DialTimeout < 1 {
		return errors.NewConfigurationError("REDIS_DIAL_TIMEOUT must be at least 1 second", nil)
	}
	if r.ReadTimeout < 1 {
		return errors.NewConfigurationError("REDIS_READ_TIMEOUT must be at least 1 second", nil)
	}
	if r.WriteTimeout < 1 {
		return errors.NewConfigurationError("REDIS_WRITE_TIMEOUT must be at least 1 second", nil)
	}
	return nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
