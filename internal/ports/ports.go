package ports

// ApplicationPorts aggregates all ports for dependency injection
type ApplicationPorts struct {
	// Weather
	WeatherProvider WeatherProvider
	WeatherCache    WeatherCache

	// Prediction
	IrrigationPredictor IrrigationPredictor

	// Persistence
	ScheduleRepository     ScheduleRepository
	LocationRepository     LocationRepository
	DeviceRepository       DeviceRepository
	DeviceTokenRepository  DeviceTokenRepository
	NotificationRepository NotificationRepository

	// Live data and delivery
	TelemetrySource TelemetrySource
	PushProvider    PushProvider

	// Cache
	CacheMetrics CacheMetrics

	// Infrastructure
	ConfigProvider ConfigProvider
	Logger         Logger
	Metrics        MetricsCollector
	Database       interface{}
}
