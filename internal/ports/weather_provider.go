package ports

import (
	"context"
	"time"
)

// Coordinates is a geographic point in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WeatherData represents current conditions at a coordinate
type WeatherData struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Rainfall    float64   `json:"rainfall"`
	Timestamp   time.Time `json:"timestamp"`
}

// WeatherProvider defines the contract for weather data providers
type WeatherProvider interface {
	GetCurrentWeather(ctx context.Context, coords Coordinates) (*WeatherData, error)
	GetProviderName() string
}

// WeatherCache defines the contract for caching weather data
type WeatherCache interface {
	Get(ctx context.Context, key string) (*WeatherData, error)
	Set(ctx context.Context, key string, weather *WeatherData, ttl time.Duration) error
}
