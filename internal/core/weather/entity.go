package weather

import (
	"fmt"
	"time"

	"agromonitor.app/internal/ports"
)

// Weather represents current conditions at a coordinate
type Weather struct {
	Temperature float64
	Humidity    float64
	Rainfall    float64
	Timestamp   time.Time
}

// Coordinates is the geographic point a weather lookup is made for.
// Latitude and longitude are forwarded to the provider unchecked.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// CacheKey returns the cache key for the coordinates, rounded to about 11 m
func (c Coordinates) CacheKey() string {
	return fmt.Sprintf("weather:%.4f,%.4f", c.Latitude, c.Longitude)
}

func (c Coordinates) toPorts() ports.Coordinates {
	return ports.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

// IsValid validates weather data
func (w *Weather) IsValid() error {
	if w.Temperature < -273.15 {
		return fmt.Errorf("temperature cannot be below absolute zero")
	}
	if w.Humidity < 0 || w.Humidity > 100 {
		return fmt.Errorf("humidity must be between 0 and 100")
	}
	if w.Rainfall < 0 {
		return fmt.Errorf("rainfall cannot be negative")
	}
	return nil
}

// String returns a string representation of the weather
func (w *Weather) String() string {
	return fmt.Sprintf("%.1f°C, %.1f%% humidity, %.1f mm rain", w.Temperature, w.Humidity, w.Rainfall)
}
