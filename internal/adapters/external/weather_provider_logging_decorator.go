package external

import (
	"context"
	"time"

	"agromonitor.app/internal/ports"
)

// WeatherProviderLoggingDecorator decorates weather providers with structured logging
type WeatherProviderLoggingDecorator struct {
	provider ports.WeatherProvider
	logger   ports.Logger
}

// NewWeatherProviderLoggingDecorator creates a new logging decorator for weather providers
func NewWeatherProviderLoggingDecorator(provider ports.WeatherProvider, logger ports.Logger) ports.WeatherProvider {
	return &WeatherProviderLoggingDecorator{
		provider: provider,
		logger:   logger,
	}
}

// GetCurrentWeather wraps the provider call with structured logging
func (d *WeatherProviderLoggingDecorator) GetCurrentWeather(ctx context.Context, coords ports.Coordinates) (*ports.WeatherData, error) {
	providerName := d.provider.GetProviderName()

	d.logger.Debug("Weather API request started",
		ports.F("provider", providerName),
		ports.F("lat", coords.Latitude),
		ports.F("lon", coords.Longitude),
		ports.F("event", "request"))

	startTime := time.Now()
	weatherData, err := d.provider.GetCurrentWeather(ctx, coords)
	duration := time.Since(startTime)

	if err != nil {
		d.logger.Error("Weather API request failed",
			ports.F("provider", providerName),
			ports.F("lat", coords.Latitude),
			ports.F("lon", coords.Longitude),
			ports.F("event", "error"),
			ports.F("duration_ms", duration.Milliseconds()),
			ports.F("error", err.Error()))
		return nil, err
	}

	d.logger.Info("Weather API request completed",
		ports.F("provider", providerName),
		ports.F("lat", coords.Latitude),
		ports.F("lon", coords.Longitude),
		ports.F("event", "response"),
		ports.F("duration_ms", duration.Milliseconds()),
		ports.F("temperature", weatherData.Temperature),
		ports.F("humidity", weatherData.Humidity),
		ports.F("rainfall", weatherData.Rainfall))

	return weatherData, nil
}

// GetProviderName returns the name of the wrapped provider with logging indication
func (d *WeatherProviderLoggingDecorator) GetProviderName() string {
	return "logged(" + d.provider.GetProviderName() + ")"
}
