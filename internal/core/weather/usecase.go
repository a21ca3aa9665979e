package weather

import (
	"context"
	"fmt"

	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
)

type UseCase struct {
	weatherProvider ports.WeatherProvider
	cache           ports.WeatherCache
	config          ports.ConfigProvider
	logger          ports.Logger
}

type UseCaseDependencies struct {
	WeatherProvider ports.WeatherProvider
	Cache           ports.WeatherCache
	Config          ports.ConfigProvider
	Logger          ports.Logger
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.WeatherProvider == nil {
		return nil, errors.NewValidationError("weather provider is required")
	}
	if deps.Cache == nil {
		return nil, errors.NewValidationError("cache is required")
	}
	if deps.Config == nil {
		return nil, errors.NewValidationError("config is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}

	return &UseCase{
		weatherProvider: deps.WeatherProvider,
		cache:           deps.Cache,
		config:          deps.Config,
		logger:          deps.Logger,
	}, nil
}

// GetWeather returns current weather for coords. Any provider failure is
// reported as an external API error with the message "weather fetch failed".
func (uc *UseCase) GetWeather(ctx context.Context, coords Coordinates) (*Weather, error) {
	uc.logger.Debug("Getting weather for coordinates",
		ports.F("lat", coords.Latitude),
		ports.F("lon", coords.Longitude))

	weather, err := uc.getWeatherWithCache(ctx, coords)
	if err != nil {
		uc.logger.Error("Failed to get weather",
			ports.F("lat", coords.Latitude),
			ports.F("lon", coords.Longitude),
			ports.F("error", err))
		return nil, err
	}

	uc.logger.Debug("Weather retrieved successfully",
		ports.F("lat", coords.Latitude),
		ports.F("lon", coords.Longitude),
		ports.F("temperature", weather.Temperature),
		ports.F("rainfall", weather.Rainfall))
	return weather, nil
}

func (uc *UseCase) getWeatherWithCache(ctx context.Context, coords Coordinates) (*Weather, error) {
	weatherConfig := uc.config.GetWeatherConfig()
	if !weatherConfig.EnableCache {
		return uc.getWeatherFromProvider(ctx, coords)
	}

	cacheKey := coords.CacheKey()
	cachedWeather, err := uc.cache.Get(ctx, cacheKey)
	if err == nil && cachedWeather != nil {
		uc.logger.Debug("Weather found in cache", ports.F("key", cacheKey))
		return convertFromPortsWeather(cachedWeather), nil
	}

	weather, err := uc.getWeatherFromProvider(ctx, coords)
	if err != nil {
		return nil, err
	}

	if cacheErr := uc.cache.Set(ctx, cacheKey, convertToPortsWeather(weather), weatherConfig.CacheTTL); cacheErr != nil {
		uc.logger.Warn("Failed to cache weather data",
			ports.F("key", cacheKey),
			ports.F("error", cacheErr))
	}

	return weather, nil
}

func (uc *UseCase) getWeatherFromProvider(ctx context.Context, coords Coordinates) (*Weather, error) {
	providerWeather, err := uc.weatherProvider.GetCurrentWeather(ctx, coords.toPorts())
	if err != nil {
		return nil, errors.NewExternalAPIError("weather fetch failed", err)
	}

	domainWeather := convertFromPortsWeather(providerWeather)
	if err := domainWeather.IsValid(); err != nil {
		return nil, errors.NewExternalAPIError("weather fetch failed",
			fmt.Errorf("invalid weather data from %s: %w", uc.weatherProvider.GetProviderName(), err))
	}

	return domainWeather, nil
}

func convertToPortsWeather(weather *Weather) *ports.WeatherData {
	return &ports.WeatherData{
		Temperature: weather.Temperature,
		Humidity:    weather.Humidity,
		Rainfall:    weather.Rainfall,
		Timestamp:   weather.Timestamp,
	}
}

func convertFromPortsWeather(weatherData *ports.WeatherData) *Weather {
	return &Weather{
		Temperature: weatherData.Temperature,
		Humidity:    weatherData.Humidity,
		Rainfall:    weatherData.Rainfall,
		Timestamp:   weatherData.Timestamp,
	}
}
