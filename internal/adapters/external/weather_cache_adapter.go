package external

import (
	"context"
	"encoding/json"
	"time"

	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
)

// weatherRecordVersion is bumped whenever weatherRecord changes shape.
// Entries written under another version read as misses.
const weatherRecordVersion = 2

// weatherRecord is the cached form of one coordinate's observation. It
// repeats its key so an entry can never be served for another location.
type weatherRecord struct {
	Version     int        `json:"v"`
	Key         string     `json:"key"`
	Temperature *float64   `json:"temperature"`
	Humidity    *float64   `json:"humidity"`
	Rainfall    *float64   `json:"rainfall"`
	ObservedAt  time.Time  `json:"observedAt"`
	CachedAt    *time.Time `json:"cachedAt,omitempty"`
}

func (r *weatherRecord) complete(key string) bool {
	return r.Version == weatherRecordVersion &&
		r.Key == key &&
		r.Temperature != nil &&
		r.Humidity != nil &&
		r.Rainfall != nil
}

// WeatherCacheAdapter stores coordinate weather in a byte cache
type WeatherCacheAdapter struct {
	cacheProvider ports.CacheProvider
	now           func() time.Time
}

func NewWeatherCacheAdapter(cacheProvider ports.CacheProvider) ports.WeatherCache {
	return &WeatherCacheAdapter{
		cacheProvider: cacheProvider,
		now:           time.Now,
	}
}

// Get returns the observation cached under key. Undecodable, foreign-key,
// old-version or partial records are dropped and reported as a miss.
func (w *WeatherCacheAdapter) Get(ctx context.Context, key string) (*ports.WeatherData, error) {
	data, err := w.cacheProvider.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var record weatherRecord
	if err := json.Unmarshal(data, &record); err != nil || !record.complete(key) {
		_ = w.cacheProvider.Delete(ctx, key)
		return nil, errors.NewNotFoundError("cache miss")
	}

	return &ports.WeatherData{
		Temperature: *record.Temperature,
		Humidity:    *record.Humidity,
		Rainfall:    *record.Rainfall,
		Timestamp:   record.ObservedAt,
	}, nil
}

func (w *WeatherCacheAdapter) Set(ctx context.Context, key string, weather *ports.WeatherData, ttl time.Duration) error {
	if weather == nil {
		return errors.NewValidationError("weather data cannot be nil")
	}

	cachedAt := w.now().UTC()
	data, err := json.Marshal(weatherRecord{
		Version:     weatherRecordVersion,
		Key:         key,
		Temperature: &weather.Temperature,
		Humidity:    &weather.Humidity,
		Rainfall:    &weather.Rainfall,
		ObservedAt:  weather.Timestamp,
		CachedAt:    &cachedAt,
	})
	if err != nil {
		return errors.NewInternalError("failed to encode weather record", err)
	}

	return w.cacheProvider.Set(ctx, key, data, ttl)
}
