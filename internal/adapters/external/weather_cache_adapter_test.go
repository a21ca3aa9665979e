package external

import (
	"context"
	"testing"
	"time"

	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.WeatherCache = (*WeatherCacheAdapter)(nil)

func TestWeatherCacheAdapter_RoundTrip(t *testing.T) {
	_, client := setupMockRedis(t)

	providers := map[string]ports.CacheProvider{
		"Memory": NewMemoryCacheProvider(),
		"Redis":  NewRedisCacheProviderAdapter(client, "test"),
	}

	for name, provider := range providers {
		t.Run(name, func(t *testing.T) {
			cache := NewWeatherCacheAdapter(provider)
			ctx := context.Background()
			observed := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)

			_, err := cache.Get(ctx, "weather:7.2906:80.6337")
			assert.True(t, errors.IsNotFoundError(err))

			require.NoError(t, cache.Set(ctx, "weather:7.2906:80.6337", &ports.WeatherData{
				Temperature: 26.5,
				Humidity:    88,
				Rainfall:    3.1,
				Timestamp:   observed,
			}, time.Minute))

			weather, err := cache.Get(ctx, "weather:7.2906:80.6337")
			require.NoError(t, err)
			assert.Equal(t, 26.5, weather.Temperature)
			assert.Equal(t, 3.1, weather.Rainfall)
			assert.True(t, observed.Equal(weather.Timestamp))

			assert.True(t, errors.IsValidationError(cache.Set(ctx, "k", nil, time.Minute)))
		})
	}
}

func TestWeatherCacheAdapter_ZeroRainfallIsCached(t *testing.T) {
	cache := NewWeatherCacheAdapter(NewMemoryCacheProvider())
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "weather:7.2906:80.6337", &ports.WeatherData{
		Temperature: 0,
		Humidity:    40,
		Timestamp:   time.Now(),
	}, time.Minute))

	weather, err := cache.Get(ctx, "weather:7.2906:80.6337")
	require.NoError(t, err)
	assert.Zero(t, weather.Temperature)
	assert.Zero(t, weather.Rainfall)
}

func TestWeatherCacheAdapter_UnusableEntriesAreMisses(t *testing.T) {
	const key = "weather:7.2906:80.6337"

	tests := []struct {
		name  string
		entry string
	}{
		{name: "NotJSON", entry: "not json"},
		{name: "LegacyShape", entry: `{"temperature":26.5,"humidity":88,"rainfall":3.1,"timestamp":"2026-10-19T06:00:00Z"}`},
		{name: "OldVersion", entry: `{"v":1,"key":"` + key + `","temperature":26.5,"humidity":88,"rainfall":3.1}`},
		{name: "OtherLocation", entry: `{"v":2,"key":"weather:6.9271:79.8612","temperature":26.5,"humidity":88,"rainfall":3.1}`},
		{name: "MissingRainfall", entry: `{"v":2,"key":"` + key + `","temperature":26.5,"humidity":88}`},
		{name: "MissingHumidity", entry: `{"v":2,"key":"` + key + `","temperature":26.5,"rainfall":0}`},
		{name: "Empty", entry: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewMemoryCacheProvider()
			ctx := context.Background()
			require.NoError(t, provider.Set(ctx, key, []byte(tt.entry), time.Minute))

			weather, err := NewWeatherCacheAdapter(provider).Get(ctx, key)
			require.Error(t, err)
			assert.Nil(t, weather)
			assert.True(t, errors.IsNotFoundError(err))

			_, err = provider.Get(ctx, key)
			assert.True(t, errors.IsNotFoundError(err), "unusable entry should be evicted")
		})
	}
}
