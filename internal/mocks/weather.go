package mocks

import (
	"context"
	"time"

	"agromonitor.app/internal/ports"
	"github.com/stretchr/testify/mock"
)

type WeatherProvider struct {
	mock.Mock
}

func NewWeatherProvider(t TestingT) *WeatherProvider {
	m := &WeatherProvider{}
	register(&m.Mock, t)
	return m
}

func (m *WeatherProvider) GetCurrentWeather(ctx context.Context, coords ports.Coordinates) (*ports.WeatherData, error) {
	args := m.Called(ctx, coords)
	var r0 *ports.WeatherData
	if v := args.Get(0); v != nil {
		r0 = v.(*ports.WeatherData)
	}
	return r0, args.Error(1)
}

func (m *WeatherProvider) GetProviderName() string {
	args := m.Called()
	return args.String(0)
}

type WeatherCache struct {
	mock.Mock
}

func NewWeatherCache(t TestingT) *WeatherCache {
	m := &WeatherCache{}
	register(&m.Mock, t)
	return m
}

func (m *WeatherCache) Get(ctx context.Context, key string) (*ports.WeatherData, error) {
	args := m.Called(ctx, key)
	var r0 *ports.WeatherData
	if v := args.Get(0); v != nil {
		r0 = v.(*ports.WeatherData)
	}
	return r0, args.Error(1)
}

func (m *WeatherCache) Set(ctx context.Context, key string, weather *ports.WeatherData, ttl time.Duration) error {
	args := m.Called(ctx, key, weather, ttl)
	return args.Error(0)
}

type IrrigationPredictor struct {
	mock.Mock
}

func NewIrrigationPredictor(t TestingT) *IrrigationPredictor {
	m := &IrrigationPredictor{}
	register(&m.Mock, t)
	return m
}

func (m *IrrigationPredictor) Predict(ctx context.Context, features ports.PredictionFeatures) (*ports.PredictionResult, error) {
	args := m.Called(ctx, features)
	var r0 *ports.PredictionResult
	if v := args.Get(0); v != nil {
		r0 = v.(*ports.PredictionResult)
	}
	return r0, args.Error(1)
}

type TelemetrySource struct {
	mock.Mock
}

func NewTelemetrySource(t TestingT) *TelemetrySource {
	m := &TelemetrySource{}
	register(&m.Mock, t)
	return m
}

func (m *TelemetrySource) LatestReading(ctx context.Context, deviceID string) (*ports.TelemetryReading, error) {
	args := m.Called(ctx, deviceID)
	var r0 *ports.TelemetryReading
	if v := args.Get(0); v != nil {
		r0 = v.(*ports.TelemetryReading)
	}
	return r0, args.Error(1)
}
