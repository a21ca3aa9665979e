package mocks

import (
	"time"

	"agromonitor.app/internal/ports"
	"github.com/stretchr/testify/mock"
)

type ConfigProvider struct {
	mock.Mock
}

func NewConfigProvider(t TestingT) *ConfigProvider {
	m := &ConfigProvider{}
	register(&m.Mock, t)
	return m
}

func (m *ConfigProvider) GetWeatherConfig() ports.WeatherConfig {
	return m.Called().Get(0).(ports.WeatherConfig)
}

func (m *ConfigProvider) GetServerConfig() ports.ServerConfig {
	return m.Called().Get(0).(ports.ServerConfig)
}

func (m *ConfigProvider) GetMonitoringConfig() ports.MonitoringConfig {
	return m.Called().Get(0).(ports.MonitoringConfig)
}

func (m *ConfigProvider) GetWateringConfig() ports.WateringConfig {
	return m.Called().Get(0).(ports.WateringConfig)
}

func (m *ConfigProvider) GetSchedulerConfig() ports.SchedulerConfig {
	return m.Called().Get(0).(ports.SchedulerConfig)
}

// Logger records calls with the fields passed as a single []ports.Field argument
type Logger struct {
	mock.Mock
}

func NewLogger(t TestingT) *Logger {
	m := &Logger{}
	register(&m.Mock, t)
	return m
}

// NewNopLogger returns a Logger that accepts any call
func NewNopLogger(t TestingT) *Logger {
	m := NewLogger(t)
	for _, level := range []string{"Debug", "Info", "Warn", "Error"} {
		m.On(level, mock.Anything, mock.Anything).Maybe()
	}
	return m
}

func (m *Logger) Debug(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

func (m *Logger) Info(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

func (m *Logger) Warn(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

func (m *Logger) Error(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

type MetricsCollector struct {
	mock.Mock
}

func NewMetricsCollector(t TestingT) *MetricsCollector {
	m := &MetricsCollector{}
	register(&m.Mock, t)
	return m
}

// NewNopMetricsCollector returns a MetricsCollector that accepts any call
func NewNopMetricsCollector(t TestingT) *MetricsCollector {
	m := NewMetricsCollector(t)
	m.On("RecordBatch", mock.Anything).Maybe()
	m.On("RecordExternalCall", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("RecordNotification", mock.Anything, mock.Anything).Maybe()
	return m
}

func (m *MetricsCollector) RecordBatch(result ports.BatchResult) {
	m.Called(result)
}

func (m *MetricsCollector) RecordExternalCall(service string, success bool, duration time.Duration) {
	m.Called(service, success, duration)
}

func (m *MetricsCollector) RecordNotification(notificationType string, delivered bool) {
	m.Called(notificationType, delivered)
}
