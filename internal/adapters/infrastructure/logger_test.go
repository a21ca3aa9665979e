package infrastructure

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"agromonitor.app/internal/mocks"
	"agromonitor.app/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSlogLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLoggerAdapter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	logger.Debug("hidden")
	logger.Warn("Telemetry read failed", ports.F("device_id", "dev-1"), ports.F("error", errors.New("timeout")))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Telemetry read failed", entry["msg"])
	assert.Equal(t, "dev-1", entry["device_id"])
	assert.Equal(t, "timeout", entry["error"])
}

func TestMultiLogger(t *testing.T) {
	first := mocks.NewLogger(t)
	second := mocks.NewLogger(t)
	for _, l := range []*mocks.Logger{first, second} {
		l.On("Info", "Batch started", mock.Anything).Once()
		l.On("Error", "Batch failed", mock.Anything).Once()
	}

	logger := MultiLogger{first, second}
	logger.Info("Batch started", ports.F("job", "battery_update"))
	logger.Error("Batch failed")
}
