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

func TestRedisTelemetrySource_LatestReading(t *testing.T) {
	mockRedis, client := setupMockRedis(t)
	source := NewRedisTelemetrySource(client, "devices", time.Second)
	ctx := context.Background()

	reading, err := source.LatestReading(ctx, "dev-1")
	require.NoError(t, err)
	assert.Nil(t, reading)

	base := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)
	battery := 64.0
	require.NoError(t, source.RecordReading(ctx, ports.TelemetryReading{
		DeviceID: "dev-1", Moisture10cm: 40, Moisture20cm: 42, Moisture30cm: 44, Timestamp: base.Add(time.Hour),
		BatteryLevel: &battery,
	}))
	require.NoError(t, source.RecordReading(ctx, ports.TelemetryReading{
		DeviceID: "dev-1", Moisture10cm: 10, Moisture20cm: 12, Moisture30cm: 14, Timestamp: base,
	}))
	assert.True(t, mockRedis.Exists("devices:dev-1:readings"))

	reading, err = source.LatestReading(ctx, "dev-1")
	require.NoError(t, err)
	require.NotNil(t, reading)
	assert.Equal(t, "dev-1", reading.DeviceID)
	assert.Equal(t, 42.0, reading.Moisture20cm)
	require.NotNil(t, reading.BatteryLevel)
	assert.Equal(t, 64.0, *reading.BatteryLevel)
	assert.True(t, base.Add(time.Hour).Equal(reading.Timestamp))

	other, err := source.LatestReading(ctx, "dev-2")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestRedisTelemetrySource_Errors(t *testing.T) {
	mockRedis, client := setupMockRedis(t)
	source := NewRedisTelemetrySource(client, "devices", time.Second)
	ctx := context.Background()

	_, err := source.LatestReading(ctx, "")
	assert.True(t, errors.IsValidationError(err))
	assert.True(t, errors.IsValidationError(source.RecordReading(ctx, ports.TelemetryReading{})))

	_, err = mockRedis.ZAdd("devices:dev-9:readings", 1, "{broken")
	require.NoError(t, err)
	_, err = source.LatestReading(ctx, "dev-9")
	assert.True(t, errors.IsExternalAPIError(err))

	require.NoError(t, source.Ping(ctx))
	mockRedis.Close()
	_, err = source.LatestReading(ctx, "dev-1")
	assert.True(t, errors.IsExternalAPIError(err))
}
