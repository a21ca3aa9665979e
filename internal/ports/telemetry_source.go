package ports

import (
	"context"
	"time"
)

// TelemetryReading is the most recent live snapshot of a device
type TelemetryReading struct {
	DeviceID     string
	Moisture10cm float64
	Moisture20cm float64
	Moisture30cm float64
	BatteryLevel *float64
	Timestamp    time.Time
}

// TelemetrySource reads live sensor data. LatestReading returns nil, nil when
// the device has never reported.
type TelemetrySource interface {
	LatestReading(ctx context.Context, deviceID string) (*TelemetryReading, error)
}
