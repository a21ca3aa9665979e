package external

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
	"github.com/go-redis/redis/v8"
)

// RedisTelemetrySource reads device readings from Redis. Each device owns a
// sorted set "{prefix}:{deviceID}:readings" scored by unix timestamp whose
// members are JSON encoded readings.
type RedisTelemetrySource struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// telemetryRecord is the stored form of a reading as devices publish it
type telemetryRecord struct {
	Moisture10cm float64  `json:"moisture10cm"`
	Moisture20cm float64  `json:"moisture20cm"`
	Moisture30cm float64  `json:"moisture30cm"`
	BatteryLevel *float64 `json:"batteryLevel,omitempty"`
	Timestamp    int64    `json:"timestamp"`
}

// NewRedisTelemetrySource creates a telemetry source over an existing client
func NewRedisTelemetrySource(client *redis.Client, prefix string, timeout time.Duration) *RedisTelemetrySource {
	return &RedisTelemetrySource{
		client:  client,
		prefix:  prefix,
		timeout: timeout,
	}
}

// LatestReading returns the newest reading of a device, or nil when it has none
func (s *RedisTelemetrySource) LatestReading(ctx context.Context, deviceID string) (*ports.TelemetryReading, error) {
	if deviceID == "" {
		return nil, errors.NewValidationError("device ID is required")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	members, err := s.client.ZRevRange(ctx, s.readingsKey(deviceID), 0, 0).Result()
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to read device telemetry", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	var record telemetryRecord
	if err := json.Unmarshal([]byte(members[0]), &record); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode device telemetry", err)
	}

	reading := &ports.TelemetryReading{
		DeviceID:     deviceID,
		Moisture10cm: record.Moisture10cm,
		Moisture20cm: record.Moisture20cm,
		Moisture30cm: record.Moisture30cm,
		BatteryLevel: record.BatteryLevel,
	}
	if record.Timestamp > 0 {
		reading.Timestamp = time.Unix(record.Timestamp, 0).UTC()
	}

	return reading, nil
}

// RecordReading appends a reading for a device. Used by ingestion tooling and tests.
func (s *RedisTelemetrySource) RecordReading(ctx context.Context, reading ports.TelemetryReading) error {
	if reading.DeviceID == "" {
		return errors.NewValidationError("device ID is required")
	}

	timestamp := reading.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	member, err := json.Marshal(telemetryRecord{
		Moisture10cm: reading.Moisture10cm,
		Moisture20cm: reading.Moisture20cm,
		Moisture30cm: reading.Moisture30cm,
		BatteryLevel: reading.BatteryLevel,
		Timestamp:    timestamp.Unix(),
	})
	if err != nil {
		return errors.NewExternalAPIError("failed to encode device telemetry", err)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err = s.client.ZAdd(ctx, s.readingsKey(reading.DeviceID), &redis.Z{
		Score:  float64(timestamp.Unix()),
		Member: member,
	}).Err()
	if err != nil {
		return errors.NewExternalAPIError("failed to store device telemetry", err)
	}
	return nil
}

// Ping checks if the telemetry store is reachable
func (s *RedisTelemetrySource) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.NewExternalAPIError("telemetry store ping failed", err)
	}
	return nil
}

func (s *RedisTelemetrySource) readingsKey(deviceID string) string {
	return fmt.Sprintf("%s:%s:readings", s.prefix, deviceID)
}
