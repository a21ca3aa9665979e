package ports

import (
	"context"
	"time"
)

// LocationData represents a growing site
type LocationData struct {
	ID             string
	OwnerID        string
	Name           string
	Coordinates    Coordinates
	SoilType       string
	PlantationDate time.Time
	DeviceID       string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DeviceReading is a moisture reading at three depths
type DeviceReading struct {
	Moisture10cm float64   `json:"moisture10cm"`
	Moisture20cm float64   `json:"moisture20cm"`
	Moisture30cm float64   `json:"moisture30cm"`
	Timestamp    time.Time `json:"timestamp"`
}

// DeviceData represents a field sensor
type DeviceData struct {
	ID                  string
	OwnerID             string
	Name                string
	SensorType          string
	Status              string
	IsActive            bool
	BatteryLevel        *float64
	LastReading         *DeviceReading
	MoistureThreshold   float64
	LastMoistureAlertAt *time.Time
	LastBatteryAlertAt  *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// LocationRepository defines read access to locations
type LocationRepository interface {
	Save(ctx context.Context, location *LocationData) error
	FindByID(ctx context.Context, id string) (*LocationData, error)
	FindActiveByOwner(ctx context.Context, id, ownerID string) (*LocationData, error)
	FindAllActive(ctx context.Context) ([]*LocationData, error)
	FindActiveByDeviceID(ctx context.Context, deviceID string) (*LocationData, error)
}

// DeviceRepository defines the device fields the monitoring jobs read and write
type DeviceRepository interface {
	Save(ctx context.Context, device *DeviceData) error
	FindByID(ctx context.Context, deviceID string) (*DeviceData, error)
	// FindOperational returns active devices with status "active". An empty
	// sensorTypes slice disables the sensor type filter.
	FindOperational(ctx context.Context, sensorTypes []string) ([]*DeviceData, error)
	UpdateLastReading(ctx context.Context, deviceID string, reading DeviceReading) error
	UpdateBatteryLevel(ctx context.Context, deviceID string, level float64) error
	MarkMoistureAlertSent(ctx context.Context, deviceID string, at time.Time) error
	MarkBatteryAlertSent(ctx context.Context, deviceID string, at time.Time) error
}
