package monitoring

import (
	"math"
	"time"

	"agromonitor.app/internal/ports"
)

// UnknownLocation names the site in alerts for devices without an active location
const UnknownLocation = "unknown location"

// Reading is a soil moisture sample at three depths
type Reading struct {
	Moisture10cm float64
	Moisture20cm float64
	Moisture30cm float64
	Timestamp    time.Time
}

// MeanMoisture is the arithmetic mean over the three depths
func (r Reading) MeanMoisture() float64 {
	return (r.Moisture10cm + r.Moisture20cm + r.Moisture30cm) / 3
}

// RoundedMoisture is the mean rounded to the nearest whole percent
func (r Reading) RoundedMoisture() int {
	return int(math.Round(r.MeanMoisture()))
}

// Device is a field sensor as seen by the monitoring jobs
type Device struct {
	ID                  string
	OwnerID             string
	SensorType          string
	MoistureThreshold   float64
	LastMoistureAlertAt *time.Time
	LastBatteryAlertAt  *time.Time
}

// EffectiveMoistureThreshold returns the device threshold when one is set,
// otherwise fallback.
func (d *Device) EffectiveMoistureThreshold(fallback float64) float64 {
	if d.MoistureThreshold > 0 {
		return d.MoistureThreshold
	}
	return fallback
}

// MoistureAlertDue reports whether the cooldown since the last moisture alert has passed
func (d *Device) MoistureAlertDue(now time.Time, cooldown time.Duration) bool {
	return alertDue(d.LastMoistureAlertAt, now, cooldown)
}

// BatteryAlertDue reports whether the cooldown since the last battery alert has passed
func (d *Device) BatteryAlertDue(now time.Time, cooldown time.Duration) bool {
	return alertDue(d.LastBatteryAlertAt, now, cooldown)
}

func alertDue(last *time.Time, now time.Time, cooldown time.Duration) bool {
	return last == nil || now.Sub(*last) >= cooldown
}

func convertFromPortsDevice(data *ports.DeviceData) *Device {
	return &Device{
		ID:                  data.ID,
		OwnerID:             data.OwnerID,
		SensorType:          data.SensorType,
		MoistureThreshold:   data.MoistureThreshold,
		LastMoistureAlertAt: data.LastMoistureAlertAt,
		LastBatteryAlertAt:  data.LastBatteryAlertAt,
	}
}

func convertFromTelemetry(t *ports.TelemetryReading) Reading {
	return Reading{
		Moisture10cm: t.Moisture10cm,
		Moisture20cm: t.Moisture20cm,
		Moisture30cm: t.Moisture30cm,
		Timestamp:    t.Timestamp,
	}
}

func (r Reading) toPorts() ports.DeviceReading {
	return ports.DeviceReading{
		Moisture10cm: r.Moisture10cm,
		Moisture20cm: r.Moisture20cm,
		Moisture30cm: r.Moisture30cm,
		Timestamp:    r.Timestamp,
	}
}
