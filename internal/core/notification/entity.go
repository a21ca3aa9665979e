package notification

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Type identifies what a notification is about
type Type int

const (
	TypeUnknown Type = iota
	TypeMoistureAlert
	TypeBatteryLow
	TypeScheduleReminder
)

func (t Type) String() string {
	switch t {
	case TypeMoistureAlert:
		return "moisture_alert"
	case TypeBatteryLow:
		return "battery_low"
	case TypeScheduleReminder:
		return "schedule_reminder"
	default:
		return "unknown"
	}
}

// TypeFromString converts string to Type enum
func TypeFromString(s string) Type {
	switch s {
	case "moisture_alert":
		return TypeMoistureAlert
	case "battery_low":
		return TypeBatteryLow
	case "schedule_reminder":
		return TypeScheduleReminder
	default:
		return TypeUnknown
	}
}

// MarshalJSON implements json.Marshaler interface
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// DefaultLocationName is used in messages when the caller has no location name
const DefaultLocationName = "your location"

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

// Notification is a message addressed to an owner
type Notification struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"ownerId"`
	Type      Type              `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewLowMoistureNotification builds the alert for a dry field
func NewLowMoistureNotification(ownerID, deviceID, locationName string, moistureLevel int) *Notification {
	if locationName == "" {
		locationName = DefaultLocationName
	}
	return &Notification{
		OwnerID: ownerID,
		Type:    TypeMoistureAlert,
		Title:   "Low Soil Moisture Alert",
		Message: fmt.Sprintf("Soil moisture level at %s is %d%%. Consider watering soon.", locationName, moistureLevel),
		Data: map[string]string{
			"type":          "low_moisture",
			"deviceId":      deviceID,
			"moistureLevel": strconv.Itoa(moistureLevel),
			"locationName":  locationName,
		},
	}
}

// NewLowBatteryNotification builds the alert for a device running out of battery
func NewLowBatteryNotification(ownerID, deviceID, deviceName string, level float64) *Notification {
	if deviceName == "" {
		deviceName = deviceID
	}
	return &Notification{
		OwnerID: ownerID,
		Type:    TypeBatteryLow,
		Title:   "Low Battery Alert",
		Message: fmt.Sprintf("Battery level of device %s is %.0f%%. Please recharge or replace the battery.", deviceName, level),
		Data: map[string]string{
			"type":         "low_battery",
			"deviceId":     deviceID,
			"batteryLevel": strconv.FormatFloat(level, 'f', 0, 64),
		},
	}
}

// NewWateringReminder builds the reminder for a schedule due today
func NewWateringReminder(ownerID, scheduleID, locationID, locationName string, amount int) *Notification {
	if locationName == "" {
		locationName = DefaultLocationName
	}
	return &Notification{
		OwnerID: ownerID,
		Type:    TypeScheduleReminder,
		Title:   "Watering Reminder",
		Message: fmt.Sprintf("%s is scheduled for %d liters of water today.", locationName, amount),
		Data: map[string]string{
			"type":              "watering_reminder",
			"scheduleId":        scheduleID,
			"locationId":        locationID,
			"recommendedAmount": strconv.Itoa(amount),
		},
	}
}

// ClampHistoryLimit bounds the page size of notification history
func ClampHistoryLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
