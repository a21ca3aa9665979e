package ports

import (
	"context"
	"time"
)

// PushMessage is a single multicast push notification
type PushMessage struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]string
}

// PushResult reports per-token delivery outcome
type PushResult struct {
	SuccessCount int
	FailureCount int
}

// PushProvider defines the contract for push notification delivery
type PushProvider interface {
	Send(ctx context.Context, msg PushMessage) (PushResult, error)
	GetProviderName() string
}

// DeviceTokenData is a registered push target of an owner
type DeviceTokenData struct {
	ID        string
	OwnerID   string
	Token     string
	Platform  string
	CreatedAt time.Time
}

// DeviceTokenRepository resolves an owner's push targets
type DeviceTokenRepository interface {
	Save(ctx context.Context, token *DeviceTokenData) error
	FindByOwner(ctx context.Context, ownerID string) ([]*DeviceTokenData, error)
}

// NotificationData is a delivered notification kept for the owner's inbox
type NotificationData struct {
	ID        string
	OwnerID   string
	Type      string
	Title     string
	Message   string
	Data      map[string]string
	Read      bool
	CreatedAt time.Time
}

// NotificationRepository persists notification history
type NotificationRepository interface {
	Save(ctx context.Context, notification *NotificationData) error
	FindByOwner(ctx context.Context, ownerID string, limit int) ([]*NotificationData, error)
}

// DeviceNotifier sends device alerts. Failures are reported as false and never
// returned as errors.
type DeviceNotifier interface {
	SendLowMoistureLevelNotifications(ctx context.Context, deviceID, locationName string, moistureLevel int) bool
	SendLowBatteryAlert(ctx context.Context, deviceID string, level float64) bool
}
