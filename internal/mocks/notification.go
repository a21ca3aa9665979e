package mocks

import (
	"context"

	"agromonitor.app/internal/ports"
	"github.com/stretchr/testify/mock"
)

type PushProvider struct {
	mock.Mock
}

func NewPushProvider(t TestingT) *PushProvider {
	m := &PushProvider{}
	register(&m.Mock, t)
	return m
}

func (m *PushProvider) Send(ctx context.Context, msg ports.PushMessage) (ports.PushResult, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(ports.PushResult), args.Error(1)
}

func (m *PushProvider) GetProviderName() string {
	args := m.Called()
	return args.String(0)
}

type DeviceTokenRepository struct {
	mock.Mock
}

func NewDeviceTokenRepository(t TestingT) *DeviceTokenRepository {
	m := &DeviceTokenRepository{}
	register(&m.Mock, t)
	return m
}

func (m *DeviceTokenRepository) Save(ctx context.Context, token *ports.DeviceTokenData) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *DeviceTokenRepository) FindByOwner(ctx context.Context, ownerID string) ([]*ports.DeviceTokenData, error) {
	args := m.Called(ctx, ownerID)
	var r0 []*ports.DeviceTokenData
	if v := args.Get(0); v != nil {
		r0 = v.([]*ports.DeviceTokenData)
	}
	return r0, args.Error(1)
}

type NotificationRepository struct {
	mock.Mock
}

func NewNotificationRepository(t TestingT) *NotificationRepository {
	m := &NotificationRepository{}
	register(&m.Mock, t)
	return m
}

func (m *NotificationRepository) Save(ctx context.Context, notification *ports.NotificationData) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *NotificationRepository) FindByOwner(ctx context.Context, ownerID string, limit int) ([]*ports.NotificationData, error) {
	args := m.Called(ctx, ownerID, limit)
	var r0 []*ports.NotificationData
	if v := args.Get(0); v != nil {
		r0 = v.([]*ports.NotificationData)
	}
	return r0, args.Error(1)
}

type DeviceNotifier struct {
	mock.Mock
}

func NewDeviceNotifier(t TestingT) *DeviceNotifier {
	m := &DeviceNotifier{}
	register(&m.Mock, t)
	return m
}

func (m *DeviceNotifier) SendLowMoistureLevelNotifications(ctx context.Context, deviceID, locationName string, moistureLevel int) bool {
	args := m.Called(ctx, deviceID, locationName, moistureLevel)
	return args.Bool(0)
}

func (m *DeviceNotifier) SendLowBatteryAlert(ctx context.Context, deviceID string, level float64) bool {
	args := m.Called(ctx, deviceID, level)
	return args.Bool(0)
}
