package mocks

import (
	"context"
	"time"

	"agromonitor.app/internal/ports"
	"github.com/stretchr/testify/mock"
)

type ScheduleRepository struct {
	mock.Mock
}

func NewScheduleRepository(t TestingT) *ScheduleRepository {
	m := &ScheduleRepository{}
	register(&m.Mock, t)
	return m
}

func (m *ScheduleRepository) Save(ctx context.Context, schedule *ports.ScheduleData) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *ScheduleRepository) FindByOwner(ctx context.Context, filter ports.ScheduleFilter) ([]*ports.ScheduleData, error) {
	args := m.Called(ctx, filter)
	var r0 []*ports.ScheduleData
	if v := args.Get(0); v != nil {
		r0 = v.([]*ports.ScheduleData)
	}
	return r0, args.Error(1)
}

func (m *ScheduleRepository) FindByID(ctx context.Context, id, ownerID string) (*ports.ScheduleData, error) {
	args := m.Called(ctx, id, ownerID)
	var r0 *ports.ScheduleData
	if v := args.Get(0); v != nil {
		r0 = v.(*ports.ScheduleData)
	}
	return r0, args.Error(1)
}

func (m *ScheduleRepository) UpdateStatus(ctx context.Context, id, ownerID, status string, details *ports.ExecutionDetails) (*ports.ScheduleData, error) {
	args := m.Called(ctx, id, ownerID, status, details)
	var r0 *ports.ScheduleData
	if v := args.Get(0); v != nil {
		r0 = v.(*ports.ScheduleData)
	}
	return r0, args.Error(1)
}

func (m *ScheduleRepository) SoftDelete(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *ScheduleRepository) FindPendingBetween(ctx context.Context, from, to time.Time) ([]*ports.ScheduleData, error) {
	args := m.Called(ctx, from, to)
	var r0 []*ports.ScheduleData
	if v := args.Get(0); v != nil {
		r0 = v.([]*ports.ScheduleData)
	}
	return r0, args.Error(1)
}

func (m *ScheduleRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type LocationRepository struct {
	mock.Mock
}

func NewLocationRepository(t TestingT) *LocationRepository {
	m := &LocationRepository{}
	register(&m.Mock, t)
	return m
}

func (m *LocationRepository) Save(ctx context.Context, location *ports.LocationData) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *LocationRepository) FindByID(ctx context.Context, id string) (*ports.LocationData, error) {
	args := m.Called(ctx, id)
	var r0 *ports.LocationData
	if v := args.Get(0); v != nil {
		r0 = v.(*ports.LocationData)
	}
	return r0, args.Error(1)
}

func (m *LocationRepository) FindActiveByOwner(ctx context.Context, id, ownerID string) (*ports.LocationData, error) {
	args := m.Called(ctx, id, ownerID)
	var r0 *ports.LocationData
	if v := args.Get(0); v != nil {
		r0 = v.(*ports.LocationData)
	}
	return r0, args.Error(1)
}

func (m *LocationRepository) FindAllActive(ctx context.Context) ([]*ports.LocationData, error) {
	args := m.Called(ctx)
	var r0 []*ports.LocationData
	if v := args.Get(0); v != nil {
		r0 = v.([]*ports.LocationData)
	}
	return r0, args.Error(1)
}

func (m *LocationRepository) FindActiveByDeviceID(ctx context.Context, deviceID string) (*ports.LocationData, error) {
	args := m.Called(ctx, deviceID)
	var r0 *ports.LocationData
	if v := args.Get(0); v != nil {
		r0 = v.(*ports.LocationData)
	}
	return r0, args.Error(1)
}

type DeviceRepository struct {
	mock.Mock
}

func NewDeviceRepository(t TestingT) *DeviceRepository {
	m := &DeviceRepository{}
	register(&m.Mock, t)
	return m
}

func (m *DeviceRepository) Save(ctx context.Context, device *ports.DeviceData) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *DeviceRepository) FindByID(ctx context.Context, deviceID string) (*ports.DeviceData, error) {
	args := m.Called(ctx, deviceID)
	var r0 *ports.DeviceData
	if v := args.Get(0); v != nil {
		r0 = v.(*ports.DeviceData)
	}
	return r0, args.Error(1)
}

func (m *DeviceRepository) FindOperational(ctx context.Context, sensorTypes []string) ([]*ports.DeviceData, error) {
	args := m.Called(ctx, sensorTypes)
	var r0 []*ports.DeviceData
	if v := args.Get(0); v != nil {
		r0 = v.([]*ports.DeviceData)
	}
	return r0, args.Error(1)
}

func (m *DeviceRepository) UpdateLastReading(ctx context.Context, deviceID string, reading ports.DeviceReading) error {
	args := m.Called(ctx, deviceID, reading)
	return args.Error(0)
}

func (m *DeviceRepository) UpdateBatteryLevel(ctx context.Context, deviceID string, level float64) error {
	args := m.Called(ctx, deviceID, level)
	return args.Error(0)
}

func (m *DeviceRepository) MarkMoistureAlertSent(ctx context.Context, deviceID string, at time.Time) error {
	args := m.Called(ctx, deviceID, at)
	return args.Error(0)
}

func (m *DeviceRepository) MarkBatteryAlertSent(ctx context.Context, deviceID string, at time.Time) error {
	args := m.Called(ctx, deviceID, at)
	return args.Error(0)
}
