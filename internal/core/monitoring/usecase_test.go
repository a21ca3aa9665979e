package monitoring

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"agromonitor.app/internal/mocks"
	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var soilTypes = []string{"soil_moisture"}

type testDeps struct {
	devices   *mocks.DeviceRepository
	locations *mocks.LocationRepository
	telemetry *mocks.TelemetrySource
	notifier  *mocks.DeviceNotifier
}

func newTestUseCase(t *testing.T, now *time.Time) (*UseCase, *testDeps) {
	t.Helper()

	d := &testDeps{
		devices:   mocks.NewDeviceRepository(t),
		locations: mocks.NewLocationRepository(t),
		telemetry: mocks.NewTelemetrySource(t),
		notifier:  mocks.NewDeviceNotifier(t),
	}

	config := mocks.NewConfigProvider(t)
	config.On("GetMonitoringConfig").Return(ports.MonitoringConfig{
		MoistureThreshold: 30,
		BatteryThreshold:  20,
		SoilSensorTypes:   soilTypes,
		AlertCooldown:     24 * time.Hour,
	}).Maybe()

	uc, err := NewUseCase(UseCaseDependencies{
		DeviceRepo:   d.devices,
		LocationRepo: d.locations,
		Telemetry:    d.telemetry,
		Notifier:     d.notifier,
		Config:       config,
		Logger:       mocks.NewNopLogger(t),
		Metrics:      mocks.NewNopMetricsCollector(t),
		Now:          func() time.Time { return *now },
	})
	require.NoError(t, err)
	return uc, d
}

func reading(deviceID string, m10, m20, m30 float64) *ports.TelemetryReading {
	return &ports.TelemetryReading{DeviceID: deviceID, Moisture10cm: m10, Moisture20cm: m20, Moisture30cm: m30}
}

func TestNewUseCase_MissingDependencies(t *testing.T) {
	_, err := NewUseCase(UseCaseDependencies{})
	assert.True(t, errors.IsValidationError(err))
}

func TestUseCase_CheckMoistureLevels_LowMoistureAlert(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	uc, d := newTestUseCase(t, &now)

	d.devices.On("FindOperational", mock.Anything, soilTypes).
		Return([]*ports.DeviceData{{ID: "dev-1", OwnerID: "owner-1", SensorType: "soil_moisture"}}, nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-1").Return(reading("dev-1", 20, 25, 31), nil)
	d.devices.On("UpdateLastReading", mock.Anything, "dev-1", ports.DeviceReading{
		Moisture10cm: 20, Moisture20cm: 25, Moisture30cm: 31, Timestamp: now,
	}).Return(nil)
	d.locations.On("FindActiveByDeviceID", mock.Anything, "dev-1").
		Return(&ports.LocationData{ID: "loc-1", Name: "Tea Estate"}, nil)
	d.notifier.On("SendLowMoistureLevelNotifications", mock.Anything, "dev-1", "Tea Estate", 25).Return(true)
	d.devices.On("MarkMoistureAlertSent", mock.Anything, "dev-1", now).Return(nil)

	result := uc.CheckMoistureLevels(context.Background())

	assert.Equal(t, "moisture_check", result.Job)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Notified)
}

func TestUseCase_CheckMoistureLevels_AtMostOneAlertPerCooldown(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	uc, d := newTestUseCase(t, &now)

	device := &ports.DeviceData{ID: "dev-1", OwnerID: "owner-1", SensorType: "soil_moisture"}
	d.devices.On("FindOperational", mock.Anything, soilTypes).Return([]*ports.DeviceData{device}, nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-1").Return(reading("dev-1", 10, 10, 10), nil)
	d.devices.On("UpdateLastReading", mock.Anything, "dev-1", mock.Anything).Return(nil)
	d.locations.On("FindActiveByDeviceID", mock.Anything, "dev-1").Return(&ports.LocationData{Name: "Paddy"}, nil)
	d.notifier.On("SendLowMoistureLevelNotifications", mock.Anything, "dev-1", "Paddy", 10).Return(true)
	d.devices.On("MarkMoistureAlertSent", mock.Anything, "dev-1", mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			at := args.Get(2).(time.Time)
			device.LastMoistureAlertAt = &at
		}).Return(nil)

	// Every 4 hours for a day, then once more after the cooldown has elapsed.
	alerts := 0
	for i := 0; i < 6; i++ {
		alerts += uc.CheckMoistureLevels(context.Background()).Notified
		now = now.Add(4 * time.Hour)
	}
	assert.Equal(t, 1, alerts)

	alerts += uc.CheckMoistureLevels(context.Background()).Notified
	assert.Equal(t, 2, alerts)
	d.notifier.AssertNumberOfCalls(t, "SendLowMoistureLevelNotifications", 2)
}

func TestUseCase_CheckMoistureLevels_SkipsAndIsolatesFailures(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	uc, d := newTestUseCase(t, &now)

	d.devices.On("FindOperational", mock.Anything, soilTypes).Return([]*ports.DeviceData{
		{ID: "dev-silent"},
		{ID: "dev-broken"},
		{ID: "dev-wet"},
		{ID: "dev-dry"},
	}, nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-silent").Return(nil, nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-broken").Return(nil, stderrors.New("timeout"))
	d.telemetry.On("LatestReading", mock.Anything, "dev-wet").Return(reading("dev-wet", 60, 65, 70), nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-dry").Return(reading("dev-dry", 5, 10, 15), nil)
	d.devices.On("UpdateLastReading", mock.Anything, "dev-wet", mock.Anything).Return(nil)
	d.devices.On("UpdateLastReading", mock.Anything, "dev-dry", mock.Anything).Return(nil)
	d.locations.On("FindActiveByDeviceID", mock.Anything, "dev-dry").Return(nil, errors.NewNotFoundError("record not found"))
	d.notifier.On("SendLowMoistureLevelNotifications", mock.Anything, "dev-dry", UnknownLocation, 10).Return(true)
	d.devices.On("MarkMoistureAlertSent", mock.Anything, "dev-dry", now).Return(nil)

	result := uc.CheckMoistureLevels(context.Background())

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Notified)
	d.notifier.AssertNotCalled(t, "SendLowMoistureLevelNotifications", mock.Anything, "dev-wet", mock.Anything, mock.Anything)
}

func TestUseCase_CheckMoistureLevels_DeviceThresholdOverride(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	uc, d := newTestUseCase(t, &now)

	d.devices.On("FindOperational", mock.Anything, soilTypes).
		Return([]*ports.DeviceData{{ID: "dev-1", MoistureThreshold: 50}}, nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-1").Return(reading("dev-1", 40, 40, 40), nil)
	d.devices.On("UpdateLastReading", mock.Anything, "dev-1", mock.Anything).Return(nil)
	d.locations.On("FindActiveByDeviceID", mock.Anything, "dev-1").Return(&ports.LocationData{Name: "Orchard"}, nil)
	d.notifier.On("SendLowMoistureLevelNotifications", mock.Anything, "dev-1", "Orchard", 40).Return(true)
	d.devices.On("MarkMoistureAlertSent", mock.Anything, "dev-1", now).Return(nil)

	result := uc.CheckMoistureLevels(context.Background())

	assert.Equal(t, 1, result.Notified)
}

func TestUseCase_CheckMoistureLevels_UndeliveredAlertIsRetried(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	uc, d := newTestUseCase(t, &now)

	d.devices.On("FindOperational", mock.Anything, soilTypes).Return([]*ports.DeviceData{{ID: "dev-1"}}, nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-1").Return(reading("dev-1", 1, 2, 3), nil)
	d.devices.On("UpdateLastReading", mock.Anything, "dev-1", mock.Anything).Return(nil)
	d.locations.On("FindActiveByDeviceID", mock.Anything, "dev-1").Return(&ports.LocationData{Name: "Field"}, nil)
	d.notifier.On("SendLowMoistureLevelNotifications", mock.Anything, "dev-1", "Field", 2).Return(false)

	result := uc.CheckMoistureLevels(context.Background())

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 0, result.Notified)
	d.devices.AssertNotCalled(t, "MarkMoistureAlertSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestUseCase_CheckMoistureLevels_DeliveredAlertCountsWhenCooldownNotStored(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	uc, d := newTestUseCase(t, &now)

	d.devices.On("FindOperational", mock.Anything, soilTypes).Return([]*ports.DeviceData{{ID: "dev-1"}}, nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-1").Return(reading("dev-1", 1, 2, 3), nil)
	d.devices.On("UpdateLastReading", mock.Anything, "dev-1", mock.Anything).Return(nil)
	d.locations.On("FindActiveByDeviceID", mock.Anything, "dev-1").Return(&ports.LocationData{Name: "Field"}, nil)
	d.notifier.On("SendLowMoistureLevelNotifications", mock.Anything, "dev-1", "Field", 2).Return(true)
	d.devices.On("MarkMoistureAlertSent", mock.Anything, "dev-1", now).
		Return(errors.NewDatabaseError("update failed", nil))

	result := uc.CheckMoistureLevels(context.Background())

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Notified)
	assert.Equal(t, 0, result.Failed)
}

func TestUseCase_CheckMoistureLevels_LoadFailure(t *testing.T) {
	now := time.Now()
	uc, d := newTestUseCase(t, &now)

	d.devices.On("FindOperational", mock.Anything, soilTypes).Return(nil, stderrors.New("db down"))

	result := uc.CheckMoistureLevels(context.Background())

	assert.Equal(t, 0, result.Total)
}

func TestUseCase_UpdateBatteryLevels(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	uc, d := newTestUseCase(t, &now)

	low, healthy := 12.0, 87.0
	recent := now.Add(-2 * time.Hour)
	d.devices.On("FindOperational", mock.Anything, []string(nil)).Return([]*ports.DeviceData{
		{ID: "dev-low"},
		{ID: "dev-low-recent", LastBatteryAlertAt: &recent},
		{ID: "dev-healthy"},
		{ID: "dev-no-battery"},
	}, nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-low").Return(&ports.TelemetryReading{BatteryLevel: &low}, nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-low-recent").Return(&ports.TelemetryReading{BatteryLevel: &low}, nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-healthy").Return(&ports.TelemetryReading{BatteryLevel: &healthy}, nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-no-battery").Return(&ports.TelemetryReading{}, nil)
	d.devices.On("UpdateBatteryLevel", mock.Anything, "dev-low", low).Return(nil)
	d.devices.On("UpdateBatteryLevel", mock.Anything, "dev-low-recent", low).Return(nil)
	d.devices.On("UpdateBatteryLevel", mock.Anything, "dev-healthy", healthy).Return(nil)
	d.notifier.On("SendLowBatteryAlert", mock.Anything, "dev-low", low).Return(true)
	d.devices.On("MarkBatteryAlertSent", mock.Anything, "dev-low", now).Return(nil)

	result := uc.UpdateBatteryLevels(context.Background())

	assert.Equal(t, "battery_update", result.Job)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Notified)
	d.notifier.AssertNumberOfCalls(t, "SendLowBatteryAlert", 1)
}

func TestUseCase_UpdateBatteryLevels_StoreFailure(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	uc, d := newTestUseCase(t, &now)

	level := 50.0
	d.devices.On("FindOperational", mock.Anything, []string(nil)).Return([]*ports.DeviceData{{ID: "dev-1"}, {ID: "dev-2"}}, nil)
	d.telemetry.On("LatestReading", mock.Anything, mock.Anything).Return(&ports.TelemetryReading{BatteryLevel: &level}, nil)
	d.devices.On("UpdateBatteryLevel", mock.Anything, "dev-1", level).Return(errors.NewDatabaseError("update failed", nil))
	d.devices.On("UpdateBatteryLevel", mock.Anything, "dev-2", level).Return(nil)

	result := uc.UpdateBatteryLevels(context.Background())

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Succeeded)
}

func TestUseCase_UpdateBatteryLevels_DeliveredAlertCountsWhenCooldownNotStored(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	uc, d := newTestUseCase(t, &now)

	level := 9.0
	d.devices.On("FindOperational", mock.Anything, []string(nil)).Return([]*ports.DeviceData{{ID: "dev-1"}}, nil)
	d.telemetry.On("LatestReading", mock.Anything, "dev-1").Return(&ports.TelemetryReading{BatteryLevel: &level}, nil)
	d.devices.On("UpdateBatteryLevel", mock.Anything, "dev-1", level).Return(nil)
	d.notifier.On("SendLowBatteryAlert", mock.Anything, "dev-1", level).Return(true)
	d.devices.On("MarkBatteryAlertSent", mock.Anything, "dev-1", now).
		Return(errors.NewDatabaseError("update failed", nil))

	result := uc.UpdateBatteryLevels(context.Background())

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Notified)
	assert.Equal(t, 0, result.Failed)
}
