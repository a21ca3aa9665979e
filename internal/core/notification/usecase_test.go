package notification

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

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type testDeps struct {
	devices       *mocks.DeviceRepository
	locations     *mocks.LocationRepository
	schedules     *mocks.ScheduleRepository
	tokens        *mocks.DeviceTokenRepository
	notifications *mocks.NotificationRepository
	push          *mocks.PushProvider
}

func newTestUseCase(t *testing.T) (*UseCase, *testDeps) {
	t.Helper()

	d := &testDeps{
		devices:       mocks.NewDeviceRepository(t),
		locations:     mocks.NewLocationRepository(t),
		schedules:     mocks.NewScheduleRepository(t),
		tokens:        mocks.NewDeviceTokenRepository(t),
		notifications: mocks.NewNotificationRepository(t),
		push:          mocks.NewPushProvider(t),
	}
	d.push.On("GetProviderName").Return("mock-push").Maybe()

	uc, err := NewUseCase(UseCaseDependencies{
		DeviceRepo:       d.devices,
		LocationRepo:     d.locations,
		ScheduleRepo:     d.schedules,
		TokenRepo:        d.tokens,
		NotificationRepo: d.notifications,
		PushProvider:     d.push,
		Logger:           mocks.NewNopLogger(t),
		Metrics:          mocks.NewNopMetricsCollector(t),
		Now:              func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return uc, d
}

func TestNewUseCase_MissingDependencies(t *testing.T) {
	_, err := NewUseCase(UseCaseDependencies{})
	assert.True(t, errors.IsValidationError(err))
}

func TestUseCase_SendLowMoistureLevelNotifications(t *testing.T) {
	uc, d := newTestUseCase(t)

	d.devices.On("FindByID", mock.Anything, "dev-1").Return(&ports.DeviceData{ID: "dev-1", OwnerID: "owner-1"}, nil)
	d.notifications.On("Save", mock.Anything, mock.MatchedBy(func(n *ports.NotificationData) bool {
		return n.OwnerID == "owner-1" && n.Type == "moisture_alert" && !n.Read && n.CreatedAt.Equal(fixedNow)
	})).Return(nil)
	d.tokens.On("FindByOwner", mock.Anything, "owner-1").Return([]*ports.DeviceTokenData{
		{Token: "tok-a"}, {Token: "tok-b"},
	}, nil)
	d.push.On("Send", mock.Anything, ports.PushMessage{
		Tokens: []string{"tok-a", "tok-b"},
		Title:  "Low Soil Moisture Alert",
		Body:   "Soil moisture level at Paddy is 18%. Consider watering soon.",
		Data: map[string]string{
			"type":          "low_moisture",
			"deviceId":      "dev-1",
			"moistureLevel": "18",
			"locationName":  "Paddy",
		},
	}).Return(ports.PushResult{SuccessCount: 2}, nil)

	assert.True(t, uc.SendLowMoistureLevelNotifications(context.Background(), "dev-1", "Paddy", 18))
}

func TestUseCase_SendLowMoistureLevelNotifications_UnknownDevice(t *testing.T) {
	uc, d := newTestUseCase(t)

	d.devices.On("FindByID", mock.Anything, "dev-x").Return(nil, errors.NewNotFoundError("record not found"))

	assert.False(t, uc.SendLowMoistureLevelNotifications(context.Background(), "dev-x", "Paddy", 18))
	d.notifications.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUseCase_SendLowBatteryAlert_DeliveryChannels(t *testing.T) {
	tests := []struct {
		name      string
		saveErr   error
		pushErr   error
		pushOK    int
		delivered bool
	}{
		{"StoredAndPushed", nil, nil, 1, true},
		{"StoredOnly", nil, stderrors.New("gateway down"), 0, true},
		{"PushedOnly", stderrors.New("db down"), nil, 1, true},
		{"Neither", stderrors.New("db down"), stderrors.New("gateway down"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, d := newTestUseCase(t)

			d.devices.On("FindByID", mock.Anything, "dev-1").
				Return(&ports.DeviceData{ID: "dev-1", OwnerID: "owner-1", Name: "Sensor A"}, nil)
			d.notifications.On("Save", mock.Anything, mock.Anything).Return(tt.saveErr)
			d.tokens.On("FindByOwner", mock.Anything, "owner-1").Return([]*ports.DeviceTokenData{{Token: "tok"}}, nil)
			d.push.On("Send", mock.Anything, mock.MatchedBy(func(msg ports.PushMessage) bool {
				return msg.Title == "Low Battery Alert" && msg.Data["batteryLevel"] == "12"
			})).Return(ports.PushResult{SuccessCount: tt.pushOK}, tt.pushErr)

			assert.Equal(t, tt.delivered, uc.SendLowBatteryAlert(context.Background(), "dev-1", 12))
		})
	}
}

func TestUseCase_SendLowBatteryAlert_NoTokens(t *testing.T) {
	uc, d := newTestUseCase(t)

	d.devices.On("FindByID", mock.Anything, "dev-1").Return(&ports.DeviceData{ID: "dev-1", OwnerID: "owner-1"}, nil)
	d.notifications.On("Save", mock.Anything, mock.Anything).Return(nil)
	d.tokens.On("FindByOwner", mock.Anything, "owner-1").Return([]*ports.DeviceTokenData{}, nil)

	assert.True(t, uc.SendLowBatteryAlert(context.Background(), "dev-1", 5))
	d.push.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestUseCase_SendWateringReminders(t *testing.T) {
	uc, d := newTestUseCase(t)

	reminded := fixedNow.Add(-time.Hour)
	from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)
	d.schedules.On("FindPendingBetween", mock.Anything, from, to).Return([]*ports.ScheduleData{
		{ID: "sched-1", OwnerID: "owner-1", LocationID: "loc-1", RecommendedAmount: 40},
		{ID: "sched-2", OwnerID: "owner-1", LocationID: "loc-1", RecommendedAmount: 20, ReminderSentAt: &reminded},
		{ID: "sched-3", OwnerID: "owner-2", LocationID: "loc-2", RecommendedAmount: 75},
	}, nil)
	d.locations.On("FindByID", mock.Anything, "loc-1").Return(&ports.LocationData{ID: "loc-1", Name: "North plot"}, nil)
	d.locations.On("FindByID", mock.Anything, "loc-2").Return(nil, errors.NewNotFoundError("record not found"))
	d.notifications.On("Save", mock.Anything, mock.MatchedBy(func(n *ports.NotificationData) bool {
		return n.Type == "schedule_reminder"
	})).Return(nil)
	d.tokens.On("FindByOwner", mock.Anything, mock.Anything).Return([]*ports.DeviceTokenData{}, nil)
	d.schedules.On("MarkReminderSent", mock.Anything, "sched-1", fixedNow).Return(nil)
	d.schedules.On("MarkReminderSent", mock.Anything, "sched-3", fixedNow).Return(stderrors.New("db down"))

	result := uc.SendWateringReminders(context.Background())

	assert.Equal(t, "watering_reminders", result.Job)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	d.notifications.AssertNumberOfCalls(t, "Save", 2)
}

func TestUseCase_GetNotifications(t *testing.T) {
	uc, d := newTestUseCase(t)

	d.notifications.On("FindByOwner", mock.Anything, "owner-1", DefaultHistoryLimit).Return([]*ports.NotificationData{
		{ID: "n2", OwnerID: "owner-1", Type: "battery_low", CreatedAt: fixedNow},
		{ID: "n1", OwnerID: "owner-1", Type: "moisture_alert", CreatedAt: fixedNow.Add(-time.Hour)},
	}, nil)

	notifications, err := uc.GetNotifications(context.Background(), "owner-1", 0)

	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, TypeBatteryLow, notifications[0].Type)

	_, err = uc.GetNotifications(context.Background(), "", 10)
	assert.True(t, errors.IsValidationError(err))
}
