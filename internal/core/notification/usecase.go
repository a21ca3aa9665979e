package notification

import (
	"context"
	"fmt"
	"time"

	"agromonitor.app/internal/core/watering"
	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
)

const jobWateringReminders = "watering_reminders"

var _ ports.DeviceNotifier = (*UseCase)(nil)

type UseCase struct {
	deviceRepo       ports.DeviceRepository
	locationRepo     ports.LocationRepository
	scheduleRepo     ports.ScheduleRepository
	tokenRepo        ports.DeviceTokenRepository
	notificationRepo ports.NotificationRepository
	pushProvider     ports.PushProvider
	logger           ports.Logger
	metrics          ports.MetricsCollector
	now              func() time.Time
}

type UseCaseDependencies struct {
	DeviceRepo       ports.DeviceRepository
	LocationRepo     ports.LocationRepository
	ScheduleRepo     ports.ScheduleRepository
	TokenRepo        ports.DeviceTokenRepository
	NotificationRepo ports.NotificationRepository
	PushProvider     ports.PushProvider
	Logger           ports.Logger
	Metrics          ports.MetricsCollector
	Now              func() time.Time
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.DeviceRepo == nil {
		return nil, errors.NewValidationError("device repository is required")
	}
	if deps.LocationRepo == nil {
		return nil, errors.NewValidationError("location repository is required")
	}
	if deps.ScheduleRepo == nil {
		return nil, errors.NewValidationError("schedule repository is required")
	}
	if deps.TokenRepo == nil {
		return nil, errors.NewValidationError("device token repository is required")
	}
	if deps.NotificationRepo == nil {
		return nil, errors.NewValidationError("notification repository is required")
	}
	if deps.PushProvider == nil {
		return nil, errors.NewValidationError("push provider is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}
	if deps.Metrics == nil {
		return nil, errors.NewValidationError("metrics collector is required")
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &UseCase{
		deviceRepo:       deps.DeviceRepo,
		locationRepo:     deps.LocationRepo,
		scheduleRepo:     deps.ScheduleRepo,
		tokenRepo:        deps.TokenRepo,
		notificationRepo: deps.NotificationRepo,
		pushProvider:     deps.PushProvider,
		logger:           deps.Logger,
		metrics:          deps.Metrics,
		now:              now,
	}, nil
}

// SendLowMoistureLevelNotifications alerts the owner of deviceID about a dry field
func (uc *UseCase) SendLowMoistureLevelNotifications(ctx context.Context, deviceID, locationName string, moistureLevel int) bool {
	device, ok := uc.findDevice(ctx, deviceID)
	if !ok {
		return false
	}
	return uc.notifyOwner(ctx, NewLowMoistureNotification(device.OwnerID, deviceID, locationName, moistureLevel))
}

// SendLowBatteryAlert alerts the owner of deviceID about a low battery
func (uc *UseCase) SendLowBatteryAlert(ctx context.Context, deviceID string, level float64) bool {
	device, ok := uc.findDevice(ctx, deviceID)
	if !ok {
		return false
	}
	return uc.notifyOwner(ctx, NewLowBatteryNotification(device.OwnerID, deviceID, device.Name, level))
}

func (uc *UseCase) findDevice(ctx context.Context, deviceID string) (*ports.DeviceData, bool) {
	device, err := uc.deviceRepo.FindByID(ctx, deviceID)
	if err != nil {
		uc.logger.Warn("Cannot notify, device lookup failed",
			ports.F("device_id", deviceID),
			ports.F("error", err))
		return nil, false
	}
	if device.OwnerID == "" {
		uc.logger.Warn("Cannot notify, device has no owner", ports.F("device_id", deviceID))
		return nil, false
	}
	return device, true
}

// notifyOwner stores n in the owner's history and pushes it to the owner's
// registered tokens. It reports whether the owner can see the notification
// through either channel.
func (uc *UseCase) notifyOwner(ctx context.Context, n *Notification) bool {
	n.CreatedAt = uc.now()

	saved := true
	data := convertToPortsNotification(n)
	if err := uc.notificationRepo.Save(ctx, data); err != nil {
		uc.logger.Warn("Failed to store notification",
			ports.F("owner_id", n.OwnerID),
			ports.F("type", n.Type.String()),
			ports.F("error", err))
		saved = false
	} else {
		n.ID = data.ID
	}

	pushed := uc.push(ctx, n)
	delivered := saved || pushed
	uc.metrics.RecordNotification(n.Type.String(), delivered)
	return delivered
}

func (uc *UseCase) push(ctx context.Context, n *Notification) bool {
	tokens, err := uc.tokenRepo.FindByOwner(ctx, n.OwnerID)
	if err != nil {
		uc.logger.Warn("Failed to load push tokens",
			ports.F("owner_id", n.OwnerID),
			ports.F("error", err))
		return false
	}
	if len(tokens) == 0 {
		uc.logger.Debug("No push tokens for owner", ports.F("owner_id", n.OwnerID))
		return false
	}

	values := make([]string, 0, len(tokens))
	for _, token := range tokens {
		values = append(values, token.Token)
	}

	result, err := uc.pushProvider.Send(ctx, ports.PushMessage{
		Tokens: values,
		Title:  n.Title,
		Body:   n.Message,
		Data:   n.Data,
	})
	if err != nil {
		uc.logger.Warn("Push delivery failed",
			ports.F("owner_id", n.OwnerID),
			ports.F("provider", uc.pushProvider.GetProviderName()),
			ports.F("error", err))
		return false
	}

	uc.logger.Debug("Push notification sent",
		ports.F("owner_id", n.OwnerID),
		ports.F("type", n.Type.String()),
		ports.F("success", result.SuccessCount),
		ports.F("failed", result.FailureCount))
	return result.SuccessCount > 0
}

// SendWateringReminders reminds owners of today's pending schedules. Each
// schedule is reminded at most once.
func (uc *UseCase) SendWateringReminders(ctx context.Context) (result ports.BatchResult) {
	start := time.Now()
	result.Job = jobWateringReminders
	defer func() {
		result.Duration = time.Since(start)
		uc.metrics.RecordBatch(result)
	}()

	from, to := watering.DayBounds(uc.now())
	schedules, err := uc.scheduleRepo.FindPendingBetween(ctx, from, to)
	if err != nil {
		uc.logger.Error("Failed to load pending schedules", ports.F("error", err))
		return result
	}

	uc.logger.Info("Checking watering reminders", ports.F("pending", len(schedules)))
	result.Total = len(schedules)

	for _, schedule := range schedules {
		if schedule.ReminderSentAt != nil {
			result.Skipped++
			continue
		}

		if err := uc.remind(ctx, schedule); err != nil {
			uc.logger.Error("Failed to send watering reminder",
				ports.F("schedule_id", schedule.ID),
				ports.F("error", err))
			result.Failed++
			continue
		}
		result.Succeeded++
		result.Notified++
	}

	uc.logger.Info("Watering reminders completed",
		ports.F("total", result.Total),
		ports.F("success", result.Succeeded),
		ports.F("failed", result.Failed),
		ports.F("skipped", result.Skipped),
		ports.F("duration_ms", time.Since(start).Milliseconds()))
	return result
}

func (uc *UseCase) remind(ctx context.Context, schedule *ports.ScheduleData) error {
	locationName := ""
	if location, err := uc.locationRepo.FindByID(ctx, schedule.LocationID); err == nil {
		locationName = location.Name
	}

	n := NewWateringReminder(schedule.OwnerID, schedule.ID, schedule.LocationID, locationName, schedule.RecommendedAmount)
	if !uc.notifyOwner(ctx, n) {
		return errors.NewNotificationError("reminder not delivered", nil)
	}

	if err := uc.scheduleRepo.MarkReminderSent(ctx, schedule.ID, uc.now()); err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}

// GetNotifications returns the owner's notifications, newest first
func (uc *UseCase) GetNotifications(ctx context.Context, ownerID string, limit int) ([]*Notification, error) {
	if ownerID == "" {
		return nil, errors.NewValidationError("owner id is required")
	}

	data, err := uc.notificationRepo.FindByOwner(ctx, ownerID, ClampHistoryLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}

	notifications := make([]*Notification, 0, len(data))
	for _, d := range data {
		notifications = append(notifications, convertFromPortsNotification(d))
	}
	return notifications, nil
}

func convertToPortsNotification(n *Notification) *ports.NotificationData {
	return &ports.NotificationData{
		ID:        n.ID,
		OwnerID:   n.OwnerID,
		Type:      n.Type.String(),
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func convertFromPortsNotification(data *ports.NotificationData) *Notification {
	return &Notification{
		ID:        data.ID,
		OwnerID:   data.OwnerID,
		Type:      TypeFromString(data.Type),
		Title:     data.Title,
		Message:   data.Message,
		Data:      data.Data,
		Read:      data.Read,
		CreatedAt: data.CreatedAt,
	}
}
