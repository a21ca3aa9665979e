package monitoring

import (
	"context"
	"fmt"
	"time"

	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
)

const (
	jobMoistureCheck = "moisture_check"
	jobBatteryUpdate = "battery_update"
)

type UseCase struct {
	deviceRepo   ports.DeviceRepository
	locationRepo ports.LocationRepository
	telemetry    ports.TelemetrySource
	notifier     ports.DeviceNotifier
	config       ports.ConfigProvider
	logger       ports.Logger
	metrics      ports.MetricsCollector
	now          func() time.Time
}

type UseCaseDependencies struct {
	DeviceRepo   ports.DeviceRepository
	LocationRepo ports.LocationRepository
	Telemetry    ports.TelemetrySource
	Notifier     ports.DeviceNotifier
	Config       ports.ConfigProvider
	Logger       ports.Logger
	Metrics      ports.MetricsCollector
	Now          func() time.Time
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.DeviceRepo == nil {
		return nil, errors.NewValidationError("device repository is required")
	}
	if deps.LocationRepo == nil {
		return nil, errors.NewValidationError("location repository is required")
	}
	if deps.Telemetry == nil {
		return nil, errors.NewValidationError("telemetry source is required")
	}
	if deps.Notifier == nil {
		return nil, errors.NewValidationError("notifier is required")
	}
	if deps.Config == nil {
		return nil, errors.NewValidationError("config is required")
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
		deviceRepo:   deps.DeviceRepo,
		locationRepo: deps.LocationRepo,
		telemetry:    deps.Telemetry,
		notifier:     deps.Notifier,
		config:       deps.Config,
		logger:       deps.Logger,
		metrics:      deps.Metrics,
		now:          now,
	}, nil
}

// CheckMoistureLevels refreshes the last reading of every operational soil
// sensor and alerts the owner when the mean moisture drops below the threshold.
// A device is alerted at most once per cooldown window.
func (uc *UseCase) CheckMoistureLevels(ctx context.Context) (result ports.BatchResult) {
	start := time.Now()
	result.Job = jobMoistureCheck
	defer func() {
		result.Duration = time.Since(start)
		uc.metrics.RecordBatch(result)
	}()

	cfg := uc.config.GetMonitoringConfig()
	devices, err := uc.deviceRepo.FindOperational(ctx, cfg.SoilSensorTypes)
	if err != nil {
		uc.logger.Error("Failed to load devices for moisture check", ports.F("error", err))
		return result
	}

	uc.logger.Info("Checking moisture levels", ports.F("devices", len(devices)))
	result.Total = len(devices)

	for _, data := range devices {
		device := convertFromPortsDevice(data)

		status, err := uc.checkDeviceMoisture(ctx, device, cfg)
		switch {
		case err != nil:
			uc.logger.Error("Failed to check device moisture",
				ports.F("device_id", device.ID),
				ports.F("error", err))
			result.Failed++
		case status == deviceSkipped:
			result.Skipped++
		default:
			result.Succeeded++
			if status == deviceNotified {
				result.Notified++
			}
		}
	}

	uc.logger.Info("Moisture check completed",
		ports.F("total", result.Total),
		ports.F("success", result.Succeeded),
		ports.F("failed", result.Failed),
		ports.F("skipped", result.Skipped),
		ports.F("alerts_sent", result.Notified),
		ports.F("duration_ms", time.Since(start).Milliseconds()))
	return result
}

type deviceOutcome int

const (
	deviceChecked deviceOutcome = iota
	deviceSkipped
	deviceNotified
)

func (uc *UseCase) checkDeviceMoisture(ctx context.Context, device *Device, cfg ports.MonitoringConfig) (deviceOutcome, error) {
	telemetry, err := uc.telemetry.LatestReading(ctx, device.ID)
	if err != nil {
		return deviceChecked, fmt.Errorf("read telemetry: %w", err)
	}
	if telemetry == nil {
		uc.logger.Debug("No telemetry for device", ports.F("device_id", device.ID))
		return deviceSkipped, nil
	}

	reading := convertFromTelemetry(telemetry)
	if reading.Timestamp.IsZero() {
		reading.Timestamp = uc.now()
	}
	if err := uc.deviceRepo.UpdateLastReading(ctx, device.ID, reading.toPorts()); err != nil {
		return deviceChecked, fmt.Errorf("store last reading: %w", err)
	}

	mean := reading.MeanMoisture()
	threshold := device.EffectiveMoistureThreshold(cfg.MoistureThreshold)
	if mean >= threshold {
		return deviceChecked, nil
	}

	now := uc.now()
	if !device.MoistureAlertDue(now, cfg.AlertCooldown) {
		uc.logger.Debug("Moisture alert suppressed by cooldown",
			ports.F("device_id", device.ID),
			ports.F("last_alert_at", *device.LastMoistureAlertAt))
		return deviceChecked, nil
	}

	locationName := uc.locationName(ctx, device.ID)
	if !uc.notifier.SendLowMoistureLevelNotifications(ctx, device.ID, locationName, reading.RoundedMoisture()) {
		uc.logger.Warn("Low moisture alert not delivered",
			ports.F("device_id", device.ID),
			ports.F("moisture", mean))
		return deviceChecked, nil
	}

	if err := uc.deviceRepo.MarkMoistureAlertSent(ctx, device.ID, now); err != nil {
		uc.logger.Warn("Alert sent, cooldown not recorded",
			ports.F("device_id", device.ID),
			ports.F("alert", "moisture"),
			ports.F("error", err))
	}

	uc.logger.Info("Low moisture alert sent",
		ports.F("device_id", device.ID),
		ports.F("location", locationName),
		ports.F("moisture", mean),
		ports.F("threshold", threshold))
	return deviceNotified, nil
}

func (uc *UseCase) locationName(ctx context.Context, deviceID string) string {
	location, err := uc.locationRepo.FindActiveByDeviceID(ctx, deviceID)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			uc.logger.Warn("Failed to resolve device location",
				ports.F("device_id", deviceID),
				ports.F("error", err))
		}
		return UnknownLocation
	}
	if location.Name == "" {
		return UnknownLocation
	}
	return location.Name
}

// UpdateBatteryLevels refreshes every operational device's battery level and
// sends a low battery alert once per cooldown window.
func (uc *UseCase) UpdateBatteryLevels(ctx context.Context) (result ports.BatchResult) {
	start := time.Now()
	result.Job = jobBatteryUpdate
	defer func() {
		result.Duration = time.Since(start)
		uc.metrics.RecordBatch(result)
	}()

	cfg := uc.config.GetMonitoringConfig()
	devices, err := uc.deviceRepo.FindOperational(ctx, nil)
	if err != nil {
		uc.logger.Error("Failed to load devices for battery update", ports.F("error", err))
		return result
	}

	result.Total = len(devices)
	for _, data := range devices {
		device := convertFromPortsDevice(data)

		status, err := uc.updateDeviceBattery(ctx, device, cfg)
		switch {
		case err != nil:
			uc.logger.Error("Failed to update device battery",
				ports.F("device_id", device.ID),
				ports.F("error", err))
			result.Failed++
		case status == deviceSkipped:
			result.Skipped++
		default:
			result.Succeeded++
			if status == deviceNotified {
				result.Notified++
			}
		}
	}

	uc.logger.Debug("Battery update completed",
		ports.F("total", result.Total),
		ports.F("success", result.Succeeded),
		ports.F("failed", result.Failed),
		ports.F("skipped", result.Skipped),
		ports.F("alerts_sent", result.Notified),
		ports.F("duration_ms", time.Since(start).Milliseconds()))
	if result.Notified > 0 {
		uc.logger.Info("Low battery alerts sent", ports.F("count", result.Notified))
	}
	return result
}

func (uc *UseCase) updateDeviceBattery(ctx context.Context, device *Device, cfg ports.MonitoringConfig) (deviceOutcome, error) {
	telemetry, err := uc.telemetry.LatestReading(ctx, device.ID)
	if err != nil {
		return deviceChecked, fmt.Errorf("read telemetry: %w", err)
	}
	if telemetry == nil || telemetry.BatteryLevel == nil {
		return deviceSkipped, nil
	}

	level := *telemetry.BatteryLevel
	if err := uc.deviceRepo.UpdateBatteryLevel(ctx, device.ID, level); err != nil {
		return deviceChecked, fmt.Errorf("store battery level: %w", err)
	}

	if level >= cfg.BatteryThreshold {
		return deviceChecked, nil
	}

	now := uc.now()
	if !device.BatteryAlertDue(now, cfg.AlertCooldown) {
		return deviceChecked, nil
	}

	if !uc.notifier.SendLowBatteryAlert(ctx, device.ID, level) {
		uc.logger.Warn("Low battery alert not delivered",
			ports.F("device_id", device.ID),
			ports.F("battery_level", level))
		return deviceChecked, nil
	}

	if err := uc.deviceRepo.MarkBatteryAlertSent(ctx, device.ID, now); err != nil {
		uc.logger.Warn("Alert sent, cooldown not recorded",
			ports.F("device_id", device.ID),
			ports.F("alert", "battery"),
			ports.F("error", err))
	}
	return deviceNotified, nil
}
