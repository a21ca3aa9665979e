package watering

import (
	"context"
	"fmt"
	"time"

	"agromonitor.app/internal/core/weather"
	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
)

const jobDailySchedules = "daily_schedules"

type UseCase struct {
	scheduleRepo   ports.ScheduleRepository
	locationRepo   ports.LocationRepository
	weatherUseCase *weather.UseCase
	predictor      ports.IrrigationPredictor
	telemetry      ports.TelemetrySource
	config         ports.ConfigProvider
	logger         ports.Logger
	metrics        ports.MetricsCollector
	now            func() time.Time
}

type UseCaseDependencies struct {
	ScheduleRepo   ports.ScheduleRepository
	LocationRepo   ports.LocationRepository
	WeatherUseCase *weather.UseCase
	Predictor      ports.IrrigationPredictor
	Telemetry      ports.TelemetrySource
	Config         ports.ConfigProvider
	Logger         ports.Logger
	Metrics        ports.MetricsCollector
	// Now defaults to time.Now
	Now func() time.Time
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.ScheduleRepo == nil {
		return nil, errors.NewValidationError("schedule repository is required")
	}
	if deps.LocationRepo == nil {
		return nil, errors.NewValidationError("location repository is required")
	}
	if deps.WeatherUseCase == nil {
		return nil, errors.NewValidationError("weather use case is required")
	}
	if deps.Predictor == nil {
		return nil, errors.NewValidationError("irrigation predictor is required")
	}
	if deps.Telemetry == nil {
		return nil, errors.NewValidationError("telemetry source is required")
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
		scheduleRepo:   deps.ScheduleRepo,
		locationRepo:   deps.LocationRepo,
		weatherUseCase: deps.WeatherUseCase,
		predictor:      deps.Predictor,
		telemetry:      deps.Telemetry,
		config:         deps.Config,
		logger:         deps.Logger,
		metrics:        deps.Metrics,
		now:            now,
	}, nil
}

// CreateSchedule builds and stores a pending recommendation for one of the
// owner's active locations. Nothing is stored when any step fails.
func (uc *UseCase) CreateSchedule(ctx context.Context, params CreateScheduleParams) (*Schedule, error) {
	if params.OwnerID == "" {
		return nil, errors.NewValidationError("owner id is required")
	}
	if params.LocationID == "" {
		return nil, errors.NewValidationError("location id is required")
	}

	locationData, err := uc.locationRepo.FindActiveByOwner(ctx, params.LocationID, params.OwnerID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("location not found")
		}
		return nil, fmt.Errorf("find location %s: %w", params.LocationID, err)
	}
	location := convertFromPortsLocation(locationData)

	if params.Soil != nil {
		uc.logger.Debug("Ignoring request soil conditions",
			ports.F("location_id", location.ID),
			ports.F("soil_type", params.Soil.SoilType))
	}

	date := uc.now()
	if params.Date != nil {
		date = *params.Date
	}

	schedule, err := uc.recommend(ctx, location, date)
	if err != nil {
		return nil, fmt.Errorf("schedule creation failed: %w", err)
	}

	if err := uc.save(ctx, schedule); err != nil {
		return nil, fmt.Errorf("schedule creation failed: %w", err)
	}

	uc.logger.Info("Watering schedule created",
		ports.F("schedule_id", schedule.ID),
		ports.F("location_id", location.ID),
		ports.F("recommended_amount", schedule.RecommendedAmount),
		ports.F("confidence", schedule.PredictionConfidence))
	return schedule, nil
}

// CreateDailySchedules creates one schedule per active location. A failing
// location is logged and counted; the sweep always covers every location.
func (uc *UseCase) CreateDailySchedules(ctx context.Context) (result ports.BatchResult) {
	start := time.Now()
	result.Job = jobDailySchedules
	defer func() {
		result.Duration = time.Since(start)
		uc.metrics.RecordBatch(result)
	}()

	uc.logger.Info("Starting daily schedule creation")

	locations, err := uc.locationRepo.FindAllActive(ctx)
	if err != nil {
		uc.logger.Error("Failed to load active locations", ports.F("error", err))
		return result
	}

	result.Total = len(locations)
	for _, locationData := range locations {
		location := convertFromPortsLocation(locationData)

		schedule, err := uc.recommend(ctx, location, uc.now())
		if err == nil {
			err = uc.save(ctx, schedule)
		}
		if err != nil {
			uc.logger.Error("Failed to create daily schedule",
				ports.F("location_id", location.ID),
				ports.F("owner_id", location.OwnerID),
				ports.F("error", err))
			result.Failed++
			continue
		}

		uc.logger.Debug("Daily schedule created",
			ports.F("location_id", location.ID),
			ports.F("schedule_id", schedule.ID))
		result.Succeeded++
	}

	uc.logger.Info("Daily schedule creation completed",
		ports.F("total", result.Total),
		ports.F("success", result.Succeeded),
		ports.F("failed", result.Failed),
		ports.F("duration_ms", time.Since(start).Milliseconds()))
	return result
}

func (uc *UseCase) recommend(ctx context.Context, location *Location, date time.Time) (*Schedule, error) {
	currentWeather, err := uc.weatherUseCase.GetWeather(ctx, location.Coordinates)
	if err != nil {
		return nil, err
	}

	soil := uc.resolveSoilReading(ctx, location)
	plantAge := PlantAge(location.PlantationDate, uc.now())

	prediction, err := uc.predictor.Predict(ctx, ports.PredictionFeatures{
		SoilType:         location.SoilType,
		SoilMoisture10cm: soil.Moisture10cm,
		SoilMoisture20cm: soil.Moisture20cm,
		SoilMoisture30cm: soil.Moisture30cm,
		PlantAge:         plantAge,
		Temperature:      currentWeather.Temperature,
		Humidity:         currentWeather.Humidity,
		Rainfall:         currentWeather.Rainfall,
	})
	if err != nil {
		return nil, errors.NewExternalAPIError("prediction failed", err)
	}

	amount, err := RecommendedAmount(prediction.PredictedClass)
	if err != nil {
		return nil, errors.NewExternalAPIError("prediction failed", err)
	}
	if err := ValidateProbabilities(prediction.Probabilities); err != nil {
		return nil, errors.NewExternalAPIError("prediction failed", err)
	}

	return &Schedule{
		OwnerID:    location.OwnerID,
		LocationID: location.ID,
		DeviceID:   location.DeviceID,
		Date:       date,
		Weather: WeatherConditions{
			Temperature: currentWeather.Temperature,
			Humidity:    currentWeather.Humidity,
			Rainfall:    currentWeather.Rainfall,
		},
		Soil: SoilConditions{
			Moisture10cm: soil.Moisture10cm,
			Moisture20cm: soil.Moisture20cm,
			Moisture30cm: soil.Moisture30cm,
			SoilType:     location.SoilType,
		},
		PlantAge:             plantAge,
		RecommendedAmount:    amount,
		PredictionConfidence: Confidence(prediction.Probabilities),
		Status:               StatusPending,
	}, nil
}

// resolveSoilReading returns the configured fixed reading unless live telemetry
// is enabled and the location's device has reported.
func (uc *UseCase) resolveSoilReading(ctx context.Context, location *Location) ports.DeviceReading {
	cfg := uc.config.GetWateringConfig()
	if !cfg.UseLiveTelemetryForSoilData {
		return cfg.FixedSoilReading
	}

	if location.DeviceID == "" {
		uc.logger.Warn("Location has no device, using fixed soil reading", ports.F("location_id", location.ID))
		return cfg.FixedSoilReading
	}

	reading, err := uc.telemetry.LatestReading(ctx, location.DeviceID)
	if err != nil {
		uc.logger.Warn("Failed to read soil telemetry, using fixed soil reading",
			ports.F("device_id", location.DeviceID),
			ports.F("error", err))
		return cfg.FixedSoilReading
	}
	if reading == nil {
		uc.logger.Warn("No soil telemetry, using fixed soil reading", ports.F("device_id", location.DeviceID))
		return cfg.FixedSoilReading
	}

	return ports.DeviceReading{
		Moisture10cm: reading.Moisture10cm,
		Moisture20cm: reading.Moisture20cm,
		Moisture30cm: reading.Moisture30cm,
		Timestamp:    reading.Timestamp,
	}
}

func (uc *UseCase) save(ctx context.Context, schedule *Schedule) error {
	data := convertToPortsSchedule(schedule)
	if err := uc.scheduleRepo.Save(ctx, data); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	schedule.ID = data.ID
	schedule.CreatedAt = data.CreatedAt
	schedule.UpdatedAt = data.UpdatedAt
	return nil
}

// GetScheduleHistory lists the owner's schedules, newest date first
func (uc *UseCase) GetScheduleHistory(ctx context.Context, params HistoryParams) ([]*Schedule, error) {
	if params.OwnerID == "" {
		return nil, errors.NewValidationError("owner id is required")
	}
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		return nil, errors.NewFieldValidationError("validation failed", []errors.FieldError{
			{Field: "startDate", Message: "startDate must not be after endDate"},
		})
	}

	filter := ports.ScheduleFilter{
		OwnerID:    params.OwnerID,
		LocationID: params.LocationID,
		From:       params.From,
		To:         params.To,
	}
	if params.Status != StatusUnknown {
		if !params.Status.IsValid() {
			return nil, errors.NewValidationError("invalid status")
		}
		filter.Status = params.Status.String()
	}

	schedulesData, err := uc.scheduleRepo.FindByOwner(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get schedule history: %w", err)
	}

	schedules := make([]*Schedule, 0, len(schedulesData))
	for _, data := range schedulesData {
		schedules = append(schedules, convertFromPortsSchedule(data))
	}
	return schedules, nil
}

// GetTodaySchedules lists the owner's schedules dated today in local time
func (uc *UseCase) GetTodaySchedules(ctx context.Context, ownerID string) ([]*Schedule, error) {
	from, to := DayBounds(uc.now())
	return uc.GetScheduleHistory(ctx, HistoryParams{OwnerID: ownerID, From: &from, To: &to})
}

func (uc *UseCase) GetScheduleByID(ctx context.Context, id, ownerID string) (*Schedule, error) {
	data, err := uc.scheduleRepo.FindByID(ctx, id, ownerID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("schedule not found")
		}
		return nil, fmt.Errorf("get schedule %s: %w", id, err)
	}
	return convertFromPortsSchedule(data), nil
}

// UpdateScheduleStatus moves a pending schedule to a terminal status
func (uc *UseCase) UpdateScheduleStatus(ctx context.Context, params UpdateStatusParams) (*Schedule, error) {
	if !params.Status.IsUpdateTarget() {
		return nil, errors.NewFieldValidationError("validation failed", []errors.FieldError{
			{Field: "status", Message: "Invalid status. Must be one of: completed, skipped, cancelled"},
		})
	}

	current, err := uc.GetScheduleByID(ctx, params.ID, params.OwnerID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(params.Status) {
		return nil, errors.NewValidationError(
			fmt.Sprintf("schedule is already %s and cannot become %s", current.Status, params.Status))
	}

	var details *ports.ExecutionDetails
	if params.HasDetails() {
		details = &ports.ExecutionDetails{
			ActualAmount: params.ActualAmount,
			Notes:        params.Notes,
			ExecutedAt:   uc.now(),
		}
	}

	updated, err := uc.scheduleRepo.UpdateStatus(ctx, params.ID, params.OwnerID, params.Status.String(), details)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("schedule not found")
		}
		return nil, fmt.Errorf("update schedule %s status: %w", params.ID, err)
	}

	uc.logger.Info("Watering schedule status updated",
		ports.F("schedule_id", params.ID),
		ports.F("status", params.Status.String()))
	return convertFromPortsSchedule(updated), nil
}

// DeleteSchedule soft-deletes a schedule of the owner
func (uc *UseCase) DeleteSchedule(ctx context.Context, id, ownerID string) error {
	if err := uc.scheduleRepo.SoftDelete(ctx, id, ownerID); err != nil {
		if errors.IsNotFoundError(err) {
			return errors.NewNotFoundError("schedule not found")
		}
		return fmt.Errorf("delete schedule %s: %w", id, err)
	}

	uc.logger.Info("Watering schedule deleted", ports.F("schedule_id", id))
	return nil
}

// DayBounds returns the first and last instant of t's calendar day in t's location
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func convertFromPortsLocation(data *ports.LocationData) *Location {
	return &Location{
		ID:      data.ID,
		OwnerID: data.OwnerID,
		Name:    data.Name,
		Coordinates: weather.Coordinates{
			Latitude:  data.Coordinates.Latitude,
			Longitude: data.Coordinates.Longitude,
		},
		SoilType:       data.SoilType,
		PlantationDate: data.PlantationDate,
		DeviceID:       data.DeviceID,
	}
}

func convertToPortsSchedule(s *Schedule) *ports.ScheduleData {
	data := &ports.ScheduleData{
		ID:         s.ID,
		OwnerID:    s.OwnerID,
		LocationID: s.LocationID,
		DeviceID:   s.DeviceID,
		Date:       s.Date,
		Weather: ports.WeatherSnapshot{
			Temperature: s.Weather.Temperature,
			Humidity:    s.Weather.Humidity,
			Rainfall:    s.Weather.Rainfall,
		},
		Soil: ports.SoilSnapshot{
			Moisture10cm: s.Soil.Moisture10cm,
			Moisture20cm: s.Soil.Moisture20cm,
			Moisture30cm: s.Soil.Moisture30cm,
			SoilType:     s.Soil.SoilType,
		},
		PlantAge:             s.PlantAge,
		RecommendedAmount:    s.RecommendedAmount,
		PredictionConfidence: s.PredictionConfidence,
		Status:               s.Status.String(),
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
	if s.ExecutionDetails != nil {
		data.ExecutionDetails = &ports.ExecutionDetails{
			ActualAmount: s.ExecutionDetails.ActualAmount,
			Notes:        s.ExecutionDetails.Notes,
			ExecutedAt:   s.ExecutionDetails.ExecutedAt,
		}
	}
	return data
}

func convertFromPortsSchedule(data *ports.ScheduleData) *Schedule {
	s := &Schedule{
		ID:         data.ID,
		OwnerID:    data.OwnerID,
		LocationID: data.LocationID,
		DeviceID:   data.DeviceID,
		Date:       data.Date,
		Weather: WeatherConditions{
			Temperature: data.Weather.Temperature,
			Humidity:    data.Weather.Humidity,
			Rainfall:    data.Weather.Rainfall,
		},
		Soil: SoilConditions{
			Moisture10cm: data.Soil.Moisture10cm,
			Moisture20cm: data.Soil.Moisture20cm,
			Moisture30cm: data.Soil.Moisture30cm,
			SoilType:     data.Soil.SoilType,
		},
		PlantAge:             data.PlantAge,
		RecommendedAmount:    data.RecommendedAmount,
		PredictionConfidence: data.PredictionConfidence,
		Status:               StatusFromString(data.Status),
		CreatedAt:            data.CreatedAt,
		UpdatedAt:            data.UpdatedAt,
	}
	if data.ExecutionDetails != nil {
		s.ExecutionDetails = &ExecutionDetails{
			ActualAmount: data.ExecutionDetails.ActualAmount,
			Notes:        data.ExecutionDetails.Notes,
			ExecutedAt:   data.ExecutionDetails.ExecutedAt,
		}
	}
	return s
}
