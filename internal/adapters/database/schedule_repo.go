package database

import (
	"context"
	stderrors "errors"
	"time"

	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const statusPending = "pending"

// ScheduleModel represents the database model for watering schedules
type ScheduleModel struct {
	ID                   string    `gorm:"primaryKey;size:36"`
	OwnerID              string    `gorm:"size:64;not null;index:idx_schedules_owner_date,priority:1"`
	LocationID           string    `gorm:"size:36;not null;index"`
	DeviceID             string    `gorm:"size:64"`
	Date                 time.Time `gorm:"not null;index:idx_schedules_owner_date,priority:2"`
	Temperature          float64
	Humidity             float64
	Rainfall             float64
	SoilMoisture10cm     float64
	SoilMoisture20cm     float64
	SoilMoisture30cm     float64
	SoilType             string `gorm:"size:32"`
	PlantAge             int
	RecommendedAmount    int
	PredictionConfidence float64
	Status               string `gorm:"size:16;not null;index"`
	ExecutionDetails     datatypes.JSON
	ReminderSentAt       *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

func (ScheduleModel) TableName() string {
	return "watering_schedules"
}

func (m *ScheduleModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ScheduleRepositoryAdapter implements the ScheduleRepository port using GORM
type ScheduleRepositoryAdapter struct {
	db *gorm.DB
}

// NewScheduleRepositoryAdapter creates a new schedule repository adapter
func NewScheduleRepositoryAdapter(db *gorm.DB) ports.ScheduleRepository {
	return &ScheduleRepositoryAdapter{db: db}
}

// Save inserts a new schedule or overwrites an existing one
func (r *ScheduleRepositoryAdapter) Save(ctx context.Context, schedule *ports.ScheduleData) error {
	if schedule == nil {
		return errors.NewValidationError("schedule cannot be nil")
	}

	model, err := r.dataToModel(schedule)
	if err != nil {
		return errors.NewDatabaseError("failed to encode execution details", err)
	}

	var result *gorm.DB
	if schedule.ID == "" {
		result = r.db.WithContext(ctx).Create(model)
	} else {
		result = r.db.WithContext(ctx).Save(model)
	}
	if result.Error != nil {
		return errors.NewDatabaseError("failed to save schedule", result.Error)
	}

	schedule.ID = model.ID
	schedule.CreatedAt = model.CreatedAt
	schedule.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByOwner returns the owner's schedules matching filter, newest date first
func (r *ScheduleRepositoryAdapter) FindByOwner(ctx context.Context, filter ports.ScheduleFilter) ([]*ports.ScheduleData, error) {
	if filter.OwnerID == "" {
		return nil, errors.NewValidationError("owner ID cannot be empty")
	}

	query := r.db.WithContext(ctx).Where("owner_id = ?", filter.OwnerID)
	if filter.LocationID != "" {
		query = query.Where("location_id = ?", filter.LocationID)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var models []ScheduleModel
	if err := query.Order("date DESC").Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.NewDatabaseError("failed to find schedules", err)
	}
	return r.modelsToData(models), nil
}

// FindByID retrieves a schedule of the owner. Other owners' rows are not found.
func (r *ScheduleRepositoryAdapter) FindByID(ctx context.Context, id, ownerID string) (*ports.ScheduleData, error) {
	model, err := r.findOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return r.modelToData(model), nil
}

func (r *ScheduleRepositoryAdapter) findOwned(ctx context.Context, id, ownerID string) (*ScheduleModel, error) {
	if id == "" {
		return nil, errors.NewValidationError("schedule ID cannot be empty")
	}

	var model ScheduleModel
	result := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&model)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("schedule not found")
		}
		return nil, errors.NewDatabaseError("failed to find schedule by ID", result.Error)
	}
	return &model, nil
}

// UpdateStatus sets status and, when given, the execution details. It applies
// no transition rules.
func (r *ScheduleRepositoryAdapter) UpdateStatus(ctx context.Context, id, ownerID, status string, details *ports.ExecutionDetails) (*ports.ScheduleData, error) {
	model, err := r.findOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": status}
	if details != nil {
		raw, err := toJSON(details)
		if err != nil {
			return nil, errors.NewDatabaseError("failed to encode execution details", err)
		}
		updates["execution_details"] = raw
	}

	if err := r.db.WithContext(ctx).Model(model).Updates(updates).Error; err != nil {
		return nil, errors.NewDatabaseError("failed to update schedule status", err)
	}

	return r.FindByID(ctx, id, ownerID)
}

// SoftDelete marks a schedule of the owner as deleted
func (r *ScheduleRepositoryAdapter) SoftDelete(ctx context.Context, id, ownerID string) error {
	if id == "" {
		return errors.NewValidationError("schedule ID cannot be empty")
	}

	result := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&ScheduleModel{})
	if result.Error != nil {
		return errors.NewDatabaseError("failed to delete schedule", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("schedule not found")
	}
	return nil
}

// FindPendingBetween returns pending schedules of every owner dated within [from, to]
func (r *ScheduleRepositoryAdapter) FindPendingBetween(ctx context.Context, from, to time.Time) ([]*ports.ScheduleData, error) {
	var models []ScheduleModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND date >= ? AND date <= ?", statusPending, from, to).
		Order("date ASC").
		Find(&models).Error
	if err != nil {
		return nil, errors.NewDatabaseError("failed to find pending schedules", err)
	}
	return r.modelsToData(models), nil
}

// MarkReminderSent records when the owner was reminded of a schedule
func (r *ScheduleRepositoryAdapter) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&ScheduleModel{}).Where("id = ?", id).Update("reminder_sent_at", at)
	if result.Error != nil {
		return errors.NewDatabaseError("failed to mark reminder sent", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("schedule not found")
	}
	return nil
}

func (r *ScheduleRepositoryAdapter) dataToModel(data *ports.ScheduleData) (*ScheduleModel, error) {
	model := &ScheduleModel{
		ID:                   data.ID,
		OwnerID:              data.OwnerID,
		LocationID:           data.LocationID,
		DeviceID:             data.DeviceID,
		Date:                 data.Date,
		Temperature:          data.Weather.Temperature,
		Humidity:             data.Weather.Humidity,
		Rainfall:             data.Weather.Rainfall,
		SoilMoisture10cm:     data.Soil.Moisture10cm,
		SoilMoisture20cm:     data.Soil.Moisture20cm,
		SoilMoisture30cm:     data.Soil.Moisture30cm,
		SoilType:             data.Soil.SoilType,
		PlantAge:             data.PlantAge,
		RecommendedAmount:    data.RecommendedAmount,
		PredictionConfidence: data.PredictionConfidence,
		Status:               data.Status,
		ReminderSentAt:       data.ReminderSentAt,
		CreatedAt:            data.CreatedAt,
		UpdatedAt:            data.UpdatedAt,
	}
	if model.Status == "" {
		model.Status = statusPending
	}
	if data.ExecutionDetails != nil {
		raw, err := toJSON(data.ExecutionDetails)
		if err != nil {
			return nil, err
		}
		model.ExecutionDetails = raw
	}
	return model, nil
}

func (r *ScheduleRepositoryAdapter) modelToData(model *ScheduleModel) *ports.ScheduleData {
	data := &ports.ScheduleData{
		ID:         model.ID,
		OwnerID:    model.OwnerID,
		LocationID: model.LocationID,
		DeviceID:   model.DeviceID,
		Date:       model.Date,
		Weather: ports.WeatherSnapshot{
			Temperature: model.Temperature,
			Humidity:    model.Humidity,
			Rainfall:    model.Rainfall,
		},
		Soil: ports.SoilSnapshot{
			Moisture10cm: model.SoilMoisture10cm,
			Moisture20cm: model.SoilMoisture20cm,
			Moisture30cm: model.SoilMoisture30cm,
			SoilType:     model.SoilType,
		},
		PlantAge:             model.PlantAge,
		RecommendedAmount:    model.RecommendedAmount,
		PredictionConfidence: model.PredictionConfidence,
		Status:               model.Status,
		ReminderSentAt:       model.ReminderSentAt,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}

	var details ports.ExecutionDetails
	if fromJSON(model.ExecutionDetails, &details) {
		data.ExecutionDetails = &details
	}
	return data
}

func (r *ScheduleRepositoryAdapter) modelsToData(models []ScheduleModel) []*ports.ScheduleData {
	schedules := make([]*ports.ScheduleData, len(models))
	for i := range models {
		schedules[i] = r.modelToData(&models[i])
	}
	return schedules
}
