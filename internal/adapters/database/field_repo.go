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
	"gorm.io/gorm/clause"
)

const deviceStatusActive = "active"

// LocationModel represents the database model for growing sites
type LocationModel struct {
	ID             string    `gorm:"primaryKey;size:36"`
	OwnerID        string    `gorm:"size:64;not null;index"`
	Name           string    `gorm:"size:128;not null"`
	Latitude       float64   `gorm:"not null"`
	Longitude      float64   `gorm:"not null"`
	SoilType       string    `gorm:"size:32;not null"`
	PlantationDate time.Time `gorm:"not null"`
	DeviceID       string    `gorm:"size:64;index"`
	IsActive       bool      `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (LocationModel) TableName() string {
	return "locations"
}

func (m *LocationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// LocationRepositoryAdapter implements the LocationRepository port using GORM
type LocationRepositoryAdapter struct {
	db *gorm.DB
}

// NewLocationRepositoryAdapter creates a new location repository adapter
func NewLocationRepositoryAdapter(db *gorm.DB) ports.LocationRepository {
	return &LocationRepositoryAdapter{db: db}
}

func (r *LocationRepositoryAdapter) Save(ctx context.Context, location *ports.LocationData) error {
	if location == nil {
		return errors.NewValidationError("location cannot be nil")
	}

	model := &LocationModel{
		ID:             location.ID,
		OwnerID:        location.OwnerID,
		Name:           location.Name,
		Latitude:       location.Coordinates.Latitude,
		Longitude:      location.Coordinates.Longitude,
		SoilType:       location.SoilType,
		PlantationDate: location.PlantationDate,
		DeviceID:       location.DeviceID,
		IsActive:       location.IsActive,
		CreatedAt:      location.CreatedAt,
		UpdatedAt:      location.UpdatedAt,
	}

	var result *gorm.DB
	if location.ID == "" {
		result = r.db.WithContext(ctx).Create(model)
	} else {
		result = r.db.WithContext(ctx).Save(model)
	}
	if result.Error != nil {
		return errors.NewDatabaseError("failed to save location", result.Error)
	}

	location.ID = model.ID
	location.CreatedAt = model.CreatedAt
	location.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID retrieves a location regardless of owner or active flag
func (r *LocationRepositoryAdapter) FindByID(ctx context.Context, id string) (*ports.LocationData, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

// FindActiveByOwner retrieves an active location of the owner
func (r *LocationRepositoryAdapter) FindActiveByOwner(ctx context.Context, id, ownerID string) (*ports.LocationData, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ? AND owner_id = ? AND is_active = ?", id, ownerID, true))
}

// FindAllActive returns every active location across owners in creation order
func (r *LocationRepositoryAdapter) FindAllActive(ctx context.Context) ([]*ports.LocationData, error) {
	var models []LocationModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, errors.NewDatabaseError("failed to find active locations", err)
	}

	locations := make([]*ports.LocationData, len(models))
	for i := range models {
		locations[i] = locationModelToData(&models[i])
	}
	return locations, nil
}

// FindActiveByDeviceID returns the active location a device is assigned to
func (r *LocationRepositoryAdapter) FindActiveByDeviceID(ctx context.Context, deviceID string) (*ports.LocationData, error) {
	if deviceID == "" {
		return nil, errors.NewValidationError("device ID cannot be empty")
	}
	return r.first(ctx, r.db.WithContext(ctx).Where("device_id = ? AND is_active = ?", deviceID, true).Order("created_at ASC"))
}

func (r *LocationRepositoryAdapter) first(ctx context.Context, query *gorm.DB) (*ports.LocationData, error) {
	var model LocationModel
	if err := query.First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("location not found")
		}
		return nil, errors.NewDatabaseError("failed to find location", err)
	}
	return locationModelToData(&model), nil
}

func locationModelToData(model *LocationModel) *ports.LocationData {
	return &ports.LocationData{
		ID:      model.ID,
		OwnerID: model.OwnerID,
		Name:    model.Name,
		Coordinates: ports.Coordinates{
			Latitude:  model.Latitude,
			Longitude: model.Longitude,
		},
		SoilType:       model.SoilType,
		PlantationDate: model.PlantationDate,
		DeviceID:       model.DeviceID,
		IsActive:       model.IsActive,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// DeviceModel represents the database model for field sensors
type DeviceModel struct {
	ID                  string `gorm:"primaryKey;size:64"`
	OwnerID             string `gorm:"size:64;not null;index"`
	Name                string `gorm:"size:128"`
	SensorType          string `gorm:"size:32;not null;index"`
	Status              string `gorm:"size:16;not null"`
	IsActive            bool   `gorm:"not null;index"`
	BatteryLevel        *float64
	LastReading         datatypes.JSON
	MoistureThreshold   float64
	LastMoistureAlertAt *time.Time
	LastBatteryAlertAt  *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

func (DeviceModel) TableName() string {
	return "devices"
}

func (m *DeviceModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// DeviceRepositoryAdapter implements the DeviceRepository port using GORM
type DeviceRepositoryAdapter struct {
	db *gorm.DB
}

// NewDeviceRepositoryAdapter creates a new device repository adapter
func NewDeviceRepositoryAdapter(db *gorm.DB) ports.DeviceRepository {
	return &DeviceRepositoryAdapter{db: db}
}

// Save inserts the device or replaces the stored row with the same ID
func (r *DeviceRepositoryAdapter) Save(ctx context.Context, device *ports.DeviceData) error {
	if device == nil {
		return errors.NewValidationError("device cannot be nil")
	}

	model := &DeviceModel{
		ID:                  device.ID,
		OwnerID:             device.OwnerID,
		Name:                device.Name,
		SensorType:          device.SensorType,
		Status:              device.Status,
		IsActive:            device.IsActive,
		BatteryLevel:        device.BatteryLevel,
		MoistureThreshold:   device.MoistureThreshold,
		LastMoistureAlertAt: device.LastMoistureAlertAt,
		LastBatteryAlertAt:  device.LastBatteryAlertAt,
		CreatedAt:           device.CreatedAt,
		UpdatedAt:           device.UpdatedAt,
	}
	if device.LastReading != nil {
		raw, err := toJSON(device.LastReading)
		if err != nil {
			return errors.NewDatabaseError("failed to encode last reading", err)
		}
		model.LastReading = raw
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model)
	if result.Error != nil {
		return errors.NewDatabaseError("failed to save device", result.Error)
	}

	device.ID = model.ID
	device.CreatedAt = model.CreatedAt
	device.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DeviceRepositoryAdapter) FindByID(ctx context.Context, deviceID string) (*ports.DeviceData, error) {
	if deviceID == "" {
		return nil, errors.NewValidationError("device ID cannot be empty")
	}

	var model DeviceModel
	if err := r.db.WithContext(ctx).Where("id = ?", deviceID).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("device not found")
		}
		return nil, errors.NewDatabaseError("failed to find device", err)
	}
	return deviceModelToData(&model), nil
}

// FindOperational returns active devices in status "active", optionally
// restricted to the given sensor types
func (r *DeviceRepositoryAdapter) FindOperational(ctx context.Context, sensorTypes []string) ([]*ports.DeviceData, error) {
	query := r.db.WithContext(ctx).Where("is_active = ? AND status = ?", true, deviceStatusActive)
	if len(sensorTypes) > 0 {
		query = query.Where("sensor_type IN ?", sensorTypes)
	}

	var models []DeviceModel
	if err := query.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, errors.NewDatabaseError("failed to find operational devices", err)
	}

	devices := make([]*ports.DeviceData, len(models))
	for i := range models {
		devices[i] = deviceModelToData(&models[i])
	}
	return devices, nil
}

func (r *DeviceRepositoryAdapter) UpdateLastReading(ctx context.Context, deviceID string, reading ports.DeviceReading) error {
	raw, err := toJSON(reading)
	if err != nil {
		return errors.NewDatabaseError("failed to encode last reading", err)
	}
	return r.updateColumn(ctx, deviceID, "last_reading", raw)
}

func (r *DeviceRepositoryAdapter) UpdateBatteryLevel(ctx context.Context, deviceID string, level float64) error {
	return r.updateColumn(ctx, deviceID, "battery_level", level)
}

func (r *DeviceRepositoryAdapter) MarkMoistureAlertSent(ctx context.Context, deviceID string, at time.Time) error {
	return r.updateColumn(ctx, deviceID, "last_moisture_alert_at", at)
}

func (r *DeviceRepositoryAdapter) MarkBatteryAlertSent(ctx context.Context, deviceID string, at time.Time) error {
	return r.updateColumn(ctx, deviceID, "last_battery_alert_at", at)
}

func (r *DeviceRepositoryAdapter) updateColumn(ctx context.Context, deviceID, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&DeviceModel{}).Where("id = ?", deviceID).Update(column, value)
	if result.Error != nil {
		return errors.NewDatabaseError("failed to update device "+column, result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("device not found")
	}
	return nil
}

func deviceModelToData(model *DeviceModel) *ports.DeviceData {
	data := &ports.DeviceData{
		ID:                  model.ID,
		OwnerID:             model.OwnerID,
		Name:                model.Name,
		SensorType:          model.SensorType,
		Status:              model.Status,
		IsActive:            model.IsActive,
		BatteryLevel:        model.BatteryLevel,
		MoistureThreshold:   model.MoistureThreshold,
		LastMoistureAlertAt: model.LastMoistureAlertAt,
		LastBatteryAlertAt:  model.LastBatteryAlertAt,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}

	var reading ports.DeviceReading
	if fromJSON(model.LastReading, &reading) {
		data.LastReading = &reading
	}
	return data
}
