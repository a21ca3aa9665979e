package database

import (
	"context"
	"time"

	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceTokenModel represents a push token registered by an owner's phone
type DeviceTokenModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	OwnerID   string `gorm:"size:64;not null;index"`
	Token     string `gorm:"size:255;not null;uniqueIndex"`
	Platform  string `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DeviceTokenModel) TableName() string {
	return "device_tokens"
}

func (m *DeviceTokenModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// DeviceTokenRepositoryAdapter implements the DeviceTokenRepository port using GORM
type DeviceTokenRepositoryAdapter struct {
	db *gorm.DB
}

// NewDeviceTokenRepositoryAdapter creates a new device token repository adapter
func NewDeviceTokenRepositoryAdapter(db *gorm.DB) ports.DeviceTokenRepository {
	return &DeviceTokenRepositoryAdapter{db: db}
}

// Save registers a token. A token already known is moved to the new owner.
func (r *DeviceTokenRepositoryAdapter) Save(ctx context.Context, token *ports.DeviceTokenData) error {
	if token == nil || token.Token == "" {
		return errors.NewValidationError("token cannot be empty")
	}

	model := &DeviceTokenModel{
		ID:       token.ID,
		OwnerID:  token.OwnerID,
		Token:    token.Token,
		Platform: token.Platform,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_id", "platform", "updated_at"}),
	}).Create(model)
	if result.Error != nil {
		return errors.NewDatabaseError("failed to save device token", result.Error)
	}

	token.ID = model.ID
	token.CreatedAt = model.CreatedAt
	return nil
}

func (r *DeviceTokenRepositoryAdapter) FindByOwner(ctx context.Context, ownerID string) ([]*ports.DeviceTokenData, error) {
	var models []DeviceTokenModel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, errors.NewDatabaseError("failed to find device tokens", err)
	}

	tokens := make([]*ports.DeviceTokenData, len(models))
	for i, model := range models {
		tokens[i] = &ports.DeviceTokenData{
			ID:        model.ID,
			OwnerID:   model.OwnerID,
			Token:     model.Token,
			Platform:  model.Platform,
			CreatedAt: model.CreatedAt,
		}
	}
	return tokens, nil
}

// NotificationModel represents a notification kept in the owner's history
type NotificationModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	OwnerID   string `gorm:"size:64;not null;index:idx_notifications_owner_created,priority:1"`
	Type      string `gorm:"size:32;not null"`
	Title     string `gorm:"size:255;not null"`
	Message   string `gorm:"type:text;not null"`
	Data      datatypes.JSON
	Read      bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"index:idx_notifications_owner_created,priority:2"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (m *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// NotificationRepositoryAdapter implements the NotificationRepository port using GORM
type NotificationRepositoryAdapter struct {
	db *gorm.DB
}

// NewNotificationRepositoryAdapter creates a new notification repository adapter
func NewNotificationRepositoryAdapter(db *gorm.DB) ports.NotificationRepository {
	return &NotificationRepositoryAdapter{db: db}
}

func (r *NotificationRepositoryAdapter) Save(ctx context.Context, notification *ports.NotificationData) error {
	if notification == nil {
		return errors.NewValidationError("notification cannot be nil")
	}

	model := &NotificationModel{
		ID:        notification.ID,
		OwnerID:   notification.OwnerID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt,
	}
	if len(notification.Data) > 0 {
		raw, err := toJSON(notification.Data)
		if err != nil {
			return errors.NewDatabaseError("failed to encode notification data", err)
		}
		model.Data = raw
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.NewDatabaseError("failed to save notification", err)
	}

	notification.ID = model.ID
	notification.CreatedAt = model.CreatedAt
	return nil
}

// FindByOwner returns up to limit notifications of the owner, newest first
func (r *NotificationRepositoryAdapter) FindByOwner(ctx context.Context, ownerID string, limit int) ([]*ports.NotificationData, error) {
	var models []NotificationModel
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, errors.NewDatabaseError("failed to find notifications", err)
	}

	notifications := make([]*ports.NotificationData, len(models))
	for i := range models {
		model := &models[i]
		data := &ports.NotificationData{
			ID:        model.ID,
			OwnerID:   model.OwnerID,
			Type:      model.Type,
			Title:     model.Title,
			Message:   model.Message,
			Read:      model.Read,
			CreatedAt: model.CreatedAt,
		}
		var payload map[string]string
		if fromJSON(model.Data, &payload) {
			data.Data = payload
		}
		notifications[i] = data
	}
	return notifications, nil
}
