package ports

import (
	"context"
	"time"
)

// WeatherSnapshot is the weather stored alongside a schedule
type WeatherSnapshot struct {
	Temperature float64
	Humidity    float64
	Rainfall    float64
}

// SoilSnapshot is the soil state stored alongside a schedule
type SoilSnapshot struct {
	Moisture10cm float64
	Moisture20cm float64
	Moisture30cm float64
	SoilType     string
}

// ExecutionDetails records what actually happened for a schedule
type ExecutionDetails struct {
	ActualAmount *float64  `json:"actualAmount,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	ExecutedAt   time.Time `json:"executedAt"`
}

// ScheduleData represents watering schedule data for persistence
type ScheduleData struct {
	ID                   string
	OwnerID              string
	LocationID           string
	DeviceID             string
	Date                 time.Time
	Weather              WeatherSnapshot
	Soil                 SoilSnapshot
	PlantAge             int
	RecommendedAmount    int
	PredictionConfidence float64
	Status               string
	ExecutionDetails     *ExecutionDetails
	ReminderSentAt       *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ScheduleFilter narrows an owner's schedule history. Zero values are ignored.
type ScheduleFilter struct {
	OwnerID    string
	LocationID string
	From       *time.Time
	To         *time.Time
	Status     string
}

// ScheduleRepository defines the contract for watering schedule persistence.
// Every read excludes soft-deleted rows. A row owned by someone else is
// reported as not found.
type ScheduleRepository interface {
	Save(ctx context.Context, schedule *ScheduleData) error
	FindByOwner(ctx context.Context, filter ScheduleFilter) ([]*ScheduleData, error)
	FindByID(ctx context.Context, id, ownerID string) (*ScheduleData, error)
	UpdateStatus(ctx context.Context, id, ownerID, status string, details *ExecutionDetails) (*ScheduleData, error)
	SoftDelete(ctx context.Context, id, ownerID string) error
	FindPendingBetween(ctx context.Context, from, to time.Time) ([]*ScheduleData, error)
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
}
