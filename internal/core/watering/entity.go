package watering

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"agromonitor.app/internal/core/weather"
	"agromonitor.app/internal/ports"
)

// Status represents the lifecycle state of a watering schedule
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusCompleted
	StatusSkipped
	StatusCancelled
)

// String returns the string representation of status
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusSkipped:
		return "skipped"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsValid checks if the status value is valid
func (s Status) IsValid() bool {
	return s >= StatusPending && s <= StatusCancelled
}

// IsUpdateTarget reports whether a status update may set s
func (s Status) IsUpdateTarget() bool {
	return s == StatusCompleted || s == StatusSkipped || s == StatusCancelled
}

// CanTransitionTo reports whether a schedule in s may move to next.
// Only pending schedules change state; the other states are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.IsUpdateTarget()
}

// StatusFromString converts string to Status enum
func StatusFromString(s string) Status {
	switch s {
	case "pending":
		return StatusPending
	case "completed":
		return StatusCompleted
	case "skipped":
		return StatusSkipped
	case "cancelled":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// MarshalJSON implements json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalText implements encoding.TextUnmarshaler for form parsing
func (s *Status) UnmarshalText(text []byte) error {
	*s = StatusFromString(string(text))
	return nil
}

// Recommended water amounts in liters per predicted class
const (
	AmountNoWater       = 0
	AmountHighWater     = 75
	AmountModerateWater = 40
	AmountLowWater      = 20
)

var amountByClass = map[int]int{
	0: AmountNoWater,
	1: AmountHighWater,
	2: AmountModerateWater,
	3: AmountLowWater,
}

// RecommendedAmount maps a predicted class to liters
func RecommendedAmount(predictedClass int) (int, error) {
	amount, ok := amountByClass[predictedClass]
	if !ok {
		return 0, fmt.Errorf("unknown prediction class %d", predictedClass)
	}
	return amount, nil
}

// ValidateProbabilities rejects probabilities that are NaN or outside [0,1]
func ValidateProbabilities(p ports.ClassProbabilities) error {
	for _, value := range []float64{p.NoWater, p.HighWater, p.ModerateWater, p.LowWater} {
		if math.IsNaN(value) || value < 0 || value > 1 {
			return fmt.Errorf("class probability %v is outside [0,1]", value)
		}
	}
	return nil
}

// Confidence is the highest class probability as a percentage
func Confidence(p ports.ClassProbabilities) float64 {
	return math.Max(math.Max(p.NoWater, p.HighWater), math.Max(p.ModerateWater, p.LowWater)) * 100
}

const plantYear = 365 * 24 * time.Hour

// PlantAge returns the number of started 365-day years between plantation and now
func PlantAge(plantation, now time.Time) int {
	elapsed := now.Sub(plantation)
	if elapsed < 0 {
		elapsed = -elapsed
	}

	age := int(elapsed / plantYear)
	if elapsed%plantYear != 0 {
		age++
	}
	return age
}

// SoilConditions is a soil moisture snapshot at three depths
type SoilConditions struct {
	Moisture10cm float64 `json:"moisture10cm"`
	Moisture20cm float64 `json:"moisture20cm"`
	Moisture30cm float64 `json:"moisture30cm"`
	SoilType     string  `json:"soilType"`
}

// WeatherConditions is the weather snapshot a recommendation was made with
type WeatherConditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}

// ExecutionDetails records the outcome reported by the owner
type ExecutionDetails struct {
	ActualAmount *float64  `json:"actualAmount,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	ExecutedAt   time.Time `json:"executedAt"`
}

// Schedule is a single watering recommendation
type Schedule struct {
	ID                   string            `json:"id"`
	OwnerID              string            `json:"ownerId"`
	LocationID           string            `json:"locationId"`
	DeviceID             string            `json:"deviceId,omitempty"`
	Date                 time.Time         `json:"date"`
	Weather              WeatherConditions `json:"weatherConditions"`
	Soil                 SoilConditions    `json:"soilConditions"`
	PlantAge             int               `json:"plantAge"`
	RecommendedAmount    int               `json:"recommendedAmount"`
	PredictionConfidence float64           `json:"predictionConfidence"`
	Status               Status            `json:"status"`
	ExecutionDetails     *ExecutionDetails `json:"executionDetails,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

// Location is the part of a growing site a recommendation needs
type Location struct {
	ID             string
	OwnerID        string
	Name           string
	Coordinates    weather.Coordinates
	SoilType       string
	PlantationDate time.Time
	DeviceID       string
}

// CreateScheduleParams is an on-demand schedule request. Soil is accepted for
// compatibility with existing clients and is never used for the prediction.
type CreateScheduleParams struct {
	OwnerID    string
	LocationID string
	Date       *time.Time
	Soil       *SoilConditions
}

// HistoryParams filters an owner's schedule history
type HistoryParams struct {
	OwnerID    string
	LocationID string
	From       *time.Time
	To         *time.Time
	Status     Status
}

// UpdateStatusParams reports the outcome of a schedule
type UpdateStatusParams struct {
	ID           string
	OwnerID      string
	Status       Status
	ActualAmount *float64
	Notes        string
}

// HasDetails reports whether the update carries execution details
func (p UpdateStatusParams) HasDetails() bool {
	return p.ActualAmount != nil || p.Notes != ""
}
