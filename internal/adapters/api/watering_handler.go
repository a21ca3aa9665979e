package api

import (
	"log/slog"
	"net/http"
	"time"

	"agromonitor.app/internal/core/watering"
	"agromonitor.app/pkg/errors"
	"github.com/gin-gonic/gin"
)

// SoilConditionsRequest is accepted for compatibility; the stored snapshot
// always comes from the configured soil source.
type SoilConditionsRequest struct {
	Moisture10cm *float64 `json:"moisture10cm" binding:"omitempty,min=0,max=100"`
	Moisture20cm *float64 `json:"moisture20cm" binding:"omitempty,min=0,max=100"`
	Moisture30cm *float64 `json:"moisture30cm" binding:"omitempty,min=0,max=100"`
	SoilType     string   `json:"soilType" binding:"omitempty,soiltype"`
}

// WeatherConditionsRequest is validated but replaced by live weather
type WeatherConditionsRequest struct {
	Temperature *float64 `json:"temperature" binding:"omitempty,min=-10,max=50"`
	Humidity    *float64 `json:"humidity" binding:"omitempty,min=0,max=100"`
	Rainfall    *float64 `json:"rainfall" binding:"omitempty,min=0,max=1000"`
}

// CreateScheduleRequest represents the HTTP request for creating a schedule
type CreateScheduleRequest struct {
	Date              string                    `json:"date"`
	SoilConditions    *SoilConditionsRequest    `json:"soilConditions"`
	WeatherConditions *WeatherConditionsRequest `json:"weatherConditions"`
	PlantAge          *float64                  `json:"plantAge" binding:"omitempty,min=0,max=100"`
}

// UpdateStatusRequest represents the HTTP request for reporting a schedule outcome
type UpdateStatusRequest struct {
	Status       string   `json:"status" binding:"required,schedulestatus"`
	ActualAmount *float64 `json:"actualAmount" binding:"omitempty,min=0"`
	Notes        string   `json:"notes" binding:"max=500"`
}

// HistoryQuery represents the filters of the schedule history endpoints
type HistoryQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Status    string `form:"status"`
}

// createSchedule handles POST /api/watering/schedule/:locationId requests
func (s *HTTPServerAdapter) createSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Debug("Request binding error", "error", err)
			s.handleError(c, bindingError(err))
			return
		}
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		s.handleError(c, err)
		return
	}

	params := watering.CreateScheduleParams{
		OwnerID:    ownerFrom(c),
		LocationID: c.Param("locationId"),
		Date:       date,
	}
	if soil := req.SoilConditions; soil != nil {
		params.Soil = &watering.SoilConditions{
			Moisture10cm: valueOf(soil.Moisture10cm),
			Moisture20cm: valueOf(soil.Moisture20cm),
			Moisture30cm: valueOf(soil.Moisture30cm),
			SoilType:     soil.SoilType,
		}
	}

	schedule, err := s.wateringUseCase.CreateSchedule(c.Request.Context(), params)
	if err != nil {
		slog.Error("Schedule creation error", "error", err, "location_id", params.LocationID)
		s.handleError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"schedule": schedule})
}

// getScheduleHistory handles GET /api/watering/history requests
func (s *HTTPServerAdapter) getScheduleHistory(c *gin.Context) {
	s.listSchedules(c, c.Query("locationId"))
}

// getLocationSchedules handles GET /api/watering/location/:locationId requests
func (s *HTTPServerAdapter) getLocationSchedules(c *gin.Context) {
	s.listSchedules(c, c.Param("locationId"))
}

func (s *HTTPServerAdapter) listSchedules(c *gin.Context, locationID string) {
	params, err := historyParams(c, locationID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	schedules, err := s.wateringUseCase.GetScheduleHistory(c.Request.Context(), params)
	if err != nil {
		s.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"schedules": schedules})
}

func historyParams(c *gin.Context, locationID string) (watering.HistoryParams, error) {
	var query HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return watering.HistoryParams{}, bindingError(err)
	}

	params := watering.HistoryParams{OwnerID: ownerFrom(c), LocationID: locationID}

	from, err := parseDate("startDate", query.StartDate)
	if err != nil {
		return params, err
	}
	to, err := parseDate("endDate", query.EndDate)
	if err != nil {
		return params, err
	}
	if to != nil && len(query.EndDate) == len(time.DateOnly) {
		_, endOfDay := watering.DayBounds(*to)
		to = &endOfDay
	}
	params.From, params.To = from, to

	if query.Status != "" {
		params.Status = watering.StatusFromString(query.Status)
		if params.Status == watering.StatusUnknown {
			return params, errors.NewFieldValidationError("Validation failed", []errors.FieldError{
				{Field: "status", Message: "Invalid status. Must be one of: pending, completed, skipped, cancelled"},
			})
		}
	}
	return params, nil
}

// getTodaySchedules handles GET /api/watering/today requests
func (s *HTTPServerAdapter) getTodaySchedules(c *gin.Context) {
	schedules, err := s.wateringUseCase.GetTodaySchedules(c.Request.Context(), ownerFrom(c))
	if err != nil {
		s.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"schedules": schedules})
}

// getScheduleByID handles GET /api/watering/schedule/:id requests
func (s *HTTPServerAdapter) getScheduleByID(c *gin.Context) {
	schedule, err := s.wateringUseCase.GetScheduleByID(c.Request.Context(), c.Param("id"), ownerFrom(c))
	if err != nil {
		s.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"schedule": schedule})
}

// updateScheduleStatus handles PUT /api/watering/schedule/:id/status requests
func (s *HTTPServerAdapter) updateScheduleStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("Request binding error", "error", err)
		s.handleError(c, bindingError(err))
		return
	}

	schedule, err := s.wateringUseCase.UpdateScheduleStatus(c.Request.Context(), watering.UpdateStatusParams{
		ID:           c.Param("id"),
		OwnerID:      ownerFrom(c),
		Status:       watering.StatusFromString(req.Status),
		ActualAmount: req.ActualAmount,
		Notes:        req.Notes,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"schedule": schedule})
}

// deleteSchedule handles DELETE /api/watering/schedule/:id requests
func (s *HTTPServerAdapter) deleteSchedule(c *gin.Context) {
	if err := s.wateringUseCase.DeleteSchedule(c.Request.Context(), c.Param("id"), ownerFrom(c)); err != nil {
		s.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
