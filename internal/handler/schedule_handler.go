package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"github.com/Baekshook/CRM-Projects-sub003/internal/model"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/database"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/logger"
	"github.com/Baekshook/CRM-Projects-sub003/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListSchedules retrieves schedules filtered by status and date range
func ListSchedules(c echo.Context) error {
	query := database.GetDB().Model(&model.Schedule{})

	if status := c.QueryParam("status"); status != "" {
		if !model.ScheduleStatus(status).Valid() {
			return fail(c, apperr.Validation("unknown schedule status"))
		}
		query = query.Where("status = ?", status)
	}
	if from := c.QueryParam("date_from"); from != "" {
		t, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return fail(c, apperr.Validation("date_from must be YYYY-MM-DD"))
		}
		query = query.Where("event_date >= ?", t)
	}
	if to := c.QueryParam("date_to"); to != "" {
		t, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return fail(c, apperr.Validation("date_to must be YYYY-MM-DD"))
		}
		query = query.Where("event_date <= ?", t)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var schedules []model.Schedule
	if result := query.Order("event_date ASC").Find(&schedules); result.Error != nil {
		return fail(c, apperr.Internal("failed to list schedules", result.Error))
	}

	return c.JSON(http.StatusOK, schedules)
}

// CreateSchedule creates a calendar event for a confirmed match. Creating
// one from a match in any other state is a conflict.
func CreateSchedule(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		MatchID    uint      `json:"match_id"`
		EventTitle string    `json:"event_title"`
		EventDate  time.Time `json:"event_date"`
		StartTime  time.Time `json:"start_time"`
		EndTime    time.Time `json:"end_time"`
		Venue      string    `json:"venue"`
		Details    string    `json:"details"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse schedule creation request", zap.Error(err))
		return fail(c, apperr.Validation("invalid request"))
	}

	var schedule model.Schedule
	txErr := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var match model.Match
		result := tx.Preload("Request.Customer").Preload("Request").Preload("Singer").First(&match, req.MatchID)
		if result.Error != nil {
			return apperr.FromDB(result.Error, "match not found", "")
		}
		if err := match.EnsureConfirmed(); err != nil {
			return err
		}

		customerName := ""
		if match.Request != nil && match.Request.Customer != nil {
			customerName = match.Request.Customer.Name
		}
		singerName := ""
		if match.Singer != nil {
			singerName = match.Singer.StageName
		}

		schedule = model.Schedule{
			MatchID:      req.MatchID,
			EventTitle:   req.EventTitle,
			EventDate:    req.EventDate,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
			Venue:        req.Venue,
			CustomerName: customerName,
			SingerName:   singerName,
			Status:       model.ScheduleStatusScheduled,
			Details:      req.Details,
		}
		if err := schedule.Validate(); err != nil {
			return err
		}

		if err := tx.Create(&schedule).Error; err != nil {
			return apperr.Internal("schedule creation failed", err)
		}
		return nil
	})
	if txErr != nil {
		log.Error("Schedule creation rejected", zap.Uint("match_id", req.MatchID), zap.Error(txErr))
		return fail(c, txErr)
	}

	log.Info("Schedule created", zap.Uint("id", schedule.ID), zap.Uint("match_id", schedule.MatchID))
	return c.JSON(http.StatusCreated, schedule)
}

// UpdateSchedule reschedules an event or advances its status. Moving the
// event window on a scheduled event marks it as changed.
func UpdateSchedule(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid schedule ID"))
	}

	var schedule model.Schedule
	if result := database.GetDB().First(&schedule, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "schedule not found", ""))
	}

	var req struct {
		EventTitle *string    `json:"event_title"`
		EventDate  *time.Time `json:"event_date"`
		StartTime  *time.Time `json:"start_time"`
		EndTime    *time.Time `json:"end_time"`
		Venue      *string    `json:"venue"`
		Details    *string    `json:"details"`
		Status     *string    `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}

	rescheduled := req.EventDate != nil || req.StartTime != nil || req.EndTime != nil

	if req.EventTitle != nil {
		schedule.EventTitle = *req.EventTitle
	}
	if req.EventDate != nil {
		schedule.EventDate = *req.EventDate
	}
	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		schedule.EndTime = *req.EndTime
	}
	if req.Venue != nil {
		schedule.Venue = *req.Venue
	}
	if req.Details != nil {
		schedule.Details = *req.Details
	}
	if req.Status != nil {
		schedule.Status = model.ScheduleStatus(*req.Status)
	} else if rescheduled && schedule.Status == model.ScheduleStatusScheduled {
		schedule.Status = model.ScheduleStatusChanged
	}

	if err := schedule.Validate(); err != nil {
		return fail(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&schedule); result.Error != nil {
		log.Error("Failed to update schedule", zap.Error(result.Error))
		return fail(c, apperr.Internal("schedule update failed", result.Error))
	}

	return c.JSON(http.StatusOK, schedule)
}
