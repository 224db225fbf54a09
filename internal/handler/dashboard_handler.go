package handler

import (
	"net/http"
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"github.com/Baekshook/CRM-Projects-sub003/internal/model"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/database"
	"github.com/Baekshook/CRM-Projects-sub003/prometheus"
	"github.com/labstack/echo/v4"
)

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DashboardStats aggregates the numbers shown on the admin dashboard
func DashboardStats(c echo.Context) error {
	db := database.GetDB()
	defer prometheus.TrackDBOperation("query")(time.Now())

	var requestsByStatus []statusCount
	if err := db.Model(&model.Request{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&requestsByStatus).Error; err != nil {
		return fail(c, apperr.Internal("failed to load dashboard stats", err))
	}

	var matchesByStatus []statusCount
	if err := db.Model(&model.Match{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&matchesByStatus).Error; err != nil {
		return fail(c, apperr.Internal("failed to load dashboard stats", err))
	}

	var upcomingSchedules int64
	if err := db.Model(&model.Schedule{}).
		Where("event_date >= ? AND status = ?", time.Now(), model.ScheduleStatusScheduled).
		Count(&upcomingSchedules).Error; err != nil {
		return fail(c, apperr.Internal("failed to load dashboard stats", err))
	}

	var unpaidTotal int64
	if err := db.Model(&model.Contract{}).
		Where("payment_status <> ?", model.PaymentStatusPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&unpaidTotal).Error; err != nil {
		return fail(c, apperr.Internal("failed to load dashboard stats", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"requests_by_status": requestsByStatus,
		"matches_by_status":  matchesByStatus,
		"upcoming_schedules": upcomingSchedules,
		"unpaid_total":       unpaidTotal,
	})
}
