package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"github.com/Baekshook/CRM-Projects-sub003/internal/model"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/database"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/jwtutil"
	"github.com/Baekshook/CRM-Projects-sub003/prometheus"
	"github.com/labstack/echo/v4"
)

// ListNotifications returns the authenticated user's notifications, newest
// first
func ListNotifications(c echo.Context) error {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		return fail(c, apperr.Auth("authentication required"))
	}

	query := database.GetDB().Where("user_id = ?", claims.UserID)
	if unread := c.QueryParam("unread"); unread == "true" {
		query = query.Where("read = ?", false)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var notifications []model.Notification
	if result := query.Order("created_at DESC").Find(&notifications); result.Error != nil {
		return fail(c, apperr.Internal("failed to list notifications", result.Error))
	}

	return c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead marks one of the authenticated user's notifications
// as read
func MarkNotificationRead(c echo.Context) error {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		return fail(c, apperr.Auth("authentication required"))
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid notification ID"))
	}

	var notification model.Notification
	if result := database.GetDB().Where("user_id = ?", claims.UserID).First(&notification, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "notification not found", ""))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Model(&notification).Update("read", true).Error; err != nil {
		return fail(c, apperr.Internal("notification update failed", err))
	}

	return c.JSON(http.StatusOK, notification)
}
