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
	"gorm.io/datatypes"
)

// CreateSegment stores a saved filter. Criteria is kept verbatim; this
// service only checks that it is well-formed JSON and never evaluates it.
func CreateSegment(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		EntityType  string         `json:"entity_type"`
		Criteria    datatypes.JSON `json:"criteria"`
		Active      *bool          `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse segment creation request", zap.Error(err))
		return fail(c, apperr.Validation("invalid request"))
	}

	segment := model.Segment{
		Name:        req.Name,
		Description: req.Description,
		EntityType:  req.EntityType,
		Criteria:    req.Criteria,
		Active:      true,
	}
	if segment.EntityType == "" {
		segment.EntityType = "customer"
	}
	if req.Active != nil {
		segment.Active = *req.Active
	}
	if err := segment.Validate(); err != nil {
		return fail(c, err)
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&segment); result.Error != nil {
		log.Error("Failed to create segment", zap.Error(result.Error))
		return fail(c, apperr.Internal("segment creation failed", result.Error))
	}

	log.Info("Segment created", zap.Uint("id", segment.ID), zap.String("name", segment.Name))
	return c.JSON(http.StatusCreated, segment)
}

// ListSegments retrieves saved segments, optionally only active ones
func ListSegments(c echo.Context) error {
	query := database.GetDB().Model(&model.Segment{})
	if active := c.QueryParam("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var segments []model.Segment
	if result := query.Order("name").Find(&segments); result.Error != nil {
		return fail(c, apperr.Internal("failed to list segments", result.Error))
	}

	return c.JSON(http.StatusOK, segments)
}

// GetSegment retrieves a single segment
func GetSegment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid segment ID"))
	}

	var segment model.Segment
	if result := database.GetDB().First(&segment, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "segment not found", ""))
	}

	return c.JSON(http.StatusOK, segment)
}

// UpdateSegment edits a saved segment. The member count is maintained by
// an external batch process and is not editable here.
func UpdateSegment(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid segment ID"))
	}

	var segment model.Segment
	if result := database.GetDB().First(&segment, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "segment not found", ""))
	}

	var req struct {
		Name        *string        `json:"name"`
		Description *string        `json:"description"`
		EntityType  *string        `json:"entity_type"`
		Criteria    datatypes.JSON `json:"criteria"`
		Active      *bool          `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}

	if req.Name != nil {
		segment.Name = *req.Name
	}
	if req.Description != nil {
		segment.Description = *req.Description
	}
	if req.EntityType != nil {
		segment.EntityType = *req.EntityType
	}
	if len(req.Criteria) > 0 {
		segment.Criteria = req.Criteria
	}
	if req.Active != nil {
		segment.Active = *req.Active
	}
	if err := segment.Validate(); err != nil {
		return fail(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&segment); result.Error != nil {
		log.Error("Failed to update segment", zap.Error(result.Error))
		return fail(c, apperr.Internal("segment update failed", result.Error))
	}

	return c.JSON(http.StatusOK, segment)
}

// DeleteSegment soft-deletes a saved segment
func DeleteSegment(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid segment ID"))
	}

	var segment model.Segment
	if result := database.GetDB().First(&segment, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "segment not found", ""))
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&segment); result.Error != nil {
		log.Error("Failed to delete segment", zap.Error(result.Error))
		return fail(c, apperr.Internal("segment deletion failed", result.Error))
	}

	log.Info("Segment deleted", zap.Uint("id", segment.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "segment deleted"})
}
