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
)

// CreateRequest handles booking request creation
func CreateRequest(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRequestOperation("create")

	var req struct {
		CustomerID   uint      `json:"customer_id"`
		EventType    string    `json:"event_type"`
		EventDate    time.Time `json:"event_date"`
		Venue        string    `json:"venue"`
		Budget       int64     `json:"budget"`
		Requirements string    `json:"requirements"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request creation payload", zap.Error(err))
		return fail(c, apperr.Validation("invalid request"))
	}

	request := model.Request{
		CustomerID:   &req.CustomerID,
		EventType:    req.EventType,
		EventDate:    req.EventDate,
		Venue:        req.Venue,
		Budget:       req.Budget,
		Requirements: req.Requirements,
		Status:       model.RequestStatusPending,
	}
	if err := request.Validate(); err != nil {
		return fail(c, err)
	}

	// The customer must exist at creation time
	var customer model.Customer
	if result := database.GetDB().First(&customer, req.CustomerID); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "customer not found", ""))
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&request); result.Error != nil {
		log.Error("Failed to create request", zap.Error(result.Error))
		return fail(c, apperr.Internal("request creation failed", result.Error))
	}

	log.Info("Request created", zap.Uint("id", request.ID), zap.Uint("customer_id", req.CustomerID))
	return c.JSON(http.StatusCreated, request)
}

// ListRequests retrieves requests filtered by status, customer and event
// date range
func ListRequests(c echo.Context) error {
	query := database.GetDB().Model(&model.Request{}).Preload("Customer")

	if status := c.QueryParam("status"); status != "" {
		if !model.RequestStatus(status).Valid() {
			return fail(c, apperr.Validation("unknown request status"))
		}
		query = query.Where("status = ?", status)
	}
	if customerID := c.QueryParam("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
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
	var requests []model.Request
	if result := query.Order("created_at DESC").Find(&requests); result.Error != nil {
		return fail(c, apperr.Internal("failed to list requests", result.Error))
	}

	return c.JSON(http.StatusOK, requests)
}

// GetRequest retrieves a single request
func GetRequest(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid request ID"))
	}

	var request model.Request
	if result := database.GetDB().Preload("Customer").First(&request, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "request not found", ""))
	}

	return c.JSON(http.StatusOK, request)
}

// UpdateRequest updates staff-editable fields and status
func UpdateRequest(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRequestOperation("update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid request ID"))
	}

	var request model.Request
	if result := database.GetDB().First(&request, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "request not found", ""))
	}

	var req struct {
		EventType    *string    `json:"event_type"`
		EventDate    *time.Time `json:"event_date"`
		Venue        *string    `json:"venue"`
		Budget       *int64     `json:"budget"`
		Requirements *string    `json:"requirements"`
		Status       *string    `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}

	if req.EventType != nil {
		request.EventType = *req.EventType
	}
	if req.EventDate != nil {
		request.EventDate = *req.EventDate
	}
	if req.Venue != nil {
		request.Venue = *req.Venue
	}
	if req.Budget != nil {
		request.Budget = *req.Budget
	}
	if req.Requirements != nil {
		request.Requirements = *req.Requirements
	}
	if req.Status != nil {
		request.Status = model.RequestStatus(*req.Status)
	}
	if err := request.Validate(); err != nil {
		return fail(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&request); result.Error != nil {
		log.Error("Failed to update request", zap.Error(result.Error))
		return fail(c, apperr.Internal("request update failed", result.Error))
	}

	return c.JSON(http.StatusOK, request)
}

// DeleteRequest soft-closes a request by marking it cancelled. Requests are
// never physically removed.
func DeleteRequest(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRequestOperation("cancel")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid request ID"))
	}

	var request model.Request
	if result := database.GetDB().First(&request, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "request not found", ""))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Model(&request).Update("status", model.RequestStatusCancelled).Error; err != nil {
		log.Error("Failed to cancel request", zap.Error(err))
		return fail(c, apperr.Internal("request cancellation failed", err))
	}

	log.Info("Request cancelled", zap.Uint("id", request.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "request cancelled"})
}
