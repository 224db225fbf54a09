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

// CreateSinger handles performer registration
func CreateSinger(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		StageName  string `json:"stage_name"`
		RealName   string `json:"real_name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Genre      string `json:"genre"`
		Agency     string `json:"agency"`
		PriceFloor int64  `json:"price_floor"`
		Bio        string `json:"bio"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse singer creation request", zap.Error(err))
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.StageName == "" || req.Email == "" {
		return fail(c, apperr.Validation("stage name and email are required"))
	}
	if req.PriceFloor < 0 {
		return fail(c, apperr.Validation("price floor must not be negative"))
	}

	singer := model.Singer{
		StageName:  req.StageName,
		RealName:   req.RealName,
		Email:      req.Email,
		Phone:      req.Phone,
		Genre:      req.Genre,
		Agency:     req.Agency,
		PriceFloor: req.PriceFloor,
		Bio:        req.Bio,
		Active:     true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&singer); result.Error != nil {
		log.Error("Failed to create singer", zap.Error(result.Error))
		return fail(c, apperr.FromDB(result.Error, "singer not found", "email already registered"))
	}

	log.Info("Singer created", zap.Uint("id", singer.ID), zap.String("stage_name", singer.StageName))
	return c.JSON(http.StatusCreated, singer)
}

// ListSingers retrieves performers, optionally filtered by genre or active flag
func ListSingers(c echo.Context) error {
	query := database.GetDB().Model(&model.Singer{})
	if genre := c.QueryParam("genre"); genre != "" {
		query = query.Where("genre = ?", genre)
	}
	if active := c.QueryParam("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var singers []model.Singer
	if result := query.Order("stage_name").Find(&singers); result.Error != nil {
		return fail(c, apperr.Internal("failed to list singers", result.Error))
	}

	return c.JSON(http.StatusOK, singers)
}

// GetSinger retrieves performer details
func GetSinger(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid singer ID"))
	}

	var singer model.Singer
	if result := database.GetDB().First(&singer, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "singer not found", ""))
	}

	return c.JSON(http.StatusOK, singer)
}

// UpdateSinger updates performer fields
func UpdateSinger(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid singer ID"))
	}

	var singer model.Singer
	if result := database.GetDB().First(&singer, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "singer not found", ""))
	}

	var req struct {
		StageName  *string `json:"stage_name"`
		RealName   *string `json:"real_name"`
		Email      *string `json:"email"`
		Phone      *string `json:"phone"`
		Genre      *string `json:"genre"`
		Agency     *string `json:"agency"`
		PriceFloor *int64  `json:"price_floor"`
		Bio        *string `json:"bio"`
		Active     *bool   `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.PriceFloor != nil && *req.PriceFloor < 0 {
		return fail(c, apperr.Validation("price floor must not be negative"))
	}

	if req.StageName != nil {
		singer.StageName = *req.StageName
	}
	if req.RealName != nil {
		singer.RealName = *req.RealName
	}
	if req.Email != nil {
		singer.Email = *req.Email
	}
	if req.Phone != nil {
		singer.Phone = *req.Phone
	}
	if req.Genre != nil {
		singer.Genre = *req.Genre
	}
	if req.Agency != nil {
		singer.Agency = *req.Agency
	}
	if req.PriceFloor != nil {
		singer.PriceFloor = *req.PriceFloor
	}
	if req.Bio != nil {
		singer.Bio = *req.Bio
	}
	if req.Active != nil {
		singer.Active = *req.Active
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&singer); result.Error != nil {
		log.Error("Failed to update singer", zap.Error(result.Error))
		return fail(c, apperr.FromDB(result.Error, "singer not found", "email already registered"))
	}

	return c.JSON(http.StatusOK, singer)
}

// DeleteSinger soft-deletes a performer
func DeleteSinger(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid singer ID"))
	}

	var singer model.Singer
	if result := database.GetDB().First(&singer, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "singer not found", ""))
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&singer); result.Error != nil {
		log.Error("Failed to delete singer", zap.Error(result.Error))
		return fail(c, apperr.Internal("singer deletion failed", result.Error))
	}

	log.Info("Singer deleted", zap.Uint("id", singer.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "singer deleted"})
}
