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

// CreateCustomer handles customer creation
func CreateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Company string `json:"company"`
		Memo    string `json:"memo"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse customer creation request", zap.Error(err))
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.Name == "" || req.Email == "" {
		return fail(c, apperr.Validation("name and email are required"))
	}

	customer := model.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Memo:    req.Memo,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&customer); result.Error != nil {
		log.Error("Failed to create customer", zap.Error(result.Error))
		return fail(c, apperr.FromDB(result.Error, "customer not found", "email already registered"))
	}

	log.Info("Customer created", zap.Uint("id", customer.ID), zap.String("name", customer.Name))
	return c.JSON(http.StatusCreated, customer)
}

// ListCustomers retrieves customers, optionally filtered by name or email
func ListCustomers(c echo.Context) error {
	query := database.GetDB().Model(&model.Customer{})
	if name := c.QueryParam("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if email := c.QueryParam("email"); email != "" {
		query = query.Where("email = ?", email)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var customers []model.Customer
	if result := query.Order("created_at DESC").Find(&customers); result.Error != nil {
		return fail(c, apperr.Internal("failed to list customers", result.Error))
	}

	return c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves customer details
func GetCustomer(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid customer ID"))
	}

	var customer model.Customer
	if result := database.GetDB().First(&customer, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "customer not found", ""))
	}

	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates customer fields
func UpdateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid customer ID"))
	}

	var customer model.Customer
	if result := database.GetDB().First(&customer, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "customer not found", ""))
	}

	var req struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		Phone   *string `json:"phone"`
		Company *string `json:"company"`
		Memo    *string `json:"memo"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Company != nil {
		customer.Company = *req.Company
	}
	if req.Memo != nil {
		customer.Memo = *req.Memo
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&customer); result.Error != nil {
		log.Error("Failed to update customer", zap.Error(result.Error))
		return fail(c, apperr.FromDB(result.Error, "customer not found", "email already registered"))
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer soft-deletes a customer; their requests survive with a
// null customer reference.
func DeleteCustomer(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid customer ID"))
	}

	var customer model.Customer
	if result := database.GetDB().First(&customer, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "customer not found", ""))
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&customer); result.Error != nil {
		log.Error("Failed to delete customer", zap.Error(result.Error))
		return fail(c, apperr.Internal("customer deletion failed", result.Error))
	}

	log.Info("Customer deleted", zap.Uint("id", customer.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "customer deleted"})
}
