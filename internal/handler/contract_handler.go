package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"github.com/Baekshook/CRM-Projects-sub003/internal/model"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/database"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/jwtutil"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/logger"
	"github.com/Baekshook/CRM-Projects-sub003/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateContract creates a contract for a confirmed match. The amount
// defaults to the confirmed match price when omitted.
func CreateContract(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		MatchID    uint   `json:"match_id"`
		ScheduleID *uint  `json:"schedule_id"`
		Amount     *int64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse contract creation request", zap.Error(err))
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.Amount != nil && *req.Amount < 0 {
		return fail(c, apperr.Validation("amount must not be negative"))
	}

	var contract model.Contract
	txErr := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var match model.Match
		if result := tx.First(&match, req.MatchID); result.Error != nil {
			return apperr.FromDB(result.Error, "match not found", "")
		}
		if err := match.EnsureConfirmed(); err != nil {
			return err
		}

		if req.ScheduleID != nil {
			var schedule model.Schedule
			if result := tx.First(&schedule, *req.ScheduleID); result.Error != nil {
				return apperr.FromDB(result.Error, "schedule not found", "")
			}
			if schedule.MatchID != match.ID {
				return apperr.Validation("schedule does not belong to the given match")
			}
		}

		amount := *match.Price // confirmed matches always carry a price
		if req.Amount != nil {
			amount = *req.Amount
		}

		contract = model.Contract{
			MatchID:       req.MatchID,
			ScheduleID:    req.ScheduleID,
			Amount:        amount,
			PaymentStatus: model.PaymentStatusUnpaid,
			Status:        model.ContractStatusDraft,
		}
		if err := tx.Create(&contract).Error; err != nil {
			return apperr.Internal("contract creation failed", err)
		}
		return nil
	})
	if txErr != nil {
		log.Error("Contract creation rejected", zap.Uint("match_id", req.MatchID), zap.Error(txErr))
		return fail(c, txErr)
	}

	log.Info("Contract created", zap.Uint("id", contract.ID), zap.Uint("match_id", contract.MatchID))
	return c.JSON(http.StatusCreated, contract)
}

// ListContracts retrieves contracts filtered by status or payment status
func ListContracts(c echo.Context) error {
	query := database.GetDB().Model(&model.Contract{})

	if status := c.QueryParam("status"); status != "" {
		if !model.ContractStatus(status).Valid() {
			return fail(c, apperr.Validation("unknown contract status"))
		}
		query = query.Where("status = ?", status)
	}
	if payment := c.QueryParam("payment_status"); payment != "" {
		if !model.PaymentStatus(payment).Valid() {
			return fail(c, apperr.Validation("unknown payment status"))
		}
		query = query.Where("payment_status = ?", payment)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var contracts []model.Contract
	if result := query.Order("created_at DESC").Find(&contracts); result.Error != nil {
		return fail(c, apperr.Internal("failed to list contracts", result.Error))
	}

	return c.JSON(http.StatusOK, contracts)
}

// GetContract retrieves a single contract
func GetContract(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid contract ID"))
	}

	var contract model.Contract
	if result := database.GetDB().Preload("Match").First(&contract, id); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "contract not found", ""))
	}

	return c.JSON(http.StatusOK, contract)
}

// UpdateContract advances the contract or payment status or adjusts the
// amount. Completed contracts reject all changes.
func UpdateContract(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid contract ID"))
	}

	var req struct {
		Amount        *int64  `json:"amount"`
		PaymentStatus *string `json:"payment_status"`
		Status        *string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.Amount != nil && *req.Amount < 0 {
		return fail(c, apperr.Validation("amount must not be negative"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var contract model.Contract
	txErr := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if result := tx.First(&contract, id); result.Error != nil {
			return apperr.FromDB(result.Error, "contract not found", "")
		}

		if req.Amount != nil {
			if !contract.Mutable() {
				return apperr.Conflict("completed contracts are immutable")
			}
			contract.Amount = *req.Amount
		}
		if req.PaymentStatus != nil {
			if err := contract.UpdatePayment(model.PaymentStatus(*req.PaymentStatus)); err != nil {
				return err
			}
		}
		wasSigned := contract.Status == model.ContractStatusSigned
		if req.Status != nil {
			if err := contract.UpdateStatus(model.ContractStatus(*req.Status)); err != nil {
				return err
			}
		}

		if err := tx.Save(&contract).Error; err != nil {
			return apperr.Internal("contract update failed", err)
		}

		if !wasSigned && contract.Status == model.ContractStatusSigned {
			if claims, ok := c.Get("user").(*jwtutil.UserClaims); ok {
				notification := model.Notification{
					UserID:  claims.UserID,
					Type:    "contract_signed",
					Title:   "Contract signed",
					Message: "Contract #" + strconv.FormatUint(uint64(contract.ID), 10) + " was signed",
				}
				if err := tx.Create(&notification).Error; err != nil {
					return apperr.Internal("notification creation failed", err)
				}
			}
		}
		return nil
	})
	if txErr != nil {
		log.Error("Contract update rejected", zap.Uint64("id", id), zap.Error(txErr))
		return fail(c, txErr)
	}

	return c.JSON(http.StatusOK, contract)
}
