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

// CreateMatch pairs a request with a singer and opens a negotiation
func CreateMatch(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		RequestID uint   `json:"request_id"`
		SingerID  uint   `json:"singer_id"`
		Price     *int64 `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse match creation request", zap.Error(err))
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.RequestID == 0 || req.SingerID == 0 {
		return fail(c, apperr.Validation("request_id and singer_id are required"))
	}
	if req.Price != nil && *req.Price < 0 {
		return fail(c, apperr.Validation("price must not be negative"))
	}

	var request model.Request
	if result := database.GetDB().First(&request, req.RequestID); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "request not found", ""))
	}
	var singer model.Singer
	if result := database.GetDB().First(&singer, req.SingerID); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "singer not found", ""))
	}

	match := model.Match{
		RequestID:    req.RequestID,
		SingerID:     req.SingerID,
		Price:        req.Price,
		Status:       model.MatchStatusPending,
		Requirements: request.Requirements, // snapshot at pairing time
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&match); result.Error != nil {
		log.Error("Failed to create match", zap.Error(result.Error))
		return fail(c, apperr.Internal("match creation failed", result.Error))
	}

	log.Info("Match created",
		zap.Uint("id", match.ID),
		zap.Uint("request_id", match.RequestID),
		zap.Uint("singer_id", match.SingerID))
	return c.JSON(http.StatusCreated, match)
}

// ListMatches retrieves matches filtered by status, request or singer
func ListMatches(c echo.Context) error {
	query := database.GetDB().Model(&model.Match{}).Preload("Singer")

	if status := c.QueryParam("status"); status != "" {
		if !model.MatchStatus(status).Valid() {
			return fail(c, apperr.Validation("unknown match status"))
		}
		query = query.Where("status = ?", status)
	}
	if requestID := c.QueryParam("request_id"); requestID != "" {
		query = query.Where("request_id = ?", requestID)
	}
	if singerID := c.QueryParam("singer_id"); singerID != "" {
		query = query.Where("singer_id = ?", singerID)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var matches []model.Match
	if result := query.Order("created_at DESC").Find(&matches); result.Error != nil {
		return fail(c, apperr.Internal("failed to list matches", result.Error))
	}

	return c.JSON(http.StatusOK, matches)
}

// GetMatch retrieves a match with its negotiation log
func GetMatch(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid match ID"))
	}

	var match model.Match
	result := database.GetDB().
		Preload("Request").
		Preload("Singer").
		Preload("Log", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&match, id)
	if result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "match not found", ""))
	}

	return c.JSON(http.StatusOK, match)
}

// UpdateMatch applies a price edit and/or a status transition. Confirmation
// may synthesize a schedule and a contract; all of it runs in one database
// transaction so a partial failure cannot leave a confirmed match without
// its downstream rows or vice versa.
func UpdateMatch(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid match ID"))
	}

	var req struct {
		Price          *int64  `json:"price"`
		Status         *string `json:"status"`
		CreateSchedule bool    `json:"create_schedule"`
		CreateContract bool    `json:"create_contract"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.Price == nil && req.Status == nil {
		return fail(c, apperr.Validation("nothing to update"))
	}

	var match model.Match
	txErr := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if result := tx.Preload("Request.Customer").Preload("Request").Preload("Singer").First(&match, id); result.Error != nil {
			return apperr.FromDB(result.Error, "match not found", "")
		}
		from := match.Status

		if req.Price != nil {
			if err := match.SetPrice(*req.Price); err != nil {
				return err
			}
		}

		if req.Status != nil {
			next := model.MatchStatus(*req.Status)
			if err := match.Transition(next); err != nil {
				return err
			}
			prometheus.RecordMatchTransition(string(from), string(next))
		}

		if err := tx.Save(&match).Error; err != nil {
			return apperr.Internal("match update failed", err)
		}

		if match.Status != model.MatchStatusConfirmed || from == model.MatchStatusConfirmed {
			return nil
		}

		// Confirmation side effects
		if err := tx.Model(&model.Request{}).Where("id = ?", match.RequestID).
			Update("status", model.RequestStatusInProgress).Error; err != nil {
			return apperr.Internal("request status update failed", err)
		}

		if req.CreateSchedule {
			schedule, err := scheduleFromMatch(&match)
			if err != nil {
				return err
			}
			if err := tx.Create(schedule).Error; err != nil {
				return apperr.Internal("schedule creation failed", err)
			}
		}

		if req.CreateContract {
			contract := &model.Contract{
				MatchID:       match.ID,
				Amount:        *match.Price,
				PaymentStatus: model.PaymentStatusUnpaid,
				Status:        model.ContractStatusDraft,
			}
			if err := tx.Create(contract).Error; err != nil {
				return apperr.Internal("contract creation failed", err)
			}
		}

		if claims, ok := c.Get("user").(*jwtutil.UserClaims); ok {
			notification := model.Notification{
				UserID:  claims.UserID,
				Type:    "match_confirmed",
				Title:   "Match confirmed",
				Message: "Match #" + strconv.FormatUint(uint64(match.ID), 10) + " was confirmed",
			}
			if err := tx.Create(&notification).Error; err != nil {
				return apperr.Internal("notification creation failed", err)
			}
		}
		return nil
	})
	if txErr != nil {
		log.Error("Match update rejected", zap.Uint64("id", id), zap.Error(txErr))
		return fail(c, txErr)
	}

	log.Info("Match updated", zap.Uint("id", match.ID), zap.String("status", string(match.Status)))
	return c.JSON(http.StatusOK, match)
}

// AppendNegotiationEntry adds an entry to a match's negotiation log.
// Logging against a pending match moves it to negotiating.
func AppendNegotiationEntry(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid match ID"))
	}

	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		return fail(c, apperr.Auth("authentication required"))
	}

	var req struct {
		Category      string     `json:"category"`
		Note          string     `json:"note"`
		ProposedPrice *int64     `json:"proposed_price"`
		ProposedDate  *time.Time `json:"proposed_date"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}

	entry := model.NegotiationEntry{
		MatchID:       uint(id),
		AuthorID:      claims.UserID,
		Category:      model.NegotiationCategory(req.Category),
		Note:          req.Note,
		ProposedPrice: req.ProposedPrice,
		ProposedDate:  req.ProposedDate,
	}
	if err := entry.Validate(); err != nil {
		return fail(c, err)
	}

	txErr := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var match model.Match
		if result := tx.First(&match, id); result.Error != nil {
			return apperr.FromDB(result.Error, "match not found", "")
		}
		if match.Status.Terminal() {
			return apperr.Conflict("cannot log against a " + string(match.Status) + " match")
		}

		if err := tx.Create(&entry).Error; err != nil {
			return apperr.Internal("log entry creation failed", err)
		}

		if match.Status == model.MatchStatusPending {
			if err := match.Transition(model.MatchStatusNegotiating); err != nil {
				return err
			}
			if err := tx.Save(&match).Error; err != nil {
				return apperr.Internal("match update failed", err)
			}
			prometheus.RecordMatchTransition(string(model.MatchStatusPending), string(model.MatchStatusNegotiating))
		}
		return nil
	})
	if txErr != nil {
		log.Error("Negotiation entry rejected", zap.Uint64("match_id", id), zap.Error(txErr))
		return fail(c, txErr)
	}

	return c.JSON(http.StatusCreated, entry)
}

// scheduleFromMatch builds the default schedule synthesized at match
// confirmation.
func scheduleFromMatch(match *model.Match) (*model.Schedule, error) {
	if match.Request == nil || match.Singer == nil {
		return nil, apperr.Internal("match is missing request or singer", nil)
	}

	customerName := ""
	if match.Request.Customer != nil {
		customerName = match.Request.Customer.Name
	}

	schedule := &model.Schedule{
		MatchID:      match.ID,
		EventTitle:   match.Request.EventType + " - " + match.Singer.StageName,
		EventDate:    match.Request.EventDate,
		StartTime:    match.Request.EventDate,
		EndTime:      match.Request.EventDate.Add(2 * time.Hour),
		Venue:        match.Request.Venue,
		CustomerName: customerName,
		SingerName:   match.Singer.StageName,
		Status:       model.ScheduleStatusScheduled,
		Details:      match.Requirements,
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return schedule, nil
}
