package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"github.com/Baekshook/CRM-Projects-sub003/internal/model"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/database"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/jwtutil"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/logger"
	"github.com/Baekshook/CRM-Projects-sub003/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	// Parse request
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return fail(c, apperr.Validation("invalid request"))
	}

	// Find user in database
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if result := database.GetDB().Where("email = ?", req.Email).First(&user); result.Error != nil {
		log.Error("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return fail(c, apperr.Auth("invalid credentials"))
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return fail(c, apperr.Auth("invalid credentials"))
	}

	// Generate JWT token
	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.Name, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return fail(c, apperr.Internal("token error", err))
	}

	prometheus.IncreaseActiveTokens()
	log.Info("User logged in", zap.String("email", user.Email))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

func Register(c echo.Context) error {
	log := logger.FromEcho(c)

	// Parse request
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return fail(c, apperr.Validation("invalid request"))
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fail(c, apperr.Validation("email, password and name are required"))
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return fail(c, apperr.Internal("registration failed", err))
	}

	user := model.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     "staff",
	}

	// Save to database; a duplicate email surfaces as a conflict
	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		return fail(c, apperr.FromDB(result.Error, "user not found", "email already registered"))
	}

	log.Info("User registered", zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// FindID recovers a staff account's login email from name and phone,
// returning it masked.
func FindID(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}

	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.Name == "" || req.Phone == "" {
		return fail(c, apperr.Validation("name and phone are required"))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if result := database.GetDB().Where("name = ? AND phone = ?", req.Name, req.Phone).First(&user); result.Error != nil {
		log.Error("Account not found for find-id", zap.String("name", req.Name))
		return fail(c, apperr.NotFound("no account matches the given name and phone"))
	}

	return c.JSON(http.StatusOK, echo.Map{"email": maskEmail(user.Email)})
}

// ResetPassword verifies identity by email, name and phone and issues a
// temporary password.
func ResetPassword(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}

	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.Email == "" || req.Name == "" || req.Phone == "" {
		return fail(c, apperr.Validation("email, name and phone are required"))
	}

	var user model.User
	if result := database.GetDB().Where("email = ? AND name = ? AND phone = ?", req.Email, req.Name, req.Phone).First(&user); result.Error != nil {
		log.Error("Account not found for password reset", zap.String("email", req.Email))
		return fail(c, apperr.NotFound("no account matches the given details"))
	}

	tempPassword, err := randomPassword()
	if err != nil {
		return fail(c, apperr.Internal("password reset failed", err))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, apperr.Internal("password reset failed", err))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Model(&user).Update("password", string(hashed)).Error; err != nil {
		log.Error("Failed to store temporary password", zap.Error(err))
		return fail(c, apperr.Internal("password reset failed", err))
	}

	log.Info("Password reset issued", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"temporary_password": tempPassword})
}

// GetProfile returns the authenticated staff user's profile
func GetProfile(c echo.Context) error {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		return fail(c, apperr.Auth("authentication required"))
	}

	var user model.User
	if result := database.GetDB().First(&user, claims.UserID); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "user not found", ""))
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated staff user's name and phone
func UpdateProfile(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		return fail(c, apperr.Auth("authentication required"))
	}

	var req struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}

	var user model.User
	if result := database.GetDB().First(&user, claims.UserID); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "user not found", ""))
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Save(&user).Error; err != nil {
		log.Error("Failed to update profile", zap.Error(err))
		return fail(c, apperr.Internal("profile update failed", err))
	}

	return c.JSON(http.StatusOK, user)
}

// ChangePassword changes the authenticated staff user's password
func ChangePassword(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		return fail(c, apperr.Auth("authentication required"))
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.NewPassword == "" {
		return fail(c, apperr.Validation("new password is required"))
	}

	var user model.User
	if result := database.GetDB().First(&user, claims.UserID); result.Error != nil {
		return fail(c, apperr.FromDB(result.Error, "user not found", ""))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		prometheus.RecordAuthError("invalid_password")
		return fail(c, apperr.Auth("current password is incorrect"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, apperr.Internal("password change failed", err))
	}

	if err := database.GetDB().Model(&user).Update("password", string(hashed)).Error; err != nil {
		log.Error("Failed to change password", zap.Error(err))
		return fail(c, apperr.Internal("password change failed", err))
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// maskEmail hides most of the local part: "booker@example.com" becomes
// "bo****@example.com".
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return "****"
	}
	if at <= 2 {
		return "****" + email[at:]
	}
	return email[:2] + "****" + email[at:]
}

func randomPassword() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
