package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/model"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/config"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/database"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/jwtutil"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest wires an in-memory database into the package-level accessors the
// handlers use.
func setupTest(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Singer{},
		&model.Request{},
		&model.Match{},
		&model.NegotiationEntry{},
		&model.Schedule{},
		&model.Contract{},
		&model.File{},
		&model.Segment{},
		&model.Notification{},
	))
	database.SetDB(db)

	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	return db
}

// newRequest builds an echo context carrying a JSON body.
func newRequest(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate attaches claims the way the auth middleware would.
func authenticate(c echo.Context, user *model.User) {
	c.Set("user", &jwtutil.UserClaims{Email: user.Email, UserID: user.ID, Name: user.Name, Role: user.Role})
	c.Set("user_id", user.ID)
	c.Set("email", user.Email)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// seedUser inserts a staff account with a known password.
func seedUser(t *testing.T, db *gorm.DB, email, password string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{Email: email, Password: string(hashed), Name: "Staff", Phone: "010-0000-0000", Role: "staff"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedBooking inserts a customer, singer and request ready for matching.
func seedBooking(t *testing.T, db *gorm.DB) (*model.Customer, *model.Singer, *model.Request) {
	t.Helper()

	customer := &model.Customer{Name: "Hanwha Events", Email: "events@hanwha.example", Phone: "02-555-0101"}
	require.NoError(t, db.Create(customer).Error)

	singer := &model.Singer{StageName: "Aria", RealName: "Kim Ara", Email: "aria@agency.example", Genre: "ballad", Active: true}
	require.NoError(t, db.Create(singer).Error)

	request := &model.Request{
		CustomerID: &customer.ID,
		EventType:  "corporate gala",
		EventDate:  time.Date(2026, 12, 5, 19, 0, 0, 0, time.UTC),
		Venue:      "Grand Ballroom",
		Budget:     8_000_000,
		Status:     model.RequestStatusPending,
	}
	require.NoError(t, db.Create(request).Error)

	return customer, singer, request
}

func setParam(c echo.Context, name, value string) {
	c.SetParamNames(name)
	c.SetParamValues(value)
}
