package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"auth", Auth("invalid token"), http.StatusUnauthorized},
		{"not found", NotFound("no such thing"), http.StatusNotFound},
		{"conflict", Conflict("already there"), http.StatusConflict},
		{"storage", Storage("backend down", errors.New("dial tcp")), http.StatusBadGateway},
		{"internal", Internal("boom", errors.New("oops")), http.StatusInternalServerError},
		{"unclassified", errors.New("plain"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("context: %w", NotFound("gone")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "bad input", Message(Validation("bad input")))
	assert.Equal(t, "no such thing", Message(NotFound("no such thing")))

	// Internal details never reach the caller.
	assert.Equal(t, "internal server error", Message(Internal("db exploded", errors.New("secret"))))
	assert.Equal(t, "internal server error", Message(errors.New("raw driver error")))
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "x", "y"))

	err := FromDB(gorm.ErrRecordNotFound, "customer not found", "")
	assert.True(t, IsKind(err, KindNotFound))
	assert.Equal(t, "customer not found", Message(err))

	err = FromDB(gorm.ErrDuplicatedKey, "", "email already registered")
	assert.True(t, IsKind(err, KindConflict))
	assert.Equal(t, "email already registered", Message(err))

	err = FromDB(errors.New("connection reset"), "x", "y")
	assert.True(t, IsKind(err, KindInternal))
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(Conflict("x"), KindConflict))
	assert.False(t, IsKind(Conflict("x"), KindValidation))
	assert.False(t, IsKind(errors.New("plain"), KindConflict))
}
