package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	setupTest(t)

	t.Run("register succeeds", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/auth/register",
			`{"email":"booker@example.com","password":"secret123","name":"Booker","phone":"010-1234-5678"}`)
		require.NoError(t, Register(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/auth/register",
			`{"email":"booker@example.com","password":"other","name":"Imposter"}`)
		require.NoError(t, Register(c))
		assert.Equal(t, http.StatusConflict, rec.Code)

		var body map[string]string
		decodeBody(t, rec, &body)
		assert.Equal(t, "email already registered", body["error"])
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/auth/register", `{"email":"x@example.com"}`)
		require.NoError(t, Register(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login returns a token", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/auth/login",
			`{"email":"booker@example.com","password":"secret123"}`)
		require.NoError(t, Login(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		decodeBody(t, rec, &body)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/auth/login",
			`{"email":"booker@example.com","password":"wrong"}`)
		require.NoError(t, Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email is unauthorized, not not-found", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/auth/login",
			`{"email":"ghost@example.com","password":"whatever"}`)
		require.NoError(t, Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestFindID(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "booker@example.com", "secret123")

	t.Run("masks the recovered email", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/auth/find-id",
			`{"name":"Staff","phone":"010-0000-0000"}`)
		require.NoError(t, FindID(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		decodeBody(t, rec, &body)
		assert.Equal(t, "bo****@example.com", body["email"])
	})

	t.Run("no match is not found", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/auth/find-id",
			`{"name":"Nobody","phone":"010-9999-9999"}`)
		require.NoError(t, FindID(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestChangePassword(t *testing.T) {
	db := setupTest(t)
	user := seedUser(t, db, "booker@example.com", "secret123")

	t.Run("wrong current password", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/api/users/change-password",
			`{"current_password":"nope","new_password":"fresh456"}`)
		authenticate(c, user)
		require.NoError(t, ChangePassword(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("changes password and old one stops working", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/api/users/change-password",
			`{"current_password":"secret123","new_password":"fresh456"}`)
		authenticate(c, user)
		require.NoError(t, ChangePassword(c))
		require.Equal(t, http.StatusOK, rec.Code)

		c, rec = newRequest(http.MethodPost, "/auth/login",
			`{"email":"booker@example.com","password":"secret123"}`)
		require.NoError(t, Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		c, rec = newRequest(http.MethodPost, "/auth/login",
			`{"email":"booker@example.com","password":"fresh456"}`)
		require.NoError(t, Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"booker@example.com", "bo****@example.com"},
		{"ab@example.com", "****@example.com"},
		{"a@example.com", "****@example.com"},
		{"not-an-email", "****"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, maskEmail(tt.in), tt.in)
	}
}
