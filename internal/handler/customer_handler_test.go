package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Baekshook/CRM-Projects-sub003/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	db := setupTest(t)
	user := seedUser(t, db, "booker@example.com", "secret123")

	c, rec := newRequest(http.MethodPost, "/api/customers",
		`{"name":"Hanwha Events","email":"events@hanwha.example","phone":"02-555-0101"}`)
	authenticate(c, user)
	require.NoError(t, CreateCustomer(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var first model.Customer
	decodeBody(t, rec, &first)

	t.Run("second customer with the same email is a conflict", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/api/customers",
			`{"name":"Different Name","email":"events@hanwha.example"}`)
		authenticate(c, user)
		require.NoError(t, CreateCustomer(c))
		assert.Equal(t, http.StatusConflict, rec.Code)

		var body map[string]string
		decodeBody(t, rec, &body)
		assert.Equal(t, "email already registered", body["error"])
	})

	t.Run("the first customer is unaffected", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&model.Customer{}).
			Where("email = ?", "events@hanwha.example").Count(&count).Error)
		assert.Equal(t, int64(1), count)

		c, rec := newRequest(http.MethodGet, "/api/customers/1", "")
		authenticate(c, user)
		setParam(c, "id", fmt.Sprint(first.ID))
		require.NoError(t, GetCustomer(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var fetched model.Customer
		decodeBody(t, rec, &fetched)
		assert.Equal(t, "Hanwha Events", fetched.Name)
	})

	t.Run("update onto an existing email is also a conflict", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/api/customers",
			`{"name":"Second Co","email":"second@example.com"}`)
		authenticate(c, user)
		require.NoError(t, CreateCustomer(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		var second model.Customer
		decodeBody(t, rec, &second)

		c, rec = newRequest(http.MethodPatch, "/api/customers/2",
			`{"email":"events@hanwha.example"}`)
		authenticate(c, user)
		setParam(c, "id", fmt.Sprint(second.ID))
		require.NoError(t, UpdateCustomer(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
