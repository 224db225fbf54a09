package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Baekshook/CRM-Projects-sub003/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentCriteriaRoundTrip(t *testing.T) {
	db := setupTest(t)
	user := seedUser(t, db, "booker@example.com", "secret123")

	criteria := `{"all":[{"field":"genre","op":"eq","value":"ballad"},{"any":[{"field":"price_floor","op":"lte","value":5000000},{"field":"active","op":"eq","value":true}]}]}`

	var segmentID uint

	t.Run("create stores criteria verbatim", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/api/segments",
			fmt.Sprintf(`{"name":"affordable ballad singers","entity_type":"singer","criteria":%s}`, criteria))
		authenticate(c, user)
		require.NoError(t, CreateSegment(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		var segment model.Segment
		decodeBody(t, rec, &segment)
		assert.JSONEq(t, criteria, string(segment.Criteria))
		segmentID = segment.ID
	})

	t.Run("fetch returns the same document", func(t *testing.T) {
		c, rec := newRequest(http.MethodGet, "/api/segments/1", "")
		authenticate(c, user)
		setParam(c, "id", fmt.Sprint(segmentID))
		require.NoError(t, GetSegment(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var segment model.Segment
		decodeBody(t, rec, &segment)
		assert.JSONEq(t, criteria, string(segment.Criteria))
		assert.Equal(t, "singer", segment.EntityType)
	})

	t.Run("update replaces criteria wholesale", func(t *testing.T) {
		replacement := `{"all":[{"field":"agency","op":"eq","value":"independent"}]}`
		c, rec := newRequest(http.MethodPatch, "/api/segments/1",
			fmt.Sprintf(`{"criteria":%s}`, replacement))
		authenticate(c, user)
		setParam(c, "id", fmt.Sprint(segmentID))
		require.NoError(t, UpdateSegment(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var segment model.Segment
		require.NoError(t, db.First(&segment, segmentID).Error)
		assert.JSONEq(t, replacement, string(segment.Criteria))
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		c, rec := newRequest(http.MethodPost, "/api/segments",
			fmt.Sprintf(`{"criteria":%s}`, criteria))
		authenticate(c, user)
		require.NoError(t, CreateSegment(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
