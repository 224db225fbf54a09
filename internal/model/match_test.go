package model

import (
	"testing"
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestMatchStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from MatchStatus
		to   MatchStatus
		want bool
	}{
		{"pending to negotiating", MatchStatusPending, MatchStatusNegotiating, true},
		{"pending to cancelled", MatchStatusPending, MatchStatusCancelled, true},
		{"pending to confirmed skips negotiation", MatchStatusPending, MatchStatusConfirmed, false},
		{"negotiating to confirmed", MatchStatusNegotiating, MatchStatusConfirmed, true},
		{"negotiating to cancelled", MatchStatusNegotiating, MatchStatusCancelled, true},
		{"negotiating back to pending", MatchStatusNegotiating, MatchStatusPending, false},
		{"confirmed is terminal", MatchStatusConfirmed, MatchStatusCancelled, false},
		{"cancelled is terminal", MatchStatusCancelled, MatchStatusNegotiating, false},
		{"confirmed cannot re-confirm", MatchStatusConfirmed, MatchStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestMatchTransition(t *testing.T) {
	t.Run("confirm requires a price", func(t *testing.T) {
		m := &Match{Status: MatchStatusNegotiating}
		err := m.Transition(MatchStatusConfirmed)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
		assert.Equal(t, MatchStatusNegotiating, m.Status)
	})

	t.Run("confirm with price succeeds", func(t *testing.T) {
		m := &Match{Status: MatchStatusNegotiating, Price: int64Ptr(5_000_000)}
		require.NoError(t, m.Transition(MatchStatusConfirmed))
		assert.Equal(t, MatchStatusConfirmed, m.Status)
	})

	t.Run("terminal states reject transitions with a conflict", func(t *testing.T) {
		for _, from := range []MatchStatus{MatchStatusConfirmed, MatchStatusCancelled} {
			m := &Match{Status: from, Price: int64Ptr(1)}
			err := m.Transition(MatchStatusCancelled)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindConflict))
			assert.Equal(t, from, m.Status)
		}
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		m := &Match{Status: MatchStatusPending}
		err := m.Transition(MatchStatus("approved"))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestMatchSetPrice(t *testing.T) {
	t.Run("updates price while negotiating", func(t *testing.T) {
		m := &Match{Status: MatchStatusNegotiating}
		require.NoError(t, m.SetPrice(3_000_000))
		require.NotNil(t, m.Price)
		assert.Equal(t, int64(3_000_000), *m.Price)
	})

	t.Run("price is final after confirmation", func(t *testing.T) {
		m := &Match{Status: MatchStatusConfirmed, Price: int64Ptr(3_000_000)}
		err := m.SetPrice(4_000_000)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
		assert.Equal(t, int64(3_000_000), *m.Price)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		m := &Match{Status: MatchStatusPending}
		err := m.SetPrice(-1)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestMatchEnsureConfirmed(t *testing.T) {
	assert.NoError(t, (&Match{Status: MatchStatusConfirmed}).EnsureConfirmed())

	for _, status := range []MatchStatus{MatchStatusPending, MatchStatusNegotiating, MatchStatusCancelled} {
		err := (&Match{Status: status}).EnsureConfirmed()
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	}
}

func TestNegotiationEntryValidate(t *testing.T) {
	date := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		entry   NegotiationEntry
		wantErr bool
	}{
		{
			name:  "price entry with proposed price",
			entry: NegotiationEntry{Category: NegotiationCategoryPrice, ProposedPrice: int64Ptr(2_500_000)},
		},
		{
			name:    "price entry without proposed price",
			entry:   NegotiationEntry{Category: NegotiationCategoryPrice, Note: "how about less"},
			wantErr: true,
		},
		{
			name:    "price entry with negative price",
			entry:   NegotiationEntry{Category: NegotiationCategoryPrice, ProposedPrice: int64Ptr(-100)},
			wantErr: true,
		},
		{
			name:  "schedule entry with proposed date",
			entry: NegotiationEntry{Category: NegotiationCategorySchedule, ProposedDate: &date},
		},
		{
			name:    "schedule entry without proposed date",
			entry:   NegotiationEntry{Category: NegotiationCategorySchedule, Note: "move it"},
			wantErr: true,
		},
		{
			name:  "note entry with text",
			entry: NegotiationEntry{Category: NegotiationCategoryNote, Note: "client prefers acoustic set"},
		},
		{
			name:    "note entry without text",
			entry:   NegotiationEntry{Category: NegotiationCategoryNote},
			wantErr: true,
		},
		{
			name:    "note entry must not carry a proposal",
			entry:   NegotiationEntry{Category: NegotiationCategoryNote, Note: "x", ProposedPrice: int64Ptr(1)},
			wantErr: true,
		},
		{
			name:    "unknown category",
			entry:   NegotiationEntry{Category: "haggle", Note: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
