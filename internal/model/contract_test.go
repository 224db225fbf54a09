package model

import (
	"testing"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractUpdateStatus(t *testing.T) {
	t.Run("cannot complete while unpaid", func(t *testing.T) {
		c := &Contract{Status: ContractStatusSigned, PaymentStatus: PaymentStatusUnpaid}
		err := c.UpdateStatus(ContractStatusCompleted)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
		assert.Equal(t, ContractStatusSigned, c.Status)
	})

	t.Run("completes once paid", func(t *testing.T) {
		c := &Contract{Status: ContractStatusSigned, PaymentStatus: PaymentStatusPaid}
		require.NoError(t, c.UpdateStatus(ContractStatusCompleted))
		assert.Equal(t, ContractStatusCompleted, c.Status)
	})

	t.Run("partial payment also allows completion", func(t *testing.T) {
		c := &Contract{Status: ContractStatusSigned, PaymentStatus: PaymentStatusPartial}
		require.NoError(t, c.UpdateStatus(ContractStatusCompleted))
	})

	t.Run("signing stamps the signature time", func(t *testing.T) {
		c := &Contract{Status: ContractStatusSent, PaymentStatus: PaymentStatusUnpaid}
		require.NoError(t, c.UpdateStatus(ContractStatusSigned))
		require.NotNil(t, c.SignedAt)
		assert.False(t, c.SignedAt.IsZero())
	})

	t.Run("completed contracts are immutable", func(t *testing.T) {
		c := &Contract{Status: ContractStatusCompleted, PaymentStatus: PaymentStatusPaid}
		err := c.UpdateStatus(ContractStatusCancelled)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		c := &Contract{Status: ContractStatusDraft}
		err := c.UpdateStatus(ContractStatus("archived"))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestContractUpdatePayment(t *testing.T) {
	t.Run("advances payment status", func(t *testing.T) {
		c := &Contract{Status: ContractStatusSigned, PaymentStatus: PaymentStatusUnpaid}
		require.NoError(t, c.UpdatePayment(PaymentStatusPartial))
		assert.Equal(t, PaymentStatusPartial, c.PaymentStatus)
		require.NoError(t, c.UpdatePayment(PaymentStatusPaid))
		assert.Equal(t, PaymentStatusPaid, c.PaymentStatus)
	})

	t.Run("completed contracts reject payment changes", func(t *testing.T) {
		c := &Contract{Status: ContractStatusCompleted, PaymentStatus: PaymentStatusPaid}
		err := c.UpdatePayment(PaymentStatusPartial)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("unknown payment status", func(t *testing.T) {
		c := &Contract{Status: ContractStatusDraft}
		err := c.UpdatePayment(PaymentStatus("refunded"))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}
