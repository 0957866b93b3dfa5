package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionStatusTransitions(t *testing.T) {
	assert.True(t, TransactionStatusDraft.CanTransitionTo(TransactionStatusCompleted))
	assert.True(t, TransactionStatusDraft.CanTransitionTo(TransactionStatusDraft))
	assert.False(t, TransactionStatusCompleted.CanTransitionTo(TransactionStatusDraft))
}

func TestTransactionStatusJSON(t *testing.T) {
	data, err := json.Marshal(TransactionStatusCompleted)
	require.NoError(t, err)
	assert.JSONEq(t, `"Completed"`, string(data))

	var s TransactionStatus
	require.NoError(t, json.Unmarshal([]byte(`"Draft"`), &s))
	assert.Equal(t, TransactionStatusDraft, s)
	require.NoError(t, json.Unmarshal([]byte(`1`), &s))
	assert.Equal(t, TransactionStatusCompleted, s)
	assert.Error(t, json.Unmarshal([]byte(`"Voided"`), &s))
}

func TestPaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("transfer")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodTransfer, m)

	_, err = ParsePaymentMethod("barter")
	assert.Error(t, err)
}

func TestResetKindColumn(t *testing.T) {
	assert.Equal(t, "daily_commission", ResetKindDaily.Column())
	assert.Equal(t, "monthly_commission", ResetKindMonthly.Column())

	_, err := ParseResetKind("weekly")
	assert.Error(t, err)
}
