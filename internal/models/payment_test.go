package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatusSynonyms(t *testing.T) {
	tests := map[string]PaymentStatus{
		"pending":    PaymentProcessing,
		"processing": PaymentProcessing,
		"success":    PaymentCompleted,
		"COMPLETED":  PaymentCompleted,
		"rejected":   PaymentFailed,
		"failed":     PaymentFailed,
	}
	for raw, expected := range tests {
		assert.Equal(t, expected, ParsePaymentStatus(raw), raw)
	}
	assert.False(t, PaymentProcessing.IsTerminal())
	assert.True(t, PaymentCompleted.IsTerminal())
	assert.True(t, PaymentFailed.IsTerminal())
	assert.False(t, PaymentStatus("unknown").IsTerminal())
}

func TestDecodePayment(t *testing.T) {
	raw := `{"id":"p1","user_id":"c1","amount":8500,"status":"success","payment_date":"2024-01-01T00:00:00Z","created_at":"","updated_at":null}`

	var payment Payment
	err := json.Unmarshal([]byte(raw), &payment)
	require.NoError(t, err)

	expected := Payment{
		ID:          "p1",
		UserID:      "c1",
		Amount:      8500,
		Status:      PaymentCompleted,
		PaymentDate: NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	assert.Truef(t, cmp.Equal(expected, payment), "diff: %s", cmp.Diff(expected, payment))
	assert.Equal(t, "c1", payment.OwnerID())
}

func TestDateRoundTripFormats(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-05"`), &d))
	assert.Equal(t, 5, d.Day())
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))

	out, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
