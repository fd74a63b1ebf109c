package models

import (
	"encoding/json"
	"testing"
	"time"

	"garage-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestValidatePaymentMethod(t *testing.T) {
	for raw, want := range map[string]PaymentMethod{
		"cash":           PaymentCash,
		"Cash":           PaymentCash,
		" CARD ":         PaymentCard,
		"Bank_Transfer":  PaymentBankTransfer,
		"check":          PaymentCheck,
		"MOBILE_PAYMENT": PaymentMobilePayment,
		"other":          PaymentOther,
	} {
		got, err := ValidatePaymentMethod(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	for _, raw := range []string{"", "bitcoin", "bank transfer"} {
		_, err := ValidatePaymentMethod(raw)
		assert.ErrorIs(t, err, utils.ErrInvalidPaymentMethod, raw)
	}
}

func TestPaymentTransitions(t *testing.T) {
	entry := &MaintenanceLog{}
	assert.Equal(t, PaymentUnpaid, entry.PaymentState())

	assert.ErrorIs(t, entry.MarkUnpaid(), utils.ErrAlreadyUnpaid)
	assert.ErrorIs(t, entry.ChangePaymentMethod(PaymentCard), utils.ErrNotPaid)

	paidAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, entry.MarkPaid(PaymentCash, paidAt))
	assert.Equal(t, PaymentPaid, entry.PaymentState())
	require.NotNil(t, entry.PaidAt)
	assert.Equal(t, paidAt, *entry.PaidAt)
	assert.Equal(t, PaymentCash, *entry.PaidUsing)

	assert.ErrorIs(t, entry.MarkPaid(PaymentCard, paidAt), utils.ErrAlreadyPaid)
	assert.Equal(t, PaymentCash, *entry.PaidUsing, "failed transition must not change the log")

	require.NoError(t, entry.ChangePaymentMethod(PaymentCard))
	assert.Equal(t, PaymentCard, *entry.PaidUsing)
	assert.Equal(t, paidAt, *entry.PaidAt)

	require.NoError(t, entry.MarkUnpaid())
	assert.Nil(t, entry.PaidAt)
	assert.Nil(t, entry.PaidUsing)
	assert.Equal(t, PaymentUnpaid, entry.PaymentState())
}

func TestSetNoteKeepsSnapshots(t *testing.T) {
	svc := Service{ID: uuid.New(), ServiceName: "Oil Change", Price: 49.99}
	entry := &MaintenanceLog{
		Description: datatypes.NewJSONType(NewLogDescription("first visit", []Service{svc})),
	}

	entry.SetNote("customer asked for synthetic oil")

	assert.Equal(t, "customer asked for synthetic oil", entry.Description.Data().Note)
	require.Len(t, entry.Services(), 1)
	assert.Equal(t, ServiceSnapshot{ServiceID: svc.ID, ServiceName: "Oil Change", Price: 49.99}, entry.Services()[0])
}

func TestMaintenanceLogJSON(t *testing.T) {
	entry := MaintenanceLog{
		ID:          uuid.New(),
		VehicleID:   uuid.New(),
		Description: datatypes.NewJSONType(NewLogDescription("", nil)),
	}

	raw, err := json.Marshal(entry)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "unpaid", body["payment_status"])
	assert.Equal(t, entry.ID.String(), body["log_id"])
	assert.Nil(t, body["paid_at"])
	assert.Nil(t, body["cost"])

	desc, ok := body["description"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{}, desc["services"])
}

func TestSumPrices(t *testing.T) {
	assert.Zero(t, SumPrices(nil))
	assert.InDelta(t, 74.98, SumPrices([]Service{{Price: 49.99}, {Price: 24.99}}), 1e-9)
}
