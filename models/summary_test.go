package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func costPtr(v float64) *float64 { return &v }

func sampleLogs() []MaintenanceLog {
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	paidAt := base.Add(48 * time.Hour)
	cash := PaymentCash
	return []MaintenanceLog{
		{Cost: costPtr(49.99), CreatedAt: base.Add(24 * time.Hour)},
		{Cost: costPtr(120.10), CreatedAt: base, PaidAt: &paidAt, PaidUsing: &cash},
		{Cost: nil, CreatedAt: base.Add(72 * time.Hour)},
		{Cost: costPtr(0.2), CreatedAt: base.Add(96 * time.Hour), PaidAt: &paidAt, PaidUsing: &cash},
	}
}

func TestSummarizeHistory(t *testing.T) {
	logs := sampleLogs()
	summary := SummarizeHistory(logs)

	assert.Equal(t, int64(4), summary.TotalLogs)
	assert.InDelta(t, 170.29, summary.TotalCost, 1e-9)
	require.NotNil(t, summary.FirstServiceAt)
	require.NotNil(t, summary.LastServiceAt)
	assert.Equal(t, logs[1].CreatedAt, *summary.FirstServiceAt)
	assert.Equal(t, logs[3].CreatedAt, *summary.LastServiceAt)
}

func TestSummarizeHistory_Empty(t *testing.T) {
	summary := SummarizeHistory(nil)
	assert.Zero(t, summary.TotalLogs)
	assert.Zero(t, summary.TotalCost)
	assert.Nil(t, summary.FirstServiceAt)
	assert.Nil(t, summary.LastServiceAt)
}

func TestSummarizePayments(t *testing.T) {
	summary := SummarizePayments(sampleLogs())

	assert.Equal(t, int64(4), summary.TotalLogs)
	assert.Equal(t, int64(2), summary.PaidLogs)
	assert.Equal(t, int64(2), summary.UnpaidLogs)
	assert.Equal(t, summary.TotalLogs, summary.PaidLogs+summary.UnpaidLogs)

	assert.InDelta(t, 120.30, summary.TotalPaidAmount, 1e-9)
	assert.InDelta(t, 49.99, summary.TotalUnpaidAmount, 1e-9)
	assert.Equal(t, summary.TotalAmount, summary.TotalPaidAmount+summary.TotalUnpaidAmount)
}
