package models

import "time"

// HistorySummary aggregates the maintenance history of a set of logs.
type HistorySummary struct {
	TotalLogs      int64      `json:"total_logs"`
	FirstServiceAt *time.Time `json:"first_service_at"`
	LastServiceAt  *time.Time `json:"last_service_at"`
	TotalCost      float64    `json:"total_cost"`
}

// PaymentSummary splits counts and amounts by payment state.
type PaymentSummary struct {
	TotalLogs         int64      `json:"total_logs"`
	PaidLogs          int64      `json:"paid_logs"`
	UnpaidLogs        int64      `json:"unpaid_logs"`
	TotalAmount       float64    `json:"total_amount"`
	TotalPaidAmount   float64    `json:"total_paid_amount"`
	TotalUnpaidAmount float64    `json:"total_unpaid_amount"`
	FirstLogAt        *time.Time `json:"first_log_at"`
	LastLogAt         *time.Time `json:"last_log_at"`
}

func costOf(l *MaintenanceLog) float64 {
	if l.Cost == nil {
		return 0
	}
	return *l.Cost
}

func spanOf(logs []MaintenanceLog) (first, last *time.Time) {
	for i := range logs {
		at := logs[i].CreatedAt
		if first == nil || at.Before(*first) {
			first = &at
		}
		if last == nil || at.After(*last) {
			last = &at
		}
	}
	return first, last
}

// SummarizeHistory folds logs into a HistorySummary. No logs gives a zero total.
func SummarizeHistory(logs []MaintenanceLog) HistorySummary {
	summary := HistorySummary{TotalLogs: int64(len(logs))}
	for i := range logs {
		summary.TotalCost += costOf(&logs[i])
	}
	summary.FirstServiceAt, summary.LastServiceAt = spanOf(logs)
	return summary
}

// SummarizePayments folds logs into a PaymentSummary.
func SummarizePayments(logs []MaintenanceLog) PaymentSummary {
	var summary PaymentSummary
	for i := range logs {
		cost := costOf(&logs[i])
		summary.TotalLogs++
		if logs[i].PaymentState() == PaymentPaid {
			summary.PaidLogs++
			summary.TotalPaidAmount += cost
		} else {
			summary.UnpaidLogs++
			summary.TotalUnpaidAmount += cost
		}
	}
	summary.TotalAmount = summary.TotalPaidAmount + summary.TotalUnpaidAmount
	summary.FirstLogAt, summary.LastLogAt = spanOf(logs)
	return summary
}
