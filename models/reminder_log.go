// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReminderSent    = "sent"
	ReminderFailed  = "failed"
	ReminderSkipped = "skipped"
)

// ReminderLog records one unpaid-balance reminder attempt for an owner.
type ReminderLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID      uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	UnpaidLogs   int64     `json:"unpaid_logs"`
	AmountDue    float64   `gorm:"type:decimal(10,2)" json:"amount_due"`
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"` // sent, failed, skipped
	ErrorMessage string    `gorm:"type:text" json:"error_message"`
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // sms
	SentAt       time.Time `gorm:"index" json:"sent_at"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
