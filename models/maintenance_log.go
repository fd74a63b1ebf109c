package models

import (
	"encoding/json"
	"strings"
	"time"

	"garage-backend/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCard          PaymentMethod = "card"
	PaymentBankTransfer  PaymentMethod = "bank_transfer"
	PaymentCheck         PaymentMethod = "check"
	PaymentMobilePayment PaymentMethod = "mobile_payment"
	PaymentOther         PaymentMethod = "other"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentCard,
	PaymentBankTransfer,
	PaymentCheck,
	PaymentMobilePayment,
	PaymentOther,
}

// ValidatePaymentMethod matches raw case-insensitively and returns the
// lowercase method.
func ValidatePaymentMethod(raw string) (PaymentMethod, error) {
	method := PaymentMethod(strings.ToLower(strings.TrimSpace(raw)))
	for _, m := range PaymentMethods {
		if m == method {
			return m, nil
		}
	}
	return "", utils.Errorf(utils.ErrInvalidPaymentMethod,
		"Invalid payment method %q; expected one of cash, card, bank_transfer, check, mobile_payment, other", raw)
}

type PaymentState string

const (
	PaymentUnpaid PaymentState = "unpaid"
	PaymentPaid   PaymentState = "paid"
)

// ServiceSnapshot freezes a catalog entry as it was when the work was logged.
type ServiceSnapshot struct {
	ServiceID   uuid.UUID `json:"service_id"`
	ServiceName string    `json:"service_name"`
	Price       float64   `json:"price"`
}

type LogDescription struct {
	Note     string            `json:"note"`
	Services []ServiceSnapshot `json:"services"`
}

// MaintenanceLog records work done on a vehicle. PaidAt and PaidUsing are set
// and cleared together; use MarkPaid, MarkUnpaid and ChangePaymentMethod
// rather than touching them directly.
type MaintenanceLog struct {
	ID          uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"log_id"`
	VehicleID   uuid.UUID                          `gorm:"type:uuid;index;not null" json:"vehicle_id"`
	OwnerID     *uuid.UUID                         `gorm:"type:uuid;index" json:"owner_id"`
	Cost        *float64                           `gorm:"type:decimal(10,2)" json:"cost"`
	Description datatypes.JSONType[LogDescription] `json:"description"`
	UserName    string                             `gorm:"index" json:"user_name"`
	CreatedAt   time.Time                          `gorm:"index" json:"created_at"`
	PaidAt      *time.Time                         `gorm:"index" json:"paid_at"`
	PaidUsing   *PaymentMethod                     `gorm:"type:varchar(20)" json:"paid_using"`
	UpdatedAt   time.Time                          `json:"updated_at"`
}

func (l *MaintenanceLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// PaymentState derives the lifecycle state from the payment columns.
func (l *MaintenanceLog) PaymentState() PaymentState {
	if l.PaidAt != nil {
		return PaymentPaid
	}
	return PaymentUnpaid
}

// MarkPaid moves an unpaid log to paid.
func (l *MaintenanceLog) MarkPaid(method PaymentMethod, at time.Time) error {
	if l.PaymentState() == PaymentPaid {
		return utils.ErrAlreadyPaid
	}
	l.PaidAt = &at
	l.PaidUsing = &method
	return nil
}

// MarkUnpaid reverts a paid log, clearing both payment columns.
func (l *MaintenanceLog) MarkUnpaid() error {
	if l.PaymentState() == PaymentUnpaid {
		return utils.ErrAlreadyUnpaid
	}
	l.PaidAt = nil
	l.PaidUsing = nil
	return nil
}

// ChangePaymentMethod corrects the method of an already paid log.
func (l *MaintenanceLog) ChangePaymentMethod(method PaymentMethod) error {
	if l.PaymentState() != PaymentPaid {
		return utils.ErrNotPaid
	}
	l.PaidUsing = &method
	return nil
}

// SetNote replaces the free-text note and keeps the service snapshots.
func (l *MaintenanceLog) SetNote(note string) {
	desc := l.Description.Data()
	desc.Note = note
	l.Description = datatypes.NewJSONType(desc)
}

// Services returns the snapshots attached at creation.
func (l *MaintenanceLog) Services() []ServiceSnapshot {
	return l.Description.Data().Services
}

func (l MaintenanceLog) MarshalJSON() ([]byte, error) {
	type plain MaintenanceLog
	return json.Marshal(struct {
		plain
		PaymentStatus PaymentState `json:"payment_status"`
	}{
		plain:         plain(l),
		PaymentStatus: l.PaymentState(),
	})
}

// NewLogDescription snapshots services alongside note.
func NewLogDescription(note string, services []Service) LogDescription {
	snapshots := make([]ServiceSnapshot, 0, len(services))
	for _, s := range services {
		snapshots = append(snapshots, ServiceSnapshot{
			ServiceID:   s.ID,
			ServiceName: s.ServiceName,
			Price:       s.Price,
		})
	}
	return LogDescription{Note: note, Services: snapshots}
}

// SumPrices totals the catalog prices of services.
func SumPrices(services []Service) float64 {
	var total float64
	for _, s := range services {
		total += s.Price
	}
	return total
}
