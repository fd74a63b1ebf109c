package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"vehicle_id"`
	PlateNo     string     `gorm:"not null;index" json:"plate_no"`
	Make        string     `json:"make"`
	Model       string     `json:"model"`
	Year        int        `json:"year"`
	VehicleType string     `gorm:"index" json:"vehicle_type"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`

	Owner *Owner `gorm:"foreignKey:OwnerID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
