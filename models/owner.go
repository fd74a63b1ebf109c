package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Owner struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"owner_id"`
	Name    string    `gorm:"not null" json:"name"`
	Contact *string   `json:"contact"`

	Vehicles []Vehicle `gorm:"foreignKey:OwnerID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Owner) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// VehicleIDs lists the ids of the preloaded vehicles.
func (o *Owner) VehicleIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.Vehicles))
	for _, v := range o.Vehicles {
		ids = append(ids, v.ID)
	}
	return ids
}
