package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is a catalog entry. An empty VehicleTypes set is a wildcard that
// matches every vehicle type.
type Service struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"service_id"`
	ServiceName  string                      `gorm:"uniqueIndex;not null" json:"service_name"`
	Price        float64                     `gorm:"type:decimal(10,2);not null" json:"price"`
	VehicleTypes datatypes.JSONSlice[string] `json:"vehicle_types"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

func (s *Service) BeforeSave(tx *gorm.DB) (err error) {
	if s.VehicleTypes == nil {
		s.VehicleTypes = datatypes.JSONSlice[string]{}
	}
	return
}

func (s *Service) AfterFind(tx *gorm.DB) (err error) {
	if s.VehicleTypes == nil {
		s.VehicleTypes = datatypes.JSONSlice[string]{}
	}
	return
}

// IsWildcard reports whether the service applies to every vehicle type.
func (s *Service) IsWildcard() bool {
	return len(s.VehicleTypes) == 0
}

// IsCompatible reports whether the service can be performed on vehicleType.
// Matching is exact and case-sensitive.
func (s *Service) IsCompatible(vehicleType string) bool {
	return s.IsWildcard() || slices.Contains(s.VehicleTypes, vehicleType)
}

// CompatibleServices filters services down to those compatible with vehicleType.
func CompatibleServices(services []Service, vehicleType string) []Service {
	compatible := make([]Service, 0, len(services))
	for i := range services {
		if services[i].IsCompatible(vehicleType) {
			compatible = append(compatible, services[i])
		}
	}
	return compatible
}
