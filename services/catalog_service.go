package services

import (
	"context"
	"errors"
	"strings"

	"garage-backend/models"
	"garage-backend/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CatalogService manages the service catalog.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ServiceChanges is a partial update; nil fields keep their stored value.
type ServiceChanges struct {
	ServiceName  *string
	Price        *float64
	VehicleTypes *[]string
}

func (s *CatalogService) List(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := s.db.WithContext(ctx).Order("service_name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := s.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.Errorf(utils.ErrNotFound, "Service not found")
		}
		return nil, err
	}
	return &service, nil
}

// ListByVehicleType returns the services usable on vehicleType, wildcard
// services included.
func (s *CatalogService) ListByVehicleType(ctx context.Context, vehicleType string) ([]models.Service, error) {
	services, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return models.CompatibleServices(services, vehicleType), nil
}

func (s *CatalogService) Create(ctx context.Context, name string, price float64, vehicleTypes []string) (*models.Service, error) {
	name = strings.TrimSpace(name)
	if err := utils.ValidateRequired("Service name", name); err != nil {
		return nil, err
	}
	if err := utils.ValidateServicePrice(price); err != nil {
		return nil, err
	}
	types, err := utils.ValidateVehicleTypes(vehicleTypes)
	if err != nil {
		return nil, err
	}

	service := models.Service{
		ServiceName:  name,
		Price:        price,
		VehicleTypes: datatypes.JSONSlice[string](types),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, name, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(&service).Error
	})
	if err != nil {
		return nil, nameConflict(err, name)
	}
	return &service, nil
}

func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, changes ServiceChanges) (*models.Service, error) {
	var service models.Service
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&service, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.Errorf(utils.ErrNotFound, "Service not found")
			}
			return err
		}

		if changes.ServiceName != nil {
			name := strings.TrimSpace(*changes.ServiceName)
			if err := utils.ValidateRequired("Service name", name); err != nil {
				return err
			}
			if name != service.ServiceName {
				if err := ensureUniqueName(tx, name, service.ID); err != nil {
					return err
				}
			}
			service.ServiceName = name
		}
		if changes.Price != nil {
			if err := utils.ValidateServicePrice(*changes.Price); err != nil {
				return err
			}
			service.Price = *changes.Price
		}
		if changes.VehicleTypes != nil {
			types, err := utils.ValidateVehicleTypes(*changes.VehicleTypes)
			if err != nil {
				return err
			}
			service.VehicleTypes = datatypes.JSONSlice[string](types)
		}

		return tx.Save(&service).Error
	})
	if err != nil {
		return nil, nameConflict(err, service.ServiceName)
	}
	return &service, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.Errorf(utils.ErrNotFound, "Service not found")
	}
	return nil
}

// nameConflict reports a unique index violation lost to a concurrent writer
// the same way ensureUniqueName does.
func nameConflict(err error, name string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.Errorf(utils.ErrConflict, "A service named %q already exists", name)
	}
	return err
}

// ensureUniqueName fails with ErrConflict when another service already uses name.
func ensureUniqueName(tx *gorm.DB, name string, exclude uuid.UUID) error {
	var count int64
	q := tx.Model(&models.Service{}).Where("service_name = ?", name)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return utils.Errorf(utils.ErrConflict, "A service named %q already exists", name)
	}
	return nil
}
