package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"garage-backend/models"
	"garage-backend/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaintenanceService records work against vehicles and drives the payment
// lifecycle of each log.
type MaintenanceService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db, now: time.Now}
}

// NewLog is the input for Create. A nil Cost is computed from the services.
type NewLog struct {
	VehicleID  uuid.UUID
	Cost       *float64
	Note       string
	ServiceIDs []uuid.UUID
	Creator    string
}

// LogFilter narrows a listing. Zero values do not filter.
type LogFilter struct {
	VehicleID *uuid.UUID
	OwnerID   *uuid.UUID
	UserName  string
	State     models.PaymentState
}

func invalidCost() error {
	return utils.Errorf(utils.ErrValidation, "Cost must be a finite number between -%.2f and %.2f", utils.MaxPrice, utils.MaxPrice)
}

// Create records a new, unpaid log. Every attached service must be compatible
// with the vehicle's type; otherwise nothing is written.
func (s *MaintenanceService) Create(ctx context.Context, in NewLog) (*models.MaintenanceLog, error) {
	if in.Cost != nil {
		if err := utils.ValidateServicePrice(*in.Cost); err != nil {
			return nil, invalidCost()
		}
	}

	var entry models.MaintenanceLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vehicle, err := findVehicle(tx, in.VehicleID)
		if err != nil {
			return err
		}

		services, err := findServices(tx, in.ServiceIDs)
		if err != nil {
			return err
		}
		for i := range services {
			if !services[i].IsCompatible(vehicle.VehicleType) {
				return utils.Errorf(utils.ErrIncompatibleService,
					"Service %q is not compatible with vehicle type %q", services[i].ServiceName, vehicle.VehicleType)
			}
		}

		cost := in.Cost
		if cost == nil && len(services) > 0 {
			total := models.SumPrices(services)
			if utils.ValidateServicePrice(total) != nil {
				return invalidCost()
			}
			cost = &total
		}

		entry = models.MaintenanceLog{
			VehicleID:   vehicle.ID,
			OwnerID:     vehicle.OwnerID,
			Cost:        cost,
			Description: datatypes.NewJSONType(models.NewLogDescription(strings.TrimSpace(in.Note), services)),
			UserName:    in.Creator,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Get returns a single log the identity may see.
func (s *MaintenanceService) Get(ctx context.Context, identity *utils.Identity, id uuid.UUID) (*models.MaintenanceLog, error) {
	entry, err := findLog(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if err := identity.CheckOwnerAccess(entry.OwnerID); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns the logs visible to identity, newest first.
func (s *MaintenanceService) List(ctx context.Context, identity *utils.Identity, filter LogFilter) ([]models.MaintenanceLog, error) {
	q := s.db.WithContext(ctx).Model(&models.MaintenanceLog{}).
		Scopes(utils.OwnerScope(identity, "owner_id"))

	if filter.VehicleID != nil {
		q = q.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.UserName != "" {
		q = q.Where("user_name = ?", filter.UserName)
	}
	switch filter.State {
	case models.PaymentPaid:
		q = q.Where("paid_at IS NOT NULL")
	case models.PaymentUnpaid:
		q = q.Where("paid_at IS NULL")
	}

	var logs []models.MaintenanceLog
	if err := q.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ListForVehicle lists a vehicle's logs after checking the caller may see the vehicle.
func (s *MaintenanceService) ListForVehicle(ctx context.Context, identity *utils.Identity, vehicleID uuid.UUID) ([]models.MaintenanceLog, error) {
	if _, err := s.accessibleVehicle(ctx, identity, vehicleID); err != nil {
		return nil, err
	}
	return s.List(ctx, identity, LogFilter{VehicleID: &vehicleID})
}

// ListForOwner lists an owner's logs. Customers may only ask for themselves.
func (s *MaintenanceService) ListForOwner(ctx context.Context, identity *utils.Identity, ownerID uuid.UUID) ([]models.MaintenanceLog, error) {
	if err := identity.CheckOwnerAccess(&ownerID); err != nil {
		return nil, err
	}
	return s.List(ctx, identity, LogFilter{OwnerID: &ownerID})
}

// HistorySummary aggregates a vehicle's logs.
func (s *MaintenanceService) HistorySummary(ctx context.Context, identity *utils.Identity, vehicleID uuid.UUID) (models.HistorySummary, error) {
	logs, err := s.ListForVehicle(ctx, identity, vehicleID)
	if err != nil {
		return models.HistorySummary{}, err
	}
	return models.SummarizeHistory(logs), nil
}

// PaymentSummary aggregates the logs matched by filter within identity's scope.
func (s *MaintenanceService) PaymentSummary(ctx context.Context, identity *utils.Identity, filter LogFilter) (models.PaymentSummary, error) {
	logs, err := s.List(ctx, identity, filter)
	if err != nil {
		return models.PaymentSummary{}, err
	}
	return models.SummarizePayments(logs), nil
}

// AvailableServices lists the catalog entries that may be attached to the vehicle.
func (s *MaintenanceService) AvailableServices(ctx context.Context, identity *utils.Identity, vehicleID uuid.UUID) ([]models.Service, error) {
	vehicle, err := s.accessibleVehicle(ctx, identity, vehicleID)
	if err != nil {
		return nil, err
	}
	return NewCatalogService(s.db).ListByVehicleType(ctx, vehicle.VehicleType)
}

// Update changes cost and/or note in either payment state.
func (s *MaintenanceService) Update(ctx context.Context, id uuid.UUID, cost *float64, note *string) (*models.MaintenanceLog, error) {
	if cost != nil {
		if err := utils.ValidateServicePrice(*cost); err != nil {
			return nil, invalidCost()
		}
	}
	return s.apply(ctx, id, func(entry *models.MaintenanceLog) error {
		if cost != nil {
			entry.Cost = cost
		}
		if note != nil {
			entry.SetNote(strings.TrimSpace(*note))
		}
		return nil
	})
}

func (s *MaintenanceService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.MaintenanceLog{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.Errorf(utils.ErrNotFound, "Maintenance log not found")
	}
	return nil
}

// MarkPaid moves the log from unpaid to paid with the given method.
func (s *MaintenanceService) MarkPaid(ctx context.Context, id uuid.UUID, method string) (*models.MaintenanceLog, error) {
	pm, err := models.ValidatePaymentMethod(method)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, func(entry *models.MaintenanceLog) error {
		return entry.MarkPaid(pm, s.now().UTC())
	})
}

// MarkUnpaid reverts a paid log.
func (s *MaintenanceService) MarkUnpaid(ctx context.Context, id uuid.UUID) (*models.MaintenanceLog, error) {
	return s.apply(ctx, id, func(entry *models.MaintenanceLog) error {
		return entry.MarkUnpaid()
	})
}

// UpdatePaymentMethod corrects the method of a paid log.
func (s *MaintenanceService) UpdatePaymentMethod(ctx context.Context, id uuid.UUID, method string) (*models.MaintenanceLog, error) {
	pm, err := models.ValidatePaymentMethod(method)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, func(entry *models.MaintenanceLog) error {
		return entry.ChangePaymentMethod(pm)
	})
}

// apply loads the log under a row lock, runs change and saves the result. A
// failing change leaves the row untouched.
func (s *MaintenanceService) apply(ctx context.Context, id uuid.UUID, change func(*models.MaintenanceLog) error) (*models.MaintenanceLog, error) {
	var entry *models.MaintenanceLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = findLog(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
		if err != nil {
			return err
		}
		if err := change(entry); err != nil {
			return err
		}
		return tx.Save(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *MaintenanceService) accessibleVehicle(ctx context.Context, identity *utils.Identity, vehicleID uuid.UUID) (*models.Vehicle, error) {
	vehicle, err := findVehicle(s.db.WithContext(ctx), vehicleID)
	if err != nil {
		return nil, err
	}
	if err := identity.CheckOwnerAccess(vehicle.OwnerID); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func findLog(db *gorm.DB, id uuid.UUID) (*models.MaintenanceLog, error) {
	var entry models.MaintenanceLog
	if err := db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.Errorf(utils.ErrNotFound, "Maintenance log not found")
		}
		return nil, err
	}
	return &entry, nil
}

func findVehicle(db *gorm.DB, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := db.First(&vehicle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.Errorf(utils.ErrNotFound, "Vehicle not found")
		}
		return nil, err
	}
	return &vehicle, nil
}

// findServices loads ids in request order. Repeated ids are attached once.
func findServices(db *gorm.DB, ids []uuid.UUID) ([]models.Service, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	var found []models.Service
	if err := db.Where("id IN ?", unique).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Service, len(found))
	for _, svc := range found {
		byID[svc.ID] = svc
	}

	services := make([]models.Service, 0, len(unique))
	for _, id := range unique {
		svc, ok := byID[id]
		if !ok {
			return nil, utils.Errorf(utils.ErrNotFound, "Service %s not found", id)
		}
		services = append(services, svc)
	}
	return services, nil
}
