package services

import (
	"context"
	"testing"

	"garage-backend/models"
	"garage-backend/testutil"
	"garage-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type shopFixture struct {
	db          *gorm.DB
	maintenance *MaintenanceService
	catalog     *CatalogService
	jane        *models.Owner
	sedan       *models.Vehicle
	oilChange   *models.Service
}

// newShop seeds Jane Doe's sedan and an oil change offered for sedans and SUVs.
func newShop(t *testing.T) *shopFixture {
	t.Helper()
	db := testutil.NewDB(t)
	ctx := context.Background()

	jane := testutil.CreateOwner(t, db, "Jane Doe", testutil.Ptr("+14155552671"))
	sedan := testutil.CreateVehicle(t, db, "ABC123", "sedan", &jane.ID)

	catalog := NewCatalogService(db)
	oil, err := catalog.Create(ctx, "Oil Change", 49.99, []string{"sedan", "suv"})
	require.NoError(t, err)

	return &shopFixture{
		db:          db,
		maintenance: NewMaintenanceService(db),
		catalog:     catalog,
		jane:        jane,
		sedan:       sedan,
		oilChange:   oil,
	}
}

func (f *shopFixture) customer() *utils.Identity {
	return &utils.Identity{UserName: "jane", Role: utils.RoleCustomer, OwnerID: &f.jane.ID}
}

func (f *shopFixture) logOilChange(t *testing.T) *models.MaintenanceLog {
	t.Helper()
	entry, err := f.maintenance.Create(context.Background(), NewLog{
		VehicleID:  f.sedan.ID,
		ServiceIDs: []uuid.UUID{f.oilChange.ID},
		Creator:    "mike",
	})
	require.NoError(t, err)
	return entry
}

func TestCreate_CostDefaultsToServicePrices(t *testing.T) {
	f := newShop(t)

	entry := f.logOilChange(t)

	require.NotNil(t, entry.Cost)
	assert.Equal(t, 49.99, *entry.Cost)
	assert.Nil(t, entry.PaidAt)
	assert.Nil(t, entry.PaidUsing)
	assert.Equal(t, models.PaymentUnpaid, entry.PaymentState())
	assert.Equal(t, f.jane.ID, *entry.OwnerID)
	assert.Equal(t, "mike", entry.UserName)

	require.Len(t, entry.Services(), 1)
	assert.Equal(t, "Oil Change", entry.Services()[0].ServiceName)
	assert.Equal(t, 49.99, entry.Services()[0].Price)
}

func TestCreate_ExplicitCostWins(t *testing.T) {
	f := newShop(t)

	entry, err := f.maintenance.Create(context.Background(), NewLog{
		VehicleID:  f.sedan.ID,
		Cost:       testutil.Ptr(35.0),
		Note:       "loyalty discount",
		ServiceIDs: []uuid.UUID{f.oilChange.ID},
		Creator:    "mike",
	})
	require.NoError(t, err)
	assert.Equal(t, 35.0, *entry.Cost)
	assert.Equal(t, "loyalty discount", entry.Description.Data().Note)
}

func TestCreate_CostMustFitTheColumn(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()

	_, err := f.maintenance.Create(ctx, NewLog{
		VehicleID: f.sedan.ID,
		Cost:      testutil.Ptr(1e12),
		Creator:   "mike",
	})
	assert.ErrorIs(t, err, utils.ErrValidation)

	engine, err := f.catalog.Create(ctx, "Engine Swap", 60000000, nil)
	require.NoError(t, err)
	gearbox, err := f.catalog.Create(ctx, "Gearbox Swap", 60000000, nil)
	require.NoError(t, err)

	_, err = f.maintenance.Create(ctx, NewLog{
		VehicleID:  f.sedan.ID,
		ServiceIDs: []uuid.UUID{engine.ID, gearbox.ID},
		Creator:    "mike",
	})
	assert.ErrorIs(t, err, utils.ErrValidation)

	var count int64
	require.NoError(t, f.db.Model(&models.MaintenanceLog{}).Count(&count).Error)
	assert.Zero(t, count)

	entry := f.logOilChange(t)
	_, err = f.maintenance.Update(ctx, entry.ID, testutil.Ptr(-1e12), nil)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestCreate_NoServicesNoCostKeepsNullCost(t *testing.T) {
	f := newShop(t)

	entry, err := f.maintenance.Create(context.Background(), NewLog{
		VehicleID: f.sedan.ID,
		Note:      "inspection only",
		Creator:   "mike",
	})
	require.NoError(t, err)
	assert.Nil(t, entry.Cost)
	assert.Empty(t, entry.Services())
}

func TestCreate_DuplicateServiceIDsAttachedOnce(t *testing.T) {
	f := newShop(t)

	entry, err := f.maintenance.Create(context.Background(), NewLog{
		VehicleID:  f.sedan.ID,
		ServiceIDs: []uuid.UUID{f.oilChange.ID, f.oilChange.ID},
		Creator:    "mike",
	})
	require.NoError(t, err)
	assert.Len(t, entry.Services(), 1)
	assert.Equal(t, 49.99, *entry.Cost)
}

func TestCreate_IncompatibleServiceWritesNothing(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()

	truckOnly, err := f.catalog.Create(ctx, "Fifth Wheel Service", 150, []string{"truck"})
	require.NoError(t, err)

	_, err = f.maintenance.Create(ctx, NewLog{
		VehicleID:  f.sedan.ID,
		ServiceIDs: []uuid.UUID{f.oilChange.ID, truckOnly.ID},
		Creator:    "mike",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrIncompatibleService)

	var count int64
	require.NoError(t, f.db.Model(&models.MaintenanceLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreate_WildcardServiceFitsAnyVehicle(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()

	rotation, err := f.catalog.Create(ctx, "Tire Rotation", 25, nil)
	require.NoError(t, err)

	entry, err := f.maintenance.Create(ctx, NewLog{
		VehicleID:  f.sedan.ID,
		ServiceIDs: []uuid.UUID{rotation.ID},
		Creator:    "mike",
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, *entry.Cost)
}

func TestCreate_MissingReferences(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()

	_, err := f.maintenance.Create(ctx, NewLog{VehicleID: uuid.New(), Creator: "mike"})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = f.maintenance.Create(ctx, NewLog{
		VehicleID:  f.sedan.ID,
		ServiceIDs: []uuid.UUID{uuid.New()},
		Creator:    "mike",
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestSnapshotsSurviveCatalogEdits(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()
	entry := f.logOilChange(t)

	_, err := f.catalog.Update(ctx, f.oilChange.ID, ServiceChanges{
		ServiceName: testutil.Ptr("Synthetic Oil Change"),
		Price:       testutil.Ptr(89.0),
	})
	require.NoError(t, err)
	require.NoError(t, f.catalog.Delete(ctx, f.oilChange.ID))

	reloaded, err := f.maintenance.Get(ctx, adminIdentity, entry.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Services(), 1)
	assert.Equal(t, "Oil Change", reloaded.Services()[0].ServiceName)
	assert.Equal(t, 49.99, reloaded.Services()[0].Price)
}

func TestMarkPaid(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()
	entry := f.logOilChange(t)

	paid, err := f.maintenance.MarkPaid(ctx, entry.ID, "Cash")
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, models.PaymentCash, *paid.PaidUsing)

	reloaded, err := f.maintenance.Get(ctx, adminIdentity, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, reloaded.PaymentState())
	assert.Equal(t, models.PaymentCash, *reloaded.PaidUsing)

	_, err = f.maintenance.MarkPaid(ctx, entry.ID, "card")
	assert.ErrorIs(t, err, utils.ErrAlreadyPaid)

	reloaded, err = f.maintenance.Get(ctx, adminIdentity, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCash, *reloaded.PaidUsing)
}

func TestMarkPaid_InvalidMethodLeavesLogUnpaid(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()
	entry := f.logOilChange(t)

	_, err := f.maintenance.MarkPaid(ctx, entry.ID, "bitcoin")
	assert.ErrorIs(t, err, utils.ErrInvalidPaymentMethod)

	reloaded, err := f.maintenance.Get(ctx, adminIdentity, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.PaidAt)
}

func TestMarkUnpaidAndPaymentMethod(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()
	entry := f.logOilChange(t)

	_, err := f.maintenance.MarkUnpaid(ctx, entry.ID)
	assert.ErrorIs(t, err, utils.ErrAlreadyUnpaid)

	_, err = f.maintenance.UpdatePaymentMethod(ctx, entry.ID, "card")
	assert.ErrorIs(t, err, utils.ErrNotPaid)

	_, err = f.maintenance.MarkPaid(ctx, entry.ID, "cash")
	require.NoError(t, err)

	updated, err := f.maintenance.UpdatePaymentMethod(ctx, entry.ID, "BANK_TRANSFER")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentBankTransfer, *updated.PaidUsing)
	assert.NotNil(t, updated.PaidAt)

	unpaid, err := f.maintenance.MarkUnpaid(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, unpaid.PaidAt)
	assert.Nil(t, unpaid.PaidUsing)

	reloaded, err := f.maintenance.Get(ctx, adminIdentity, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.PaidAt)
	assert.Nil(t, reloaded.PaidUsing)
}

func TestPaymentTransitions_UnknownLog(t *testing.T) {
	f := newShop(t)
	_, err := f.maintenance.MarkPaid(context.Background(), uuid.New(), "cash")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUpdate_KeepsSnapshotsAndPaymentState(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()
	entry := f.logOilChange(t)
	_, err := f.maintenance.MarkPaid(ctx, entry.ID, "card")
	require.NoError(t, err)

	updated, err := f.maintenance.Update(ctx, entry.ID, testutil.Ptr(45.5), testutil.Ptr("  added filter  "))
	require.NoError(t, err)
	assert.Equal(t, 45.5, *updated.Cost)
	assert.Equal(t, "added filter", updated.Description.Data().Note)
	assert.Len(t, updated.Services(), 1)
	assert.Equal(t, models.PaymentPaid, updated.PaymentState())
}

func TestDelete(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()
	entry := f.logOilChange(t)

	require.NoError(t, f.maintenance.Delete(ctx, entry.ID))
	assert.ErrorIs(t, f.maintenance.Delete(ctx, entry.ID), utils.ErrNotFound)
}

func TestRoleScopedReads(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()
	mine := f.logOilChange(t)

	other := testutil.CreateOwner(t, f.db, "John Roe", nil)
	otherCar := testutil.CreateVehicle(t, f.db, "XYZ789", "suv", &other.ID)
	theirs, err := f.maintenance.Create(ctx, NewLog{VehicleID: otherCar.ID, Cost: testutil.Ptr(10.0), Creator: "admin"})
	require.NoError(t, err)

	customer := f.customer()

	logs, err := f.maintenance.List(ctx, customer, LogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, mine.ID, logs[0].ID)

	all, err := f.maintenance.List(ctx, mechanicIdentity, LogFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.maintenance.Get(ctx, customer, theirs.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = f.maintenance.ListForVehicle(ctx, customer, otherCar.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = f.maintenance.ListForOwner(ctx, customer, other.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	filtered, err := f.maintenance.List(ctx, customer, LogFilter{OwnerID: &other.ID})
	require.NoError(t, err)
	assert.Empty(t, filtered, "a filter cannot widen the customer's scope")

	orphan := &utils.Identity{UserName: "ghost", Role: utils.RoleCustomer}
	none, err := f.maintenance.List(ctx, orphan, LogFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestList_ByMechanicAndState(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()
	first := f.logOilChange(t)
	_, err := f.maintenance.Create(ctx, NewLog{VehicleID: f.sedan.ID, Cost: testutil.Ptr(5.0), Creator: "admin"})
	require.NoError(t, err)
	_, err = f.maintenance.MarkPaid(ctx, first.ID, "cash")
	require.NoError(t, err)

	byMike, err := f.maintenance.List(ctx, adminIdentity, LogFilter{UserName: "mike"})
	require.NoError(t, err)
	require.Len(t, byMike, 1)
	assert.Equal(t, first.ID, byMike[0].ID)

	paid, err := f.maintenance.List(ctx, adminIdentity, LogFilter{State: models.PaymentPaid})
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, first.ID, paid[0].ID)

	unpaid, err := f.maintenance.List(ctx, adminIdentity, LogFilter{State: models.PaymentUnpaid})
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.NotEqual(t, first.ID, unpaid[0].ID)
}

func TestSummaries(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()

	first := f.logOilChange(t)
	_, err := f.maintenance.Create(ctx, NewLog{VehicleID: f.sedan.ID, Cost: testutil.Ptr(100.25), Creator: "mike"})
	require.NoError(t, err)
	_, err = f.maintenance.Create(ctx, NewLog{VehicleID: f.sedan.ID, Creator: "mike"})
	require.NoError(t, err)
	_, err = f.maintenance.MarkPaid(ctx, first.ID, "card")
	require.NoError(t, err)

	history, err := f.maintenance.HistorySummary(ctx, f.customer(), f.sedan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), history.TotalLogs)
	assert.InDelta(t, 150.24, history.TotalCost, 1e-9)
	assert.NotNil(t, history.FirstServiceAt)
	assert.NotNil(t, history.LastServiceAt)

	payments, err := f.maintenance.PaymentSummary(ctx, adminIdentity, LogFilter{VehicleID: &f.sedan.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), payments.TotalLogs)
	assert.Equal(t, int64(1), payments.PaidLogs)
	assert.Equal(t, int64(2), payments.UnpaidLogs)
	assert.Equal(t, payments.TotalLogs, payments.PaidLogs+payments.UnpaidLogs)
	assert.InDelta(t, 49.99, payments.TotalPaidAmount, 1e-9)
	assert.InDelta(t, 100.25, payments.TotalUnpaidAmount, 1e-9)
	assert.Equal(t, payments.TotalAmount, payments.TotalPaidAmount+payments.TotalUnpaidAmount)
}

func TestHistorySummary_EmptyVehicle(t *testing.T) {
	f := newShop(t)

	history, err := f.maintenance.HistorySummary(context.Background(), adminIdentity, f.sedan.ID)
	require.NoError(t, err)
	assert.Zero(t, history.TotalLogs)
	assert.Zero(t, history.TotalCost)
	assert.Nil(t, history.FirstServiceAt)
}

func TestAvailableServices(t *testing.T) {
	f := newShop(t)
	ctx := context.Background()
	_, err := f.catalog.Create(ctx, "Tire Rotation", 25, nil)
	require.NoError(t, err)
	_, err = f.catalog.Create(ctx, "Fifth Wheel Service", 150, []string{"truck"})
	require.NoError(t, err)

	available, err := f.maintenance.AvailableServices(ctx, f.customer(), f.sedan.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(available))
	for _, s := range available {
		names = append(names, s.ServiceName)
	}
	assert.ElementsMatch(t, []string{"Oil Change", "Tire Rotation"}, names)
}
