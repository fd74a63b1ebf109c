// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"garage-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
// The pool holds a single connection so the database lives as long as the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// CreateOwner inserts an owner with the given name and contact.
func CreateOwner(t *testing.T, db *gorm.DB, name string, contact *string) *models.Owner {
	t.Helper()
	owner := &models.Owner{Name: name, Contact: contact}
	require.NoError(t, db.Create(owner).Error)
	return owner
}

// CreateVehicle inserts a vehicle of vehicleType, optionally owned.
func CreateVehicle(t *testing.T, db *gorm.DB, plate, vehicleType string, ownerID *uuid.UUID) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		PlateNo:     plate,
		Make:        "Toyota",
		Model:       "Corolla",
		Year:        2018,
		VehicleType: vehicleType,
		OwnerID:     ownerID,
	}
	require.NoError(t, db.Create(vehicle).Error)
	return vehicle
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
