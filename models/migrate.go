package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the shop uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Owner{},
		&Vehicle{},
		&Service{},
		&MaintenanceLog{},
		&User{},
		&ReminderLog{},
	)
}
