package models

import (
	"time"

	"garage-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserName string     `gorm:"uniqueIndex;not null" json:"user_name"`
	Password string     `gorm:"column:password_hash;not null" json:"-"`
	Role     utils.Role `gorm:"type:varchar(20);not null" json:"role"`
	OwnerID  *uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`

	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Initialize UUID and hash the plain-text password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

// SetPassword replaces the stored hash. Used for updates, where the create hook
// does not run.
func (u *User) SetPassword(password string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// Identity returns the access-control view of the user. Only customers carry
// an owner id.
func (u *User) Identity() utils.Identity {
	identity := utils.Identity{
		UserID:   u.ID,
		UserName: u.UserName,
		Role:     u.Role,
	}
	if u.Role == utils.RoleCustomer {
		identity.OwnerID = u.OwnerID
	}
	return identity
}
