// utils/access.go
package utils

import (
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Authorize fails with ErrForbidden when identity's role is not in roles.
func Authorize(identity *Identity, roles ...Role) error {
	if identity == nil {
		return Errorf(ErrUnauthenticated, "Authentication required")
	}
	if !slices.Contains(roles, identity.Role) {
		return Errorf(ErrForbidden, "Insufficient permissions")
	}
	return nil
}

// IsStaff reports whether the identity sees every owner's rows.
func (i *Identity) IsStaff() bool {
	return i.Role == RoleAdmin || i.Role == RoleMechanic
}

// CanAccessOwner is the single row-ownership rule: staff see everything, customers
// only rows owned by their own owner record. Unowned rows are staff-only.
func (i *Identity) CanAccessOwner(ownerID *uuid.UUID) bool {
	if i.IsStaff() {
		return true
	}
	if i.Role != RoleCustomer || i.OwnerID == nil || ownerID == nil {
		return false
	}
	return *i.OwnerID == *ownerID
}

// CheckOwnerAccess returns ErrForbidden when CanAccessOwner denies.
func (i *Identity) CheckOwnerAccess(ownerID *uuid.UUID) error {
	if !i.CanAccessOwner(ownerID) {
		return Errorf(ErrForbidden, "Access denied")
	}
	return nil
}

// OwnerScope applies CanAccessOwner to a query whose rows carry column.
func OwnerScope(identity *Identity, column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if identity.IsStaff() {
			return db
		}
		if identity.Role != RoleCustomer || identity.OwnerID == nil {
			return db.Where("1 = 0")
		}
		return db.Where(column+" = ?", *identity.OwnerID)
	}
}
