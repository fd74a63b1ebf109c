package services

import (
	"context"
	"errors"
	"strings"

	"garage-backend/models"
	"garage-backend/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// UserService manages login credentials.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// NewUser is the input for Register.
type NewUser struct {
	UserName string
	Password string
	Role     utils.Role
	OwnerID  *uuid.UUID
}

// UserChanges is a partial update; nil fields keep their stored value.
type UserChanges struct {
	UserName *string
	Password *string
	Role     *utils.Role
	OwnerID  *uuid.UUID
}

// Authenticate checks a user name and password pair.
func (s *UserService) Authenticate(ctx context.Context, userName, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "user_name = ?", strings.TrimSpace(userName)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.Errorf(utils.ErrUnauthenticated, "Invalid credentials")
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, utils.Errorf(utils.ErrUnauthenticated, "Invalid credentials")
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.Errorf(utils.ErrNotFound, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("user_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Register creates a credential. Customers must be linked to an existing owner;
// other roles never carry an owner id.
func (s *UserService) Register(ctx context.Context, in NewUser) (*models.User, error) {
	name := strings.TrimSpace(in.UserName)
	if err := validateUserName(name); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if !utils.IsValidRole(in.Role) {
		return nil, utils.Errorf(utils.ErrValidation, "Invalid role %q", in.Role)
	}

	user := models.User{
		UserName: name,
		Password: in.Password,
		Role:     in.Role,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueUserName(tx, name, uuid.Nil); err != nil {
			return err
		}
		ownerID, err := ownerForRole(tx, in.Role, in.OwnerID)
		if err != nil {
			return err
		}
		user.OwnerID = ownerID
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies changes to a user. Role and owner changes are for admins only;
// callers enforce that.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, changes UserChanges) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.Errorf(utils.ErrNotFound, "User not found")
			}
			return err
		}

		if changes.UserName != nil {
			name := strings.TrimSpace(*changes.UserName)
			if err := validateUserName(name); err != nil {
				return err
			}
			if name != user.UserName {
				if err := ensureUniqueUserName(tx, name, user.ID); err != nil {
					return err
				}
			}
			user.UserName = name
		}
		if changes.Password != nil {
			if err := validatePassword(*changes.Password); err != nil {
				return err
			}
			if err := user.SetPassword(*changes.Password); err != nil {
				return err
			}
		}
		if changes.Role != nil {
			if !utils.IsValidRole(*changes.Role) {
				return utils.Errorf(utils.ErrValidation, "Invalid role %q", *changes.Role)
			}
			user.Role = *changes.Role
		}
		if changes.Role != nil || changes.OwnerID != nil {
			requested := user.OwnerID
			if changes.OwnerID != nil {
				requested = changes.OwnerID
			}
			ownerID, err := ownerForRole(tx, user.Role, requested)
			if err != nil {
				return err
			}
			user.OwnerID = ownerID
		}

		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.Errorf(utils.ErrNotFound, "User not found")
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin when no users exist yet.
func (s *UserService) EnsureAdmin(ctx context.Context, userName, password string) error {
	if userName == "" || password == "" {
		return nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if _, err := s.Register(ctx, NewUser{UserName: userName, Password: password, Role: utils.RoleAdmin}); err != nil {
		return err
	}
	log.WithField("user_name", userName).Info("Bootstrap admin created")
	return nil
}

func validateUserName(name string) error {
	if len(name) < 3 {
		return utils.Errorf(utils.ErrValidation, "User name must be at least 3 characters long")
	}
	if len(name) > 50 {
		return utils.Errorf(utils.ErrValidation, "User name must be less than 50 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return utils.Errorf(utils.ErrValidation, "Password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

func ensureUniqueUserName(tx *gorm.DB, name string, exclude uuid.UUID) error {
	var count int64
	q := tx.Model(&models.User{}).Where("user_name = ?", name)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return utils.Errorf(utils.ErrConflict, "User name already taken")
	}
	return nil
}

// ownerForRole resolves the owner id to store for role.
func ownerForRole(tx *gorm.DB, role utils.Role, ownerID *uuid.UUID) (*uuid.UUID, error) {
	if role != utils.RoleCustomer {
		return nil, nil
	}
	if ownerID == nil {
		return nil, utils.Errorf(utils.ErrValidation, "owner_id is required for customer accounts")
	}
	var count int64
	if err := tx.Model(&models.Owner{}).Where("id = ?", *ownerID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, utils.Errorf(utils.ErrNotFound, "Owner not found")
	}
	return ownerID, nil
}
