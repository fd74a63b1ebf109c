package controllers

import (
	"errors"
	"net/http"
	"strings"

	"garage-backend/models"
	"garage-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateOwnerInput defines the expected JSON structure for creating an owner
type CreateOwnerInput struct {
	Name    string  `json:"name" binding:"required"`
	Contact *string `json:"contact"`
}

// UpdateOwnerInput defines the expected JSON structure for updating an owner
type UpdateOwnerInput struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
}

// OwnerController serves vehicle owners.
type OwnerController struct {
	db *gorm.DB
}

func NewOwnerController(db *gorm.DB) *OwnerController {
	return &OwnerController{db: db}
}

func ownerResponse(owner *models.Owner) gin.H {
	return gin.H{
		"owner_id":    owner.ID,
		"name":        owner.Name,
		"contact":     owner.Contact,
		"vehicle_ids": owner.VehicleIDs(),
		"created_at":  owner.CreatedAt,
		"updated_at":  owner.UpdatedAt,
	}
}

func orderedVehicles(db *gorm.DB) *gorm.DB {
	return db.Order("plate_no ASC")
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// findOwner loads an owner with its vehicles after checking the caller may see it.
func (oc *OwnerController) findOwner(c *gin.Context) (*models.Owner, bool) {
	identity, ok := currentIdentity(c)
	if !ok {
		return nil, false
	}
	ownerID, ok := parseID(c, "id", "owner")
	if !ok {
		return nil, false
	}
	if err := identity.CheckOwnerAccess(&ownerID); err != nil {
		utils.HandleError(c, err)
		return nil, false
	}

	var owner models.Owner
	if err := oc.db.Preload("Vehicles", orderedVehicles).First(&owner, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		} else {
			utils.HandleError(c, err)
		}
		return nil, false
	}
	return &owner, true
}

// CreateOwner creates a new owner
func (oc *OwnerController) CreateOwner(c *gin.Context) {
	var input CreateOwnerInput
	if !bindJSON(c, &input) {
		return
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Name is required")
		return
	}

	owner := models.Owner{
		Name:    name,
		Contact: trimmedOrNil(input.Contact),
	}
	if err := oc.db.Create(&owner).Error; err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ownerResponse(&owner))
}

// GetOwners lists every owner. Staff only.
func (oc *OwnerController) GetOwners(c *gin.Context) {
	var owners []models.Owner
	if err := oc.db.Preload("Vehicles", orderedVehicles).Order("name ASC").Find(&owners).Error; err != nil {
		utils.HandleError(c, err)
		return
	}

	response := make([]gin.H, 0, len(owners))
	for i := range owners {
		response = append(response, ownerResponse(&owners[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetOwner retrieves a specific owner by ID
func (oc *OwnerController) GetOwner(c *gin.Context) {
	owner, ok := oc.findOwner(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ownerResponse(owner))
}

// GetOwnerWithVehicles returns the owner together with its full vehicle records.
func (oc *OwnerController) GetOwnerWithVehicles(c *gin.Context) {
	owner, ok := oc.findOwner(c)
	if !ok {
		return
	}
	response := ownerResponse(owner)
	response["vehicles"] = vehiclesOf(owner)
	c.JSON(http.StatusOK, response)
}

// GetOwnerVehicles lists the vehicles belonging to an owner.
func (oc *OwnerController) GetOwnerVehicles(c *gin.Context) {
	owner, ok := oc.findOwner(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, vehiclesOf(owner))
}

func vehiclesOf(owner *models.Owner) []models.Vehicle {
	if owner.Vehicles == nil {
		return []models.Vehicle{}
	}
	return owner.Vehicles
}

// UpdateOwner updates an existing owner
func (oc *OwnerController) UpdateOwner(c *gin.Context) {
	ownerID, ok := parseID(c, "id", "owner")
	if !ok {
		return
	}

	var input UpdateOwnerInput
	if !bindJSON(c, &input) {
		return
	}

	var owner models.Owner
	if err := oc.db.First(&owner, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		} else {
			utils.HandleError(c, err)
		}
		return
	}

	// Update fields if provided
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		owner.Name = name
	}
	if input.Contact != nil {
		owner.Contact = trimmedOrNil(input.Contact)
	}

	if err := oc.db.Save(&owner).Error; err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := oc.db.Model(&owner).Association("Vehicles").Find(&owner.Vehicles); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ownerResponse(&owner))
}

// DeleteOwner removes an owner that has no vehicles.
func (oc *OwnerController) DeleteOwner(c *gin.Context) {
	ownerID, ok := parseID(c, "id", "owner")
	if !ok {
		return
	}

	var vehicleCount int64
	if err := oc.db.Model(&models.Vehicle{}).Where("owner_id = ?", ownerID).Count(&vehicleCount).Error; err != nil {
		utils.HandleError(c, err)
		return
	}
	if vehicleCount > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":       "Cannot delete owner with registered vehicles",
			"vehicle_count": vehicleCount,
		})
		return
	}

	result := oc.db.Delete(&models.Owner{}, "id = ?", ownerID)
	if result.Error != nil {
		utils.HandleError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Owner deleted successfully"})
}

// ownerExists reports whether id names an owner.
func ownerExists(db *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	if err := db.Model(&models.Owner{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
