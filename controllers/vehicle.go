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

// CreateVehicleInput defines the expected JSON structure for creating a vehicle
type CreateVehicleInput struct {
	PlateNo     string     `json:"plate_no" binding:"required"`
	Make        string     `json:"make"`
	Model       string     `json:"model"`
	Year        int        `json:"year" binding:"omitempty,min=1886,max=2100"`
	VehicleType string     `json:"vehicle_type" binding:"required"`
	OwnerID     *uuid.UUID `json:"owner_id"`
}

// UpdateVehicleInput defines the expected JSON structure for updating a vehicle.
// Absent fields keep their stored value.
type UpdateVehicleInput struct {
	PlateNo     *string    `json:"plate_no"`
	Make        *string    `json:"make"`
	Model       *string    `json:"model"`
	Year        *int       `json:"year" binding:"omitempty,min=1886,max=2100"`
	VehicleType *string    `json:"vehicle_type"`
	OwnerID     *uuid.UUID `json:"owner_id"`
}

// vehicleResponse renders a vehicle; staff also get the owner's name and contact.
// VehicleController serves the vehicle registry.
type VehicleController struct {
	db *gorm.DB
}

func NewVehicleController(db *gorm.DB) *VehicleController {
	return &VehicleController{db: db}
}

func vehicleResponse(v *models.Vehicle, withOwner bool) gin.H {
	response := gin.H{
		"vehicle_id":   v.ID,
		"plate_no":     v.PlateNo,
		"make":         v.Make,
		"model":        v.Model,
		"year":         v.Year,
		"vehicle_type": v.VehicleType,
		"owner_id":     v.OwnerID,
		"created_at":   v.CreatedAt,
		"updated_at":   v.UpdatedAt,
	}
	if withOwner {
		var name, contact *string
		if v.Owner != nil {
			name = &v.Owner.Name
			contact = v.Owner.Contact
		}
		response["owner_name"] = name
		response["owner_contact"] = contact
	}
	return response
}

func (vc *VehicleController) requireOwner(c *gin.Context, ownerID *uuid.UUID) bool {
	if ownerID == nil {
		return true
	}
	exists, err := ownerExists(vc.db, *ownerID)
	if err != nil {
		utils.HandleError(c, err)
		return false
	}
	if !exists {
		utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		return false
	}
	return true
}

// GetVehicles lists the vehicles visible to the caller.
func (vc *VehicleController) GetVehicles(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	q := vc.db.Scopes(utils.OwnerScope(identity, "owner_id"))
	if identity.IsStaff() {
		q = q.Preload("Owner")
	}

	var vehicles []models.Vehicle
	if err := q.Order("plate_no ASC").Find(&vehicles).Error; err != nil {
		utils.HandleError(c, err)
		return
	}

	response := make([]gin.H, 0, len(vehicles))
	for i := range vehicles {
		response = append(response, vehicleResponse(&vehicles[i], identity.IsStaff()))
	}
	c.JSON(http.StatusOK, response)
}

// GetVehicle retrieves a specific vehicle by ID
func (vc *VehicleController) GetVehicle(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	vehicleID, ok := parseID(c, "id", "vehicle")
	if !ok {
		return
	}

	var vehicle models.Vehicle
	if err := vc.db.Preload("Owner").First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.HandleError(c, err)
		}
		return
	}
	if err := identity.CheckOwnerAccess(vehicle.OwnerID); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicleResponse(&vehicle, identity.IsStaff()))
}

// CreateVehicle registers a vehicle. Admin only.
func (vc *VehicleController) CreateVehicle(c *gin.Context) {
	var input CreateVehicleInput
	if !bindJSON(c, &input) {
		return
	}

	vehicle := models.Vehicle{
		PlateNo:     strings.TrimSpace(input.PlateNo),
		Make:        strings.TrimSpace(input.Make),
		Model:       strings.TrimSpace(input.Model),
		Year:        input.Year,
		VehicleType: strings.TrimSpace(input.VehicleType),
		OwnerID:     input.OwnerID,
	}
	if vehicle.PlateNo == "" || vehicle.VehicleType == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Plate number and vehicle type are required")
		return
	}
	if !vc.requireOwner(c, vehicle.OwnerID) {
		return
	}

	if err := vc.db.Create(&vehicle).Error; err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vehicleResponse(&vehicle, false))
}

// UpdateVehicle updates an existing vehicle. Admin only.
func (vc *VehicleController) UpdateVehicle(c *gin.Context) {
	vehicleID, ok := parseID(c, "id", "vehicle")
	if !ok {
		return
	}

	var input UpdateVehicleInput
	if !bindJSON(c, &input) {
		return
	}

	var vehicle models.Vehicle
	if err := vc.db.First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.HandleError(c, err)
		}
		return
	}

	// Update fields if provided
	if input.PlateNo != nil {
		plate := strings.TrimSpace(*input.PlateNo)
		if plate == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Plate number cannot be empty")
			return
		}
		vehicle.PlateNo = plate
	}
	if input.Make != nil {
		vehicle.Make = strings.TrimSpace(*input.Make)
	}
	if input.Model != nil {
		vehicle.Model = strings.TrimSpace(*input.Model)
	}
	if input.Year != nil {
		vehicle.Year = *input.Year
	}
	if input.VehicleType != nil {
		vehicleType := strings.TrimSpace(*input.VehicleType)
		if vehicleType == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Vehicle type cannot be empty")
			return
		}
		vehicle.VehicleType = vehicleType
	}
	if input.OwnerID != nil {
		if !vc.requireOwner(c, input.OwnerID) {
			return
		}
		vehicle.OwnerID = input.OwnerID
	}

	if err := vc.db.Save(&vehicle).Error; err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicleResponse(&vehicle, false))
}

// DeleteVehicle removes a vehicle without maintenance history. Admin only.
func (vc *VehicleController) DeleteVehicle(c *gin.Context) {
	vehicleID, ok := parseID(c, "id", "vehicle")
	if !ok {
		return
	}

	var logCount int64
	if err := vc.db.Model(&models.MaintenanceLog{}).Where("vehicle_id = ?", vehicleID).Count(&logCount).Error; err != nil {
		utils.HandleError(c, err)
		return
	}
	if logCount > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Cannot delete vehicle with maintenance history",
			"log_count": logCount,
		})
		return
	}

	result := vc.db.Delete(&models.Vehicle{}, "id = ?", vehicleID)
	if result.Error != nil {
		utils.HandleError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}
