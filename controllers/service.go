// controllers/service.go
package controllers

import (
	"net/http"
	"strings"

	"garage-backend/services"
	"garage-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	ServiceName  string   `json:"service_name" binding:"required"`
	Price        *float64 `json:"price" binding:"required"`
	VehicleTypes []string `json:"vehicle_types"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	ServiceName  *string   `json:"service_name"`
	Price        *float64  `json:"price"`
	VehicleTypes *[]string `json:"vehicle_types"`
}

// ServiceController serves the service catalog.
type ServiceController struct {
	catalog     *services.CatalogService
	maintenance *services.MaintenanceService
}

func NewServiceController(db *gorm.DB) *ServiceController {
	return &ServiceController{
		catalog:     services.NewCatalogService(db),
		maintenance: services.NewMaintenanceService(db),
	}
}

// GetServices retrieves the whole catalog
func (sc *ServiceController) GetServices(c *gin.Context) {
	list, err := sc.catalog.List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetService retrieves a specific service by ID
func (sc *ServiceController) GetService(c *gin.Context) {
	id, ok := parseID(c, "id", "service")
	if !ok {
		return
	}

	service, err := sc.catalog.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// GetServicesByVehicleType lists the services usable on a vehicle type.
func (sc *ServiceController) GetServicesByVehicleType(c *gin.Context) {
	vehicleType := strings.TrimSpace(c.Param("type"))
	if vehicleType == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Vehicle type is required")
		return
	}

	list, err := sc.catalog.ListByVehicleType(c.Request.Context(), vehicleType)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CheckCompatibility answers whether a service may be performed on a vehicle
// type, given directly or through a vehicle_id.
func (sc *ServiceController) CheckCompatibility(c *gin.Context) {
	id, ok := parseID(c, "id", "service")
	if !ok {
		return
	}

	vehicleType := strings.TrimSpace(c.Query("vehicle_type"))
	if raw := c.Query("vehicle_id"); raw != "" {
		identity, ok := currentIdentity(c)
		if !ok {
			return
		}
		vehicleID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID format")
			return
		}
		available, err := sc.maintenance.AvailableServices(c.Request.Context(), identity, vehicleID)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		service, err := sc.catalog.Get(c.Request.Context(), id)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		compatible := false
		for i := range available {
			if available[i].ID == id {
				compatible = true
				break
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"service_id":    service.ID,
			"vehicle_id":    vehicleID,
			"vehicle_types": service.VehicleTypes,
			"compatible":    compatible,
		})
		return
	}

	if vehicleType == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "vehicle_type or vehicle_id query parameter is required")
		return
	}

	service, err := sc.catalog.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"service_id":    service.ID,
		"vehicle_type":  vehicleType,
		"vehicle_types": service.VehicleTypes,
		"compatible":    service.IsCompatible(vehicleType),
	})
}

// CreateService adds a catalog entry. Admin only.
func (sc *ServiceController) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if !bindJSON(c, &input) {
		return
	}

	service, err := sc.catalog.Create(c.Request.Context(), input.ServiceName, *input.Price, input.VehicleTypes)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

// UpdateService updates an existing catalog entry. Admin only.
func (sc *ServiceController) UpdateService(c *gin.Context) {
	id, ok := parseID(c, "id", "service")
	if !ok {
		return
	}

	var input UpdateServiceInput
	if !bindJSON(c, &input) {
		return
	}

	service, err := sc.catalog.Update(c.Request.Context(), id, services.ServiceChanges{
		ServiceName:  input.ServiceName,
		Price:        input.Price,
		VehicleTypes: input.VehicleTypes,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// DeleteService removes a catalog entry. Logs keep their snapshot of it.
func (sc *ServiceController) DeleteService(c *gin.Context) {
	id, ok := parseID(c, "id", "service")
	if !ok {
		return
	}

	if err := sc.catalog.Delete(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
