package controllers

import (
	"net/http"

	"garage-backend/models"
	"garage-backend/services"
	"garage-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateMaintenanceInput defines the expected JSON structure for recording work
type CreateMaintenanceInput struct {
	VehicleID   uuid.UUID   `json:"vehicle_id" binding:"required"`
	Cost        *float64    `json:"cost"`
	Description string      `json:"description"`
	ServiceIDs  []uuid.UUID `json:"service_ids"`
}

// UpdateMaintenanceInput changes cost and/or the free-text note
type UpdateMaintenanceInput struct {
	Cost        *float64 `json:"cost"`
	Description *string  `json:"description"`
}

// PaymentInput carries the payment method for mark-paid and method corrections
type PaymentInput struct {
	PaidUsing string `json:"paid_using" binding:"required"`
}

// MaintenanceController serves maintenance logs and their payment lifecycle.
type MaintenanceController struct {
	svc   *services.MaintenanceService
	users *services.UserService
}

func NewMaintenanceController(db *gorm.DB) *MaintenanceController {
	return &MaintenanceController{
		svc:   services.NewMaintenanceService(db),
		users: services.NewUserService(db),
	}
}

// optionalQueryID parses an optional uuid query parameter.
func optionalQueryID(c *gin.Context, key, label string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+label+" ID format")
		return nil, false
	}
	return &id, true
}

// queryFilter reads the vehicle_id and owner_id filters shared by the payment views.
func queryFilter(c *gin.Context) (services.LogFilter, bool) {
	vehicleID, ok := optionalQueryID(c, "vehicle_id", "vehicle")
	if !ok {
		return services.LogFilter{}, false
	}
	ownerID, ok := optionalQueryID(c, "owner_id", "owner")
	if !ok {
		return services.LogFilter{}, false
	}
	return services.LogFilter{VehicleID: vehicleID, OwnerID: ownerID}, true
}

func (mc *MaintenanceController) respondList(c *gin.Context, filter services.LogFilter) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	logs, err := mc.svc.List(c.Request.Context(), identity, filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// CreateLog records work on a vehicle. Admin and mechanic.
func (mc *MaintenanceController) CreateLog(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var input CreateMaintenanceInput
	if !bindJSON(c, &input) {
		return
	}
	creator, ok := currentUserName(c, mc.users, identity)
	if !ok {
		return
	}

	entry, err := mc.svc.Create(c.Request.Context(), services.NewLog{
		VehicleID:  input.VehicleID,
		Cost:       input.Cost,
		Note:       input.Description,
		ServiceIDs: input.ServiceIDs,
		Creator:    creator,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (mc *MaintenanceController) GetLogs(c *gin.Context) {
	mc.respondList(c, services.LogFilter{})
}

func (mc *MaintenanceController) GetLog(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "maintenance log")
	if !ok {
		return
	}

	entry, err := mc.svc.Get(c.Request.Context(), identity, id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (mc *MaintenanceController) GetVehicleLogs(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	vehicleID, ok := parseID(c, "vehicleId", "vehicle")
	if !ok {
		return
	}

	logs, err := mc.svc.ListForVehicle(c.Request.Context(), identity, vehicleID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (mc *MaintenanceController) GetVehicleSummary(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	vehicleID, ok := parseID(c, "vehicleId", "vehicle")
	if !ok {
		return
	}

	summary, err := mc.svc.HistorySummary(c.Request.Context(), identity, vehicleID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetAvailableServices lists the catalog entries that can be logged on the vehicle.
func (mc *MaintenanceController) GetAvailableServices(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	vehicleID, ok := parseID(c, "vehicleId", "vehicle")
	if !ok {
		return
	}

	list, err := mc.svc.AvailableServices(c.Request.Context(), identity, vehicleID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (mc *MaintenanceController) GetOwnerLogs(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	ownerID, ok := parseID(c, "ownerId", "owner")
	if !ok {
		return
	}

	logs, err := mc.svc.ListForOwner(c.Request.Context(), identity, ownerID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetMechanicLogs lists the logs recorded by a given user. Staff only.
func (mc *MaintenanceController) GetMechanicLogs(c *gin.Context) {
	mc.respondList(c, services.LogFilter{UserName: c.Param("userName")})
}

// GetMyLogs lists the logs recorded by the caller.
func (mc *MaintenanceController) GetMyLogs(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	userName, ok := currentUserName(c, mc.users, identity)
	if !ok {
		return
	}
	mc.respondList(c, services.LogFilter{UserName: userName})
}

func (mc *MaintenanceController) GetUnpaidLogs(c *gin.Context) {
	filter, ok := queryFilter(c)
	if !ok {
		return
	}
	filter.State = models.PaymentUnpaid
	mc.respondList(c, filter)
}

func (mc *MaintenanceController) GetPaidLogs(c *gin.Context) {
	filter, ok := queryFilter(c)
	if !ok {
		return
	}
	filter.State = models.PaymentPaid
	mc.respondList(c, filter)
}

func (mc *MaintenanceController) GetPaymentSummary(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	filter, ok := queryFilter(c)
	if !ok {
		return
	}

	summary, err := mc.svc.PaymentSummary(c.Request.Context(), identity, filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UpdateLog changes cost or note. Admin only.
func (mc *MaintenanceController) UpdateLog(c *gin.Context) {
	id, ok := parseID(c, "id", "maintenance log")
	if !ok {
		return
	}

	var input UpdateMaintenanceInput
	if !bindJSON(c, &input) {
		return
	}

	entry, err := mc.svc.Update(c.Request.Context(), id, input.Cost, input.Description)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (mc *MaintenanceController) DeleteLog(c *gin.Context) {
	id, ok := parseID(c, "id", "maintenance log")
	if !ok {
		return
	}

	if err := mc.svc.Delete(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance log deleted successfully"})
}

func (mc *MaintenanceController) MarkPaid(c *gin.Context) {
	id, ok := parseID(c, "id", "maintenance log")
	if !ok {
		return
	}

	var input PaymentInput
	if !bindJSON(c, &input) {
		return
	}

	entry, err := mc.svc.MarkPaid(c.Request.Context(), id, input.PaidUsing)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Maintenance log marked as paid",
		"log":     entry,
	})
}

func (mc *MaintenanceController) MarkUnpaid(c *gin.Context) {
	id, ok := parseID(c, "id", "maintenance log")
	if !ok {
		return
	}

	entry, err := mc.svc.MarkUnpaid(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Maintenance log marked as unpaid",
		"log":     entry,
	})
}

func (mc *MaintenanceController) UpdatePaymentMethod(c *gin.Context) {
	id, ok := parseID(c, "id", "maintenance log")
	if !ok {
		return
	}

	var input PaymentInput
	if !bindJSON(c, &input) {
		return
	}

	entry, err := mc.svc.UpdatePaymentMethod(c.Request.Context(), id, input.PaidUsing)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment method updated",
		"log":     entry,
	})
}
