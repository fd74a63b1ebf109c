package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"garage-backend/models"
	"garage-backend/services"
	"garage-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const recentLogLimit = 5

// DashboardController builds the overview shown on the landing page.
type DashboardController struct {
	db          *gorm.DB
	maintenance *services.MaintenanceService
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{db: db, maintenance: services.NewMaintenanceService(db)}
}

type DashboardOverview struct {
	TotalOwners   int64                 `json:"total_owners"`
	TotalVehicles int64                 `json:"total_vehicles"`
	TotalServices int64                 `json:"total_services"`
	Payments      models.PaymentSummary `json:"payments"`
	RecentLogs    []RecentLog           `json:"recent_logs"`
}

type RecentLog struct {
	LogID       uuid.UUID `json:"log_id"`
	VehicleID   uuid.UUID `json:"vehicle_id"`
	Services    string    `json:"services"`
	Status      string    `json:"payment_status"`
	ServiceDate string    `json:"service_date"` // e.g. "Today", "Yesterday"
}

func daysAgoLabel(at, now time.Time) string {
	switch days := utils.DaysBetween(at, now); days {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// GetDashboardOverview returns counts and payment totals scoped to the caller.
func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var overview DashboardOverview

	if err := dc.db.Model(&models.Owner{}).
		Scopes(utils.OwnerScope(identity, "id")).
		Count(&overview.TotalOwners).Error; err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := dc.db.Model(&models.Vehicle{}).
		Scopes(utils.OwnerScope(identity, "owner_id")).
		Count(&overview.TotalVehicles).Error; err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := dc.db.Model(&models.Service{}).Count(&overview.TotalServices).Error; err != nil {
		utils.HandleError(c, err)
		return
	}

	logs, err := dc.maintenance.List(c.Request.Context(), identity, services.LogFilter{})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	overview.Payments = models.SummarizePayments(logs)

	// Logs come newest first
	now := time.Now()
	overview.RecentLogs = make([]RecentLog, 0, recentLogLimit)
	for i := range logs {
		if len(overview.RecentLogs) >= recentLogLimit {
			break
		}
		names := make([]string, 0, len(logs[i].Services()))
		for _, snap := range logs[i].Services() {
			names = append(names, snap.ServiceName)
		}
		overview.RecentLogs = append(overview.RecentLogs, RecentLog{
			LogID:       logs[i].ID,
			VehicleID:   logs[i].VehicleID,
			Services:    strings.Join(names, ", "),
			Status:      string(logs[i].PaymentState()),
			ServiceDate: daysAgoLabel(logs[i].CreatedAt, now),
		})
	}

	c.JSON(http.StatusOK, overview)
}
