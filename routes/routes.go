package routes

import (
	"net/http"
	"slices"

	"garage-backend/config"
	"garage-backend/controllers"
	"garage-backend/services"
	"garage-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(cfg *config.Config, db *gorm.DB, reminders *services.ReminderService) *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return slices.Contains(cfg.AllowedOrigins, origin)
		},
	}))

	r.Use(config.PerformanceLogger())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db, cfg.CookieSecure)
	auth := r.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", authController.Me)
		auth.PUT("/me", authController.UpdateMe)
		auth.POST("/register", utils.RequireAdmin(), authController.Register)
	}

	staff := utils.RequireRoles(utils.RoleAdmin, utils.RoleMechanic)
	admin := utils.RequireAdmin()

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// User routes
		userController := controllers.NewUserController(db)
		users := api.Group("/users", admin)
		{
			users.GET("", userController.GetUsers)
			users.GET("/:id", userController.GetUser)
			users.PUT("/:id", userController.UpdateUser)
			users.DELETE("/:id", userController.DeleteUser)
		}

		// Owner routes
		ownerController := controllers.NewOwnerController(db)
		owners := api.Group("/owners")
		{
			owners.POST("", admin, ownerController.CreateOwner)
			owners.GET("", staff, ownerController.GetOwners)
			owners.GET("/:id", ownerController.GetOwner)
			owners.GET("/:id/with-vehicles", ownerController.GetOwnerWithVehicles)
			owners.GET("/:id/vehicles", ownerController.GetOwnerVehicles)
			owners.PUT("/:id", admin, ownerController.UpdateOwner)
			owners.DELETE("/:id", admin, ownerController.DeleteOwner)
		}

		// Vehicle routes
		vehicleController := controllers.NewVehicleController(db)
		vehicles := api.Group("/vehicles")
		{
			vehicles.GET("", vehicleController.GetVehicles)
			vehicles.GET("/:id", vehicleController.GetVehicle)
			vehicles.POST("", admin, vehicleController.CreateVehicle)
			vehicles.PUT("/:id", admin, vehicleController.UpdateVehicle)
			vehicles.DELETE("/:id", admin, vehicleController.DeleteVehicle)
		}

		// Service catalog routes
		serviceController := controllers.NewServiceController(db)
		catalog := api.Group("/services")
		{
			catalog.GET("", serviceController.GetServices)
			catalog.GET("/vehicle-type/:type", serviceController.GetServicesByVehicleType)
			catalog.GET("/:id", serviceController.GetService)
			catalog.GET("/:id/compatibility", serviceController.CheckCompatibility)
			catalog.POST("", admin, serviceController.CreateService)
			catalog.PUT("/:id", admin, serviceController.UpdateService)
			catalog.DELETE("/:id", admin, serviceController.DeleteService)
		}

		// Maintenance log routes
		maintenanceController := controllers.NewMaintenanceController(db)
		maintenance := api.Group("/maintenance")
		{
			maintenance.GET("", maintenanceController.GetLogs)
			maintenance.GET("/unpaid", maintenanceController.GetUnpaidLogs)
			maintenance.GET("/paid", maintenanceController.GetPaidLogs)
			maintenance.GET("/payment-summary", maintenanceController.GetPaymentSummary)
			maintenance.GET("/mine", staff, maintenanceController.GetMyLogs)
			maintenance.GET("/mechanic/:userName", staff, maintenanceController.GetMechanicLogs)
			maintenance.GET("/vehicle/:vehicleId", maintenanceController.GetVehicleLogs)
			maintenance.GET("/vehicle/:vehicleId/summary", maintenanceController.GetVehicleSummary)
			maintenance.GET("/vehicle/:vehicleId/available-services", maintenanceController.GetAvailableServices)
			maintenance.GET("/owner/:ownerId", maintenanceController.GetOwnerLogs)
			maintenance.GET("/:id", maintenanceController.GetLog)

			maintenance.POST("", staff, maintenanceController.CreateLog)
			maintenance.PUT("/:id", admin, maintenanceController.UpdateLog)
			maintenance.DELETE("/:id", admin, maintenanceController.DeleteLog)
			maintenance.PATCH("/:id/mark-paid", staff, maintenanceController.MarkPaid)
			maintenance.PATCH("/:id/payment-method", staff, maintenanceController.UpdatePaymentMethod)
			maintenance.PATCH("/:id/mark-unpaid", admin, maintenanceController.MarkUnpaid)
		}

		// Dashboard routes
		dashboardController := controllers.NewDashboardController(db)
		api.GET("/dashboard", dashboardController.GetDashboardOverview)

		// Reminder routes
		reminderController := controllers.NewReminderController(reminders)
		reminderGroup := api.Group("/reminders", admin)
		{
			reminderGroup.GET("", reminderController.GetReminders)
			reminderGroup.POST("/send", reminderController.SendReminders)
		}
	}

	return r
}
