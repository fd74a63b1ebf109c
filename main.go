package main

import (
	"context"
	"fmt"
	"os"

	"garage-backend/config"
	"garage-backend/models"
	"garage-backend/routes"
	"garage-backend/services"
	"garage-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	config.SetupLogger(cfg.LogLevel, cfg.LogFormat)
	utils.ConfigureTokens(cfg.JWTSecret, cfg.TokenTTL())
	if log.GetLevel() < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.ConnectDB(cfg); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := models.AutoMigrate(config.DB); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	if cfg.AdminUserName != "" && cfg.AdminPassword != "" {
		if err := services.NewUserService(config.DB).EnsureAdmin(context.Background(), cfg.AdminUserName, cfg.AdminPassword); err != nil {
			log.WithError(err).Fatal("Failed to create bootstrap admin")
		}
	}

	var sender services.MessageSender = services.DisabledSender
	if cfg.TwilioEnabled() {
		sender = services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	} else {
		log.Warn("Twilio credentials not set, payment reminders will not be delivered")
	}
	reminders := services.NewReminderService(config.DB, sender)
	if cfg.ReminderCron != "" {
		if err := reminders.StartScheduler(cfg.ReminderCron); err != nil {
			log.WithError(err).Fatal("Failed to start reminder scheduler")
		}
		defer reminders.Stop()
	}

	r := routes.SetupRouter(cfg, config.DB, reminders)
	printRoutes(r)

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Error("Server stopped")
		os.Exit(1)
	}
}

func printRoutes(r *gin.Engine) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	for _, route := range r.Routes() {
		log.Debug(fmt.Sprintf("%-6s %s", route.Method, route.Path))
	}
}
