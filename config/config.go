package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"garage-backend/utils"
)

type Config struct {
	Port string

	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifeTime int // minutes

	JWTSecret      string
	JWTExpiryHours int
	CookieSecure   bool
	AllowedOrigins []string

	LogLevel  string
	LogFormat string

	AdminUserName string
	AdminPassword string

	ReminderCron      string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
}

// Load reads the configuration from the environment. Call godotenv.Load first
// to pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DB_URL", ""),
		MaxOpenConns:      getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:      getEnvInt("DB_MAX_IDLE_CONNS", 10),
		ConnMaxLifeTime:   getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTExpiryHours:    getEnvInt("JWT_EXPIRY_HOURS", 8),
		CookieSecure:      getEnvBool("COOKIE_SECURE", false),
		AllowedOrigins:    getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		AdminUserName:     getEnv("ADMIN_USERNAME", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		ReminderCron:      getEnv("REMINDER_CRON", ""),
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DB_URL must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set, for example JWT_SECRET=%s", utils.GenerateJWTSecret())
	}

	if cfg.JWTExpiryHours < 1 {
		cfg.JWTExpiryHours = 8
	}

	return cfg, nil
}

// TokenTTL is the session lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

// TwilioEnabled reports whether SMS credentials are configured.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
