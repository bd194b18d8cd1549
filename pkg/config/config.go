package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	Environment         string
	FrontendURL         string
	DBDriver            string
	DatabaseURL         string
	JWTSecret           string
	JWTAccessExpiry     time.Duration
	JWTRefreshExpiry    time.Duration
	TimeZone            string
	FirebaseCredentials string
	ReminderSchedule    string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("APP_ENV", "development"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:5173"),
		DBDriver:            getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:         getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=ingetin port=5432 sslmode=disable"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:     getDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
		JWTRefreshExpiry:    getDuration("JWT_REFRESH_EXPIRY", 168*time.Hour), // 7 days
		TimeZone:            getEnv("TZ_NAME", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		ReminderSchedule:    getEnv("REMINDER_CRON", "0 * * * * *"),
	}
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Location resolves TimeZone, falling back to the server's local zone.
func (c *Config) Location() *time.Location {
	if c.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		log.Printf("[Config] Unknown TZ_NAME %q, using local time: %v", c.TimeZone, err)
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			return parsed
		}
		log.Printf("[Config] Ignoring invalid %s=%q", key, raw)
	}
	return defaultValue
}
