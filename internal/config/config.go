package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Port         string
	DatabasePath string // SQLite file path, e.g. ./greenthumb.db

	// Image normalization
	ImageMaxWidth int // maximum stored image width in pixels
	ImageQuality  int // JPEG quality (1-100)

	// Overdue watering sweep
	NotifyIntervalMinutes int // how often the sweep runs
	NotifyGraceMinutes    int // overdue grace before the first alert
	NotifySuppressHours   int // 0 = re-alert every sweep
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "greenthumb.db"),

		ImageMaxWidth: getIntEnv("IMAGE_MAX_WIDTH", 600),
		ImageQuality:  getIntEnv("IMAGE_QUALITY", 70),

		NotifyIntervalMinutes: getIntEnv("NOTIFY_INTERVAL_MINUTES", 60),
		NotifyGraceMinutes:    getIntEnv("NOTIFY_GRACE_MINUTES", 60),
		NotifySuppressHours:   getIntEnv("NOTIFY_SUPPRESS_HOURS", 0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
