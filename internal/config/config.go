package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment     string
	Port            string
	DBPath          string
	CORSOrigins     []string
	LogFile         string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, with development-friendly
// defaults for everything.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_PATH", "./data/focusd.db")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	return Config{
		Environment:     v.GetString("ENVIRONMENT"),
		Port:            v.GetString("PORT"),
		DBPath:          v.GetString("DB_PATH"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		LogFile:         v.GetString("LOG_FILE"),
		ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
