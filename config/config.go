package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	DBPath      string
	Port        string
	OracleURL   string
	OracleKey   string
	CaptureCron string
}

// Default capture cadence: five minutes past the hour, 9AM-5PM, weekdays.
const defaultCaptureCron = "5 9-17 * * 1-5"

// Load reads configuration from the environment, honoring a .env file if present
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "portfolio.db"
	}

	oracleURL := os.Getenv("ORACLE_URL")
	if oracleURL == "" {
		return nil, fmt.Errorf("ORACLE_URL environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	captureCron := os.Getenv("CAPTURE_CRON")
	if captureCron == "" {
		captureCron = defaultCaptureCron
	}

	return &Config{
		DBPath:      dbPath,
		Port:        port,
		OracleURL:   oracleURL,
		OracleKey:   os.Getenv("ORACLE_KEY"),
		CaptureCron: captureCron,
	}, nil
}
