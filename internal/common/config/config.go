package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	Debug        bool

	DBPath    string
	AssetsDir string

	BoardWidth     float64
	BoardHeight    float64
	ExportScale    float64
	ExportArtifact string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("[CONFIG] .env not loaded: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		Debug:        getEnvAsBool("DEBUG", false),

		DBPath:    getEnv("BOARD_DB_PATH", "data/db/board.db"),
		AssetsDir: getEnv("ASSETS_DIR", "data/assets"),

		BoardWidth:     getEnvAsFloat("BOARD_WIDTH", 1200),
		BoardHeight:    getEnvAsFloat("BOARD_HEIGHT", 800),
		ExportScale:    getEnvAsFloat("EXPORT_SCALE", 2),
		ExportArtifact: getEnv("EXPORT_ARTIFACT", "moodboard"),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warnf("[CONFIG] %s=%q is not an integer, using %d", key, value, defaultVal)
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
		log.Warnf("[CONFIG] %s=%q is not a positive number, using %v", key, value, defaultVal)
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
