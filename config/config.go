package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	DefaultFullSubDir      = "full"
	DefaultWebSubDir       = "web"
	DefaultThumbnailSubDir = "thumbnails"
)

const (
	defaultPhotoQueueSize     = 200
	defaultNumPhotoWorkers    = 4
	defaultAutoMatchThreshold = 70
	defaultAutoAdvanceDelayMs = 1500
	defaultMaxUploadSizeMB    = 50
	defaultListenAddr         = ":8080"
)

type Config struct {
	// HTTP listen address
	ListenAddr string

	// database path
	DatabasePath string

	// photo storage configuration
	UploadDir       string // primary root for stored photo assets
	FullSubDir      string // subdirectory for full-resolution originals
	WebSubDir       string // subdirectory for web-sized versions
	ThumbnailSubDir string // subdirectory for thumbnails

	// upload limits
	MaxUploadSizeMB int

	// worker settings
	PhotoQueueSize  int
	NumPhotoWorkers int

	// matching settings
	AutoMatchThreshold int

	// capture session settings
	AutoAdvanceDelay time.Duration
	AutoUpload       bool
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s'. Using default %t. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	listenAddr := getEnvOrDefault("LISTEN_ADDR", defaultListenAddr)

	dbPath := getEnvOrDefault("DATABASE_PATH", "inventory.db")

	uploadDir := getEnvOrDefault("UPLOAD_DIR", filepath.Join(".", "uploads"))
	absUploadDir, err := filepath.Abs(uploadDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for upload directory '%s': %w", uploadDir, err)
	}

	cfg := Config{
		ListenAddr:         listenAddr,
		DatabasePath:       dbPath,
		UploadDir:          absUploadDir,
		FullSubDir:         getEnvOrDefault("FULL_SUBDIR", DefaultFullSubDir),
		WebSubDir:          getEnvOrDefault("WEB_SUBDIR", DefaultWebSubDir),
		ThumbnailSubDir:    getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailSubDir),
		MaxUploadSizeMB:    getEnvIntOrDefault("MAX_UPLOAD_SIZE_MB", defaultMaxUploadSizeMB),
		PhotoQueueSize:     getEnvIntOrDefault("PHOTO_QUEUE_SIZE", defaultPhotoQueueSize),
		NumPhotoWorkers:    getEnvIntOrDefault("NUM_PHOTO_WORKERS", defaultNumPhotoWorkers),
		AutoMatchThreshold: getEnvIntOrDefault("AUTO_MATCH_THRESHOLD", defaultAutoMatchThreshold),
		AutoAdvanceDelay:   time.Duration(getEnvIntOrDefault("AUTO_ADVANCE_DELAY_MS", defaultAutoAdvanceDelayMs)) * time.Millisecond,
		AutoUpload:         getEnvBoolOrDefault("AUTO_UPLOAD", true),
	}

	return cfg, nil
}
