package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	PortfolioSubDir  = "portfolio"
	AlbumsSubDir     = "albums"
	ThumbnailsSubDir = ".thumbnails"
	CacheFileName    = ".metadata-cache.json"
)

const (
	defaultPort              = 3000
	defaultThumbnailMaxWidth = 600
	defaultThumbnailQuality  = 80
	defaultNumSweepWorkers   = 5
	defaultSweepQueueSize    = 200
	defaultRescanMinutes     = 5
	defaultVideoThumbOffset  = 1
)

type Config struct {
	// photo library layout
	PhotosDir     string // root containing portfolio/, albums/ and generated caches
	PortfolioDir  string
	AlbumsDir     string
	ThumbnailsDir string
	CacheFile     string

	// thumbnail generation settings
	ThumbnailMaxWidth int
	ThumbnailQuality  int

	// video thumbnail frame offset
	VideoThumbOffset time.Duration

	// sweep worker settings
	NumSweepWorkers int
	SweepQueueSize  int
	RescanInterval  time.Duration
	WatchFilesystem bool

	// HTTP settings
	Port           int
	AllowedOrigins []string

	// management API
	APIKey string
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
		log.Printf("Warning: Invalid %s '%s'. Using default %v.", envVar, valStr, defaultVal)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	photos := getEnvOrDefault("PHOTOS_DIR", "./photos")
	absPhotos, err := filepath.Abs(photos)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for photos directory '%s': %w", photos, err)
	}

	origins := getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	var allowedOrigins []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowedOrigins = append(allowedOrigins, o)
		}
	}

	cfg := Config{
		PhotosDir:         absPhotos,
		PortfolioDir:      filepath.Join(absPhotos, PortfolioSubDir),
		AlbumsDir:         filepath.Join(absPhotos, AlbumsSubDir),
		ThumbnailsDir:     filepath.Join(absPhotos, ThumbnailsSubDir),
		CacheFile:         filepath.Join(absPhotos, CacheFileName),
		ThumbnailMaxWidth: getEnvIntOrDefault("THUMBNAIL_MAX_WIDTH", defaultThumbnailMaxWidth),
		ThumbnailQuality:  getEnvIntOrDefault("THUMBNAIL_QUALITY", defaultThumbnailQuality),
		VideoThumbOffset:  time.Duration(getEnvIntOrDefault("VIDEO_THUMB_OFFSET_SECONDS", defaultVideoThumbOffset)) * time.Second,
		NumSweepWorkers:   getEnvIntOrDefault("NUM_SWEEP_WORKERS", defaultNumSweepWorkers),
		SweepQueueSize:    getEnvIntOrDefault("SWEEP_QUEUE_SIZE", defaultSweepQueueSize),
		RescanInterval:    time.Duration(getEnvIntOrDefault("RESCAN_INTERVAL_MINUTES", defaultRescanMinutes)) * time.Minute,
		WatchFilesystem:   getEnvBoolOrDefault("WATCH_FILESYSTEM", true),
		Port:              getEnvIntOrDefault("PORT", defaultPort),
		AllowedOrigins:    allowedOrigins,
		APIKey:            os.Getenv("API_KEY"),
	}

	return cfg, nil
}
