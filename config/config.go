package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	ServerPort  int
	DBPath      string

	// Storage paths
	StoragePath string
	ImagesPath  string
	AudioPath   string
	VideosPath  string
	LogsPath    string
	FontsPath   string

	// External tools
	FFmpegBinary  string
	FFprobeBinary string

	// Render worker settings
	WorkerCount int
	QueueDepth  int
}

// Load reads configuration from the environment, falling back to
// development defaults. A .env file in the working directory is honored
// when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:   getEnv("STORYREEL_ENV", "development"),
		ServerPort:    getEnvInt("STORYREEL_PORT", 8080),
		StoragePath:   getEnv("STORYREEL_STORAGE", "storage"),
		FontsPath:     getEnv("STORYREEL_FONTS", "/usr/share/fonts/truetype"),
		FFmpegBinary:  getEnv("STORYREEL_FFMPEG", "ffmpeg"),
		FFprobeBinary: getEnv("STORYREEL_FFPROBE", "ffprobe"),
		WorkerCount:   getEnvInt("STORYREEL_WORKERS", 2),
		QueueDepth:    getEnvInt("STORYREEL_QUEUE_DEPTH", 16),
	}

	cfg.DBPath = getEnv("STORYREEL_DB", filepath.Join(cfg.StoragePath, "data", "storyreel.db"))

	// Derived storage paths
	cfg.ImagesPath = filepath.Join(cfg.StoragePath, "media", "images")
	cfg.AudioPath = filepath.Join(cfg.StoragePath, "media", "audio")
	cfg.VideosPath = filepath.Join(cfg.StoragePath, "media", "videos")
	cfg.LogsPath = filepath.Join(cfg.StoragePath, "logs")

	return cfg
}

// EnsureDirs creates the storage directory tree if it does not exist.
func (c *Config) EnsureDirs() error {
	dirs := []string{c.ImagesPath, c.AudioPath, c.VideosPath, c.LogsPath, filepath.Dir(c.DBPath)}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
