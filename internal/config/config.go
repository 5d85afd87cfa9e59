package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr      string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	UploadDir     string
	MaxFileSize   int64
	GelfAddr      string
	AdminEmail    string
	AdminPass     string
	DevMode       bool
}

func Load() *Config {
	// A missing .env is fine; real deployments set the environment directly.
	godotenv.Load()

	return &Config{
		HTTPAddr:      getEnv("HUB_ADDR", ":8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase: getEnv("MONGO_DB", "gradehub"),
		JWTSecret:     getEnv("JWT_SECRET", "gradehub-dev-secret-change-me"),
		AccessTTL:     getEnvDuration("JWT_ACCESS_EXPIRATION", time.Hour),
		RefreshTTL:    getEnvDuration("JWT_REFRESH_EXPIRATION", 7*24*time.Hour),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		MaxFileSize:   getEnvInt64("MAX_FILE_SIZE", 5<<20),
		GelfAddr:      getEnv("GELF_ADDR", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPass:     getEnv("ADMIN_PASSWORD", ""),
		DevMode:       getEnv("HUB_ENV", "") == "development",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
