package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	PhotosPerDay             int
	MaxImageSide             int
	JPEGQuality              int
	SignedURLTTLSeconds      int
	TokenTTLMinutes          int
	JWTSecret                string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
	S3Endpoint               string
	S3Region                 string
	S3Bucket                 string
	S3AccessKeyID            string
	S3AccessKeySecret        string
	RedisURL                 string
	RateLimitPerMinute       int
}

func Default() Config {
	return Config{
		PhotosPerDay:             3,
		MaxImageSide:             1600,
		JPEGQuality:              80,
		SignedURLTTLSeconds:      3600,
		TokenTTLMinutes:          12 * 60,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
		S3Region:                 "auto",
		S3Bucket:                 "photos",
		RateLimitPerMinute:       30,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PHOTOS_PER_DAY"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.PhotosPerDay = value
		}
	}
	if raw := os.Getenv("MAX_IMAGE_SIDE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MaxImageSide = value
		}
	}
	if raw := os.Getenv("JPEG_QUALITY"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 && value <= 100 {
			cfg.JPEGQuality = value
		}
	}
	if raw := os.Getenv("SIGNED_URL_TTL_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.SignedURLTTLSeconds = value
		}
	}
	if raw := os.Getenv("TOKEN_TTL_MINUTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.TokenTTLMinutes = value
		}
	}
	if raw := os.Getenv("JWT_SECRET"); raw != "" {
		cfg.JWTSecret = raw
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	if raw := os.Getenv("S3_ENDPOINT"); raw != "" {
		cfg.S3Endpoint = raw
	}
	if raw := os.Getenv("S3_REGION"); raw != "" {
		cfg.S3Region = raw
	}
	if raw := os.Getenv("S3_BUCKET"); raw != "" {
		cfg.S3Bucket = raw
	}
	if raw := os.Getenv("S3_ACCESS_KEY_ID"); raw != "" {
		cfg.S3AccessKeyID = raw
	}
	if raw := os.Getenv("S3_ACCESS_KEY_SECRET"); raw != "" {
		cfg.S3AccessKeySecret = raw
	}
	if raw := os.Getenv("REDIS_URL"); raw != "" {
		cfg.RedisURL = raw
	}
	if raw := os.Getenv("RATE_LIMIT_PER_MINUTE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RateLimitPerMinute = value
		}
	}
	return cfg
}
