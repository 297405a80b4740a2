package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		PublicURL   string   `yaml:"public_url"` // used to build upload URLs
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql, sqlite
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret           string `yaml:"secret"`
		TTL              int    `yaml:"ttl"`                // access token, minutes
		RefreshTTL       int    `yaml:"refresh_ttl"`        // hours
		UploadTTLMinutes int    `yaml:"upload_ttl_minutes"` // signed upload URL lifetime
	} `yaml:"jwt"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3/R2
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3/R2
		SecretKey  string `yaml:"secret_key"`  // For S3/R2
		Endpoint   string `yaml:"endpoint"`    // For R2 or custom S3
		UseSSL     bool   `yaml:"use_ssl"`     // For S3/R2
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize        int64    `yaml:"max_size"`        // bytes
		AllowedTypes   []string `yaml:"allowed_types"`   // MIME types
		ImageQuality   int      `yaml:"image_quality"`   // JPEG quality (1-100)
		ThumbnailWidth int      `yaml:"thumbnail_width"` // 0 disables thumbnails
	} `yaml:"upload"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Retention struct {
		Enabled     bool   `yaml:"enabled"`
		Cron        string `yaml:"cron"`
		OrphanAfter string `yaml:"orphan_after"` // time.ParseDuration format
	} `yaml:"retention"`
}

var AppConfig *Config

// Default returns a config that runs locally against sqlite with local storage.
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"
	cfg.Server.PublicURL = "http://localhost:8080"
	cfg.Server.CORSOrigins = []string{"http://localhost:3000"}

	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "teamchat.db"

	cfg.JWT.Secret = "dev-secret-change-me"
	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTL = 24 * 30
	cfg.JWT.UploadTTLMinutes = 10

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	cfg.Upload.ImageQuality = 85
	cfg.Upload.ThumbnailWidth = 320

	cfg.RateLimit.RPS = 5
	cfg.RateLimit.Burst = 10

	cfg.Retention.Enabled = false
	cfg.Retention.Cron = "0 3 * * *"
	cfg.Retention.OrphanAfter = "24h"

	return &cfg
}

// Load reads the YAML file at path on top of Default and applies env overrides.
// A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		log.Printf("config file %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SERVER_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
}

// LoadConfig loads .env and the YAML config into AppConfig.
func LoadConfig() {
	// .env is optional
	_ = godotenv.Load(".env")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTL) * time.Hour
}

func (c *Config) UploadTokenTTL() time.Duration {
	return time.Duration(c.JWT.UploadTTLMinutes) * time.Minute
}

// OrphanAfter parses Retention.OrphanAfter, falling back to 24h.
func (c *Config) OrphanAfter() time.Duration {
	d, err := time.ParseDuration(c.Retention.OrphanAfter)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}
