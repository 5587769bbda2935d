package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all runtime settings. Values come from the environment (a
// .env file is loaded first when present).
type Config struct {
	Port      string `env:"PORT, default=8080"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=true"`

	// DatabaseURL takes priority over the per-variable settings below.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST, default=localhost"`
	DBPort      string `env:"DB_PORT, default=5432"`
	DBUser      string `env:"DB_USER, default=postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME, default=potholes"`
	DBSSLMode   string `env:"DB_SSLMODE, default=disable"`

	JWTSecret string        `env:"JWT_SECRET, default=pothole-ai-dev-secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=720h"`

	AdminUsername string `env:"ADMIN_USERNAME, default=admin"`
	AdminEmail    string `env:"ADMIN_EMAIL, default=admin@pothole.ai"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=admin123"`

	StaticDir   string `env:"STATIC_DIR, default=./static"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB, default=16"`
	MaxPageSize int    `env:"MAX_PAGE_SIZE, default=100"`

	DetectorURL     string        `env:"DETECTOR_URL"`
	DetectorTimeout time.Duration `env:"DETECTOR_TIMEOUT, default=15s"`
	DetectorMinConf float64       `env:"DETECTOR_MIN_CONF, default=0.25"`

	CloudinaryURL string `env:"CLOUDINARY_URL"`

	AllowedOrigins string `env:"ALLOWED_ORIGINS, default=*"`

	// RetentionDays enables the background cleanup of old data when > 0.
	RetentionDays int `env:"RETENTION_DAYS, default=0"`
}

func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
