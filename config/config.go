package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Env       string `koanf:"env"`
	HTTPAddr  string `koanf:"http_addr"`
	JWTSecret string `koanf:"jwt_secret"`
	SentryDSN string `koanf:"sentry_dsn"`

	DBUsername string `koanf:"db_username"`
	DBPassword string `koanf:"db_password"`
	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBName     string `koanf:"db_name"`

	S3BucketName      string `koanf:"s3_bucket_name"`
	S3Region          string `koanf:"s3_region"`
	S3Endpoint        string `koanf:"s3_endpoint"`
	S3AccessKeyID     string `koanf:"s3_access_key_id"`
	S3AccessKeySecret string `koanf:"s3_access_key_secret"`

	GoogleAPIKey        string        `koanf:"google_api_key"`
	VisionModel         string        `koanf:"vision_model"`
	TextModel           string        `koanf:"text_model"`
	ModelTimeout        time.Duration `koanf:"model_timeout"`
	ModelMaxRetries     int           `koanf:"model_max_retries"`
	ModelMaxImageBytes  int           `koanf:"model_max_image_bytes"`
	ModelMinJPEGQuality int           `koanf:"model_min_jpeg_quality"`
	ModelRatePerMinute  int           `koanf:"model_rate_per_minute"`

	BackgroundThreshold float64 `koanf:"background_threshold"`
	BackgroundBlurSigma float64 `koanf:"background_blur_sigma"`
	MaxUploadBytes      int64   `koanf:"max_upload_bytes"`

	AsyncBrokerAddress string `koanf:"async_broker_address"`
}

const (
	DefaultHTTPAddr            = ":8080"
	DefaultVisionModel         = "gemini-2.5-flash"
	DefaultTextModel           = "gemini-2.5-flash"
	DefaultModelTimeout        = 60 * time.Second
	DefaultModelMaxRetries     = 2
	DefaultModelMaxImageBytes  = 4 << 20
	DefaultModelMinJPEGQuality = 30
	DefaultModelRatePerMinute  = 60
	DefaultBackgroundThreshold = 235
	DefaultBackgroundBlurSigma = 2.0
	DefaultMaxUploadBytes      = 20 << 20
	DefaultAsyncBrokerAddress  = "127.0.0.1:6379"
	DefaultS3Region            = "us-east-1"
)

var defaults = map[string]interface{}{
	"env":                    "development",
	"http_addr":              DefaultHTTPAddr,
	"vision_model":           DefaultVisionModel,
	"text_model":             DefaultTextModel,
	"model_timeout":          DefaultModelTimeout,
	"model_max_retries":      DefaultModelMaxRetries,
	"model_max_image_bytes":  DefaultModelMaxImageBytes,
	"model_min_jpeg_quality": DefaultModelMinJPEGQuality,
	"model_rate_per_minute":  DefaultModelRatePerMinute,
	"background_threshold":   float64(DefaultBackgroundThreshold),
	"background_blur_sigma":  DefaultBackgroundBlurSigma,
	"max_upload_bytes":       int64(DefaultMaxUploadBytes),
	"async_broker_address":   DefaultAsyncBrokerAddress,
	"s3_region":              DefaultS3Region,
}

// Load reads the defaults, then the process environment on top of them.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	// DB_HOST -> db_host. Keys are flat so the delimiter never splits them.
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ModelTimeout < 0 {
		return fmt.Errorf("MODEL_TIMEOUT must be positive, got %s", c.ModelTimeout)
	}
	if c.ModelMaxRetries < 0 {
		return fmt.Errorf("MODEL_MAX_RETRIES must not be negative, got %d", c.ModelMaxRetries)
	}
	if c.ModelRatePerMinute <= 0 {
		return fmt.Errorf("MODEL_RATE_PER_MINUTE must be positive, got %d", c.ModelRatePerMinute)
	}
	if c.ModelMinJPEGQuality < 1 || c.ModelMinJPEGQuality > 100 {
		return fmt.Errorf("MODEL_MIN_JPEG_QUALITY must be between 1 and 100, got %d", c.ModelMinJPEGQuality)
	}
	if c.BackgroundThreshold < 0 || c.BackgroundThreshold > 255 {
		return fmt.Errorf("BACKGROUND_THRESHOLD must be between 0 and 255, got %v", c.BackgroundThreshold)
	}
	if c.ModelMaxImageBytes < 0 || c.MaxUploadBytes < 0 {
		return fmt.Errorf("size limits must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DatabaseDSN builds the postgres connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.DBUsername, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
