package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"

	MediaBackendCloudinary = "cloudinary"
	MediaBackendMinIO      = "minio"
)

type Config struct {
	Port    string `envconfig:"PORT" default:"8080"`
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	BaseURL string `envconfig:"BASE_URL" default:""`

	StoreBackend string `envconfig:"STORE_BACKEND" default:"postgres"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`

	AdminUsername     string        `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword     string        `envconfig:"ADMIN_PASSWORD"`
	AdminPasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string        `envconfig:"JWT_SECRET" required:"true"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	LoginRatePerMin   int           `envconfig:"LOGIN_RATE_PER_MINUTE" default:"10"`

	APIToken           string   `envconfig:"API_TOKEN" required:"true"`
	PromoWebURL        string   `envconfig:"PROMO_WEB_URL" default:"http://localhost:3000"`
	PublicAllowOrigins []string `envconfig:"PUBLIC_ALLOW_ORIGINS"`
	AllowOrigins       []string `envconfig:"ALLOW_ORIGINS" default:"*"`

	MediaBackend      string `envconfig:"MEDIA_BACKEND" default:"cloudinary"`
	MediaMaxBytes     int64  `envconfig:"MEDIA_MAX_BYTES" default:"52428800"`
	MediaMaxDimension int    `envconfig:"MEDIA_MAX_DIMENSION" default:"2560"`

	CloudinaryCloudName    string `envconfig:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryUploadPreset string `envconfig:"CLOUDINARY_UPLOAD_PRESET"`
	CloudinaryAPIKey       string `envconfig:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret    string `envconfig:"CLOUDINARY_API_SECRET"`

	MinIOEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinIOAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinIOUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	MinIOBucket    string `envconfig:"MINIO_BUCKET" default:"travel-media"`
	MinIOPublicURL string `envconfig:"MINIO_PUBLIC_URL"`

	RedisURL        string `envconfig:"REDIS_URL"`
	LogstashTCPAddr string `envconfig:"LOGSTASH_TCP_ADDR"`
	OTLPEndpoint    string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}
	c.AllowOrigins = trimAll(c.AllowOrigins)
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = []string{"*"}
	}
	c.PublicAllowOrigins = trimAll(c.PublicAllowOrigins)
	if len(c.PublicAllowOrigins) == 0 {
		c.PublicAllowOrigins = []string{
			c.PromoWebURL,
			"https://yathrananda.com",
			"https://www.yathrananda.com",
		}
	}
	return c, c.Validate()
}

func (c Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Validate reports every missing or inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	switch c.StoreBackend {
	case StoreBackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case StoreBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND %q is not supported", c.StoreBackend))
	}
	if strings.TrimSpace(c.AdminUsername) == "" {
		errs = append(errs, errors.New("ADMIN_USERNAME is required"))
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	switch c.MediaBackend {
	case MediaBackendCloudinary:
		if c.CloudinaryCloudName == "" || c.CloudinaryUploadPreset == "" {
			errs = append(errs, errors.New("CLOUDINARY_CLOUD_NAME and CLOUDINARY_UPLOAD_PRESET are required"))
		}
	case MediaBackendMinIO:
		if c.MinIOEndpoint == "" || c.MinIOAccessKey == "" || c.MinIOSecretKey == "" || c.MinIOPublicURL == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY and MINIO_PUBLIC_URL are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("MEDIA_BACKEND %q is not supported", c.MediaBackend))
	}
	return errors.Join(errs...)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
