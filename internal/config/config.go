package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Catalog    CatalogConfig
	Auth       AuthConfig
	AWS        AWSConfig
	Storage    StorageConfig
	Notify     NotifyConfig
	Embedding  EmbeddingConfig
	Logging    LoggingConfig

	// Warnings lists variables that were set but unparsable and fell back to
	// their defaults. Load runs before the logger exists, so callers log them.
	Warnings []string
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred over the parts below
	SecretARN          string // Secrets Manager secret holding {"DATABASE_URL": ...}
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// CatalogConfig holds catalog behaviour
type CatalogConfig struct {
	TaxonomyFile   string // optional YAML extending categories and units
	SimilarLimit   int
	MaxSimilar     int
	MaxUploadBytes int64
}

// AuthConfig holds token verification settings
type AuthConfig struct {
	JWTSecret string
}

// AWSConfig holds the region shared by every AWS client
type AWSConfig struct {
	Region string
}

// StorageConfig holds listing image storage settings
type StorageConfig struct {
	Bucket     string
	Prefix     string
	CDNBaseURL string
}

// NotifyConfig holds seller SMS notification settings
type NotifyConfig struct {
	SMSEnabled bool
	SenderID   string
}

// EmbeddingConfig holds listing embedding settings
type EmbeddingConfig struct {
	Dimensions int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			SecretARN:          getEnv("DATABASE_SECRET_ARN", ""),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               env.getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "farmmarket"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     env.getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: env.getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:           env.getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Catalog: CatalogConfig{
			TaxonomyFile:   getEnv("CATALOG_TAXONOMY_FILE", ""),
			SimilarLimit:   env.getEnvAsInt("CATALOG_SIMILAR_LIMIT", 6),
			MaxSimilar:     env.getEnvAsInt("CATALOG_SIMILAR_MAX", 24),
			MaxUploadBytes: int64(env.getEnvAsInt("CATALOG_MAX_UPLOAD_BYTES", 5<<20)),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		AWS: AWSConfig{
			Region: getEnv("AWS_REGION", getEnv("AWS_DEFAULT_REGION", "us-east-1")),
		},
		Storage: StorageConfig{
			Bucket:     getEnv("IMAGES_S3_BUCKET", ""),
			Prefix:     strings.Trim(getEnv("IMAGES_S3_PREFIX", "listing-images"), "/"),
			CDNBaseURL: getEnv("ASSETS_CDN_BASE_URL", ""),
		},
		Notify: NotifyConfig{
			SMSEnabled: env.getEnvAsBool("SMS_NOTIFICATIONS_ENABLED", false),
			SenderID:   getEnv("SMS_SENDER_ID", ""),
		},
		Embedding: EmbeddingConfig{
			Dimensions: env.getEnvAsInt("EMBEDDING_DIMENSIONS", 1536),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
	cfg.Warnings = env.warnings

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must be positive, got %d", c.Embedding.Dimensions)
	}
	if c.Catalog.SimilarLimit <= 0 || c.Catalog.SimilarLimit > c.Catalog.MaxSimilar {
		return fmt.Errorf("CATALOG_SIMILAR_LIMIT must be in [1, %d], got %d", c.Catalog.MaxSimilar, c.Catalog.SimilarLimit)
	}
	if c.Catalog.MaxUploadBytes <= 0 {
		return fmt.Errorf("CATALOG_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// StorageEnabled reports whether listing images can be uploaded
func (c *Config) StorageEnabled() bool {
	return c.Storage.Bucket != ""
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// envReader parses typed variables and remembers the ones it had to ignore
type envReader struct {
	warnings []string
}

func (e *envReader) getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		e.warnings = append(e.warnings, fmt.Sprintf("invalid integer value for %s, using default %d", key, defaultValue))
		return defaultValue
	}
	return value
}

func (e *envReader) getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		e.warnings = append(e.warnings, fmt.Sprintf("invalid boolean value for %s, using default %t", key, defaultValue))
		return defaultValue
	}
	return value
}
