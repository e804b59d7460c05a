package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Uploads  UploadsConfig
	Mail     MailQueueConfig
	Cache    CacheConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AuthConfig gates the open registration endpoint.
type AuthConfig struct {
	RegistrationEnabled bool
}

// SMTPConfig configures outbound notification email. Empty credentials
// disable sending without failing startup.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	FromName   string
	FromEmail  string
	AdminEmail string
}

// UploadsConfig controls student photo storage and validation.
type UploadsConfig struct {
	Dir              string
	PublicPath       string
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// MailQueueConfig tunes the background email dispatcher.
type MailQueueConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// CacheConfig tunes the public student listing cache.
type CacheConfig struct {
	StudentListTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 30*24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Auth = AuthConfig{
		RegistrationEnabled: v.GetBool("REGISTRATION_ENABLED"),
	}

	cfg.SMTP = SMTPConfig{
		Host:       v.GetString("SMTP_HOST"),
		Port:       v.GetInt("SMTP_PORT"),
		Username:   v.GetString("SMTP_USER"),
		Password:   v.GetString("SMTP_PASSWORD"),
		FromName:   v.GetString("SMTP_FROM_NAME"),
		FromEmail:  v.GetString("SMTP_FROM_EMAIL"),
		AdminEmail: v.GetString("NOTIFY_ADMIN_EMAIL"),
	}

	maxUploadSize := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 10 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		Dir:              v.GetString("UPLOADS_DIR"),
		PublicPath:       v.GetString("UPLOADS_PUBLIC_PATH"),
		MaxFileSizeBytes: maxUploadSize,
		AllowedMIMEs:     splitAndTrim(v.GetString("UPLOADS_ALLOWED_MIME_TYPES")),
	}

	cfg.Mail = MailQueueConfig{
		Workers:    v.GetInt("MAIL_WORKERS"),
		MaxRetries: v.GetInt("MAIL_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("MAIL_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Cache = CacheConfig{
		StudentListTTL: parseDuration(v.GetString("STUDENT_LIST_CACHE_TTL"), 5*time.Minute),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects configurations that must not reach production.
func (c *Config) validate() error {
	if c.Env == EnvProduction {
		if c.JWT.Secret == "" || c.JWT.Secret == "dev_secret" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	return nil
}

// MailEnabled reports whether outbound email is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTP.Host != "" && c.SMTP.Username != "" && c.SMTP.Password != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sponsorship")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "720h")
	v.SetDefault("JWT_ISSUER", "sponsorship-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REGISTRATION_ENABLED", true)

	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM_NAME", "Anointed Vessels")
	v.SetDefault("SMTP_FROM_EMAIL", "")
	v.SetDefault("NOTIFY_ADMIN_EMAIL", "")

	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("UPLOADS_PUBLIC_PATH", "/uploads")
	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("UPLOADS_ALLOWED_MIME_TYPES", "image/jpeg,image/png,image/webp,image/gif")

	v.SetDefault("MAIL_WORKERS", 1)
	v.SetDefault("MAIL_MAX_RETRIES", 3)
	v.SetDefault("MAIL_RETRY_DELAY", "5s")

	v.SetDefault("STUDENT_LIST_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
