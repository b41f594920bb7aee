package config

import (
	"errors"
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
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
	Roles    RolesConfig
	Payments PaymentsConfig
	Defaults DefaultsConfig
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

// AuthConfig gates bearer-token protection of the /api routes.
type AuthConfig struct {
	Enabled bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RolesConfig tunes the reference-data cache for roles.
type RolesConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// PaymentsConfig controls the reconciliation queue for payments that could not be
// written together with their sale.
type PaymentsConfig struct {
	RetryEnabled bool
	Workers      int
	MaxRetries   int
	RetryDelay   time.Duration
}

// DefaultsConfig holds business placeholders applied when a workflow has to fill
// data the caller did not send.
type DefaultsConfig struct {
	TeacherSpecialty        string
	TeacherPlaceholderPhone string
	PaymentMethod           string
	PaymentStatus           string
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
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
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Auth = AuthConfig{Enabled: v.GetBool("AUTH_ENABLED")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Roles = RolesConfig{
		CacheEnabled: v.GetBool("ROLES_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("ROLES_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Payments = PaymentsConfig{
		RetryEnabled: v.GetBool("PAYMENT_RETRY_ENABLED"),
		Workers:      v.GetInt("PAYMENT_RETRY_WORKERS"),
		MaxRetries:   v.GetInt("PAYMENT_RETRY_MAX"),
		RetryDelay:   parseDuration(v.GetString("PAYMENT_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Defaults = DefaultsConfig{
		TeacherSpecialty:        v.GetString("TEACHER_DEFAULT_SPECIALTY"),
		TeacherPlaceholderPhone: v.GetString("TEACHER_PLACEHOLDER_PHONE"),
		PaymentMethod:           v.GetString("PAYMENT_DEFAULT_METHOD"),
		PaymentStatus:           v.GetString("PAYMENT_DEFAULT_STATUS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 3000)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "escuela_musica")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "escuela-musica-api")
	v.SetDefault("AUTH_ENABLED", false)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ROLES_CACHE_ENABLED", false)
	v.SetDefault("ROLES_CACHE_TTL", "10m")

	v.SetDefault("PAYMENT_RETRY_ENABLED", false)
	v.SetDefault("PAYMENT_RETRY_WORKERS", 1)
	v.SetDefault("PAYMENT_RETRY_MAX", 3)
	v.SetDefault("PAYMENT_RETRY_DELAY", "5s")

	v.SetDefault("TEACHER_DEFAULT_SPECIALTY", "General")
	v.SetDefault("TEACHER_PLACEHOLDER_PHONE", "0000000000")
	v.SetDefault("PAYMENT_DEFAULT_METHOD", "Efectivo")
	v.SetDefault("PAYMENT_DEFAULT_STATUS", "completado")
}

// viper reports a missing explicit config file as a plain fs error rather than
// ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
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
