// Package config loads the service configuration from the environment. A
// .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"gestionale/internal/utils"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Port     int
	Env      string
	LogLevel string

	StorageDriver   string
	Database        DatabaseConfig
	MemstoreLatency time.Duration

	AccessTokenSecret  string
	RefreshTokenSecret string
	RedisAddr          string

	GeminiAPIKey string
	GeminiModel  string

	CORSAllowedOrigins []string
	AppName            string
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	AdminUser     string
	AdminPassword string
}

// DSN connects to the application database.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=disable",
		url.UserPassword(d.User, d.Password).String(), d.Host, d.Port, url.PathEscape(d.Name))
}

// AdminDSN connects to the maintenance database with the admin role, used
// to create the application database.
func (d DatabaseConfig) AdminDSN() string {
	return fmt.Sprintf("postgres://%s@%s:%s/postgres?sslmode=disable",
		url.UserPassword(d.AdminUser, d.AdminPassword).String(), d.Host, d.Port)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                getenv("APP_ENV", EnvProduction),
		LogLevel:           strings.ToLower(getenv("LOG_LEVEL", "info")),
		StorageDriver:      strings.ToLower(getenv("STORAGE_DRIVER", StoragePostgres)),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		GeminiAPIKey:       strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:        getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		CORSAllowedOrigins: utils.SplitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
		AppName:            getenv("APP_NAME", "Gestione Preventivi"),
		Database: DatabaseConfig{
			Host:          os.Getenv("DB_HOST"),
			Port:          getenv("DB_PORT", "5432"),
			User:          os.Getenv("DB_USERNAME"),
			Password:      os.Getenv("DB_PASSWORD"),
			Name:          os.Getenv("DB_DATABASE"),
			AdminUser:     os.Getenv("DB_ADMIN_USER"),
			AdminPassword: os.Getenv("DB_ADMIN_PASSWORD"),
		},
	}

	var errs []error

	port, err := strconv.Atoi(getenv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a valid port number, got %q", os.Getenv("PORT")))
	}
	cfg.Port = port

	if cfg.Env != EnvDevelopment && cfg.Env != EnvProduction {
		errs = append(errs, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.Env))
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel))
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		errs = append(errs, requireVars(map[string]string{
			"DB_HOST":     cfg.Database.Host,
			"DB_USERNAME": cfg.Database.User,
			"DB_PASSWORD": cfg.Database.Password,
			"DB_DATABASE": cfg.Database.Name,
		})...)
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, cfg.StorageDriver))
	}

	if raw := os.Getenv("MEMSTORE_LATENCY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("MEMSTORE_LATENCY must be a duration such as 300ms, got %q", raw))
		}
		cfg.MemstoreLatency = d
	}

	errs = append(errs, requireVars(map[string]string{
		"ACCESS_TOKEN_SECRET":  cfg.AccessTokenSecret,
		"REFRESH_TOKEN_SECRET": cfg.RefreshTokenSecret,
	})...)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequireAdmin checks the credentials needed to create the database.
func (d DatabaseConfig) RequireAdmin() error {
	return errors.Join(requireVars(map[string]string{
		"DB_ADMIN_USER":     d.AdminUser,
		"DB_ADMIN_PASSWORD": d.AdminPassword,
	})...)
}

func requireVars(vars map[string]string) []error {
	var missing []string
	for name, value := range vars {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	errs := make([]error, len(missing))
	for i, name := range missing {
		errs[i] = fmt.Errorf("%s environment variable is required", name)
	}
	return errs
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
