package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Config struct {
	ServerPort     string
	AppEnv         string
	LogLevel       string
	LogFormat      string
	TemplatePath   string
	Timezone       string
	MetricsEnabled bool
	Store          StoreConfig
	DB             DBConfig
	Auth           AuthConfig
	RateLimit      RateLimitConfig
}

// ParseLogLevel falls back to info for empty or unknown values.
func (c Config) ParseLogLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zapcore.InfoLevel
	}
	return lvl
}

// Location resolves TIMEZONE, the zone whose calendar date is "today".
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid LOG_FORMAT %q: must be json or console", c.LogFormat)
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.TodoFile == "" || c.Store.RepeatingFile == "" {
			return fmt.Errorf("TODO_FILE and REPEATING_FILE are required for the file backend")
		}
		if c.Store.TodoFile == c.Store.RepeatingFile {
			return fmt.Errorf("TODO_FILE and REPEATING_FILE must differ")
		}
	case BackendPostgres:
		if c.DB.Host == "" || c.DB.Name == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for the postgres backend")
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q: must be file or postgres", c.Store.Backend)
	}

	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("invalid RATE_LIMIT_RPS %v: must not be negative", c.RateLimit.RPS)
	}
	if c.RateLimit.Enabled() && c.RateLimit.Burst < 1 {
		return fmt.Errorf("invalid RATE_LIMIT_BURST %d: must be at least 1", c.RateLimit.Burst)
	}
	if c.Auth.Enabled() && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 32 bytes")
	}
	return nil
}

type StoreConfig struct {
	Backend          string
	TodoFile         string
	RepeatingFile    string
	SchemaValidation bool
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

// AuthConfig guards mutating routes with HS256 bearer tokens when a secret
// is set.
type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
}

func (a AuthConfig) Enabled() bool { return a.JWTSecret != "" }

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func (r RateLimitConfig) Enabled() bool { return r.RPS > 0 }

// Load reads configuration from the environment. Empty variables count as
// unset.
func Load() Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return Config{
		ServerPort:     v.GetString("SERVER_PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      strings.ToLower(v.GetString("LOG_FORMAT")),
		TemplatePath:   v.GetString("TEMPLATE_PATH"),
		Timezone:       v.GetString("TIMEZONE"),
		MetricsEnabled: v.GetBool("METRICS_ENABLED"),
		Store: StoreConfig{
			Backend:          strings.ToLower(v.GetString("STORE_BACKEND")),
			TodoFile:         v.GetString("TODO_FILE"),
			RepeatingFile:    v.GetString("REPEATING_FILE"),
			SchemaValidation: v.GetBool("SCHEMA_VALIDATION"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("AUTH_JWT_SECRET"),
			JWTIssuer: v.GetString("AUTH_JWT_ISSUER"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("TEMPLATE_PATH", "templates/index.html")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("METRICS_ENABLED", true)

	v.SetDefault("STORE_BACKEND", BackendFile)
	v.SetDefault("TODO_FILE", "todo.json")
	v.SetDefault("REPEATING_FILE", "repeating.json")
	v.SetDefault("SCHEMA_VALIDATION", true)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "todo")
	v.SetDefault("DB_PASSWORD", "todo")
	v.SetDefault("DB_NAME", "todo")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("AUTH_JWT_ISSUER", "")

	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
}
