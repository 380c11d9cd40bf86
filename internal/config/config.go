package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is the development signing secret. It is rejected when Env is "prod".
const DefaultJWTSecret = "supersecretkey"

type Config struct {
	Port string `yaml:"port"`

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string `yaml:"env"`

	// DBDriver is "sqlite3" (default) or "postgres".
	DBDriver string `yaml:"db_driver"`
	// DBPath is the SQLite database file (default ./notes.db).
	DBPath string `yaml:"db_path"`

	DBHost    string `yaml:"db_host"`
	DBPort    string `yaml:"db_port"`
	DBName    string `yaml:"db_name"`
	DBUser    string `yaml:"db_user"`
	DBPass    string `yaml:"db_pass"`
	DBSSLMode string `yaml:"db_sslmode"`

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int `yaml:"db_max_open_conns"`
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int `yaml:"db_max_idle_conns"`

	JWTSecret string `yaml:"jwt_secret"`

	// JWTExpireMinutes is the access token lifetime in minutes (default 30). Set via JWT_EXPIRE_MINUTES.
	JWTExpireMinutes int `yaml:"jwt_expire_minutes"`

	// BcryptCost is the bcrypt work factor for password hashes (default 10).
	BcryptCost int `yaml:"bcrypt_cost"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string `yaml:"tls_cert_file"`
	TLSKeyFile  string `yaml:"tls_key_file"`

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string `yaml:"log_format"`
	// LogLevel is debug, info (default), warn or error.
	LogLevel string `yaml:"log_level"`

	// CORSAllowedOrigins is a list of origins allowed for CORS (e.g. https://app.example.com, http://localhost:3000).
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// MaxBodyBytes caps request bodies (default 1 MiB).
	MaxBodyBytes int `yaml:"max_body_bytes"`
}

// Default returns the built-in configuration before any file or environment overrides.
func Default() Config {
	return Config{
		Port: "8080",
		Env:  "dev",

		DBDriver: "sqlite3",
		DBPath:   "./notes.db",

		DBHost:    "localhost",
		DBPort:    "5432",
		DBName:    "notesdb",
		DBUser:    "notesuser",
		DBPass:    "notespass",
		DBSSLMode: "disable",

		DBMaxOpenConns: 25,
		DBMaxIdleConns: 5,

		JWTSecret:        DefaultJWTSecret,
		JWTExpireMinutes: 30,
		BcryptCost:       10,

		LogFormat: "text",
		LogLevel:  "info",

		MaxBodyBytes: 1 << 20,
	}
}

// Load returns the defaults overridden by environment variables.
func Load() Config {
	cfg := Default()
	applyEnv(&cfg)
	return cfg
}

// LoadFile returns the defaults overridden by the YAML file at path and then by
// environment variables. An empty path behaves like Load.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPass = getEnv("DB_PASS", cfg.DBPass)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)

	cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", cfg.DBMaxOpenConns)
	cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", cfg.DBMaxIdleConns)

	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTExpireMinutes = getEnvInt("JWT_EXPIRE_MINUTES", cfg.JWTExpireMinutes)
	cfg.BcryptCost = getEnvInt("BCRYPT_COST", cfg.BcryptCost)

	// Optional TLS configuration for HTTPS.
	cfg.TLSCertFile = getEnv("TLS_CERT_FILE", cfg.TLSCertFile)
	cfg.TLSKeyFile = getEnv("TLS_KEY_FILE", cfg.TLSKeyFile)

	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = parseCORSOrigins(v)
	}

	cfg.MaxBodyBytes = getEnvInt("MAX_BODY_BYTES", cfg.MaxBodyBytes)
}

// TokenTTL returns the configured access token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpireMinutes) * time.Minute
}

// TLSEnabled reports whether both TLS files are configured.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// Validate reports configuration that must stop the server from starting.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.Env == "prod" && c.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be changed from the default in prod"))
	}
	if c.JWTExpireMinutes <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE_MINUTES must be positive"))
	}
	switch c.DBDriver {
	case "sqlite3":
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite3"))
		}
	case "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of sqlite3, postgres", c.DBDriver))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q is not one of text, json", c.LogFormat))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
