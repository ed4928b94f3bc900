// Package config loads service settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Backends accepted by Storage.Backend.
const (
	BackendMemory    = "memory"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

// Config captures the runtime settings for the service.
type Config struct {
	Addr    string        `yaml:"addr" validate:"required"`
	Storage StorageConfig `yaml:"storage"`
	Streak  StreakConfig  `yaml:"streak"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`
}

// StorageConfig selects and configures the repository backend.
type StorageConfig struct {
	Backend          string `yaml:"backend" validate:"oneof=memory postgres firestore"`
	DatabaseURL      string `yaml:"database_url" validate:"required_if=Backend postgres"`
	FirestoreProject string `yaml:"firestore_project" validate:"required_if=Backend firestore"`
}

// StreakConfig holds server-wide streak defaults.
type StreakConfig struct {
	Policy   string `yaml:"policy" validate:"oneof=threshold presence"`
	Timezone string `yaml:"timezone" validate:"omitempty,timezone"`
	// FixedGoal pins the streak goal to 64 oz and ignores profile targets.
	FixedGoal bool `yaml:"fixed_goal"`
}

// LogConfig controls the zap logger and optional file rotation.
type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" validate:"oneof=json console"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
}

// AuthConfig configures sessions, forward auth, SSO and bearer tokens.
type AuthConfig struct {
	Disabled         bool          `yaml:"disabled"`
	TrustForwardAuth bool          `yaml:"trust_forward_auth"`
	SessionTTL       time.Duration `yaml:"session_ttl" validate:"gte=1m"`
	JanitorInterval  time.Duration `yaml:"janitor_interval" validate:"gte=1s"`
	InitialUser      string        `yaml:"initial_user"`
	InitialPassword  string        `yaml:"initial_password" validate:"required_with=InitialUser"`
	LoginRate        float64       `yaml:"login_rate" validate:"gt=0"`
	LoginBurst       int           `yaml:"login_burst" validate:"gte=1"`
	JWTSecret        string        `yaml:"jwt_secret"`
	JWTIssuer        string        `yaml:"jwt_issuer"`
	JWTAudience      string        `yaml:"jwt_audience"`
	OIDC             OIDCConfig    `yaml:"oidc"`
}

// OIDCConfig configures single sign-on and ID-token bearer verification.
// Both are enabled when Issuer and ClientID are set.
type OIDCConfig struct {
	Issuer       string `yaml:"issuer" validate:"omitempty,url"`
	ClientID     string `yaml:"client_id" validate:"required_with=Issuer"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url" validate:"omitempty,url"`
}

// Enabled reports whether an OIDC provider is configured.
func (c OIDCConfig) Enabled() bool {
	return c.Issuer != "" && c.ClientID != ""
}

// SSOEnabled reports whether the browser redirect flow can run.
func (c OIDCConfig) SSOEnabled() bool {
	return c.Enabled() && c.ClientSecret != "" && c.RedirectURL != ""
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:    ":8080",
		Storage: StorageConfig{Backend: BackendMemory},
		Streak:  StreakConfig{Policy: "threshold"},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Auth: AuthConfig{
			SessionTTL:      24 * time.Hour,
			JanitorInterval: 15 * time.Minute,
			LoginRate:       0.2,
			LoginBurst:      5,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then environment variables, and validates
// the result.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close() //nolint:errcheck

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (cfg *Config) normalize() {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.Streak.Policy = strings.ToLower(strings.TrimSpace(cfg.Streak.Policy))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Streak.Timezone == "Local" {
		cfg.Streak.Timezone = ""
	}
}

// Location returns the server default calendar location for streaks.
func (cfg Config) Location() *time.Location {
	if cfg.Streak.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(cfg.Streak.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(key); ok && v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("ADDR", &cfg.Addr)
	str("STORAGE_BACKEND", &cfg.Storage.Backend)
	str("DATABASE_URL", &cfg.Storage.DatabaseURL)
	str("FIRESTORE_PROJECT", &cfg.Storage.FirestoreProject)

	str("STREAK_POLICY", &cfg.Streak.Policy)
	str("STREAK_TIMEZONE", &cfg.Streak.Timezone)
	boolean("STREAK_FIXED_GOAL", &cfg.Streak.FixedGoal)

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("LOG_FILE", &cfg.Log.File)
	integer("LOG_MAX_SIZE_MB", &cfg.Log.MaxSizeMB)
	integer("LOG_MAX_BACKUPS", &cfg.Log.MaxBackups)
	integer("LOG_MAX_AGE_DAYS", &cfg.Log.MaxAgeDays)

	boolean("AUTH_DISABLED", &cfg.Auth.Disabled)
	boolean("TRUST_FORWARD_AUTH", &cfg.Auth.TrustForwardAuth)
	duration("SESSION_TTL", &cfg.Auth.SessionTTL)
	duration("SESSION_JANITOR_INTERVAL", &cfg.Auth.JanitorInterval)
	str("INITIAL_USER", &cfg.Auth.InitialUser)
	str("INITIAL_PASSWORD", &cfg.Auth.InitialPassword)
	float("LOGIN_RATE", &cfg.Auth.LoginRate)
	integer("LOGIN_BURST", &cfg.Auth.LoginBurst)
	str("JWT_SECRET", &cfg.Auth.JWTSecret)
	str("JWT_ISSUER", &cfg.Auth.JWTIssuer)
	str("JWT_AUDIENCE", &cfg.Auth.JWTAudience)
	str("OIDC_ISSUER", &cfg.Auth.OIDC.Issuer)
	str("OIDC_CLIENT_ID", &cfg.Auth.OIDC.ClientID)
	str("OIDC_CLIENT_SECRET", &cfg.Auth.OIDC.ClientSecret)
	str("OIDC_REDIRECT_URL", &cfg.Auth.OIDC.RedirectURL)

	return errors.Join(errs...)
}
