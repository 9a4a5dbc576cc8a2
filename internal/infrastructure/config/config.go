package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/clinicflow/clinic-api/internal/core/domain"
)

const (
	envProduction = "production"

	// devJWTSecret is only ever used outside production.
	devJWTSecret = "clinic-dev-secret-do-not-use-in-production"
	// devAdminPassword matches the credentials the frontend fixtures log in with.
	devAdminPassword = "admin"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Audit AuditConfig
	Seed  SeedConfig
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,         default=24h"`
	ServiceTokenTTL time.Duration `env:"SERVICE_TOKEN_TTL, default=168h"`
	BcryptCost      int           `env:"BCRYPT_COST,       default=10"`

	DefaultDoctorPassword  string `env:"DEFAULT_PASSWORD_DOCTOR"`
	DefaultPatientPassword string `env:"DEFAULT_PASSWORD_PATIENT"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, required"`
	Database string `env:"MONGO_DB,  default=clinic"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type SeedConfig struct {
	AdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	AdminName     string `env:"SEED_ADMIN_NAME, default=Administrator"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

// IsProduction reports whether strict production checks apply.
func (c *Config) IsProduction() bool {
	return c.Env == envProduction
}

// DefaultPasswords returns the configured per-role fallback passwords used
// when an administrator creates an account without one.
func (c *Config) DefaultPasswords() map[domain.Role]string {
	out := make(map[domain.Role]string, 2)
	if c.Auth.DefaultDoctorPassword != "" {
		out[domain.RoleDoctor] = c.Auth.DefaultDoctorPassword
	}
	if c.Auth.DefaultPatientPassword != "" {
		out[domain.RolePatient] = c.Auth.DefaultPatientPassword
	}
	return out
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize applies development fallbacks and rejects settings that would be
// unsafe in production.
func (c *Config) finalize() error {
	if c.Auth.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("config: JWT_SECRET must be set in production")
		}
		c.Auth.JWTSecret = devJWTSecret
	}
	if c.Seed.AdminEmail != "" && c.Seed.AdminPassword == "" {
		if c.IsProduction() {
			return errors.New("config: SEED_ADMIN_PASSWORD must be set when SEED_ADMIN_EMAIL is used in production")
		}
		c.Seed.AdminPassword = devAdminPassword
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.ServiceTokenTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}
	return nil
}
