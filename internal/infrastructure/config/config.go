package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Revocation policies.
const (
	RevocationNone  = "none"
	RevocationRedis = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Audit     AuditConfig
	Bootstrap BootstrapConfig
}

type AuthConfig struct {
	// JWTSecret signs every token. Startup aborts when it is missing.
	JWTSecret       string   `env:"JWT_SECRET, required"`
	Issuer          string   `env:"JWT_ISSUER, default=performance-api"`
	TokenTTLMinutes int      `env:"TOKEN_TTL_MINUTES, default=10080"`
	HashSchemes     []string `env:"HASH_SCHEMES, default=argon2id,bcrypt"`
	BcryptCost      int      `env:"BCRYPT_COST, default=12"`
	// RevocationPolicy is "none" or "redis".
	RevocationPolicy string `env:"REVOCATION_POLICY, default=none"`
}

// TokenTTL is the default lifetime of issued tokens.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=performance"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type AuditConfig struct {
	Workers   int `env:"AUDIT_WORKERS,    default=2"`
	QueueSize int `env:"AUDIT_QUEUE_SIZE, default=256"`
}

// BootstrapConfig describes the admin account seeded on first start. Leaving
// the email or password empty disables seeding.
type BootstrapConfig struct {
	AdminName     string `env:"BOOTSTRAP_ADMIN_NAME, default=admin"`
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be blank"))
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL_MINUTES must be positive"))
	}
	if len(c.Auth.HashSchemes) == 0 {
		errs = append(errs, errors.New("HASH_SCHEMES must name at least one scheme"))
	}
	c.Auth.RevocationPolicy = strings.ToLower(strings.TrimSpace(c.Auth.RevocationPolicy))
	switch c.Auth.RevocationPolicy {
	case RevocationNone, RevocationRedis:
	default:
		errs = append(errs, fmt.Errorf("REVOCATION_POLICY must be %q or %q, got %q", RevocationNone, RevocationRedis, c.Auth.RevocationPolicy))
	}
	if c.Audit.Workers < 1 {
		c.Audit.Workers = 1
	}
	if c.Audit.QueueSize < 1 {
		c.Audit.QueueSize = 1
	}
	return errors.Join(errs...)
}
