// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. ACTIVATION_DATABASE_URL.
const EnvPrefix = "activation"

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port           int           `yaml:"port"            envconfig:"PORT"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	AllowedOrigins []string      `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

type LogConfig struct {
	Level    string `yaml:"level"    envconfig:"LEVEL"`  // trace|debug|info|warn|error
	Format   string `yaml:"format"   envconfig:"FORMAT"` // json|console
	Sampling bool   `yaml:"sampling" envconfig:"SAMPLING"`
}

type DatabaseConfig struct {
	URL            string `yaml:"url"              envconfig:"URL"`
	MaxConns       int32  `yaml:"max_conns"        envconfig:"MAX_CONNS"`
	MigrateOnStart bool   `yaml:"migrate_on_start" envconfig:"MIGRATE_ON_START"`
}

type RedisConfig struct {
	URL          string        `yaml:"url"           envconfig:"URL"` // empty disables rate limiting
	Password     string        `yaml:"password"      envconfig:"PASSWORD"`
	DB           int           `yaml:"db"            envconfig:"DB"`
	RedeemLimit  int           `yaml:"redeem_limit"  envconfig:"REDEEM_LIMIT"`
	RedeemWindow time.Duration `yaml:"redeem_window" envconfig:"REDEEM_WINDOW"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" envconfig:"JWT_SECRET"`
	Audience  string `yaml:"audience"   envconfig:"AUDIENCE"`
	Issuer    string `yaml:"issuer"     envconfig:"ISSUER"`
}

// LicenseConfig holds the verifier side only. The issuing private key is
// never part of the server configuration.
type LicenseConfig struct {
	PublicKey string `yaml:"public_key" envconfig:"PUBLIC_KEY"`
}

type RewardsConfig struct {
	Async   bool `yaml:"async"   envconfig:"ASYNC"`
	Workers int  `yaml:"workers" envconfig:"WORKERS"`
}

type StatsConfig struct {
	Interval time.Duration `yaml:"interval" envconfig:"INTERVAL"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"   envconfig:"SERVER"`
	Log      LogConfig      `yaml:"log"      envconfig:"LOG"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Redis    RedisConfig    `yaml:"redis"    envconfig:"REDIS"`
	Auth     AuthConfig     `yaml:"auth"     envconfig:"AUTH"`
	License  LicenseConfig  `yaml:"license"  envconfig:"LICENSE"`
	Rewards  RewardsConfig  `yaml:"rewards"  envconfig:"REWARDS"`
	Stats    StatsConfig    `yaml:"stats"    envconfig:"STATS"`

	Runtime RuntimeConfig `yaml:"-" ignored:"true"`
}

// LoadConfig reads the YAML file at path (optional when every required value
// comes from the environment), applies ACTIVATION_* overrides and defaults,
// and validates the result.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// env-only deployment
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Redis.RedeemLimit <= 0 {
		cfg.Redis.RedeemLimit = 10
	}
	if cfg.Redis.RedeemWindow <= 0 {
		cfg.Redis.RedeemWindow = time.Minute
	}
	if cfg.Rewards.Workers <= 0 {
		cfg.Rewards.Workers = 4
	}
	if cfg.Stats.Interval <= 0 {
		cfg.Stats.Interval = time.Minute
	}
}

// Validate checks the values the redemption server cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.License.PublicKey == "" {
		return errors.New("license.public_key is required")
	}
	return nil
}
