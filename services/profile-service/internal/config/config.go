package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// ProfileServiceConfig is loaded once at startup and never mutated afterwards.
type ProfileServiceConfig struct {
	Mode           string        `env:"APP_MODE"         envDefault:"production"`
	LogLevel       string        `env:"LOG_LEVEL"        envDefault:"info"`
	HTTPAddr       string        `env:"HTTP_ADDR"        envDefault:":5000"`
	GRPCHealthAddr string        `env:"GRPC_HEALTH_ADDR" envDefault:":5001"`
	StoreTimeout   time.Duration `env:"STORE_TIMEOUT"    envDefault:"5s"`

	// PasswordResetURL is the front-end page the reset link points at.
	PasswordResetURL string `env:"PASSWORD_RESET_URL" envDefault:"http://localhost:3000/reset-password"`

	Mongo  MongoConfig  `envPrefix:"MONGO_"`
	Token  TokenConfig  `envPrefix:"JWT_"`
	GitHub GitHubConfig `envPrefix:"GITHUB_"`
	Redis  RedisConfig  `envPrefix:"REDIS_"`
}

type MongoConfig struct {
	URI      string `env:"URI"`
	Database string `env:"DATABASE" envDefault:"devconnector"`
}

type TokenConfig struct {
	Secret    string        `env:"SECRET"`
	Issuer    string        `env:"ISSUER"     envDefault:"devconnector-api"`
	ExpiresIn time.Duration `env:"EXPIRES_IN" envDefault:"10h"`

	// PasswordResetSecret falls back to Secret when unset.
	PasswordResetSecret    string        `env:"PASSWORD_RESET_SECRET"`
	PasswordResetExpiresIn time.Duration `env:"PASSWORD_RESET_EXPIRES_IN" envDefault:"15m"`
}

type GitHubConfig struct {
	Token    string        `env:"TOKEN"`
	APIURL   string        `env:"API_URL"   envDefault:"https://api.github.com"`
	Timeout  time.Duration `env:"TIMEOUT"   envDefault:"10s"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

// RedisConfig is optional; an empty URL disables the GitHub lookup cache.
type RedisConfig struct {
	URL string `env:"URL"`
}

// NewProfileServiceConfig loads the configuration and exits the process when
// it is missing or invalid.
func NewProfileServiceConfig(logger *zerolog.Logger) *ProfileServiceConfig {
	cfg, err := Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load profile service configuration")
	}

	return cfg
}

// Load reads an optional .env file followed by the process environment.
func Load() (*ProfileServiceConfig, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[ProfileServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Token.PasswordResetSecret == "" {
		cfg.Token.PasswordResetSecret = cfg.Token.Secret
	}

	return &cfg, nil
}

func (c *ProfileServiceConfig) validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("missing JWT_SECRET environment variable")
	}
	if c.Token.ExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}
	if c.Token.PasswordResetExpiresIn <= 0 {
		return fmt.Errorf("JWT_PASSWORD_RESET_EXPIRES_IN must be positive")
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	if c.GitHub.Timeout <= 0 {
		return fmt.Errorf("GITHUB_TIMEOUT must be positive")
	}

	return nil
}
