package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Config is read from the environment after optional dotenv files.
type Config struct {
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionPrefix string        `env:"SESSION_PREFIX" envDefault:"gs"`
	SessionKey    string        `env:"SESSION_KEY" envDefault:"default"`
	WarningWindow time.Duration `env:"WARNING_WINDOW" envDefault:"5m"`

	APIBaseURL string        `env:"API_BASE_URL"`
	AutoRenew  bool          `env:"AUTO_RENEW" envDefault:"false"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	RenewMaxAttempts int           `env:"RENEW_MAX_ATTEMPTS" envDefault:"3"`
	RenewCooldown    time.Duration `env:"RENEW_COOLDOWN" envDefault:"1m"`

	SigningSecret string `env:"SIGNING_SECRET"`
	Issuer        string `env:"TOKEN_ISSUER" envDefault:"sessionwatch"`

	MetricsAddr string `env:"METRICS_ADDR"`
	AuditLog    bool   `env:"AUDIT_LOG" envDefault:"false"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig loads files (".env" when none are given) and parses the
// environment. Missing dotenv files are skipped; variables already set in
// the process win over file values.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the commands cannot run with.
func (c Config) Validate() error {
	if c.WarningWindow < 0 {
		return errors.New("WARNING_WINDOW must be >= 0")
	}
	if c.AutoRenew && c.APIBaseURL == "" {
		return errors.New("AUTO_RENEW requires API_BASE_URL")
	}
	if c.SessionKey == "" {
		return errors.New("SESSION_KEY must not be empty")
	}
	return nil
}

func (c Config) redisClient() redis.UniversalClient {
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{c.RedisAddr},
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
}
